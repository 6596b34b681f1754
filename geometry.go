package geoleaf

import (
	"encoding/json"
	"fmt"
)

// GeometryType is the GeoJSON geometry type of a feature.
type GeometryType string

// Geometry types emitted by the renderer.
const (
	Point           GeometryType = "Point"
	LineString      GeometryType = "LineString"
	MultiLineString GeometryType = "MultiLineString"
	Polygon         GeometryType = "Polygon"
)

// Geometry is a GeoJSON geometry object. Coordinates holds a Vertex for
// Point, a Ring for LineString, and a []Ring for Polygon and
// MultiLineString.
type Geometry struct {
	Type        GeometryType `json:"type"`
	Coordinates any          `json:"coordinates"`
}

// RenderContext carries what the producer knows about a path beyond
// its vertices and style.
type RenderContext struct {
	// IsMarkerPath is set for paths drawn in display space, such as
	// scatter markers. They always become Points.
	IsMarkerPath bool
	// Anchor is the data space position of a marker path.
	Anchor *Vertex
	// MultiLine keeps every ring of an unfilled path as a
	// MultiLineString instead of only the first one.
	MultiLine bool
}

// Classify decides the geometry of a segmented path. The second result
// is false when there is nothing to emit.
//
// Marker paths win over everything and yield the anchor as a Point.
// Otherwise a face color makes a Polygon whose rings are all closed, and
// no face color makes a LineString of the first ring.
func Classify(rings []Ring, style Style, ctx RenderContext) (Geometry, bool) {
	if len(rings) == 0 {
		return Geometry{}, false
	}
	if ctx.IsMarkerPath {
		if ctx.Anchor == nil {
			return Geometry{}, false
		}
		return Geometry{Type: Point, Coordinates: *ctx.Anchor}, true
	}
	if style.Filled() {
		poly := make([]Ring, len(rings))
		for i, r := range rings {
			poly[i] = r.closedCopy()
		}
		return Geometry{Type: Polygon, Coordinates: poly}, true
	}
	if ctx.MultiLine && len(rings) > 1 {
		return Geometry{Type: MultiLineString, Coordinates: rings}, true
	}
	return Geometry{Type: LineString, Coordinates: rings[0]}, true
}

// mapVertices applies f to every position of g and returns the result.
// g is not modified.
func (g Geometry) mapVertices(f func(Vertex) Vertex) Geometry {
	mapRing := func(r Ring) Ring {
		out := make(Ring, len(r))
		for i, v := range r {
			out[i] = f(v)
		}
		return out
	}
	switch c := g.Coordinates.(type) {
	case Vertex:
		return Geometry{Type: g.Type, Coordinates: f(c)}
	case Ring:
		return Geometry{Type: g.Type, Coordinates: mapRing(c)}
	case []Ring:
		rings := make([]Ring, len(c))
		for i, r := range c {
			rings[i] = mapRing(r)
		}
		return Geometry{Type: g.Type, Coordinates: rings}
	}
	return g
}

// UnmarshalJSON decodes a GeoJSON geometry back into the concrete
// coordinate types the renderer produces.
func (g *Geometry) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type        GeometryType    `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var err error
	switch raw.Type {
	case Point:
		var v Vertex
		err = json.Unmarshal(raw.Coordinates, &v)
		g.Coordinates = v
	case LineString:
		var r Ring
		err = json.Unmarshal(raw.Coordinates, &r)
		g.Coordinates = r
	case Polygon, MultiLineString:
		var rs []Ring
		err = json.Unmarshal(raw.Coordinates, &rs)
		g.Coordinates = rs
	default:
		return fmt.Errorf("unsupported geometry type %q", raw.Type)
	}
	if err != nil {
		return fmt.Errorf("%s coordinates: %w", raw.Type, err)
	}
	g.Type = raw.Type
	return nil
}
