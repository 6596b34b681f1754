package geoleaf

import "math"

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection. Features are in
// draw order.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Collector accumulates the features of one conversion run.
type Collector struct {
	features []Feature
}

// Append adds a feature. Features are never merged or deduplicated.
func (c *Collector) Append(g Geometry, properties map[string]any) {
	if properties == nil {
		properties = map[string]any{}
	}
	c.features = append(c.features, Feature{Type: "Feature", Geometry: g, Properties: properties})
}

// Len returns the number of features appended so far.
func (c *Collector) Len() int { return len(c.features) }

// Finalize returns a snapshot of the collection. It may be called any
// number of times; features appended later show up in later snapshots
// only.
func (c *Collector) Finalize() FeatureCollection {
	fs := make([]Feature, len(c.features))
	copy(fs, c.features)
	return FeatureCollection{Type: "FeatureCollection", Features: fs}
}

// Truncate returns a copy of fc whose coordinates are truncated toward
// zero to the given number of decimals. Values within float error of a
// kept digit, such as 1.001 stored as 1.000999..., snap to that digit.
// A negative value returns fc unchanged.
func (fc FeatureCollection) Truncate(decimals int) FeatureCollection {
	if decimals < 0 {
		return fc
	}
	scale := math.Pow(10, float64(decimals))
	trunc := func(v Vertex) Vertex {
		return Vertex{truncate(v[0], scale), truncate(v[1], scale)}
	}
	out := FeatureCollection{Type: fc.Type, Features: make([]Feature, len(fc.Features))}
	for i, f := range fc.Features {
		out.Features[i] = Feature{Type: f.Type, Geometry: f.Geometry.mapVertices(trunc), Properties: f.Properties}
	}
	return out
}

func truncate(v, scale float64) float64 {
	s := v * scale
	if r := math.Round(s); math.Abs(s-r) <= math.Max(1e-9, math.Abs(s)*1e-12) {
		return r / scale
	}
	return math.Trunc(s) / scale
}
