package preview

import (
	"math"

	"github.com/vasalvit/geoleaf"
)

type bbox struct {
	MinX, MinY, MaxX, MaxY float64
}

func emptyBBox() bbox {
	return bbox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (b bbox) valid() bool { return b.MaxX > b.MinX && b.MaxY > b.MinY }

func (b *bbox) extend(v geoleaf.Vertex) {
	b.MinX = math.Min(b.MinX, v[0])
	b.MinY = math.Min(b.MinY, v[1])
	b.MaxX = math.Max(b.MaxX, v[0])
	b.MaxY = math.Max(b.MaxY, v[1])
}

// padded grows a degenerate box, such as the box of a single point or
// of a horizontal line, so that it can be mapped onto the screen.
func (b bbox) padded() bbox {
	if math.IsInf(b.MinX, 0) {
		return bbox{MinX: -180, MinY: -90, MaxX: 180, MaxY: 90}
	}
	span := math.Max(b.MaxX-b.MinX, b.MaxY-b.MinY)
	pad := span * 0.05
	if span == 0 {
		pad = 0.5
	}
	if b.MaxX-b.MinX < span {
		d := (span - (b.MaxX - b.MinX)) / 2
		b.MinX, b.MaxX = b.MinX-d, b.MaxX+d
	}
	if b.MaxY-b.MinY < span {
		d := (span - (b.MaxY - b.MinY)) / 2
		b.MinY, b.MaxY = b.MinY-d, b.MaxY+d
	}
	return bbox{MinX: b.MinX - pad, MinY: b.MinY - pad, MaxX: b.MaxX + pad, MaxY: b.MaxY + pad}
}

type point struct {
	at      geoleaf.Vertex
	glyph   *glyph
	feature int
}

type line struct {
	vs      []geoleaf.Vertex
	feature int
}

type polygon struct {
	rings   []geoleaf.Ring
	feature int
}

// layers is a feature collection split by geometry kind for drawing.
type layers struct {
	points   []point
	lines    []line
	polygons []polygon
	bbox     bbox
	// glyphErrors counts markers drawn as a single dot because their
	// SVG could not be rasterized.
	glyphErrors int
}

func buildLayers(fc geoleaf.FeatureCollection) layers {
	d := layers{bbox: emptyBBox()}
	for i, f := range fc.Features {
		switch c := f.Geometry.Coordinates.(type) {
		case geoleaf.Vertex:
			p := point{at: c, feature: i}
			if html, ok := f.Properties["html"].(string); ok {
				ax, _ := f.Properties["anchor_x"].(float64)
				ay, _ := f.Properties["anchor_y"].(float64)
				g, err := rasterizeGlyph(html, ax, ay)
				if err != nil || g.empty() {
					d.glyphErrors++
				} else {
					p.glyph = g
				}
			}
			d.points = append(d.points, p)
			d.bbox.extend(c)
		case geoleaf.Ring:
			d.lines = append(d.lines, line{vs: c, feature: i})
			for _, v := range c {
				d.bbox.extend(v)
			}
		case []geoleaf.Ring:
			if f.Geometry.Type == geoleaf.MultiLineString {
				for _, r := range c {
					d.lines = append(d.lines, line{vs: r, feature: i})
				}
			} else {
				d.polygons = append(d.polygons, polygon{rings: c, feature: i})
			}
			for _, r := range c {
				for _, v := range r {
					d.bbox.extend(v)
				}
			}
		}
	}
	return d
}

// featureBBox returns the extent of one feature.
func featureBBox(f geoleaf.Feature) bbox {
	b := emptyBBox()
	switch c := f.Geometry.Coordinates.(type) {
	case geoleaf.Vertex:
		b.extend(c)
	case geoleaf.Ring:
		for _, v := range c {
			b.extend(v)
		}
	case []geoleaf.Ring:
		for _, r := range c {
			for _, v := range r {
				b.extend(v)
			}
		}
	}
	return b
}

// eachVertex calls fn for every vertex of the visible layers.
func (d layers) eachVertex(pts, lns, polys bool, fn func(geoleaf.Vertex)) {
	if pts {
		for _, p := range d.points {
			fn(p.at)
		}
	}
	if lns {
		for _, l := range d.lines {
			for _, v := range l.vs {
				fn(v)
			}
		}
	}
	if polys {
		for _, p := range d.polygons {
			for _, r := range p.rings {
				for _, v := range r {
					fn(v)
				}
			}
		}
	}
}
