package geoleaf

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"
)

// markerInflation leaves room around the glyph for the stroke width.
const markerInflation = 1.25

// svgDoc is the inline SVG document embedded in a marker's properties.
type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Xmlns   string   `xml:"xmlns,attr"`
	Version string   `xml:"version,attr"`
	Path    svgPath  `xml:"path"`
}

// svgPath is the single glyph path of a marker.
type svgPath struct {
	D     string     `xml:"d,attr"`
	Attrs []xml.Attr `xml:",any,attr"`
}

// Marker is a point glyph laid out in its own pixel space.
type Marker struct {
	// SVG is the standalone SVG document drawing the glyph.
	SVG string
	// AnchorX and AnchorY locate the glyph's reference point inside the
	// SVG document, measured from its top left corner.
	AnchorX, AnchorY float64
	// Width and Height are the document size in whole pixels.
	Width, Height float64
}

// Properties returns the feature properties a map renderer needs to
// draw the marker as an icon.
func (m Marker) Properties() map[string]any {
	return map[string]any{
		"html":     m.SVG,
		"anchor_x": m.AnchorX,
		"anchor_y": m.AnchorY,
	}
}

// MarkerOptions controls how curves inside a glyph are written.
type MarkerOptions struct {
	// Curves writes curve segments as native SVG C and Q commands. When
	// unset their vertices are skipped, as the segmenter does.
	Curves bool
	Warn   func(op PathOp, index int)
}

// RasterizeMarker lays out a glyph path given in local plot pixels
// (Y up) as an SVG document (Y down) and computes the anchor offsets
// that put the glyph's origin on the data anchor.
func RasterizeMarker(path []Vertex, ops []PathOp, style Style, opts MarkerOptions) (Marker, error) {
	if err := checkPath(path, ops); err != nil {
		return Marker{}, err
	}
	if len(path) == 0 {
		return Marker{}, &MalformedPathError{Reason: "marker path has no vertices"}
	}
	flipped := make([]Vertex, len(path))
	for i, v := range path {
		flipped[i] = Vertex{v[0], negate(v[1])}
	}

	mn, mx := flipped[0], flipped[0]
	for _, v := range flipped[1:] {
		for k := 0; k < 2; k++ {
			mn[k] = math.Min(mn[k], v[k])
			mx[k] = math.Max(mx[k], v[k])
		}
	}
	var center, size, corner Vertex
	for k := 0; k < 2; k++ {
		center[k] = mn[k] + (mx[k]-mn[k])/2
		size[k] = math.Ceil(markerInflation * (mx[k] - mn[k]))
		corner[k] = center[k] - size[k]/2
	}

	doc := svgDoc{
		Width:   fmt.Sprintf("%dpx", int(size[0])),
		Height:  fmt.Sprintf("%dpx", int(size[1])),
		ViewBox: strings.Join([]string{formatFloat(corner[0]), formatFloat(corner[1]), formatFloat(size[0]), formatFloat(size[1])}, " "),
		Xmlns:   "http://www.w3.org/2000/svg",
		Version: "1.1",
		Path: svgPath{
			D:     pathData(flipped, ops, opts),
			Attrs: style.SVGAttributes(),
		},
	}
	out, err := xml.Marshal(doc)
	if err != nil {
		return Marker{}, fmt.Errorf("marker svg: %w", err)
	}
	return Marker{
		SVG:     string(out),
		AnchorX: negate(corner[0]),
		AnchorY: negate(corner[1]),
		Width:   size[0],
		Height:  size[1],
	}, nil
}

// negate flips the sign of v without producing a negative zero.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// pathData writes the d attribute for vertices consumed in order by ops.
// Coordinates keep full precision.
func pathData(vertices []Vertex, ops []PathOp, opts MarkerOptions) string {
	var sb strings.Builder
	pos := 0
	for i, op := range ops {
		n, _ := op.Arity()
		vs := vertices[pos : pos+n]
		pos += n
		if (op == CurveCubic || op == CurveQuad) && !opts.Curves {
			if opts.Warn != nil {
				opts.Warn(op, i)
			}
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(op.Code())
		for _, v := range vs {
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(v[0]))
			sb.WriteByte(' ')
			sb.WriteString(formatFloat(v[1]))
		}
	}
	return sb.String()
}
