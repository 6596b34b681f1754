package geoleaf

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSingleLine(t *testing.T) {
	fc, warnings, err := Render([]DrawnPath{{
		Vertices: []Vertex{{1, 4}, {2, 5}, {3, 2}},
		Ops:      []PathOp{MoveTo, LineTo, LineTo},
		Style:    Style{EdgeColor: "#123ABC", EdgeWidth: 1.0, Alpha: 1},
	}}, Config{})
	require.NoError(t, err)
	require.Empty(t, warnings)

	want := FeatureCollection{
		Type: "FeatureCollection",
		Features: []Feature{{
			Type:       "Feature",
			Geometry:   Geometry{Type: LineString, Coordinates: Ring{{1, 4}, {2, 5}, {3, 2}}},
			Properties: map[string]any{"color": "#123ABC", "weight": 1.0, "opacity": 1.0},
		}},
	}
	if diff := cmp.Diff(want, fc); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFilledSquare(t *testing.T) {
	square := []Vertex{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	for i, v := range square {
		square[i] = Vertex{v[0]*30 + 45, v[1]*30 + 45}
	}
	fc, _, err := Render([]DrawnPath{{
		Vertices: square,
		Ops:      []PathOp{MoveTo, LineTo, LineTo, LineTo, LineTo},
		Style:    Style{EdgeColor: "#000000", EdgeWidth: 1, Alpha: 0.6, FaceColor: PaintOf("#456DEF")},
	}}, Config{})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, Polygon, f.Geometry.Type)
	assert.Equal(t, []Ring{{{45, 45}, {75, 45}, {75, 75}, {45, 75}, {45, 45}}}, f.Geometry.Coordinates)
	assert.Equal(t, "#456DEF", f.Properties["fillColor"])
	assert.Equal(t, 0.6, f.Properties["fillOpacity"])
}

func TestRenderMarker(t *testing.T) {
	anchor := Vertex{1, 4}
	fc, _, err := Render([]DrawnPath{{
		Vertices: diamond,
		Ops:      []PathOp{MoveTo, LineTo, LineTo, LineTo},
		Style:    Style{EdgeColor: "#000000", EdgeWidth: 1, Alpha: 1, FaceColor: PaintOf("#0000ff")},
		IsMarker: true,
		Anchor:   &anchor,
	}}, Config{})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, Geometry{Type: Point, Coordinates: Vertex{1, 4}}, f.Geometry)
	assert.Equal(t, 1.5, f.Properties["anchor_x"])
	assert.Equal(t, 1.5, f.Properties["anchor_y"])
	assert.Contains(t, f.Properties["html"], `viewBox="-1.5 -1.5 3 3"`)
	assert.NotContains(t, f.Properties, "color")
}

func TestRenderProjectsAnchorNotGlyph(t *testing.T) {
	anchor := Vertex{webMercatorHalf / 2, 0}
	fc, _, err := Render([]DrawnPath{
		{
			Vertices: diamond,
			Ops:      []PathOp{MoveTo, LineTo, LineTo, LineTo},
			Style:    Style{EdgeColor: "black", Alpha: 1},
			IsMarker: true,
			Anchor:   &anchor,
		},
		{
			Vertices: []Vertex{{0, 0}, {webMercatorHalf / 4, 0}},
			Ops:      []PathOp{MoveTo, LineTo},
			Style:    Style{EdgeColor: "black", Alpha: 1},
		},
	}, Config{Projection: ProjectionConfig{EPSG: 3857}})
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	pt := fc.Features[0].Geometry.Coordinates.(Vertex)
	assert.InDelta(t, 90, pt.X(), 1e-9)
	assert.InDelta(t, 0, pt.Y(), 1e-9)
	assert.Contains(t, fc.Features[0].Properties["html"], `d="M 0 -1 L 1 0 L 0 1 L -1 0"`)
	line := fc.Features[1].Geometry.Coordinates.(Ring)
	assert.InDelta(t, 45, line[1].X(), 1e-9)
}

func TestRenderPreservesDrawOrder(t *testing.T) {
	r, err := NewRenderer(Config{})
	require.NoError(t, err)
	line := Style{EdgeColor: "black", Alpha: 1}
	for i := 0; i < 3; i++ {
		x := float64(i)
		require.NoError(t, r.DrawPath(DrawnPath{
			Vertices: []Vertex{{x, 0}, {x, 1}},
			Ops:      []PathOp{MoveTo, LineTo},
			Style:    line,
		}))
	}
	// empty paths produce nothing
	require.NoError(t, r.DrawPath(DrawnPath{Style: line}))

	fc := r.GeoJSON()
	require.Len(t, fc.Features, 3)
	for i, f := range fc.Features {
		assert.Equal(t, float64(i), f.Geometry.Coordinates.(Ring)[0].X())
	}
}

func TestRenderWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := NewRenderer(Config{Logger: logger})
	require.NoError(t, err)

	require.NoError(t, r.DrawPath(DrawnPath{
		Vertices: []Vertex{{0, 0}, {1, 1}, {2, 1}, {3, 0}},
		Ops:      []PathOp{MoveTo, CurveCubic},
		Style:    Style{EdgeColor: "black", Alpha: 1},
	}))
	assert.Equal(t, []UnsupportedSegmentWarning{{Path: 0, Op: CurveCubic, Index: 1}}, r.Warnings())
	assert.True(t, strings.Contains(buf.String(), "unsupported_segment"))
	assert.True(t, strings.Contains(buf.String(), "op=CurveCubic"))

	flat, err := NewRenderer(Config{FlattenCurves: true})
	require.NoError(t, err)
	require.NoError(t, flat.DrawPath(DrawnPath{
		Vertices: []Vertex{{0, 0}, {1, 1}, {2, 1}, {3, 0}},
		Ops:      []PathOp{MoveTo, CurveCubic},
		Style:    Style{EdgeColor: "black", Alpha: 1},
	}))
	assert.Empty(t, flat.Warnings())
	assert.Len(t, flat.GeoJSON().Features[0].Geometry.Coordinates, curveSamples)
}

func TestRenderMultiLine(t *testing.T) {
	p := DrawnPath{
		Vertices: []Vertex{{0, 0}, {1, 1}, {5, 5}, {6, 6}},
		Ops:      []PathOp{MoveTo, LineTo, MoveTo, LineTo},
		Style:    Style{EdgeColor: "black", Alpha: 1},
	}
	fc, _, err := Render([]DrawnPath{p}, Config{})
	require.NoError(t, err)
	assert.Equal(t, LineString, fc.Features[0].Geometry.Type)

	fc, _, err = Render([]DrawnPath{p}, Config{MultiLineStrings: true})
	require.NoError(t, err)
	assert.Equal(t, MultiLineString, fc.Features[0].Geometry.Type)
}

func TestRenderErrors(t *testing.T) {
	good := DrawnPath{
		Vertices: []Vertex{{0, 0}, {1, 1}},
		Ops:      []PathOp{MoveTo, LineTo},
		Style:    Style{EdgeColor: "black", Alpha: 1},
	}

	_, _, err := Render([]DrawnPath{good}, Config{Projection: ProjectionConfig{CRS: "+proj=merc", EPSG: 3857}})
	assert.True(t, errors.Is(err, ErrConflictingProjection))

	malformed := DrawnPath{Vertices: []Vertex{{0, 0}}, Ops: []PathOp{MoveTo, LineTo}, Style: good.Style}
	fc, warnings, err := Render([]DrawnPath{good, malformed}, Config{})
	assert.True(t, errors.Is(err, ErrMalformedPath))
	assert.Contains(t, err.Error(), "path 1")
	assert.Empty(t, fc.Features)
	assert.Nil(t, warnings)

	marker := good
	marker.IsMarker = true
	_, _, err = Render([]DrawnPath{marker}, Config{})
	assert.True(t, errors.Is(err, ErrMalformedPath))

	badStyle := good
	badStyle.Style.Alpha = 2
	_, _, err = Render([]DrawnPath{badStyle}, Config{})
	assert.True(t, errors.Is(err, ErrInvalidStyle))
}

func TestRenderPrecision(t *testing.T) {
	fc, _, err := Render([]DrawnPath{{
		Vertices: []Vertex{{1.23456, 2.98765}, {-1.23456, 0}},
		Ops:      []PathOp{MoveTo, LineTo},
		Style:    Style{EdgeColor: "black", Alpha: 1},
	}}, Config{Precision: 2})
	require.NoError(t, err)
	assert.Equal(t, Ring{{1.23, 2.98}, {-1.23, 0}}, fc.Features[0].Geometry.Coordinates)
}
