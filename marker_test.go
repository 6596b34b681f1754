package geoleaf

import (
	"encoding/xml"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var diamond = []Vertex{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}

func TestRasterizeMarkerDiamond(t *testing.T) {
	style := Style{EdgeColor: "#000000", EdgeWidth: 1, Alpha: 1, FaceColor: PaintOf("#ff0000")}
	m, err := RasterizeMarker(diamond, []PathOp{MoveTo, LineTo, LineTo, LineTo}, style, MarkerOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3.0, m.Width)
	assert.Equal(t, 3.0, m.Height)
	assert.Equal(t, 1.5, m.AnchorX)
	assert.Equal(t, 1.5, m.AnchorY)

	var doc svgDoc
	require.NoError(t, xml.Unmarshal([]byte(m.SVG), &doc))
	assert.Equal(t, "3px", doc.Width)
	assert.Equal(t, "3px", doc.Height)
	assert.Equal(t, "-1.5 -1.5 3 3", doc.ViewBox)
	assert.Equal(t, "M 0 -1 L 1 0 L 0 1 L -1 0", doc.Path.D)
	assert.Contains(t, m.SVG, `fill="#ff0000"`)
	assert.Contains(t, m.SVG, `stroke-width="1"`)

	props := m.Properties()
	assert.Equal(t, m.SVG, props["html"])
	assert.Equal(t, 1.5, props["anchor_x"])
	assert.Equal(t, 1.5, props["anchor_y"])
}

func TestRasterizeMarkerOffCenter(t *testing.T) {
	// a 4x2 box whose lower left corner sits on the origin
	path := []Vertex{{0, 0}, {4, 0}, {4, 2}, {0, 2}}
	m, err := RasterizeMarker(path, []PathOp{MoveTo, LineTo, LineTo, LineTo, ClosePoly}, Style{EdgeColor: "black", Alpha: 1}, MarkerOptions{})
	require.NoError(t, err)

	// size = ceil(1.25*4) x ceil(1.25*2), centred on (2,-1) after the flip
	assert.Equal(t, 5.0, m.Width)
	assert.Equal(t, 3.0, m.Height)
	assert.Equal(t, 0.5, m.AnchorX)
	assert.Equal(t, 2.5, m.AnchorY)
	assert.Contains(t, m.SVG, `viewBox="-0.5 -2.5 5 3"`)
	assert.Contains(t, m.SVG, `d="M 0 0 L 4 0 L 4 -2 L 0 -2 Z"`)
	assert.Contains(t, m.SVG, `fill="none"`)
}

func TestRasterizeMarkerCurves(t *testing.T) {
	path := []Vertex{{0, 0}, {1, 1}, {2, 1}, {3, 0}}
	ops := []PathOp{MoveTo, CurveCubic}

	var warned []PathOp
	m, err := RasterizeMarker(path, ops, Style{EdgeColor: "black", Alpha: 1}, MarkerOptions{
		Warn: func(op PathOp, _ int) { warned = append(warned, op) },
	})
	require.NoError(t, err)
	assert.Equal(t, []PathOp{CurveCubic}, warned)
	assert.Contains(t, m.SVG, `d="M 0 0"`)

	m, err = RasterizeMarker(path, ops, Style{EdgeColor: "black", Alpha: 1}, MarkerOptions{Curves: true})
	require.NoError(t, err)
	assert.Contains(t, m.SVG, `d="M 0 0 C 1 -1 2 -1 3 0"`)
}

func TestRasterizeMarkerErrors(t *testing.T) {
	_, err := RasterizeMarker(nil, nil, Style{}, MarkerOptions{})
	assert.True(t, errors.Is(err, ErrMalformedPath))

	_, err = RasterizeMarker(diamond, []PathOp{MoveTo}, Style{}, MarkerOptions{})
	assert.True(t, errors.Is(err, ErrMalformedPath))
}
