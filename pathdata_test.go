package geoleaf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type PathDataTest struct {
	Description string
	D           string
	Ops         []PathOp
	XCoords     []float64
	YCoords     []float64
}

var pathDataTests = []PathDataTest{
	{
		"absolute lines",
		"M0.000 0.000 L100.000 0.000 100.000 100.000 L0.000 100.000 Z",
		[]PathOp{MoveTo, LineTo, LineTo, LineTo, ClosePoly},
		[]float64{0, 100, 100, 0},
		[]float64{0, 0, 100, 100},
	},
	{
		"relative lines",
		"M0.000 0.000 l100.000 0.000 100.000 100.000 l0.000 100.000 Z",
		[]PathOp{MoveTo, LineTo, LineTo, LineTo, ClosePoly},
		[]float64{0, 100, 200, 200},
		[]float64{0, 0, 100, 200},
	},
	{
		"implicit line-tos after move-to",
		"M1 2 3 4 5 6",
		[]PathOp{MoveTo, LineTo, LineTo},
		[]float64{1, 3, 5},
		[]float64{2, 4, 6},
	},
	{
		"relative h-line test",
		"M0.000 0.000 h100.000 50.000",
		[]PathOp{MoveTo, LineTo, LineTo},
		[]float64{0, 100, 150},
		[]float64{0, 0, 0},
	},
	{
		"absolute h-line test",
		"M0.000 0.000 H100.000 50.000",
		[]PathOp{MoveTo, LineTo, LineTo},
		[]float64{0, 100, 50},
		[]float64{0, 0, 0},
	},
	{
		"relative v-line test",
		"M0.000 0.000 v100.000 50.000",
		[]PathOp{MoveTo, LineTo, LineTo},
		[]float64{0, 0, 0},
		[]float64{0, 100, 150},
	},
	{
		"absolute v-line test",
		"M0.000 0.000 V100.000 50.000",
		[]PathOp{MoveTo, LineTo, LineTo},
		[]float64{0, 0, 0},
		[]float64{0, 100, 50},
	},
	{
		"cubic and quadratic curves",
		"M0 0 C1 1 2 1 3 0 Q4 1 5 0",
		[]PathOp{MoveTo, CurveCubic, CurveQuad},
		[]float64{0, 1, 2, 3, 4, 5},
		[]float64{0, 1, 1, 0, 1, 0},
	},
	{
		"relative curve",
		"M10 10 c1 1 2 1 3 0",
		[]PathOp{MoveTo, CurveCubic},
		[]float64{10, 11, 12, 13},
		[]float64{10, 11, 11, 10},
	},
}

func TestParsePathData(t *testing.T) {
	for _, test := range pathDataTests {
		vertices, ops, err := ParsePathData(test.D)
		require.NoError(t, err, test.Description)

		if len(ops) != len(test.Ops) {
			t.Fatalf("expected %d opcodes for test %s, but received %d", len(test.Ops), test.Description, len(ops))
		}
		for i, op := range test.Ops {
			if ops[i] != op {
				t.Fatalf("expected opcode %d for test %s to be %s, but was %s", i, test.Description, op, ops[i])
			}
		}

		if len(vertices) != len(test.XCoords) {
			t.Fatalf("expected %d vertices for test %s, but received %d", len(test.XCoords), test.Description, len(vertices))
		}
		for i, x := range test.XCoords {
			if vertices[i].X() != x {
				t.Fatalf("expected X coordinate %d for test %s to be %f, but was %f", i, test.Description, x, vertices[i].X())
			}
		}
		for i, y := range test.YCoords {
			if vertices[i].Y() != y {
				t.Fatalf("expected Y coordinate %d for test %s to be %f, but was %f", i, test.Description, y, vertices[i].Y())
			}
		}

		// every parsed path must be consumable by the segmenter
		_, err = Rings(vertices, ops, SegmentOptions{})
		require.NoError(t, err, test.Description)
	}
}

func TestParsePathDataErrors(t *testing.T) {
	_, _, err := ParsePathData("M0 0 X1 1")
	require.True(t, errors.Is(err, ErrUnrecognizedOpcode))

	_, _, err = ParsePathData("M0 0 C1 1 2 2")
	require.Error(t, err)
}
