package geoleaf

import (
	"testing"

	"github.com/cheekybits/is"
	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	open := Ring{{0, 0}, {1, 0}, {1, 1}}
	second := Ring{{5, 5}, {6, 6}}
	anchor := Vertex{1, 4}
	line := Style{EdgeColor: "#000000", EdgeWidth: 1, Alpha: 1}
	filled := Style{EdgeColor: "#000000", EdgeWidth: 1, Alpha: 1, FaceColor: PaintOf("#ff0000")}

	tests := []struct {
		name  string
		rings []Ring
		style Style
		ctx   RenderContext
		want  Geometry
		ok    bool
	}{
		{"no rings", nil, line, RenderContext{}, Geometry{}, false},
		{"line keeps first ring", []Ring{open, second}, line, RenderContext{}, Geometry{Type: LineString, Coordinates: open}, true},
		{"multi line", []Ring{open, second}, line, RenderContext{MultiLine: true}, Geometry{Type: MultiLineString, Coordinates: []Ring{open, second}}, true},
		{"multi line single ring", []Ring{open}, line, RenderContext{MultiLine: true}, Geometry{Type: LineString, Coordinates: open}, true},
		{
			"polygon closes rings",
			[]Ring{open, second},
			filled,
			RenderContext{},
			Geometry{Type: Polygon, Coordinates: []Ring{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, {{5, 5}, {6, 6}, {5, 5}}}},
			true,
		},
		{"marker wins over fill", []Ring{open}, filled, RenderContext{IsMarkerPath: true, Anchor: &anchor}, Geometry{Type: Point, Coordinates: anchor}, true},
		{"marker without anchor", []Ring{open}, line, RenderContext{IsMarkerPath: true}, Geometry{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.rings, tt.style, tt.ctx)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyDoesNotCloseCallerRings(t *testing.T) {
	is := is.New(t)
	r := Ring{{0, 0}, {1, 0}, {1, 1}}
	g, ok := Classify([]Ring{r}, Style{FaceColor: PaintOf("blue")}, RenderContext{})
	is.True(ok)
	is.Equal(len(r), 3)
	is.True(g.Coordinates.([]Ring)[0].Closed())
}

func TestMapVertices(t *testing.T) {
	is := is.New(t)
	g := Geometry{Type: LineString, Coordinates: Ring{{1, 2}, {3, 4}}}
	shifted := g.mapVertices(func(v Vertex) Vertex { return Vertex{v[0] + 10, v[1]} })
	is.Equal(shifted.Coordinates, Ring{{11, 2}, {13, 4}})
	is.Equal(g.Coordinates, Ring{{1, 2}, {3, 4}})
}
