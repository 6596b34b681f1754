package preview

import (
	"sort"
	"strings"

	"github.com/vasalvit/geoleaf"
)

// cellToLonLat converts a map cell back to map coordinates using the
// current view, zoom and pan.
func (m Model) cellToLonLat(cx, cy, w, h int) (float64, float64, bool) {
	if !m.view.valid() || w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	lon := m.view.MinX + nx*(m.view.MaxX-m.view.MinX)
	lat := m.view.MinY + ny*(m.view.MaxY-m.view.MinY)
	return lon, lat, true
}

// screenXYMicro maps a vertex onto the 2x4 micro grid of a w by h cell
// canvas.
func (m Model) screenXYMicro(v geoleaf.Vertex, w, h int) (int, int, bool) {
	if !m.view.valid() {
		return 0, 0, false
	}
	nx := (v[0] - m.view.MinX) / (m.view.MaxX - m.view.MinX)
	ny := (v[1] - m.view.MinY) / (m.view.MaxY - m.view.MinY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return sx, sy, true
}

func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)

	if m.showPolys {
		for _, poly := range m.data.polygons {
			var rings [][][2]int
			for _, ring := range poly.rings {
				var sm [][2]int
				for _, v := range ring {
					if mx, my, ok := m.screenXYMicro(v, w, h); ok {
						sm = append(sm, [2]int{mx, my})
					}
				}
				if len(sm) >= 3 {
					rings = append(rings, sm)
				}
			}
			fillEvenOdd(br, rings, h*4)
			for _, r := range rings {
				for i := range r {
					a, b := r[i], r[(i+1)%len(r)]
					br.drawLineMicro(a[0], a[1], b[0], b[1])
				}
			}
		}
	}

	if m.showLines {
		for _, ls := range m.data.lines {
			var prev *[2]int
			for _, v := range ls.vs {
				mx, my, ok := m.screenXYMicro(v, w, h)
				if !ok {
					continue
				}
				if prev != nil {
					br.drawLineMicro(prev[0], prev[1], mx, my)
				}
				prev = &[2]int{mx, my}
			}
		}
	}

	if m.showPoints {
		for _, p := range m.data.points {
			mx, my, ok := m.screenXYMicro(p.at, w, h)
			if !ok {
				continue
			}
			if p.glyph != nil {
				br.stamp(p.glyph, mx, my)
			} else {
				br.setPixel(mx, my)
			}
		}
	}

	lines := br.toLines()
	if m.hovering {
		cx, cy := m.hoverMicX/2, m.hoverMicY/4
		if cy >= 0 && cy < len(lines) {
			r := []rune(lines[cy])
			if cx >= 0 && cx < len(r) {
				lines[cy] = string(r[:cx]) + hoverStyle.Render("◯") + string(r[cx+1:])
			}
		}
	}
	return strings.Join(lines, "\n")
}

// fillEvenOdd fills rings on the micro grid with the even-odd rule, so
// inner rings punch holes.
func fillEvenOdd(br *brailleBuf, rings [][][2]int, hMic int) {
	if len(rings) == 0 {
		return
	}
	for y := 0; y < hMic; y++ {
		var xs []int
		for _, r := range rings {
			for i := range r {
				a, b := r[i], r[(i+1)%len(r)]
				if a[1] == b[1] {
					continue
				}
				if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
					t := float64(y-a[1]) / float64(b[1]-a[1])
					xs = append(xs, int(float64(a[0])+t*float64(b[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1]; x++ {
				br.setPixel(x, y)
			}
		}
	}
}

// nearest returns the visible vertex closest to micro pixel (hx, hy)
// and the feature it belongs to.
func (m Model) nearest(hx, hy, w, h int) (geoleaf.Vertex, int, int, int, bool) {
	best := -1
	var bv geoleaf.Vertex
	bx, by, bf := 0, 0, -1
	try := func(v geoleaf.Vertex, feature int) {
		mx, my, ok := m.screenXYMicro(v, w, h)
		if !ok {
			return
		}
		dx, dy := mx-hx, my-hy
		if d := dx*dx + dy*dy; best < 0 || d < best {
			best, bv, bx, by, bf = d, v, mx, my, feature
		}
	}
	if m.showPoints {
		for _, p := range m.data.points {
			try(p.at, p.feature)
		}
	}
	if m.showLines {
		for _, l := range m.data.lines {
			for _, v := range l.vs {
				try(v, l.feature)
			}
		}
	}
	if m.showPolys {
		for _, p := range m.data.polygons {
			for _, r := range p.rings {
				for _, v := range r {
					try(v, p.feature)
				}
			}
		}
	}
	return bv, bx, by, bf, best >= 0
}
