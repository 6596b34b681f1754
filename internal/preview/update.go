package preview

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vasalvit/geoleaf"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// layout returns the map origin and size for the current window. View
// and mouse handling must agree on it.
func (m Model) layout() (originX, originY, w, h int) {
	side := 0
	if m.showSidebar {
		side = sidebarWidth + 1
	}
	h = max(4, m.height-headerHeight-footerHeight)
	w = max(10, max(10, m.width)-side-1)
	return side, headerHeight, w, h
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, _, m.mapW, m.mapH = m.layout()
		m.l.SetSize(sidebarWidth-2, m.mapH-2)
	case tea.KeyMsg:
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			case "enter":
				m.renderPasted(strings.TrimSpace(m.ta.Value()))
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.showPoints = !m.showPoints
			m.status = fmt.Sprintf("points: %v", m.showPoints)
		case "2":
			m.showLines = !m.showLines
			m.status = fmt.Sprintf("lines: %v", m.showLines)
		case "3":
			m.showPolys = !m.showPolys
			m.status = fmt.Sprintf("polygons: %v", m.showPolys)
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "tab":
			m.showSidebar = !m.showSidebar
			_, _, m.mapW, m.mapH = m.layout()
			m.l.SetSize(sidebarWidth-2, m.mapH-2)
		case "p":
			m.pasteMode = !m.pasteMode
			if m.pasteMode {
				m.ta.SetValue("")
				m.status = "paste mode"
				m.ta.Focus()
			} else {
				m.status = "view mode"
				m.ta.Blur()
			}
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			m.showAttrs = !m.showAttrs
			if m.showAttrs {
				m.refreshAttrs()
			}
		case "i":
			m.inspect()
		case "esc":
			m.inspectPopup = ""
		case "l":
			all := m.showPoints && m.showLines && m.showPolys
			m.showPoints, m.showLines, m.showPolys = !all, !all, !all
			m.status = fmt.Sprintf("layers: pts=%v ls=%v poly=%v", m.showPoints, m.showLines, m.showPolys)
		case "r":
			m.resetView()
			m.status = "view reset"
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(featureItem); ok {
					m.focus(it.index)
				}
			}
		case "up":
			m.offsetY--
		case "down":
			m.offsetY++
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		ox, oy, w, h := m.layout()
		cx, cy := msg.X-ox, msg.Y-oy
		if cx < 0 || cx >= w || cy < 0 || cy >= h {
			m.hovering = false
			break
		}
		m.hovering = true
		m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToLonLat(cx, cy, w, h)
		if _, mx, my, _, ok := m.nearest(cx*2, cy*4, w, h); ok {
			m.hoverMicX, m.hoverMicY = mx, my
		} else {
			m.hovering = false
		}
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// renderPasted converts path data typed into the paste box and appends
// the result to the displayed collection.
func (m *Model) renderPasted(d string) {
	if d == "" {
		m.status = "paste: empty"
		return
	}
	vs, ops, err := geoleaf.ParsePathData(d)
	if err != nil {
		m.status = "path error: " + err.Error()
		return
	}
	style := pasteStyle
	if len(ops) > 0 && ops[len(ops)-1] == geoleaf.ClosePoly {
		style.FaceColor = geoleaf.PaintOf(style.EdgeColor)
	}
	fc, warnings, err := geoleaf.Render([]geoleaf.DrawnPath{{Vertices: vs, Ops: ops, Style: style}}, m.cfg)
	if err != nil {
		m.status = "render error: " + err.Error()
		return
	}
	if len(fc.Features) == 0 {
		m.status = fmt.Sprintf("paste: nothing to draw  warnings=%d", len(warnings))
		return
	}
	merged := m.fc
	merged.Type = "FeatureCollection"
	merged.Features = append(append([]geoleaf.Feature(nil), m.fc.Features...), fc.Features...)
	m.setCollection(merged)
	m.showPoints, m.showLines, m.showPolys = true, true, true
	m.pasteMode = false
	m.ta.Blur()
	m.status = fmt.Sprintf("rendered path  features=%d warnings=%d", len(merged.Features), len(warnings))
}

// inspect describes the feature nearest to the centre of the map.
func (m *Model) inspect() {
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	v, _, _, fi, ok := m.nearest(w, h*2, w, h)
	if !ok {
		m.inspectPopup = "no feature nearby"
		m.status = m.inspectPopup
		return
	}
	vertices := 0
	m.data.eachVertex(m.showPoints, m.showLines, m.showPolys, func(geoleaf.Vertex) { vertices++ })
	name := m.source
	if name == "" {
		name = "<pasted>"
	}
	f := m.fc.Features[fi]
	meta := []string{
		fmt.Sprintf("source: %s", name),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", m.data.bbox.MinX, m.data.bbox.MinY, m.data.bbox.MaxX, m.data.bbox.MaxY),
		fmt.Sprintf("counts: pts=%d ls=%d poly=%d vertices=%d", len(m.data.points), len(m.data.lines), len(m.data.polygons), vertices),
		fmt.Sprintf("feature: #%d %s", fi+1, f.Geometry.Type),
		fmt.Sprintf("nearest: x=%.6f y=%.6f", v[0], v[1]),
	}
	if m.data.glyphErrors > 0 {
		meta = append(meta, fmt.Sprintf("markers without glyph: %d", m.data.glyphErrors))
	}
	m.inspectPopup = strings.Join(meta, "\n")
	m.status = "inspect popup"
}
