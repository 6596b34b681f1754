// Package preview is a terminal viewer for converted feature
// collections. Geometry is drawn with braille characters and marker
// glyphs are rasterized from their inline SVG.
package preview

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vasalvit/geoleaf"
)

const sidebarWidth = 32

// pasteStyle is applied to path data typed into the paste box. Closed
// paths are filled.
var pasteStyle = geoleaf.Style{EdgeColor: "#7C3AED", EdgeWidth: 1, Alpha: 1}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// Data
	cfg    geoleaf.Config
	source string
	fc     geoleaf.FeatureCollection
	data   layers
	view   bbox

	// Feature list
	l list.Model

	// last rendered map size
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints bool
	showLines  bool
	showPolys  bool

	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New returns a viewer over fc. cfg is used to convert path data pasted
// into the viewer.
func New(fc geoleaf.FeatureCollection, cfg geoleaf.Config) Model {
	m := Model{
		helpVisible: true,
		zoom:        1.0,
		cfg:         cfg,
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
	}
	d := list.NewDefaultDelegate()
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Features"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Paste SVG path data (M, L, H, V, C, Q, Z). Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.setCollection(fc)
	m.status = fmt.Sprintf("geoleaf ready  features=%d", len(fc.Features))
	return m
}

// Open loads path with LoadCollection and returns a viewer over it.
func Open(path string, cfg geoleaf.Config) (Model, error) {
	fc, warnings, err := LoadCollection(path, cfg)
	if err != nil {
		return Model{}, err
	}
	m := New(fc, cfg)
	m.source = path
	m.status = fmt.Sprintf("loaded: %s  features=%d warnings=%d", path, len(fc.Features), len(warnings))
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// setCollection replaces the displayed features and resets the view.
func (m *Model) setCollection(fc geoleaf.FeatureCollection) {
	m.fc = fc
	m.data = buildLayers(fc)
	m.resetView()
	m.refreshList()
	if m.showAttrs {
		m.refreshAttrs()
	}
}

func (m *Model) resetView() {
	m.view = m.data.bbox.padded()
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}

// focus centres the view on feature i.
func (m *Model) focus(i int) {
	if i < 0 || i >= len(m.fc.Features) {
		return
	}
	m.view = featureBBox(m.fc.Features[i]).padded()
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.status = fmt.Sprintf("feature #%d  %s", i+1, m.fc.Features[i].Geometry.Type)
}
