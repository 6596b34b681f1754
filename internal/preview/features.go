package preview

import (
	"encoding/json"
	"fmt"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"

	"github.com/vasalvit/geoleaf"
)

type featureItem struct {
	title, desc string
	index       int
}

func (f featureItem) Title() string       { return f.title }
func (f featureItem) Description() string { return f.desc }
func (f featureItem) FilterValue() string { return f.title + " " + f.desc }

func describe(i int, f geoleaf.Feature) featureItem {
	desc := ""
	switch {
	case f.Properties["html"] != nil:
		desc = "marker"
	case f.Properties["fillColor"] != nil:
		desc = fmt.Sprintf("fill %v", f.Properties["fillColor"])
	case f.Properties["color"] != nil:
		desc = fmt.Sprintf("stroke %v", f.Properties["color"])
	}
	return featureItem{
		title: fmt.Sprintf("#%d %s", i+1, f.Geometry.Type),
		desc:  desc,
		index: i,
	}
}

func (m *Model) refreshList() {
	items := make([]list.Item, 0, len(m.fc.Features))
	for i, f := range m.fc.Features {
		items = append(items, describe(i, f))
	}
	m.l.SetItems(items)
}

// refreshAttrs rebuilds the table from the feature properties.
func (m *Model) refreshAttrs() {
	cols, rows := attributes(m.fc)
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, 24)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		trows = append(trows, table.Row(append([]string{fmt.Sprintf("%d", i+1)}, r...)))
	}
	// clear rows first so columns and rows never disagree mid-update
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// attributes unions the property keys of all features, sorted, and
// returns one row of values per feature.
func attributes(fc geoleaf.FeatureCollection) ([]string, [][]string) {
	seen := map[string]bool{}
	var cols []string
	for _, f := range fc.Features {
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	rows := make([][]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		vals := make([]string, 0, len(cols))
		for _, k := range cols {
			vals = append(vals, formatValue(f.Properties[k]))
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

// maxCellText keeps inline marker SVG from swamping the table.
const maxCellText = 48

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		if len(t) > maxCellText {
			return t[:maxCellText-1] + "…"
		}
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
