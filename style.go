package geoleaf

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
)

// none is the producer's sentinel for an absent fill or dash pattern.
const none = "none"

// Paint is an optional color. The zero value is no paint.
type Paint struct {
	color string
	set   bool
}

// NoPaint is the absent paint, "none" on the wire.
var NoPaint = Paint{}

// PaintOf returns a paint of color c. "none" and the empty string give
// NoPaint.
func PaintOf(c string) Paint {
	if c == "" || c == none {
		return NoPaint
	}
	return Paint{color: c, set: true}
}

// Color returns the paint color and whether the paint is present.
func (p Paint) Color() (string, bool) { return p.color, p.set }

func (p Paint) String() string {
	if !p.set {
		return none
	}
	return p.color
}

func (p Paint) MarshalJSON() ([]byte, error) { return json.Marshal(p.String()) }

func (p *Paint) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*p = PaintOf(s)
	return nil
}

// DashPattern holds stroke dash lengths together with the text they
// were read from. The zero value is a solid line.
type DashPattern struct {
	lengths []float64
	text    string
}

// DashOf returns the pattern of the given lengths.
func DashOf(lengths ...float64) DashPattern {
	if len(lengths) == 0 {
		return DashPattern{}
	}
	parts := make([]string, len(lengths))
	for i, v := range lengths {
		parts[i] = formatFloat(v)
	}
	return DashPattern{lengths: lengths, text: strings.Join(parts, ",")}
}

// ParseDashArray reads a dash list such as "10,5,3,8" or "4.5 2".
// "none" and the empty string give the solid pattern. The text is kept
// as given so that it reaches the map renderer unchanged.
func ParseDashArray(s string) (DashPattern, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == none {
		return DashPattern{}, nil
	}
	var d []float64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return DashPattern{}, &InvalidStyleError{Field: "dasharray", Value: s, Err: err}
		}
		if v < 0 {
			return DashPattern{}, &InvalidStyleError{Field: "dasharray", Value: s}
		}
		d = append(d, v)
	}
	return DashPattern{lengths: d, text: s}, nil
}

// Lengths returns the dash lengths; nil for a solid line.
func (d DashPattern) Lengths() []float64 { return d.lengths }

// Solid reports whether the pattern draws an unbroken line: no pattern
// at all, or the two element "N,0" form whose gap is empty.
func (d DashPattern) Solid() bool {
	return len(d.lengths) == 0 || (len(d.lengths) == 2 && d.lengths[1] == 0)
}

func (d DashPattern) String() string {
	if len(d.lengths) == 0 {
		return none
	}
	return d.text
}

func (d DashPattern) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *DashPattern) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p, err := ParseDashArray(s)
		if err != nil {
			return err
		}
		*d = p
		return nil
	}
	var vals []float64
	if err := json.Unmarshal(b, &vals); err != nil {
		return fmt.Errorf("dasharray: %w", err)
	}
	for _, v := range vals {
		if v < 0 {
			return &InvalidStyleError{Field: "dasharray", Value: vals}
		}
	}
	*d = DashOf(vals...)
	return nil
}

// Style is the generic style record attached to a drawn path. The JSON
// field names follow the exporter's style dictionary.
type Style struct {
	EdgeColor string      `json:"edgecolor"`
	EdgeWidth float64     `json:"edgewidth"`
	Alpha     float64     `json:"alpha"`
	FaceColor Paint       `json:"facecolor"`
	DashArray DashPattern `json:"dasharray"`
}

// Filled reports whether the style paints an interior.
func (s Style) Filled() bool {
	_, ok := s.FaceColor.Color()
	return ok
}

// Validate checks the numeric ranges and that both colors parse.
func (s Style) Validate() error {
	if s.EdgeWidth < 0 {
		return &InvalidStyleError{Field: "edgewidth", Value: s.EdgeWidth}
	}
	if s.Alpha < 0 || s.Alpha > 1 {
		return &InvalidStyleError{Field: "alpha", Value: s.Alpha}
	}
	if _, err := oksvg.ParseSVGColor(s.EdgeColor); err != nil {
		return &InvalidStyleError{Field: "edgecolor", Value: s.EdgeColor, Err: err}
	}
	if c, ok := s.FaceColor.Color(); ok {
		if _, err := oksvg.ParseSVGColor(c); err != nil {
			return &InvalidStyleError{Field: "facecolor", Value: c, Err: err}
		}
	}
	return nil
}

// Properties translates the style into Leaflet path options.
func (s Style) Properties() map[string]any {
	props := map[string]any{
		"color":   s.EdgeColor,
		"weight":  s.EdgeWidth,
		"opacity": s.Alpha,
	}
	if c, ok := s.FaceColor.Color(); ok {
		props["fillColor"] = c
		props["fillOpacity"] = s.Alpha
	}
	if !s.DashArray.Solid() {
		props["dashArray"] = s.DashArray.String()
	}
	return props
}

// SVGAttributes translates the style into SVG presentation attributes,
// in a stable order. Unfilled styles get an explicit fill="none".
func (s Style) SVGAttributes() []xml.Attr {
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "stroke"}, Value: s.EdgeColor},
		{Name: xml.Name{Local: "stroke-width"}, Value: formatFloat(s.EdgeWidth)},
		{Name: xml.Name{Local: "stroke-opacity"}, Value: formatFloat(s.Alpha)},
	}
	if c, ok := s.FaceColor.Color(); ok {
		attrs = append(attrs,
			xml.Attr{Name: xml.Name{Local: "fill"}, Value: c},
			xml.Attr{Name: xml.Name{Local: "fill-opacity"}, Value: formatFloat(s.Alpha)},
		)
	} else {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "fill"}, Value: none})
	}
	return attrs
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
