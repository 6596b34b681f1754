package geoleaf

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylePropertiesLine(t *testing.T) {
	s := Style{EdgeColor: "#123ABC", EdgeWidth: 1.0, Alpha: 1}
	assert.Equal(t, map[string]any{
		"color":   "#123ABC",
		"weight":  1.0,
		"opacity": 1.0,
	}, s.Properties())
}

func TestStylePropertiesFilled(t *testing.T) {
	s := Style{EdgeColor: "#000000", EdgeWidth: 2, Alpha: 0.6, FaceColor: PaintOf("#456DEF")}
	props := s.Properties()
	assert.Equal(t, "#456DEF", props["fillColor"])
	assert.Equal(t, 0.6, props["fillOpacity"])
	assert.NotContains(t, props, "dashArray")
}

func TestStylePropertiesDash(t *testing.T) {
	tests := []struct {
		dash string
		want string
	}{
		{"10,5,3,8", "10,5,3,8"},
		{"4.5 2", "4.5 2"},
		{"5.0,2.50", "5.0,2.50"},
		{"5,0", ""},
		{"none", ""},
	}
	for _, tt := range tests {
		d, err := ParseDashArray(tt.dash)
		require.NoError(t, err, tt.dash)
		props := Style{EdgeColor: "red", Alpha: 1, DashArray: d}.Properties()
		if tt.want == "" {
			assert.NotContains(t, props, "dashArray", tt.dash)
			continue
		}
		assert.Equal(t, tt.want, props["dashArray"], tt.dash)
	}
}

func TestParseDashArrayErrors(t *testing.T) {
	for _, s := range []string{"1,x", "-1,2"} {
		_, err := ParseDashArray(s)
		assert.True(t, errors.Is(err, ErrInvalidStyle), s)
	}
}

func TestStyleValidate(t *testing.T) {
	good := Style{EdgeColor: "#123ABC", EdgeWidth: 1, Alpha: 0.5, FaceColor: PaintOf("steelblue")}
	require.NoError(t, good.Validate())

	tests := []struct {
		field string
		style Style
	}{
		{"edgewidth", Style{EdgeColor: "red", EdgeWidth: -1, Alpha: 1}},
		{"alpha", Style{EdgeColor: "red", Alpha: 1.5}},
		{"alpha", Style{EdgeColor: "red", Alpha: -0.1}},
		{"edgecolor", Style{EdgeColor: "#12", Alpha: 1}},
		{"facecolor", Style{EdgeColor: "red", Alpha: 1, FaceColor: PaintOf("#zzzzzz")}},
	}
	for _, tt := range tests {
		err := tt.style.Validate()
		var ise *InvalidStyleError
		require.True(t, errors.As(err, &ise), tt.field)
		assert.Equal(t, tt.field, ise.Field)
		assert.True(t, errors.Is(err, ErrInvalidStyle))
	}
}

func TestStyleSVGAttributes(t *testing.T) {
	name := func(attrs []xml.Attr) []string {
		var out []string
		for _, a := range attrs {
			out = append(out, a.Name.Local+"="+a.Value)
		}
		return out
	}
	line := Style{EdgeColor: "#000000", EdgeWidth: 1.5, Alpha: 1}
	assert.Equal(t, []string{"stroke=#000000", "stroke-width=1.5", "stroke-opacity=1", "fill=none"}, name(line.SVGAttributes()))

	filled := Style{EdgeColor: "#000000", EdgeWidth: 1, Alpha: 0.5, FaceColor: PaintOf("#ff0000")}
	assert.Equal(t, []string{"stroke=#000000", "stroke-width=1", "stroke-opacity=0.5", "fill=#ff0000", "fill-opacity=0.5"}, name(filled.SVGAttributes()))
}

func TestStyleJSON(t *testing.T) {
	var s Style
	err := json.Unmarshal([]byte(`{"edgecolor":"#000000","edgewidth":1,"alpha":1,"facecolor":"none","dasharray":"10,5"}`), &s)
	require.NoError(t, err)
	assert.False(t, s.Filled())
	assert.Equal(t, []float64{10, 5}, s.DashArray.Lengths())
	assert.Equal(t, "10,5", s.DashArray.String())

	err = json.Unmarshal([]byte(`{"edgecolor":"#000000","facecolor":"#abcdef","dasharray":[2,1]}`), &s)
	require.NoError(t, err)
	assert.True(t, s.Filled())
	assert.Equal(t, DashOf(2, 1), s.DashArray)
	assert.Equal(t, "2,1", s.DashArray.String())

	err = json.Unmarshal([]byte(`{"edgecolor":"#000000","dasharray":"5.0, 2.50"}`), &s)
	require.NoError(t, err)
	assert.Equal(t, "5.0, 2.50", s.DashArray.String())
	assert.Equal(t, "5.0, 2.50", s.Properties()["dashArray"])

	err = json.Unmarshal([]byte(`{"edgecolor":"#000000","dasharray":[2,-1]}`), &s)
	assert.True(t, errors.Is(err, ErrInvalidStyle))

	out, err := json.Marshal(Style{EdgeColor: "red", Alpha: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"edgecolor":"red","edgewidth":0,"alpha":1,"facecolor":"none","dasharray":"none"}`, string(out))
}
