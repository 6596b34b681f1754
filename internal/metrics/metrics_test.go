package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasalvit/geoleaf"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&geoleaf.ConflictingProjectionSpecError{CRS: "x", EPSG: 1}, "conflicting_projection"},
		{fmt.Errorf("path 3: %w", &geoleaf.MalformedPathError{}), "malformed_path"},
		{&geoleaf.UnrecognizedOpcodeError{Code: "X"}, "unrecognized_opcode"},
		{&geoleaf.UnsupportedProjectionError{Spec: "epsg:1"}, "unsupported_projection"},
		{&geoleaf.InvalidStyleError{Field: "alpha"}, "invalid_style"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}

func TestObserveConversion(t *testing.T) {
	before := testutil.ToFloat64(ConversionsTotal)
	lines := testutil.ToFloat64(FeaturesTotal.WithLabelValues("LineString"))
	curves := testutil.ToFloat64(SegmentWarningsTotal.WithLabelValues("CurveCubic"))

	fc := geoleaf.FeatureCollection{Features: []geoleaf.Feature{
		{Geometry: geoleaf.Geometry{Type: geoleaf.LineString}},
		{Geometry: geoleaf.Geometry{Type: geoleaf.LineString}},
	}}
	ObserveConversion(fc, []geoleaf.UnsupportedSegmentWarning{{Op: geoleaf.CurveCubic}}, 3*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(ConversionsTotal))
	assert.Equal(t, lines+2, testutil.ToFloat64(FeaturesTotal.WithLabelValues("LineString")))
	assert.Equal(t, curves+1, testutil.ToFloat64(SegmentWarningsTotal.WithLabelValues("CurveCubic")))

	ObserveError(&geoleaf.InvalidStyleError{Field: "alpha"})
	assert.GreaterOrEqual(t, testutil.ToFloat64(ConversionErrorsTotal.WithLabelValues("invalid_style")), 1.0)
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "geoleaf_conversions_total")
}
