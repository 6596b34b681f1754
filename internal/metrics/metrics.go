// Package metrics holds the prometheus collectors of the conversion
// service.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vasalvit/geoleaf"
)

var (
	ConversionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geoleaf_conversions_total",
		Help: "Total number of successful conversions",
	})
	ConversionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geoleaf_conversion_errors_total",
		Help: "Total number of failed conversions by error kind",
	}, []string{"kind"})
	ConversionDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geoleaf_conversion_duration_ms",
		Help:    "Conversion duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	FeaturesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geoleaf_features_total",
		Help: "Total number of emitted features by geometry type",
	}, []string{"geometry"})
	SegmentWarningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geoleaf_segment_warnings_total",
		Help: "Total number of dropped path segments by opcode",
	}, []string{"op"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geoleaf_cache_hits_total",
		Help: "Total redis cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "geoleaf_cache_misses_total",
		Help: "Total redis cache misses",
	})
)

func init() {
	prometheus.MustRegister(ConversionsTotal)
	prometheus.MustRegister(ConversionErrorsTotal)
	prometheus.MustRegister(ConversionDurationMs)
	prometheus.MustRegister(FeaturesTotal)
	prometheus.MustRegister(SegmentWarningsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// ObserveConversion records one successful conversion.
func ObserveConversion(fc geoleaf.FeatureCollection, warnings []geoleaf.UnsupportedSegmentWarning, took time.Duration) {
	ConversionsTotal.Inc()
	ConversionDurationMs.Observe(float64(took.Milliseconds()))
	for _, f := range fc.Features {
		FeaturesTotal.WithLabelValues(string(f.Geometry.Type)).Inc()
	}
	for _, w := range warnings {
		SegmentWarningsTotal.WithLabelValues(w.Op.String()).Inc()
	}
}

// ObserveError records one failed conversion.
func ObserveError(err error) {
	ConversionErrorsTotal.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind classifies a conversion error into a low cardinality label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, geoleaf.ErrConflictingProjection):
		return "conflicting_projection"
	case errors.Is(err, geoleaf.ErrUnsupportedProjection):
		return "unsupported_projection"
	case errors.Is(err, geoleaf.ErrMalformedPath):
		return "malformed_path"
	case errors.Is(err, geoleaf.ErrUnrecognizedOpcode):
		return "unrecognized_opcode"
	case errors.Is(err, geoleaf.ErrInvalidStyle):
		return "invalid_style"
	}
	return "other"
}

// Handler serves the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
