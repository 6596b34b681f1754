package geoleaf

import (
	"fmt"
	"io"
	"log/slog"
)

// Config is the construction time configuration of a Renderer.
type Config struct {
	Projection ProjectionConfig
	// FlattenCurves samples bezier segments into polylines instead of
	// dropping them with a warning.
	FlattenCurves bool
	// MultiLineStrings keeps every ring of an unfilled multi-ring path.
	MultiLineStrings bool
	// Precision is the number of decimals kept in output coordinates.
	// Zero keeps full precision.
	Precision int
	// Logger receives warnings and debug output. Nil discards.
	Logger *slog.Logger
}

// DrawnPath is one path as handed over by the plotting front-end.
type DrawnPath struct {
	Vertices []Vertex
	Ops      []PathOp
	Style    Style
	// IsMarker is set when the path is drawn in display space around
	// Anchor, as scatter plot markers are.
	IsMarker bool
	Anchor   *Vertex
}

// Renderer folds drawn paths into a feature collection. A Renderer
// belongs to one conversion run and is not safe for concurrent use.
type Renderer struct {
	cfg       Config
	proj      Projector
	log       *slog.Logger
	collector Collector
	warnings  []UnsupportedSegmentWarning
	paths     int
}

// NewRenderer validates cfg and builds the projector once for the run.
func NewRenderer(cfg Config) (*Renderer, error) {
	proj, err := NewProjector(cfg.Projection)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{cfg: cfg, proj: proj, log: log}, nil
}

// DrawPath converts one path and appends the resulting feature, if any.
// An error leaves the collection untouched.
func (r *Renderer) DrawPath(p DrawnPath) error {
	idx := r.paths
	r.paths++

	if err := p.Style.Validate(); err != nil {
		return fmt.Errorf("path %d: %w", idx, err)
	}
	warn := func(op PathOp, at int) {
		w := UnsupportedSegmentWarning{Path: idx, Op: op, Index: at}
		r.warnings = append(r.warnings, w)
		r.log.Warn("unsupported_segment", "path", idx, "op", op.String(), "index", at)
	}

	segOpts := SegmentOptions{FlattenCurves: r.cfg.FlattenCurves}
	if !p.IsMarker {
		segOpts.Warn = warn
	}
	rings, err := Rings(p.Vertices, p.Ops, segOpts)
	if err != nil {
		return fmt.Errorf("path %d: %w", idx, err)
	}
	if p.IsMarker && p.Anchor == nil && len(rings) > 0 {
		return fmt.Errorf("path %d: %w", idx, &MalformedPathError{Reason: "marker path without anchor"})
	}

	ctx := RenderContext{IsMarkerPath: p.IsMarker, Anchor: p.Anchor, MultiLine: r.cfg.MultiLineStrings}
	geom, ok := Classify(rings, p.Style, ctx)
	if !ok {
		r.log.Debug("path_empty", "path", idx)
		return nil
	}

	var props map[string]any
	if p.IsMarker {
		m, err := RasterizeMarker(p.Vertices, p.Ops, p.Style, MarkerOptions{Curves: r.cfg.FlattenCurves, Warn: warn})
		if err != nil {
			return fmt.Errorf("path %d: %w", idx, err)
		}
		props = m.Properties()
	} else {
		props = p.Style.Properties()
	}

	geom = geom.mapVertices(func(v Vertex) Vertex {
		x, y := r.proj.Project(v[0], v[1])
		return Vertex{x, y}
	})
	r.collector.Append(geom, props)
	r.log.Debug("feature_appended", "path", idx, "type", string(geom.Type))
	return nil
}

// GeoJSON returns the features drawn so far, truncated to the configured
// precision.
func (r *Renderer) GeoJSON() FeatureCollection {
	fc := r.collector.Finalize()
	if r.cfg.Precision > 0 {
		fc = fc.Truncate(r.cfg.Precision)
	}
	return fc
}

// Warnings returns the non-fatal problems met so far.
func (r *Renderer) Warnings() []UnsupportedSegmentWarning {
	out := make([]UnsupportedSegmentWarning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Render draws every path with a fresh Renderer. The first fatal error
// aborts the conversion and no collection is returned.
func Render(paths []DrawnPath, cfg Config) (FeatureCollection, []UnsupportedSegmentWarning, error) {
	r, err := NewRenderer(cfg)
	if err != nil {
		return FeatureCollection{}, nil, err
	}
	for _, p := range paths {
		if err := r.DrawPath(p); err != nil {
			return FeatureCollection{}, nil, err
		}
	}
	fc := r.GeoJSON()
	r.log.Debug("convert_ok", "paths", len(paths), "features", len(fc.Features), "warnings", len(r.warnings))
	return fc, r.Warnings(), nil
}
