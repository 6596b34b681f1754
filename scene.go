package geoleaf

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Coordinate systems a producer may draw a path in. Paths in display or
// points space are markers placed at their offset.
const (
	CoordsData    = "data"
	CoordsDisplay = "display"
	CoordsPoints  = "points"
)

// Scene is a recorded figure: the projection of its data and the paths
// in draw order.
type Scene struct {
	ProjectionConfig
	Paths []ScenePath `json:"paths"`
}

// ScenePath is one draw_path call. Codes come either as a list of single
// letter path codes or as SVG path data in D.
type ScenePath struct {
	Data        []Vertex `json:"data,omitempty"`
	PathCodes   Codes    `json:"pathcodes,omitempty"`
	D           string   `json:"d,omitempty"`
	Coordinates string   `json:"coordinates,omitempty"`
	Offset      *Vertex  `json:"offset,omitempty"`
	Style       Style    `json:"style"`
}

// Codes is a list of path codes. On the wire it is either an array of
// strings or one string of letters, e.g. "MLLZ".
type Codes []string

func (c *Codes) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("pathcodes: %w", err)
	}
	out := make(Codes, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == ',' {
			continue
		}
		out = append(out, string(r))
	}
	*c = out
	return nil
}

// IsMarker reports whether the path is drawn in display space.
func (p ScenePath) IsMarker() bool {
	return p.Coordinates == CoordsDisplay || p.Coordinates == CoordsPoints
}

// Drawn resolves the wire form into a DrawnPath.
func (p ScenePath) Drawn() (DrawnPath, error) {
	var (
		vertices = p.Data
		ops      []PathOp
		err      error
	)
	switch {
	case p.D != "" && len(p.PathCodes) > 0:
		return DrawnPath{}, errors.New("both pathcodes and d given")
	case p.D != "":
		vertices, ops, err = ParsePathData(p.D)
	default:
		ops, err = ParseOpcodes(p.PathCodes)
	}
	if err != nil {
		return DrawnPath{}, err
	}
	switch p.Coordinates {
	case "", CoordsData, CoordsDisplay, CoordsPoints:
	default:
		return DrawnPath{}, fmt.Errorf("unknown coordinates %q", p.Coordinates)
	}
	return DrawnPath{
		Vertices: vertices,
		Ops:      ops,
		Style:    p.Style,
		IsMarker: p.IsMarker(),
		Anchor:   p.Offset,
	}, nil
}

// DecodeScene reads a scene from JSON.
func DecodeScene(r io.Reader) (Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Scene{}, fmt.Errorf("decode scene: %w", err)
	}
	return s, nil
}

// Convert renders scene into a feature collection. A projection set on
// cfg takes precedence over the one recorded in the scene.
func Convert(scene Scene, cfg Config) (FeatureCollection, []UnsupportedSegmentWarning, error) {
	if cfg.Projection == (ProjectionConfig{}) {
		cfg.Projection = scene.ProjectionConfig
	}
	paths := make([]DrawnPath, len(scene.Paths))
	for i, sp := range scene.Paths {
		p, err := sp.Drawn()
		if err != nil {
			return FeatureCollection{}, nil, fmt.Errorf("path %d: %w", i, err)
		}
		paths[i] = p
	}
	return Render(paths, cfg)
}
