package geoleaf

import "iter"

// Vertex is an X,Y coordinate. It marshals to a two element JSON array,
// the GeoJSON position layout.
type Vertex [2]float64

// X returns the first component of v.
func (v Vertex) X() float64 { return v[0] }

// Y returns the second component of v.
func (v Vertex) Y() float64 { return v[1] }

// A Ring is one contiguous sub-path: the vertices from a MoveTo up to the
// next MoveTo, ClosePoly or the end of the path.
type Ring []Vertex

// Closed reports whether the ring ends on its first vertex.
func (r Ring) Closed() bool {
	return len(r) > 1 && r[0] == r[len(r)-1]
}

// closedCopy returns r with its first vertex appended when r is not
// already closed. r itself is never modified.
func (r Ring) closedCopy() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	out := make(Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

// SegmentOptions controls how curve operations are handled.
type SegmentOptions struct {
	// FlattenCurves replaces curve segments by sampled polylines instead
	// of dropping them.
	FlattenCurves bool
	// Warn is called for every curve segment that is dropped.
	Warn func(op PathOp, index int)
}

// checkPath verifies every opcode is supported and that the opcodes
// consume exactly len(vertices) vertices.
func checkPath(vertices []Vertex, ops []PathOp) error {
	consumed := 0
	for i, op := range ops {
		n, ok := op.Arity()
		if !ok {
			return &UnrecognizedOpcodeError{Code: op.String(), Index: i}
		}
		consumed += n
	}
	if consumed != len(vertices) {
		return &MalformedPathError{Vertices: len(vertices), Consumed: consumed}
	}
	return nil
}

// Segment validates a path and returns its rings as a lazy sequence.
// The input slices are only read, never modified; ranging over the
// sequence again recomputes it.
func Segment(vertices []Vertex, ops []PathOp, opts SegmentOptions) (iter.Seq[Ring], error) {
	if err := checkPath(vertices, ops); err != nil {
		return nil, err
	}
	return func(yield func(Ring) bool) {
		var ring Ring
		pos := 0
		for i, op := range ops {
			switch op {
			case MoveTo:
				if len(ring) > 0 && !yield(ring) {
					return
				}
				ring = Ring{vertices[pos]}
				pos++
			case LineTo:
				ring = append(ring, vertices[pos])
				pos++
			case CurveCubic, CurveQuad:
				n, _ := op.Arity()
				ctrl := vertices[pos : pos+n]
				pos += n
				if !opts.FlattenCurves {
					if opts.Warn != nil {
						opts.Warn(op, i)
					}
					continue
				}
				start := ctrl[0]
				if len(ring) > 0 {
					start = ring[len(ring)-1]
				}
				ring = append(ring, flatten(start, ctrl, curveSamples)...)
			case ClosePoly:
				if len(ring) > 0 {
					ring = append(ring, ring[0])
					if !yield(ring) {
						return
					}
				}
				ring = nil
			}
		}
		if len(ring) > 0 {
			yield(ring)
		}
	}, nil
}

// Rings is Segment collected into a slice.
func Rings(vertices []Vertex, ops []PathOp, opts SegmentOptions) ([]Ring, error) {
	seq, err := Segment(vertices, ops, opts)
	if err != nil {
		return nil, err
	}
	var rings []Ring
	for r := range seq {
		rings = append(rings, r)
	}
	return rings, nil
}
