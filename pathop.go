package geoleaf

import "fmt"

// PathOp tells the segmenter how many vertices an operation consumes
// and what to do with them.
type PathOp int

// These are the path operations a producer may emit.
const (
	MoveTo PathOp = iota
	LineTo
	CurveCubic
	CurveQuad
	ClosePoly
)

var opNames = [...]string{
	MoveTo:     "MoveTo",
	LineTo:     "LineTo",
	CurveCubic: "CurveCubic",
	CurveQuad:  "CurveQuad",
	ClosePoly:  "ClosePoly",
}

func (op PathOp) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("PathOp(%d)", int(op))
	}
	return opNames[op]
}

// Arity returns the number of vertices op consumes. The second result
// is false for values outside the supported set.
func (op PathOp) Arity() (int, bool) {
	switch op {
	case MoveTo, LineTo:
		return 1, true
	case CurveCubic:
		return 3, true
	case CurveQuad:
		return 2, true
	case ClosePoly:
		return 0, true
	default:
		return 0, false
	}
}

// Code returns the single letter used for op in path data.
func (op PathOp) Code() byte {
	switch op {
	case MoveTo:
		return 'M'
	case LineTo:
		return 'L'
	case CurveCubic:
		return 'C'
	case CurveQuad:
		return 'Q'
	case ClosePoly:
		return 'Z'
	}
	return '?'
}

// ParseOpcode maps a producer opcode letter to a PathOp. 'S' is read as
// a plain line vertex.
func ParseOpcode(c rune) (PathOp, error) {
	switch c {
	case 'M':
		return MoveTo, nil
	case 'L', 'S':
		return LineTo, nil
	case 'C':
		return CurveCubic, nil
	case 'Q':
		return CurveQuad, nil
	case 'Z':
		return ClosePoly, nil
	}
	return 0, &UnrecognizedOpcodeError{Code: string(c)}
}

// ParseOpcodes converts a sequence of opcode strings such as
// []string{"M", "L", "Z"} into PathOps.
func ParseOpcodes(codes []string) ([]PathOp, error) {
	ops := make([]PathOp, 0, len(codes))
	for i, c := range codes {
		r := []rune(c)
		if len(r) != 1 {
			return nil, &UnrecognizedOpcodeError{Code: c, Index: i}
		}
		op, err := ParseOpcode(r[0])
		if err != nil {
			return nil, &UnrecognizedOpcodeError{Code: c, Index: i}
		}
		ops = append(ops, op)
	}
	return ops, nil
}
