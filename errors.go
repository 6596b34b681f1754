package geoleaf

import (
	"errors"
	"fmt"
)

// Sentinel values matched by the typed errors below through errors.Is.
var (
	ErrConflictingProjection = errors.New("crs and epsg cannot both be specified")
	ErrMalformedPath         = errors.New("malformed path")
	ErrUnrecognizedOpcode    = errors.New("unrecognized opcode")
	ErrUnsupportedProjection = errors.New("unsupported projection")
	ErrInvalidStyle          = errors.New("invalid style")
)

// ConflictingProjectionSpecError is returned when a projection is given
// both as a CRS definition and as an EPSG code.
type ConflictingProjectionSpecError struct {
	CRS  string
	EPSG int
}

func (e *ConflictingProjectionSpecError) Error() string {
	return fmt.Sprintf("%v: crs %q, epsg %d", ErrConflictingProjection, e.CRS, e.EPSG)
}

func (e *ConflictingProjectionSpecError) Is(target error) bool {
	return target == ErrConflictingProjection
}

// MalformedPathError reports a path whose opcodes do not consume exactly
// the vertices supplied.
type MalformedPathError struct {
	Vertices int
	Consumed int
	Reason   string
}

func (e *MalformedPathError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%v: %s", ErrMalformedPath, e.Reason)
	}
	return fmt.Sprintf("%v: opcodes consume %d vertices, got %d", ErrMalformedPath, e.Consumed, e.Vertices)
}

func (e *MalformedPathError) Is(target error) bool {
	return target == ErrMalformedPath
}

// UnrecognizedOpcodeError reports an opcode outside the supported set.
type UnrecognizedOpcodeError struct {
	Code  string
	Index int
}

func (e *UnrecognizedOpcodeError) Error() string {
	return fmt.Sprintf("%v %q at index %d", ErrUnrecognizedOpcode, e.Code, e.Index)
}

func (e *UnrecognizedOpcodeError) Is(target error) bool {
	return target == ErrUnrecognizedOpcode
}

// UnsupportedProjectionError reports a CRS or EPSG code no projector is
// available for.
type UnsupportedProjectionError struct {
	Spec string
}

func (e *UnsupportedProjectionError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUnsupportedProjection, e.Spec)
}

func (e *UnsupportedProjectionError) Is(target error) bool {
	return target == ErrUnsupportedProjection
}

// InvalidStyleError reports a style field outside its domain.
type InvalidStyleError struct {
	Field string
	Value any
	Err   error
}

func (e *InvalidStyleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s=%v: %s", ErrInvalidStyle, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%v: %s=%v", ErrInvalidStyle, e.Field, e.Value)
}

func (e *InvalidStyleError) Is(target error) bool {
	return target == ErrInvalidStyle
}

func (e *InvalidStyleError) Unwrap() error { return e.Err }

// UnsupportedSegmentWarning is reported when a curve segment is dropped
// instead of flattened. It never aborts a conversion.
type UnsupportedSegmentWarning struct {
	Path  int
	Op    PathOp
	Index int
}

func (w UnsupportedSegmentWarning) String() string {
	return fmt.Sprintf("path %d: %s at opcode %d not implemented, control geometry dropped", w.Path, w.Op, w.Index)
}
