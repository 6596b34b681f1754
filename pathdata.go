package geoleaf

import (
	"fmt"
	"strconv"

	gl "github.com/rustyoz/genericlexer"
)

// pathDataParser turns SVG path data into the vertex and opcode streams a
// producer would emit. Relative commands are resolved to absolute
// vertices.
type pathDataParser struct {
	lex      *gl.Lexer
	cur      Vertex
	start    Vertex
	vertices []Vertex
	ops      []PathOp
}

// ParsePathData reads SVG path data such as "M 0 1 L 1 0 Z". Supported
// commands are M, L, H, V, C, Q and Z in absolute and relative form.
// Extra coordinate pairs after M are treated as implicit line-tos.
func ParsePathData(d string) ([]Vertex, []PathOp, error) {
	l, _ := gl.Lex("d", d)
	pdp := &pathDataParser{lex: l}
	for {
		i := pdp.lex.NextItem()
		switch {
		case i.Type == gl.ItemError:
			return nil, nil, fmt.Errorf("path data: %s", i.Value)
		case i.Type == gl.ItemEOS:
			return pdp.vertices, pdp.ops, nil
		case i.Type == gl.ItemLetter:
			if err := pdp.parseCommand(i.Value); err != nil {
				return nil, nil, err
			}
		case i.Type == gl.ItemNumber:
			return nil, nil, fmt.Errorf("path data: number %s without command", i.Value)
		}
	}
}

func (pdp *pathDataParser) parseCommand(cmd string) error {
	switch cmd {
	case "M", "m":
		return pdp.parseMoveTo(cmd == "m")
	case "L", "l":
		return pdp.parseLineTo(cmd == "l")
	case "H", "h", "V", "v":
		return pdp.parseAxisLineTo(cmd)
	case "C", "c":
		return pdp.parseCurveTo(CurveCubic, cmd == "c")
	case "Q", "q":
		return pdp.parseCurveTo(CurveQuad, cmd == "q")
	case "Z", "z":
		pdp.ops = append(pdp.ops, ClosePoly)
		pdp.cur = pdp.start
		return nil
	}
	return &UnrecognizedOpcodeError{Code: cmd, Index: len(pdp.ops)}
}

func (pdp *pathDataParser) emit(op PathOp, v Vertex) {
	pdp.ops = append(pdp.ops, op)
	pdp.vertices = append(pdp.vertices, v)
	pdp.cur = v
}

func (pdp *pathDataParser) resolve(t Vertex, rel bool) Vertex {
	if rel {
		return Vertex{pdp.cur[0] + t[0], pdp.cur[1] + t[1]}
	}
	return t
}

func (pdp *pathDataParser) parseMoveTo(rel bool) error {
	tuples, err := pdp.parseTuples()
	if err != nil {
		return fmt.Errorf("path data: MoveTo: %w", err)
	}
	if len(tuples) == 0 {
		return fmt.Errorf("path data: MoveTo expects a coordinate pair")
	}
	v := pdp.resolve(tuples[0], rel)
	pdp.emit(MoveTo, v)
	pdp.start = v
	for _, t := range tuples[1:] {
		pdp.emit(LineTo, pdp.resolve(t, rel))
	}
	return nil
}

func (pdp *pathDataParser) parseLineTo(rel bool) error {
	tuples, err := pdp.parseTuples()
	if err != nil {
		return fmt.Errorf("path data: LineTo: %w", err)
	}
	for _, t := range tuples {
		pdp.emit(LineTo, pdp.resolve(t, rel))
	}
	return nil
}

func (pdp *pathDataParser) parseAxisLineTo(cmd string) error {
	pdp.lex.ConsumeWhiteSpace()
	for pdp.lex.PeekItem().Type == gl.ItemNumber {
		n, err := parseNumber(pdp.lex.NextItem())
		if err != nil {
			return fmt.Errorf("path data: %s: %w", cmd, err)
		}
		v := pdp.cur
		switch cmd {
		case "H":
			v[0] = n
		case "h":
			v[0] += n
		case "V":
			v[1] = n
		case "v":
			v[1] += n
		}
		pdp.emit(LineTo, v)
		pdp.lex.ConsumeWhiteSpace()
		pdp.lex.ConsumeComma()
		pdp.lex.ConsumeWhiteSpace()
	}
	return nil
}

func (pdp *pathDataParser) parseCurveTo(op PathOp, rel bool) error {
	tuples, err := pdp.parseTuples()
	if err != nil {
		return fmt.Errorf("path data: %s: %w", op, err)
	}
	n, _ := op.Arity()
	if len(tuples) == 0 || len(tuples)%n != 0 {
		return fmt.Errorf("path data: %s expects a multiple of %d coordinate pairs, got %d", op, n, len(tuples))
	}
	for j := 0; j < len(tuples); j += n {
		base := pdp.cur
		pdp.ops = append(pdp.ops, op)
		for _, t := range tuples[j : j+n] {
			if rel {
				t = Vertex{base[0] + t[0], base[1] + t[1]}
			}
			pdp.vertices = append(pdp.vertices, t)
		}
		pdp.cur = pdp.vertices[len(pdp.vertices)-1]
	}
	return nil
}

// parseTuples reads coordinate pairs until the next command letter.
func (pdp *pathDataParser) parseTuples() ([]Vertex, error) {
	var tuples []Vertex
	pdp.lex.ConsumeWhiteSpace()
	for pdp.lex.PeekItem().Type == gl.ItemNumber {
		t, err := parseTuple(pdp.lex)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, t)
		pdp.lex.ConsumeWhiteSpace()
		pdp.lex.ConsumeComma()
		pdp.lex.ConsumeWhiteSpace()
	}
	return tuples, nil
}

func parseTuple(l *gl.Lexer) (Vertex, error) {
	var t Vertex
	l.ConsumeWhiteSpace()
	x, err := parseNumber(l.NextItem())
	if err != nil {
		return t, err
	}
	l.ConsumeWhiteSpace()
	l.ConsumeComma()
	l.ConsumeWhiteSpace()
	y, err := parseNumber(l.NextItem())
	if err != nil {
		return t, err
	}
	t[0], t[1] = x, y
	return t, nil
}

func parseNumber(i gl.Item) (float64, error) {
	if i.Type != gl.ItemNumber {
		return 0, fmt.Errorf("expected a number, got %q", i.Value)
	}
	n, err := strconv.ParseFloat(i.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q: %w", i.Value, err)
	}
	return n, nil
}
