package ndt

import (
	"fmt"
	"strconv"
)

// ParseError reports a malformed datashape string.
type ParseError struct {
	Input string // Full input
	Pos   int    // Byte offset of the failure
	Msg   string // What went wrong
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("datashape %q at offset %d: %s", e.Input, e.Pos, e.Msg)
}

// typeAliases maps every accepted scalar spelling to its type.
var typeAliases = map[string]Type{
	"bool":       Bool,
	"int8":       Int8,
	"int16":      Int16,
	"int32":      Int32,
	"int64":      Int64,
	"int":        Int32,
	"intptr":     Int64,
	"uint8":      Uint8,
	"uint16":     Uint16,
	"uint32":     Uint32,
	"uint64":     Uint64,
	"float16":    Float16,
	"float32":    Float32,
	"float64":    Float64,
	"real":       Float64,
	"cfloat32":   CFloat32,
	"cfloat64":   CFloat64,
	"complex64":  CFloat32,
	"complex128": CFloat64,
	"complex":    CFloat64,
	"string":     String,
}

// Parse parses a datashape string such as "int32", "3 * float64" or
// "{x : string; y : int32}".
func Parse(s string) (Type, error) {
	p := &parser{input: s}
	p.next()
	t, err := p.parseType()
	if err != nil {
		return Type{}, err
	}
	if p.tok.kind != tokEOF {
		return Type{}, p.errorf("unexpected %q after type", p.tok.text)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokPunct
)

type token struct {
	kind tokKind
	text string
	pos  int
}

type parser struct {
	input string
	pos   int
	tok   token
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Input: p.input, Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) next() {
	for p.pos < len(p.input) && isSpace(p.input[p.pos]) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.input[p.pos]
	switch {
	case isIdentStart(c):
		for p.pos < len(p.input) && isIdentPart(p.input[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.input[start:p.pos], pos: start}
	case c >= '0' && c <= '9':
		for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		p.tok = token{kind: tokInt, text: p.input[start:p.pos], pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokPunct, text: string(c), pos: start}
	}
}

func (p *parser) expect(punct string) error {
	if p.tok.kind != tokPunct || p.tok.text != punct {
		if p.tok.kind == tokEOF {
			return p.errorf("expected %q, got end of input", punct)
		}
		return p.errorf("expected %q, got %q", punct, p.tok.text)
	}
	p.next()
	return nil
}

func (p *parser) parseType() (Type, error) {
	switch p.tok.kind {
	case tokInt:
		n, err := strconv.Atoi(p.tok.text)
		if err != nil {
			return Type{}, p.errorf("bad dimension %q", p.tok.text)
		}
		p.next()
		if err := p.expect("*"); err != nil {
			return Type{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		return MakeFixedDim(n, elem), nil
	case tokIdent:
		return p.parseScalar()
	case tokPunct:
		if p.tok.text == "{" {
			return p.parseStruct()
		}
		return Type{}, p.errorf("unexpected %q", p.tok.text)
	default:
		return Type{}, p.errorf("expected a type, got end of input")
	}
}

func (p *parser) parseScalar() (Type, error) {
	name := p.tok.text
	p.next()
	if name == "complex" && p.tok.kind == tokPunct && p.tok.text == "[" {
		p.next()
		if p.tok.kind != tokIdent {
			return Type{}, p.errorf("expected float32 or float64 in complex[...]")
		}
		var t Type
		switch p.tok.text {
		case "float32":
			t = CFloat32
		case "float64":
			t = CFloat64
		default:
			return Type{}, p.errorf("unsupported complex component type %q", p.tok.text)
		}
		p.next()
		if err := p.expect("]"); err != nil {
			return Type{}, err
		}
		return t, nil
	}
	t, ok := typeAliases[name]
	if !ok {
		return Type{}, &ParseError{Input: p.input, Pos: p.pos - len(name), Msg: fmt.Sprintf("unknown type %q", name)}
	}
	return t, nil
}

func (p *parser) parseStruct() (Type, error) {
	p.next() // consume "{"
	var fields []Field
	for {
		if p.tok.kind == tokPunct && p.tok.text == "}" {
			p.next()
			break
		}
		if p.tok.kind != tokIdent {
			return Type{}, p.errorf("expected field name")
		}
		name := p.tok.text
		p.next()
		if err := p.expect(":"); err != nil {
			return Type{}, err
		}
		ft, err := p.parseType()
		if err != nil {
			return Type{}, err
		}
		fields = append(fields, Field{Name: name, Type: ft})

		if p.tok.kind == tokPunct && (p.tok.text == ";" || p.tok.text == ",") {
			p.next()
			continue
		}
		if p.tok.kind == tokPunct && p.tok.text == "}" {
			continue
		}
		return Type{}, p.errorf("expected ';', ',' or '}' after field %q", name)
	}
	t, err := MakeStruct(fields...)
	if err != nil {
		return Type{}, &ParseError{Input: p.input, Pos: p.tok.pos, Msg: err.Error()}
	}
	return t, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
