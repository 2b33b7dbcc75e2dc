package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number " + t.text
	case tokIdent:
		return "identifier " + t.text
	}
	return fmt.Sprintf("%q", t.text)
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case strings.ContainsRune("+-*/^()=", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i += size
		case isDigit(r) || r == '.':
			end := scanNumber(src, i)
			if end == i {
				return nil, &SyntaxError{Pos: i, Msg: "malformed number"}
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// scanNumber returns the end offset of the number starting at i, or i if
// there is none. An exponent is only consumed when digits follow it.
func scanNumber(src string, i int) int {
	j := i
	digits := 0
	for j < len(src) && isDigit(rune(src[j])) {
		j++
		digits++
	}
	if j < len(src) && src[j] == '.' {
		j++
		for j < len(src) && isDigit(rune(src[j])) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return i
	}
	if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
		k := j + 1
		if k < len(src) && (src[k] == '+' || src[k] == '-') {
			k++
		}
		if k < len(src) && isDigit(rune(src[k])) {
			for k < len(src) && isDigit(rune(src[k])) {
				k++
			}
			j = k
		}
	}
	return j
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(s string) bool {
	t := p.peek()
	return t.kind == tokOp && t.text == s
}

func (p *parser) expect(s string) error {
	t := p.next()
	if t.kind != tokOp || t.text != s {
		return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected %q, found %s", s, t.describe())}
	}
	return nil
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().text[0]
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().text[0]
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, L: left, R: right}
	}
	return left, nil
}

func (p *parser) unary() (Node, error) {
	if p.isOp("-") || p.isOp("+") {
		op := p.next().text[0]
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', L: base, R: exp}, nil
}

func (p *parser) primary() (Node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, &SyntaxError{Pos: t.pos, Msg: "malformed number " + t.text}
		}
		return &Literal{Value: v}, nil
	case tokIdent:
		if p.isOp("(") {
			if _, ok := functions[t.text]; !ok {
				return nil, &SyntaxError{Pos: t.pos, Msg: "unknown function " + t.text}
			}
			p.next()
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return &Call{Func: t.text, Arg: arg}, nil
		}
		if v, ok := constants[t.text]; ok {
			return &Literal{Value: v}, nil
		}
		return &Variable{Name: t.text}, nil
	case tokOp:
		if t.text == "(" {
			inner, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
	}
	return nil, &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.describe()}
}

func (p *parser) end() error {
	if t := p.peek(); t.kind != tokEOF {
		return &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.describe()}
	}
	return nil
}

// Parse parses a single expression with no '='.
func Parse(src string) (Node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return n, nil
}

// Equation is a parsed "left = right" formula.
type Equation struct {
	Left, Right Node
}

// ParseEquation parses a formula containing exactly one '='.
func ParseEquation(src string) (*Equation, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	left, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind == tokEOF {
		return nil, &SyntaxError{Pos: t.pos, Msg: "missing '='"}
	}
	if err := p.expect("="); err != nil {
		return nil, err
	}
	right, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &Equation{Left: left, Right: right}, nil
}

// Residual returns left - right.
func (e *Equation) Residual() Node {
	return &Binary{Op: '-', L: e.Left, R: e.Right}
}

// Variables returns the variables of both sides, left side first.
func (e *Equation) Variables() []string {
	return Variables(e.Residual())
}

func (e *Equation) String() string {
	return e.Left.String() + " = " + e.Right.String()
}
