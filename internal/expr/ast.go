package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Node is an element of a parsed expression tree.
type Node interface {
	String() string
	prec() int
}

const (
	precAdd = iota + 1
	precMul
	precUnary
	precPow
	precAtom
)

type Literal struct{ Value float64 }

type Variable struct{ Name string }

type Unary struct {
	Op byte
	X  Node
}

type Binary struct {
	Op   byte
	L, R Node
}

type Call struct {
	Func string
	Arg  Node
}

// functions lists the callable names accepted by the parser.
var functions = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"log":  math.Log10,
	"abs":  math.Abs,
}

// constants are identifiers that parse to literals instead of variables.
var constants = map[string]float64{
	"pi": math.Pi,
}

func (l *Literal) String() string { return strconv.FormatFloat(l.Value, 'g', -1, 64) }
func (l *Literal) prec() int {
	if math.Signbit(l.Value) {
		return precUnary
	}
	return precAtom
}

func (v *Variable) String() string { return v.Name }
func (v *Variable) prec() int      { return precAtom }

func (u *Unary) String() string { return string(u.Op) + wrap(u.X, u.X.prec() < precUnary) }
func (u *Unary) prec() int      { return precUnary }

func (c *Call) String() string { return c.Func + "(" + c.Arg.String() + ")" }
func (c *Call) prec() int      { return precAtom }

func (b *Binary) prec() int {
	switch b.Op {
	case '+', '-':
		return precAdd
	case '*', '/':
		return precMul
	default:
		return precPow
	}
}

func (b *Binary) String() string {
	p := b.prec()
	if b.Op == '^' {
		return wrap(b.L, b.L.prec() <= p) + "^" + wrap(b.R, b.R.prec() < p)
	}
	return wrap(b.L, b.L.prec() < p) + " " + string(b.Op) + " " + wrap(b.R, b.R.prec() <= p)
}

func wrap(n Node, paren bool) string {
	if paren {
		return "(" + n.String() + ")"
	}
	return n.String()
}

// Variables returns the distinct variable names in n in order of first
// appearance.
func Variables(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	walk(n, func(v *Variable) {
		if !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	})
	return names
}

func walk(n Node, fn func(*Variable)) {
	switch n := n.(type) {
	case *Variable:
		fn(n)
	case *Unary:
		walk(n.X, fn)
	case *Binary:
		walk(n.L, fn)
		walk(n.R, fn)
	case *Call:
		walk(n.Arg, fn)
	}
}

// Substitute replaces every variable named in values with its literal value.
// Variables not in values are kept.
func Substitute(n Node, values map[string]float64) Node {
	switch n := n.(type) {
	case *Variable:
		if v, ok := values[n.Name]; ok {
			return &Literal{Value: v}
		}
		return n
	case *Unary:
		return &Unary{Op: n.Op, X: Substitute(n.X, values)}
	case *Binary:
		return &Binary{Op: n.Op, L: Substitute(n.L, values), R: Substitute(n.R, values)}
	case *Call:
		return &Call{Func: n.Func, Arg: Substitute(n.Arg, values)}
	}
	return n
}

// Fold collapses every subtree made only of literals into a single literal.
// Subtrees whose value is NaN or infinite are left unfolded so the failure
// surfaces at evaluation time.
func Fold(n Node) Node {
	switch n := n.(type) {
	case *Unary:
		x := Fold(n.X)
		folded := &Unary{Op: n.Op, X: x}
		if _, ok := x.(*Literal); ok {
			return foldLiteral(folded)
		}
		return folded
	case *Binary:
		l, r := Fold(n.L), Fold(n.R)
		folded := &Binary{Op: n.Op, L: l, R: r}
		_, lok := l.(*Literal)
		_, rok := r.(*Literal)
		if lok && rok {
			return foldLiteral(folded)
		}
		return folded
	case *Call:
		arg := Fold(n.Arg)
		folded := &Call{Func: n.Func, Arg: arg}
		if _, ok := arg.(*Literal); ok {
			return foldLiteral(folded)
		}
		return folded
	}
	return n
}

func foldLiteral(n Node) Node {
	v, err := Eval(n, nil)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return n
	}
	return &Literal{Value: v}
}

// Eval computes n with variables looked up in env. Division by zero and
// domain errors follow IEEE 754 and yield Inf or NaN rather than an error.
func Eval(n Node, env map[string]float64) (float64, error) {
	switch n := n.(type) {
	case *Literal:
		return n.Value, nil
	case *Variable:
		v, ok := env[n.Name]
		if !ok {
			return 0, &UnboundError{Name: n.Name}
		}
		return v, nil
	case *Unary:
		x, err := Eval(n.X, env)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case '-':
			return -x, nil
		case '+':
			return x, nil
		}
		return 0, fmt.Errorf("%w: unary operator %q", ErrUnsupported, n.Op)
	case *Binary:
		l, err := Eval(n.L, env)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.R, env)
		if err != nil {
			return 0, err
		}
		if !knownOp(n.Op) {
			return 0, fmt.Errorf("%w: binary operator %q", ErrUnsupported, n.Op)
		}
		return apply(n.Op, l, r), nil
	case *Call:
		fn, ok := functions[n.Func]
		if !ok {
			return 0, fmt.Errorf("%w: function %q", ErrUnsupported, n.Func)
		}
		x, err := Eval(n.Arg, env)
		if err != nil {
			return 0, err
		}
		return fn(x), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupported, n)
}

func knownOp(op byte) bool {
	switch op {
	case '+', '-', '*', '/', '^':
		return true
	}
	return false
}

// apply assumes op passed knownOp.
func apply(op byte, l, r float64) float64 {
	switch op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	case '/':
		return l / r
	case '^':
		return math.Pow(l, r)
	}
	return math.NaN()
}

// check reports the first node in n that Eval would reject as unsupported.
func check(n Node) error {
	switch n := n.(type) {
	case *Literal, *Variable:
		return nil
	case *Unary:
		if n.Op != '-' && n.Op != '+' {
			return fmt.Errorf("%w: unary operator %q", ErrUnsupported, n.Op)
		}
		return check(n.X)
	case *Binary:
		if !knownOp(n.Op) {
			return fmt.Errorf("%w: binary operator %q", ErrUnsupported, n.Op)
		}
		if err := check(n.L); err != nil {
			return err
		}
		return check(n.R)
	case *Call:
		if _, ok := functions[n.Func]; !ok {
			return fmt.Errorf("%w: function %q", ErrUnsupported, n.Func)
		}
		return check(n.Arg)
	}
	return fmt.Errorf("%w: %T", ErrUnsupported, n)
}

// Compile turns n into a function of the single variable name. It fails
// with an *UnboundError if n mentions any other variable, and with
// ErrUnsupported if n holds an operator or function Eval does not know.
func Compile(n Node, name string) (func(float64) float64, error) {
	if err := check(n); err != nil {
		return nil, err
	}
	for _, v := range Variables(n) {
		if v != name {
			return nil, &UnboundError{Name: v}
		}
	}
	return compile(n, name), nil
}

func compile(n Node, name string) func(float64) float64 {
	switch n := n.(type) {
	case *Literal:
		v := n.Value
		return func(float64) float64 { return v }
	case *Variable:
		return func(x float64) float64 { return x }
	case *Unary:
		f := compile(n.X, name)
		if n.Op == '-' {
			return func(x float64) float64 { return -f(x) }
		}
		return f
	case *Binary:
		l, r, op := compile(n.L, name), compile(n.R, name), n.Op
		return func(x float64) float64 { return apply(op, l(x), r(x)) }
	case *Call:
		f, fn := compile(n.Arg, name), functions[n.Func]
		return func(x float64) float64 { return fn(f(x)) }
	}
	return func(float64) float64 { return math.NaN() }
}
