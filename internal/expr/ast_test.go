package expr

import (
	"errors"
	"math"
	"testing"
)

func TestSubstituteFold(t *testing.T) {
	eq, err := ParseEquation("v = v0 + a * t")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	known := map[string]float64{"v0": 0, "a": 9.8, "t": 2}
	f := Fold(Substitute(eq.Residual(), known))

	vars := Variables(f)
	if len(vars) != 1 || vars[0] != "v" {
		t.Fatalf("expected only v to remain, got %v", vars)
	}

	b, ok := f.(*Binary)
	if !ok {
		t.Fatalf("expected binary residual, got %T", f)
	}
	lit, ok := b.R.(*Literal)
	if !ok {
		t.Fatalf("expected right side folded to literal, got %T", b.R)
	}
	if math.Abs(lit.Value-19.6) > 1e-12 {
		t.Errorf("expected 19.6, got %v", lit.Value)
	}
}

func TestSubstituteDoesNotModifyInput(t *testing.T) {
	n, _ := Parse("a * b")
	before := n.String()

	_ = Fold(Substitute(n, map[string]float64{"a": 2, "b": 3}))

	if n.String() != before {
		t.Errorf("input changed from %q to %q", before, n.String())
	}
}

func TestFoldKeepsNonFinite(t *testing.T) {
	n, _ := Parse("x + 1 / 0")
	f := Fold(n)

	if _, ok := f.(*Binary).R.(*Binary); !ok {
		t.Errorf("expected 1 / 0 to stay unfolded, got %s", f)
	}

	v, err := Eval(f, map[string]float64{"x": 1})
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if !math.IsInf(v, 1) {
		t.Errorf("expected +Inf, got %v", v)
	}
}

func TestEvalUnbound(t *testing.T) {
	n, _ := Parse("m * a")
	_, err := Eval(n, map[string]float64{"m": 2})

	var ue *UnboundError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnboundError, got %v", err)
	}
	if ue.Name != "a" {
		t.Errorf("expected unbound a, got %s", ue.Name)
	}
	if !errors.Is(err, ErrUnbound) {
		t.Error("expected error to match ErrUnbound")
	}
}

func TestCompile(t *testing.T) {
	n, _ := Parse("0.5 * 9.8 * t^2 - 44.1")
	f, err := Compile(n, "t")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for _, x := range []float64{-3, 0, 1, 3, 10} {
		want, _ := Eval(n, map[string]float64{"t": x})
		if got := f(x); got != want {
			t.Errorf("f(%v): expected %v, got %v", x, want, got)
		}
	}

	if _, err := Compile(n, "x"); !errors.Is(err, ErrUnbound) {
		t.Errorf("expected ErrUnbound compiling for absent variable, got %v", err)
	}
}

func TestCompileConstant(t *testing.T) {
	n, _ := Parse("3 * 4")
	f, err := Compile(n, "x")
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if f(100) != 12 {
		t.Errorf("expected 12, got %v", f(100))
	}
}

func TestUnsupportedNodes(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"unknown function", &Call{Func: "cbrt", Arg: &Literal{Value: 8}}},
		{"unknown binary op", &Binary{Op: '%', L: &Literal{Value: 7}, R: &Literal{Value: 2}}},
		{"unknown unary op", &Unary{Op: '!', X: &Literal{Value: 3}}},
		{"nested in variable tree", &Binary{Op: '+', L: &Variable{Name: "x"}, R: &Call{Func: "cbrt", Arg: &Variable{Name: "x"}}}},
		{"nil node", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Eval(tt.node, map[string]float64{"x": 1}); !errors.Is(err, ErrUnsupported) {
				t.Errorf("Eval: expected ErrUnsupported, got %v", err)
			}
			if f, err := Compile(tt.node, "x"); !errors.Is(err, ErrUnsupported) || f != nil {
				t.Errorf("Compile: expected ErrUnsupported, got %v", err)
			}
		})
	}
}

func TestFoldKeepsUnsupported(t *testing.T) {
	n := &Call{Func: "cbrt", Arg: &Literal{Value: 8}}
	if got := Fold(n); got.(*Call).Func != "cbrt" {
		t.Errorf("expected call to be left unfolded, got %v", got)
	}
}
