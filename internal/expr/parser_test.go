package expr

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestParseEval(t *testing.T) {
	env := map[string]float64{"a": 2, "b": 3, "t": 4}

	tests := []struct {
		src  string
		want float64
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"2^3^2", 512},
		{"-2^2", -4},
		{"(-2)^2", 4},
		{"a * t^2 / 2", 16},
		{"a - b - 1", -2},
		{"a / b / 2", 1.0 / 3.0},
		{"0.5 * a * t^2", 16},
		{"6.67e-11 * 2", 1.334e-10},
		{"1E3 + .5", 1000.5},
		{"sqrt(b^2 + t^2)", 5},
		{"2 * pi", 2 * math.Pi},
		{"--a", 2},
		{"+a", 2},
		{"a^-1", 0.5},
		{"abs(b - t)", 1},
		{"log(1000)", 3},
		{"ln(exp(a))", 2},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			n, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			got, err := Eval(n, env)
			if err != nil {
				t.Fatalf("eval failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"1 +",
		"(a + b",
		"a b",
		"a $ b",
		"foo(a)",
		"a = b",
		"3e",
		"*a",
		".",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse(src)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("expected ErrSyntax, got %v", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}
			if se.Pos < 0 || se.Pos > len(src) {
				t.Errorf("position %d out of range", se.Pos)
			}
		})
	}
}

func TestParseEquation(t *testing.T) {
	eq, err := ParseEquation("d = v0 * t + 0.5 * a * t^2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	want := []string{"d", "v0", "t", "a"}
	if got := eq.Variables(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected variables %v, got %v", want, got)
	}

	env := map[string]float64{"d": 44.1, "v0": 0, "t": 3, "a": 9.8}
	r, err := Eval(eq.Residual(), env)
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	if math.Abs(r) > 1e-9 {
		t.Errorf("expected zero residual, got %v", r)
	}
}

func TestParseEquationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no equals", "v0 + a * t"},
		{"two equals", "a = b = c"},
		{"empty right", "a ="},
		{"empty left", "= a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEquation(tt.src); !errors.Is(err, ErrSyntax) {
				t.Errorf("expected ErrSyntax, got %v", err)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	env := map[string]float64{"a": 1.5, "b": -2, "c": 3}

	tests := []string{
		"a + b * c",
		"(a + b) * c",
		"a - (b - c)",
		"a / (b / c)",
		"(a^b)^c",
		"a^b^c",
		"-a^2",
		"(-a)^2",
		"a^(-b)",
		"sqrt(a * c) - -b",
		"2 * pi * a",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			n, err := Parse(src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			again, err := Parse(n.String())
			if err != nil {
				t.Fatalf("reparse of %q failed: %v", n.String(), err)
			}
			v1, _ := Eval(n, env)
			v2, _ := Eval(again, env)
			if v1 != v2 && !(math.IsNaN(v1) && math.IsNaN(v2)) {
				t.Errorf("%q evaluates to %v, reprinted %q to %v", src, v1, n.String(), v2)
			}
		})
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	eq, err := ParseEquation("λ_max = b / T")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []string{"λ_max", "b", "T"}
	if got := eq.Variables(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
