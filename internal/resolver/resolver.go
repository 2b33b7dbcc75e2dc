package resolver

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/eqsolve/internal/expr"
)

type Options struct {
	InitialGuess  float64
	Step          float64
	Tolerance     float64
	MaxIterations int
	// MinDerivative is the smallest |f'(x)| accepted before an update step.
	MinDerivative float64
	// RelativeStep scales the difference step by |x| once |x| exceeds 1,
	// so the derivative stays measurable for astronomically large roots.
	RelativeStep bool
}

func DefaultOptions() Options {
	return Options{
		InitialGuess:  1.0,
		Step:          1e-7,
		Tolerance:     1e-10,
		MaxIterations: 100,
		MinDerivative: 1e-12,
	}
}

func (o Options) validate() error {
	switch {
	case !finite(o.InitialGuess):
		return fmt.Errorf("%w: initial guess must be finite, got %g", ErrInvalidOptions, o.InitialGuess)
	case !(o.Step > 0) || !finite(o.Step):
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalidOptions, o.Step)
	case !(o.Tolerance > 0):
		return fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidOptions, o.Tolerance)
	case o.MaxIterations <= 0:
		return fmt.Errorf("%w: max iterations must be positive, got %d", ErrInvalidOptions, o.MaxIterations)
	case o.MinDerivative < 0:
		return fmt.Errorf("%w: min derivative must not be negative, got %g", ErrInvalidOptions, o.MinDerivative)
	}
	return nil
}

// Step records one Newton-Raphson update.
type Step struct {
	X  float64 `json:"x"`
	F  float64 `json:"f"`
	DF float64 `json:"df"`
}

type Result struct {
	Value      float64
	Iterations int
	// Residual is f evaluated at Value.
	Residual float64
	Trace    []Step
}

type Resolver struct {
	opts Options
}

func New(opts Options) (*Resolver, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Resolver{opts: opts}, nil
}

var defaultResolver = &Resolver{opts: DefaultOptions()}

// Default returns a resolver using DefaultOptions.
func Default() *Resolver { return defaultResolver }

func (r *Resolver) Options() Options { return r.opts }

// Solve computes the value of unknown in formula using DefaultOptions.
func Solve(formula string, bindings map[string]float64, unknown string) (float64, error) {
	return defaultResolver.Solve(formula, bindings, unknown)
}

func (r *Resolver) Solve(formula string, bindings map[string]float64, unknown string) (float64, error) {
	res, err := r.SolveDetailed(formula, bindings, unknown)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}

func (r *Resolver) SolveDetailed(formula string, bindings map[string]float64, unknown string) (*Result, error) {
	eq, err := expr.ParseEquation(formula)
	if err != nil {
		return nil, err
	}
	return r.SolveEquation(eq, bindings, unknown)
}

// SolveEquation solves an already parsed equation. Bindings for names that
// do not occur in the equation are ignored.
func (r *Resolver) SolveEquation(eq *expr.Equation, bindings map[string]float64, unknown string) (*Result, error) {
	if err := CheckRequest(eq.Variables(), bindings, unknown); err != nil {
		return nil, err
	}

	residual := expr.Fold(expr.Substitute(eq.Residual(), bindings))
	f, err := expr.Compile(residual, unknown)
	if err != nil {
		return nil, err
	}

	return r.newton(f, unknown)
}

// CheckRequest verifies that unknown is one of vars, that it has no value,
// and that every other variable has a finite value.
func CheckRequest(vars []string, bindings map[string]float64, unknown string) error {
	if !slices.Contains(vars, unknown) {
		return fmt.Errorf("%w: %q", ErrUnknownVariable, unknown)
	}
	if _, ok := bindings[unknown]; ok {
		return fmt.Errorf("%w: %q", ErrUnknownBound, unknown)
	}
	for _, name := range vars {
		if name == unknown {
			continue
		}
		v, ok := bindings[name]
		if !ok {
			return &MissingVariableError{Name: name}
		}
		if !finite(v) {
			return fmt.Errorf("%w: %s = %g", ErrNonFiniteBinding, name, v)
		}
	}
	return nil
}

func (r *Resolver) newton(f func(float64) float64, unknown string) (*Result, error) {
	x := r.opts.InitialGuess
	trace := make([]Step, 0, 8)

	fail := func(i int, err error) (*Result, error) {
		return nil, &SolveError{Unknown: unknown, Iterations: i, X: x, Err: err}
	}

	for i := 1; i <= r.opts.MaxIterations; i++ {
		fx := f(x)
		if !finite(fx) {
			return fail(i, ErrDivergentDerivative)
		}

		h := r.opts.Step
		if r.opts.RelativeStep && math.Abs(x) > 1 {
			h *= math.Abs(x)
		}
		dfx := (f(x+h) - fx) / h
		if !finite(dfx) || math.Abs(dfx) < r.opts.MinDerivative {
			return fail(i, ErrDivergentDerivative)
		}

		next := x - fx/dfx
		if !finite(next) {
			return fail(i, ErrDivergentDerivative)
		}
		trace = append(trace, Step{X: x, F: fx, DF: dfx})

		if math.Abs(next-x) < r.opts.Tolerance {
			return &Result{Value: next, Iterations: i, Residual: f(next), Trace: trace}, nil
		}
		x = next
	}

	return fail(r.opts.MaxIterations, ErrNoConvergence)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
