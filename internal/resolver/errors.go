package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingVariable indicates a variable other than the unknown has no value.
	ErrMissingVariable = errors.New("resolver: missing variable")

	// ErrNoConvergence indicates the iteration budget ran out.
	ErrNoConvergence = errors.New("resolver: could not find a solution")

	// ErrDivergentDerivative indicates a zero or undefined derivative, or a
	// residual that evaluated to NaN or Inf.
	ErrDivergentDerivative = errors.New("resolver: derivative is zero or undefined")

	// ErrUnknownVariable indicates the unknown does not occur in the formula.
	ErrUnknownVariable = errors.New("resolver: unknown is not a variable of the equation")

	// ErrUnknownBound indicates the unknown was also given a value.
	ErrUnknownBound = errors.New("resolver: unknown must not have a value")

	// ErrNonFiniteBinding indicates a known value is NaN or infinite.
	ErrNonFiniteBinding = errors.New("resolver: known value is not finite")

	// ErrInvalidOptions indicates options that cannot drive the iteration.
	ErrInvalidOptions = errors.New("resolver: invalid options")
)

// MissingVariableError names the variable that lacks a value.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("resolver: missing value for %q", e.Name)
}

func (e *MissingVariableError) Unwrap() error { return ErrMissingVariable }

// SolveError wraps a numeric failure with the iteration it happened at.
type SolveError struct {
	Unknown    string
	Iterations int
	X          float64
	Err        error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("%v (solving for %s, iteration %d, x=%g)", e.Err, e.Unknown, e.Iterations, e.X)
}

func (e *SolveError) Unwrap() error { return e.Err }

// IsNumericFailure reports whether err came from the iteration itself rather
// than from a malformed request.
func IsNumericFailure(err error) bool {
	return errors.Is(err, ErrNoConvergence) || errors.Is(err, ErrDivergentDerivative)
}
