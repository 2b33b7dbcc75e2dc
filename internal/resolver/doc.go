// Package resolver solves a single-unknown equation numerically.
//
// Given a formula such as "v = v0 + a * t", values for every variable but
// one, and the name of the remaining unknown, the resolver forms the
// residual left - right, substitutes the known values, and runs
// Newton-Raphson on the resulting one-variable function:
//
//   - initial guess x0 = 1.0
//   - forward-difference derivative with step h = 1e-7
//   - stop when |x[n+1] - x[n]| < 1e-10
//   - at most 100 iterations
//
// These are the fields of [DefaultOptions]; [New] accepts other values.
//
// # Failures
//
// Every failure matches one of the sentinel errors with errors.Is:
// [ErrMissingVariable], [ErrNoConvergence], [ErrDivergentDerivative],
// [ErrUnknownVariable], [ErrUnknownBound], [ErrNonFiniteBinding], or
// expr.ErrSyntax for a malformed formula. A NaN or infinite value is never
// returned as a solution.
//
// # Thread Safety
//
// A [Resolver] holds only its options and is safe for concurrent use.
package resolver
