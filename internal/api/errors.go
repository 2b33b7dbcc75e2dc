package api

import (
	"errors"
	"net/http"

	"github.com/san-kum/eqsolve/internal/automation"
	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/expr"
	"github.com/san-kum/eqsolve/internal/resolver"
)

// ErrInvalidRequest marks a body that could not be decoded or validated.
var ErrInvalidRequest = errors.New("api: invalid request")

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// MapErrorToStatusCode maps resolver and catalog errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, expr.ErrSyntax),
		errors.Is(err, expr.ErrUnbound),
		errors.Is(err, resolver.ErrMissingVariable),
		errors.Is(err, resolver.ErrUnknownVariable),
		errors.Is(err, resolver.ErrUnknownBound),
		errors.Is(err, resolver.ErrNonFiniteBinding),
		errors.Is(err, automation.ErrInvalidSweep):
		return http.StatusBadRequest

	case errors.Is(err, resolver.ErrNoConvergence),
		errors.Is(err, resolver.ErrDivergentDerivative):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// ErrorKind returns a stable short name for the error class.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, automation.ErrInvalidSweep):
		return "invalid_request"
	case errors.Is(err, expr.ErrSyntax):
		return "syntax"
	case errors.Is(err, expr.ErrUnbound):
		return "unbound_variable"
	case errors.Is(err, resolver.ErrMissingVariable):
		return "missing_variable"
	case errors.Is(err, resolver.ErrUnknownVariable):
		return "unknown_variable"
	case errors.Is(err, resolver.ErrUnknownBound):
		return "unknown_bound"
	case errors.Is(err, resolver.ErrNonFiniteBinding):
		return "non_finite_binding"
	case errors.Is(err, resolver.ErrNoConvergence):
		return "no_convergence"
	case errors.Is(err, resolver.ErrDivergentDerivative):
		return "divergent_derivative"
	default:
		return "internal"
	}
}

// safeMessage hides the text of unexpected errors from clients.
func safeMessage(err error) string {
	if MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return "An unexpected error occurred"
	}
	return err.Error()
}
