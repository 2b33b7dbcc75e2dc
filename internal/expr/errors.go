package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax indicates a formula that does not match the grammar.
	ErrSyntax = errors.New("expr: syntax error")

	// ErrUnbound indicates evaluation reached a variable with no value.
	ErrUnbound = errors.New("expr: unbound variable")

	// ErrUnsupported indicates a tree node with an operator or function
	// the evaluator does not know. Only hand-built trees can contain one.
	ErrUnsupported = errors.New("expr: unsupported node")
)

// SyntaxError reports where in the formula parsing failed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: syntax error at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// UnboundError names the variable that had no value during evaluation.
type UnboundError struct {
	Name string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("expr: unbound variable %q", e.Name)
}

func (e *UnboundError) Unwrap() error { return ErrUnbound }
