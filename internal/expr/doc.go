// Package expr parses and evaluates the algebraic formulas used by the
// equation catalog.
//
// A formula is parsed into a small tree of [Node] values:
//
//   - [Literal]: a numeric constant
//   - [Variable]: a named quantity such as v0 or t
//   - [Unary]: negation or unary plus
//   - [Binary]: + - * / and ^ (right associative)
//   - [Call]: one of the elementary functions (sqrt, sin, ln, ...)
//
// An [Equation] pairs two expressions around '='. Its [Equation.Residual]
// is left - right, which is zero exactly when the equation holds.
//
// # Example
//
//	eq, _ := expr.ParseEquation("v = v0 + a * t")
//	f := expr.Fold(expr.Substitute(eq.Residual(), map[string]float64{"v0": 0, "a": 9.8, "t": 2}))
//	fn, _ := expr.Compile(f, "v")
//	fn(19.6) // 0
//
// Trees are immutable; [Substitute] and [Fold] return new trees and never
// modify their input, so a parsed equation can be shared between goroutines.
package expr
