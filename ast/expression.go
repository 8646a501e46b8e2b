package ast

import "math/big"

// Expr is implemented by every classical expression node.
type Expr interface {
	Node
	isExpr()
}

type exprBase struct {
	Span Span
}

func (e exprBase) NodeSpan() Span { return e.Span }
func (exprBase) isExpr()          {}

// Identifier references a variable, gate, subroutine or alias by name,
// resolved against the current Scope.
type Identifier struct {
	exprBase
	Name string
}

// IndexedIdentifier references an element, slice, or set of elements within
// a register-shaped identifier, e.g. `q[0]`, `c[2:5]`, `q[0, 2, 4]`.
type IndexedIdentifier struct {
	exprBase
	Name    string
	Indices []IndexOrRange
}

// IndexOrRange is either a single index expression or a range (with
// optional step) within an indexing operation.
type IndexOrRange struct {
	// Index is set for a plain `name[i]` access; nil when Range is used.
	Index Expr
	// Range is set for a `name[a:b]` or `name[a:b:s]` slice.
	Range *RangeExpr
}

// RangeExpr represents `a:b` or `a:b:s`, half-open [Start,End) with Step.
type RangeExpr struct {
	exprBase
	Start Expr
	End   Expr
	// Step is nil when unspecified (implies 1).
	Step Expr
}

// IntLiteral is an integer literal, stored as an arbitrary-precision
// integer so that constant folding never silently truncates before a
// width is known.
type IntLiteral struct {
	exprBase
	Value *big.Int
}

// FloatLiteral is a floating point literal.
type FloatLiteral struct {
	exprBase
	Value float64
}

// BoolLiteral is a boolean literal.
type BoolLiteral struct {
	exprBase
	Value bool
}

// BitstringLiteral is a `"0101"`-style bit-string literal.  Decoding
// convention (MSB-first, per DESIGN.md) is applied by internal/analyze.
type BitstringLiteral struct {
	exprBase
	Bits string
}

// DurationLiteral is a duration such as `100ns`, `2dt`, `1.5us`.
type DurationLiteral struct {
	exprBase
	Value float64
	// Unit is one of "dt", "ns", "us", "ms", "s".
	Unit string
}

// ImaginaryLiteral is an imaginary literal, e.g. `2im`.
type ImaginaryLiteral struct {
	exprBase
	Value float64
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is a unary operator application (`-`, `~`, `!`).
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
}

// Cast is an explicit type conversion `T(e)`. The Visitor desugars this
// into an implicit assignment-coercion of type T.
type Cast struct {
	exprBase
	Type   TypeNode
	Target Expr
}

// FunctionCall invokes a classical built-in or a user-defined subroutine in
// expression position.
type FunctionCall struct {
	exprBase
	Name string
	Args []Expr
}

// ArrayLiteral is `{e1, e2, ...}`.
type ArrayLiteral struct {
	exprBase
	Elements []Expr
}
