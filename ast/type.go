package ast

// TypeNode is the surface-syntax spelling of a type, e.g. `int[32]`,
// `qubit[4]`, `angle[20]`. It is resolved into an internal/types.Type by the
// Visitor before use.
type TypeNode struct {
	exprBase
	// Kind is one of: "bool", "bit", "int", "uint", "float", "angle",
	// "complex", "duration", "stretch", "qubit".
	Kind string
	// Width is the declared bit-width, or nil if unsized.
	Width Expr
	// Dims holds one size expression per array dimension; empty for a
	// scalar.
	Dims []Expr
	// Element is set when Kind == "complex", giving the element type
	// (always "float" in practice).
	Element *TypeNode
}
