// Package ast defines the in-memory representation of an OpenQASM 3 program
// consumed and produced by the analyzer. The surface grammar, the lexer and
// the concrete parser which build these nodes from source text are external
// collaborators; this package only defines the node shapes the Core
// Visitor walks.
package ast

// Node is implemented by every AST node.
type Node interface {
	// NodeSpan returns the source span this node was parsed from, if any.
	NodeSpan() Span
}

// Statement is implemented by every top-level or block-level statement.
type Statement interface {
	Node
	// isStatement is a marker method restricting implementers to this
	// package's statement kinds.
	isStatement()
}

// Program is the root of a parsed OpenQASM 3 (or 2, pre-conversion) source
// file.
type Program struct {
	Span Span
	// Version is the declared OPENQASM version string, e.g. "3.0".
	Version string
	// Statements holds every top-level statement in program order,
	// including include directives and declarations.
	Statements []Statement
}

// NodeSpan implements Node.
func (p *Program) NodeSpan() Span { return p.Span }

// base embeds a span and partially implements Node for statement types.
type base struct {
	Span Span
}

// NodeSpan implements Node.
func (b base) NodeSpan() Span { return b.Span }

func (base) isStatement() {}
