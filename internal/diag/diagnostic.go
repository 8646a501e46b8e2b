package diag

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/qbraid/qasm3/ast"
)

// Kind classifies a Diagnostic into the module's error taxonomy.
type Kind int

const (
	// Syntax covers line-ending and version-string formatting errors.
	Syntax Kind = iota
	// Undefined covers references to an undeclared variable, gate,
	// subroutine or alias.
	Undefined
	// Type covers width mismatches, unassignable values and invalid
	// casts.
	Type
	// Range covers out-of-range array/register indices and loop bounds.
	Range
	// Arity covers gate parameter/qubit count and subroutine argument
	// mismatches.
	Arity
	// Duplicate covers a repeated qubit within one gate call, or
	// redeclaration of a name.
	Duplicate
	// Unsupported covers constructs this pass deliberately refuses to
	// handle (a dynamic while condition, an unrepresentable modifier
	// composition, a parameterized gate under Clifford+T).
	Unsupported
	// Include covers cyclic or unresolved include directives.
	Include
)

// String names a Kind for diagnostic rendering.
func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Undefined:
		return "undefined"
	case Type:
		return "type"
	case Range:
		return "range"
	case Arity:
		return "arity"
	case Duplicate:
		return "duplicate"
	case Unsupported:
		return "unsupported"
	case Include:
		return "include"
	default:
		return "error"
	}
}

// Diagnostic is the single structured error type every failure in this
// module funnels through. It carries an optional source span and an
// optional wrapped cause for chaining, mirroring the teacher's
// sexp.SyntaxError.
type Diagnostic struct {
	Kind  Kind
	Msg   string
	Span  ast.Span
	Cause error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Span.IsZero() {
		return fmt.Sprintf("%s: %s", d.Kind, d.Msg)
	}

	return fmt.Sprintf("%s: %s: %s", d.Span, d.Kind, d.Msg)
}

// Unwrap exposes the wrapped cause so errors.Is/As work across a chain.
func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// expandTraceback mirrors pyqasm's PYQASM_EXPAND_TRACEBACK flag. When
// unset, callers render only the top-level diagnostic; when set, the full
// cause chain is rendered.
func expandTraceback() bool {
	v := os.Getenv("QASM3_EXPAND_TRACEBACK")
	return v == "1" || v == "true"
}

// New constructs a Diagnostic and logs a source snippet before returning
// it: the logging channel emits a location snippet before the error is
// raised.
func New(kind Kind, span ast.Span, format string, args ...any) *Diagnostic {
	msg := fmt.Sprintf(format, args...)
	if !span.IsZero() && span.Snippet != "" {
		log.Debugf("at %s: %s", span, span.Snippet)
	}

	return &Diagnostic{Kind: kind, Msg: msg, Span: span}
}

// Wrap constructs a Diagnostic chained from a prior error.
func Wrap(kind Kind, span ast.Span, cause error, format string, args ...any) *Diagnostic {
	d := New(kind, span, format, args...)
	d.Cause = cause

	return d
}

// Render formats a Diagnostic for CLI display, honouring
// QASM3_EXPAND_TRACEBACK for whether the cause chain is included.
func Render(err error) string {
	d, ok := err.(*Diagnostic)
	if !ok {
		return err.Error()
	}

	if !expandTraceback() || d.Cause == nil {
		return d.Error()
	}

	return fmt.Sprintf("%s\ncaused by: %s", d.Error(), d.Cause.Error())
}
