package ast

import "fmt"

// Span identifies a region of source text for diagnostic reporting.  The
// surface parser is responsible for populating these; the analyzer only
// ever reads them.
type Span struct {
	// Line number of the start of this span (1-indexed).
	Line uint
	// Column number of the start of this span (1-indexed).
	Column uint
	// Snippet is the source text covered by this span, when available.
	Snippet string
}

// String renders a span as "line:column".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero reports whether this span carries no location information.
func (s Span) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}
