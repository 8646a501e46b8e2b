package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/qbraid/qasm3/internal/diag"
)

// ansiRed/ansiBold/ansiReset are the same small set of escape codes the
// teacher's termio package wraps term.Terminal around; this binary's
// diagnostic output is simple enough not to need the full widget layer,
// just colour when stderr is a real terminal.
const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// printDiagnostic reports err for path, highlighting the offending
// source line the same way pkg/cmd/util.go's printSyntaxError does:
// filename:line: message, then the line itself, then a caret span
// underneath. Highlighting degrades to plain text when stderr isn't a
// terminal (piped output, CI logs) or the diagnostic carries no span.
func printDiagnostic(path string, err error) {
	colour := term.IsTerminal(int(os.Stderr.Fd())) && !noColor

	d, ok := err.(*diag.Diagnostic)
	if !ok || d.Span.IsZero() || d.Span.Snippet == "" {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, highlight(colour, diag.Render(err)))
		return
	}

	fmt.Fprintf(os.Stderr, "%s:%s: %s\n", path, d.Span, highlight(colour, diag.Render(err)))

	line, offset, _ := findEnclosingLine(int(d.Span.Column)-1, d.Span.Snippet)
	fmt.Fprintln(os.Stderr, line)
	fmt.Fprint(os.Stderr, strings.Repeat(" ", offset))
	fmt.Fprintln(os.Stderr, caret(colour, len(d.Span.Snippet)-offset))
}

func highlight(colour bool, msg string) string {
	if !colour {
		return msg
	}
	return ansiBold + ansiRed + msg + ansiReset
}

func caret(colour bool, width int) string {
	if width < 1 {
		width = 1
	}
	marks := strings.Repeat("^", width)
	if !colour {
		return marks
	}
	return ansiBold + ansiRed + marks + ansiReset
}

// findEnclosingLine finds the line containing byte offset index within
// text and returns it along with the column offset of index on that
// line, mirroring pkg/cmd/util.go's helper of the same name.
func findEnclosingLine(index int, text string) (line string, offset int, lineNum int) {
	if index < 0 {
		index = 0
	}
	if index >= len(text) {
		index = len(text) - 1
	}

	lineNum = 1
	start := 0

	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			if i >= index {
				return text[start:i], index - start, lineNum
			}
			lineNum++
			start = i + 1
		}
	}

	return text[start:], index - start, lineNum
}
