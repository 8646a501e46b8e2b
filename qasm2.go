package qasm3

import (
	"regexp"

	"github.com/qbraid/qasm3/internal/diag"
)

var (
	qasm2VersionLine = regexp.MustCompile(`OPENQASM\s+2(?:\.\d+)?\s*;`)
	qregKeyword      = regexp.MustCompile(`\bqreg\b`)
	cregKeyword      = regexp.MustCompile(`\bcreg\b`)
	arrowMeasure     = regexp.MustCompile(`measure\s+([A-Za-z_][A-Za-z0-9_]*(?:\[\d+\])?)\s*->\s*([A-Za-z_][A-Za-z0-9_]*(?:\[\d+\])?)\s*;`)
)

// ConvertQASM2ToQASM3 applies the literal OpenQASM 2 → 3 rewrite rules to
// raw source text: `qreg`→`qubit`, `creg`→`bit`, `qelib1.inc`→
// `stdgates.inc`, `measure a -> b;`→`b = measure a;`, and forcing the
// version string to `3.0`. This is a pure text rewrite, not an AST
// transform — the surface grammars differ enough (arrow-measure syntax
// has no OpenQASM 3 AST node at all) that doing this at the text level is
// the correct layer; a real surface parser remains this module's
// external collaborator either way (see ExternalParser).
func ConvertQASM2ToQASM3(source string) (string, error) {
	if err := checkLineEndings(source); err != nil {
		return "", err
	}

	if !qasm2VersionLine.MatchString(source) {
		return "", diag.New(diag.Syntax, noSpan, "source does not declare an OPENQASM 2.x version pragma; to_qasm3 only converts QASM2 input")
	}

	out := qasm2VersionLine.ReplaceAllString(source, "OPENQASM 3.0;")
	out = qregKeyword.ReplaceAllString(out, "qubit")
	out = cregKeyword.ReplaceAllString(out, "bit")
	out = regexp.MustCompile(`qelib1\.inc`).ReplaceAllString(out, "stdgates.inc")
	out = arrowMeasure.ReplaceAllString(out, "$2 = measure $1;")

	return out, nil
}

// ToQASM3 converts m back to OpenQASM 3 text. It requires m to have been
// loaded from QASM2 source text via Load/LoadsText, since the rewrite
// operates on the original text, not the already-3.0 flattened AST.
func (m *Module) ToQASM3() (string, error) {
	if m.SourceText == "" {
		return "", diag.New(diag.Unsupported, noSpan, "to_qasm3 requires a module loaded from QASM2 source text (use Load or LoadsText)")
	}

	return ConvertQASM2ToQASM3(m.SourceText)
}
