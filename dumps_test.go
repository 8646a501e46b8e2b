package qasm3

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qbraid/qasm3/ast"
)

func TestDumpsRendersDeterministicOneStatementPerLine(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("h", indexed("q", 0)),
		gateCall("cx", indexed("q", 0), indexed("q", 1)),
		&ast.QuantumBarrier{},
	}}

	m := mustLoad(t, prog)

	text, err := m.Dumps()
	if err != nil {
		t.Fatalf("Dumps: unexpected error: %v", err)
	}

	if !strings.HasPrefix(text, "OPENQASM 3.0;\n") {
		t.Fatalf("Dumps: expected output to open with the version pragma, got:\n%s", text)
	}

	for _, want := range []string{"h q[0];", "cx q[0], q[1];", "barrier"} {
		if !strings.Contains(text, want) {
			t.Fatalf("Dumps: expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestDumpsRendersConditionalBlocksWithIndentation(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clbitDecl("c", 1),
		&ast.QuantumMeasurementStatement{Target: id("c"), Measurement: ast.QuantumMeasurement{Source: id("q")}},
		&ast.BranchingStatement{
			Condition: id("c"),
			Then:      []ast.Statement{gateCall("x", indexed("q", 0))},
		},
	}}

	m := mustLoad(t, prog)

	text, err := m.Dumps()
	if err != nil {
		t.Fatalf("Dumps: unexpected error: %v", err)
	}

	if !strings.Contains(text, "if (") {
		t.Fatalf("Dumps: expected a conditional block, got:\n%s", text)
	}

	if !strings.Contains(text, "  x q[0];") {
		t.Fatalf("Dumps: expected the conditional body to be indented, got:\n%s", text)
	}
}

func TestDumpWritesToFile(t *testing.T) {
	m := mustLoad(t, bellProgram())

	path := filepath.Join(t.TempDir(), "out.qasm")

	if err := m.Dump(path); err != nil {
		t.Fatalf("Dump: unexpected error: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading dumped file: %v", err)
	}

	if !strings.HasPrefix(string(contents), "OPENQASM 3.0;\n") {
		t.Fatalf("Dump: unexpected file contents:\n%s", contents)
	}
}
