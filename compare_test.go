package qasm3

import (
	"testing"

	"github.com/qbraid/qasm3/ast"
)

func TestCompareReportsEqualForIdenticalPrograms(t *testing.T) {
	a := mustLoad(t, bellProgram())
	b := mustLoad(t, bellProgram())

	report, err := a.Compare(b)
	if err != nil {
		t.Fatalf("Compare: unexpected error: %v", err)
	}

	if !report.Equal {
		t.Fatalf("Compare: expected two identically-built modules to compare equal, got diff %+v", report)
	}
}

func TestCompareDetectsQubitCountAndStatementDifferences(t *testing.T) {
	a := mustLoad(t, bellProgram())

	smaller := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		gateCall("x", indexed("q", 0)),
	}}
	b := mustLoad(t, smaller)

	report, err := a.Compare(b)
	if err != nil {
		t.Fatalf("Compare: unexpected error: %v", err)
	}

	if report.Equal {
		t.Fatalf("Compare: expected a mismatch, got Equal=true")
	}

	if report.QubitCountDiff == 0 {
		t.Fatalf("Compare: expected a non-zero QubitCountDiff between a 2-qubit and a 1-qubit module")
	}

	if len(report.Differences) == 0 {
		t.Fatalf("Compare: expected at least one statement-level difference")
	}
}

func TestCompareCanonicalizesBeforeDiffing(t *testing.T) {
	// Two syntactically different programs whose flattened gate sequences
	// should still agree after unroll() canonicalizes both: a broadcast
	// x over a whole register vs. the same gate spelled out index by index.
	broadcast := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("x", id("q")),
	}}

	spelledOut := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("x", indexed("q", 0)),
		gateCall("x", indexed("q", 1)),
	}}

	a := mustLoad(t, broadcast)
	b := mustLoad(t, spelledOut)

	report, err := a.Compare(b)
	if err != nil {
		t.Fatalf("Compare: unexpected error: %v", err)
	}

	if !report.Equal {
		t.Fatalf("Compare: expected canonicalized broadcast and spelled-out forms to agree, got %+v", report)
	}
}
