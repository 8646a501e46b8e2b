package qasm3

import (
	"strings"
	"testing"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/visitor"
)

func threeQubitOneTouchedProgram() *ast.Program {
	return &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 3),
		gateCall("x", indexed("q", 1)),
	}}
}

func TestRemoveIdleQubitsDropsUntouchedWires(t *testing.T) {
	m := mustLoad(t, threeQubitOneTouchedProgram())

	pruned, err := m.RemoveIdleQubits()
	if err != nil {
		t.Fatalf("RemoveIdleQubits: unexpected error: %v", err)
	}

	if got := pruned.NumQubits(); got != 1 {
		t.Fatalf("NumQubits() after pruning = %d, want 1", got)
	}

	if got := m.NumQubits(); got != 3 {
		t.Fatalf("RemoveIdleQubits mutated the original module: NumQubits() = %d, want 3", got)
	}
}

func TestRemoveIdleQubitsRemapsSurvivingQubitIndices(t *testing.T) {
	m := mustLoad(t, threeQubitOneTouchedProgram())

	pruned, err := m.RemoveIdleQubits()
	if err != nil {
		t.Fatalf("RemoveIdleQubits: unexpected error: %v", err)
	}

	var sawDecl, sawGate bool

	for _, op := range pruned.Visitor.Output {
		switch o := op.(type) {
		case visitor.QubitDecl:
			sawDecl = true
			if o.Size != 1 {
				t.Fatalf("QubitDecl.Size after pruning = %d, want 1", o.Size)
			}
		case visitor.GateOp:
			sawGate = true
			want := registers.Identity{Register: "q", Index: 0}
			if len(o.Qubits) != 1 || o.Qubits[0] != want {
				t.Fatalf("x gate operand after pruning = %v, want [%v] (q[1] remapped to q[0])", o.Qubits, want)
			}
		}
	}

	if !sawDecl {
		t.Fatalf("expected a QubitDecl in pruned output")
	}
	if !sawGate {
		t.Fatalf("expected the surviving x gate in pruned output")
	}

	text, err := pruned.Dumps()
	if err != nil {
		t.Fatalf("Dumps: unexpected error: %v", err)
	}

	if !strings.Contains(text, "qubit q;") {
		t.Fatalf("Dumps() after pruning = %q, want a bare `qubit q;` declaration", text)
	}
	if !strings.Contains(text, "x q[0];") {
		t.Fatalf("Dumps() after pruning = %q, want `x q[0];`", text)
	}
}

func TestRemoveIdleQubitsIsANoOpWhenNothingIsIdle(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("h", indexed("q", 0)),
		gateCall("x", indexed("q", 1)),
	}}

	m := mustLoad(t, prog)

	pruned, err := m.RemoveIdleQubits()
	if err != nil {
		t.Fatalf("RemoveIdleQubits: unexpected error: %v", err)
	}

	if pruned != m {
		t.Fatalf("RemoveIdleQubits: expected the same Module back when nothing is idle")
	}
}

func TestPopulateIdleQubitsRestoresAPriorPrune(t *testing.T) {
	m := mustLoad(t, threeQubitOneTouchedProgram())

	pruned, err := m.RemoveIdleQubits()
	if err != nil {
		t.Fatalf("RemoveIdleQubits: unexpected error: %v", err)
	}

	restored, err := pruned.PopulateIdleQubits()
	if err != nil {
		t.Fatalf("PopulateIdleQubits: unexpected error: %v", err)
	}

	if got := restored.NumQubits(); got != 3 {
		t.Fatalf("NumQubits() after restore = %d, want 3", got)
	}
}

func TestPopulateIdleQubitsIsANoOpWithoutAPriorPrune(t *testing.T) {
	m := mustLoad(t, threeQubitOneTouchedProgram())

	restored, err := m.PopulateIdleQubits()
	if err != nil {
		t.Fatalf("PopulateIdleQubits: unexpected error: %v", err)
	}

	if restored != m {
		t.Fatalf("PopulateIdleQubits: expected the same Module back when no prune record exists")
	}
}

func TestPopulateIdleQubitsIsANoOpAfterAnInterveningUnroll(t *testing.T) {
	m := mustLoad(t, threeQubitOneTouchedProgram())

	pruned, err := m.RemoveIdleQubits()
	if err != nil {
		t.Fatalf("RemoveIdleQubits: unexpected error: %v", err)
	}

	rolled, err := pruned.Unroll(defaultConfig())
	if err != nil {
		t.Fatalf("Unroll: unexpected error: %v", err)
	}

	restored, err := rolled.PopulateIdleQubits()
	if err != nil {
		t.Fatalf("PopulateIdleQubits: unexpected error: %v", err)
	}

	if restored != rolled {
		t.Fatalf("PopulateIdleQubits: expected a no-op after an intervening unroll() cleared the prune record")
	}
}

func TestReverseQubitOrderPermutesGateOperands(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("x", indexed("q", 0)),
	}}

	m := mustLoad(t, prog)

	reversed, err := m.ReverseQubitOrder()
	if err != nil {
		t.Fatalf("ReverseQubitOrder: unexpected error: %v", err)
	}

	if len(reversed.Visitor.Output) != 2 {
		t.Fatalf("expected the qubit declaration plus 1 output statement, got %d", len(reversed.Visitor.Output))
	}

	g, ok := reversed.Visitor.Output[1].(visitor.GateOp)
	if !ok {
		t.Fatalf("expected a GateOp, got %T", reversed.Visitor.Output[1])
	}

	want := registers.Identity{Register: "q", Index: 1}
	if len(g.Qubits) != 1 || g.Qubits[0] != want {
		t.Fatalf("ReverseQubitOrder: expected x to move from q[0] to %v, got %v", want, g.Qubits)
	}
}
