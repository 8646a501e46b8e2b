package qasm3

import (
	"testing"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/visitor"
)

func TestUnrollReturnsFreshModuleWithoutMutatingOriginal(t *testing.T) {
	m := mustLoad(t, bellProgram())

	rolled, err := m.Unroll(defaultConfig())
	if err != nil {
		t.Fatalf("Unroll: unexpected error: %v", err)
	}

	if rolled == m {
		t.Fatalf("Unroll returned the same *Module pointer; it must not mutate in place")
	}

	if len(rolled.Visitor.Output) != len(m.Visitor.Output) {
		t.Fatalf("Unroll under default config changed output length: got %d, want %d", len(rolled.Visitor.Output), len(m.Visitor.Output))
	}
}

func TestUnrollWithExternalGatesPassesThroughInsteadOfDecomposing(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		gateCall("mygate", indexed("q", 0)),
	}}

	if _, err := Loads(prog); err == nil {
		t.Fatalf("Loads: expected %q to be rejected without an ExternalGates allowlist", "mygate")
	}

	m := &Module{Program: prog}

	rolled, err := m.Unroll(CompilationConfig{UnrollBarriers: true, ExternalGates: []string{"mygate"}})
	if err != nil {
		t.Fatalf("Unroll with ExternalGates: unexpected error: %v", err)
	}

	if len(rolled.Visitor.Output) != 2 {
		t.Fatalf("expected the qubit declaration plus 1 passthrough output, got %d", len(rolled.Visitor.Output))
	}

	if g := rolled.Visitor.Output[1].(visitor.GateOp); g.Name != "mygate" {
		t.Fatalf("expected the external gate name to be preserved, got %q", g.Name)
	}
}

func TestUnrollWithUnrollBarriersFalseDropsBarrierStatements(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		&ast.QuantumBarrier{},
		gateCall("h", indexed("q", 0)),
	}}

	m := mustLoad(t, prog)
	if !m.HasBarriers() {
		t.Fatalf("default-config load: expected a barrier to be present")
	}

	rolled, err := m.Unroll(CompilationConfig{UnrollBarriers: false})
	if err != nil {
		t.Fatalf("Unroll: unexpected error: %v", err)
	}

	if rolled.HasBarriers() {
		t.Fatalf("Unroll(UnrollBarriers=false): expected no barrier statements in output")
	}
}

func TestUnrollWithMaxLoopItersCapsNonTerminatingWhileLoop(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.WhileLoop{Condition: &ast.BoolLiteral{Value: true}},
	}}

	m := &Module{Program: prog}

	if _, err := m.Unroll(CompilationConfig{MaxLoopIters: 5}); err == nil {
		t.Fatalf("Unroll: expected a non-terminating while-loop to be rejected once MaxLoopIters is exhausted")
	}
}

func TestUnrollWithStrictRejectsCalibrationBlock(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.CalibrationBlock{Kind: "cal", Text: "frame f = newframe(...);"},
	}}

	lenient, err := Loads(prog)
	if err != nil {
		t.Fatalf("Loads: unexpected error under lenient defaults: %v", err)
	}

	if len(lenient.Visitor.Output) != 1 {
		t.Fatalf("expected the calibration block to pass through as one Output statement, got %d", len(lenient.Visitor.Output))
	}

	if _, ok := lenient.Visitor.Output[0].(visitor.CalibrationPassthrough); !ok {
		t.Fatalf("expected a CalibrationPassthrough, got %T", lenient.Visitor.Output[0])
	}

	if _, err := lenient.Unroll(CompilationConfig{Strict: true}); err == nil {
		t.Fatalf("Unroll(Strict=true): expected the calibration block to be rejected")
	}
}

func TestRebaseOntoRotationalCXExpandsHadamard(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		gateCall("h", indexed("q", 0)),
	}}

	m := mustLoad(t, prog)

	rebased, err := m.Rebase(BasisRotationalCX)
	if err != nil {
		t.Fatalf("Rebase: unexpected error: %v", err)
	}

	if len(rebased.Visitor.Output) != 3 {
		t.Fatalf("Rebase(BasisRotationalCX) on a single h: expected the qubit declaration plus 2 recipe steps, got %d", len(rebased.Visitor.Output))
	}

	for _, op := range rebased.Visitor.Output {
		if _, ok := op.(visitor.QubitDecl); ok {
			continue
		}

		g, ok := op.(visitor.GateOp)
		if !ok {
			t.Fatalf("expected every rebased output to be a QubitDecl or a GateOp, got %T", op)
		}

		if g.Name != "ry" && g.Name != "rx" {
			t.Fatalf("unexpected gate %q in rotational-cx rebase of h", g.Name)
		}
	}
}

func TestRebaseOntoCliffordTRejectsContinuousRotation(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		func() *ast.QuantumGate {
			g := gateCall("rx", indexed("q", 0))
			g.Params = []ast.Expr{&ast.FloatLiteral{Value: 0.25}}
			return g
		}(),
	}}

	m := mustLoad(t, prog)

	if _, err := m.Rebase(BasisCliffordT); err == nil {
		t.Fatalf("Rebase(BasisCliffordT): expected an error for a continuous-rotation gate, got nil")
	}
}

func TestRebaseOntoCliffordTKeepsCliffordGateNative(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		gateCall("h", indexed("q", 0)),
	}}

	m := mustLoad(t, prog)

	rebased, err := m.Rebase(BasisCliffordT)
	if err != nil {
		t.Fatalf("Rebase: unexpected error: %v", err)
	}

	if len(rebased.Visitor.Output) != 2 {
		t.Fatalf("expected the qubit declaration plus a native h rebasing to exactly 1 step, got %d", len(rebased.Visitor.Output))
	}

	if g := rebased.Visitor.Output[1].(visitor.GateOp); g.Name != "h" {
		t.Fatalf("expected h to stay h under Clifford+T, got %q", g.Name)
	}
}
