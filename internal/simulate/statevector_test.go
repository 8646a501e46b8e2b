package simulate_test

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	qasm3 "github.com/qbraid/qasm3"
	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/simulate"
)

func flatIndex(m *qasm3.Module) func(registers.Identity) (int, error) {
	return func(rid registers.Identity) (int, error) {
		reg, ok := m.Visitor.Registers.QubitRegisters()[rid.Register]
		if !ok {
			return 0, fmt.Errorf("no such qubit register %q", rid.Register)
		}
		return int(reg.Base + rid.Index), nil
	}
}

func id(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func intLit(v int64) *ast.IntLiteral { return &ast.IntLiteral{Value: big.NewInt(v)} }

func indexed(name string, i int64) *ast.IndexedIdentifier {
	return &ast.IndexedIdentifier{Name: name, Indices: []ast.IndexOrRange{{Index: intLit(i)}}}
}

func qubitDecl(name string, size int64) *ast.QubitDeclaration {
	return &ast.QubitDeclaration{Name: name, Size: intLit(size)}
}

func gateCall(name string, qubits ...ast.Expr) *ast.QuantumGate {
	return &ast.QuantumGate{Name: name, Qubits: qubits}
}

func TestRunProducesBellStateFromHAndCX(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("h", indexed("q", 0)),
		gateCall("cx", indexed("q", 0), indexed("q", 1)),
	}}

	m, err := qasm3.Loads(prog)
	if err != nil {
		t.Fatalf("Loads: unexpected error: %v", err)
	}

	state, err := simulate.Run(m.Visitor.Output, int(m.NumQubits()), flatIndex(m))
	if err != nil {
		t.Fatalf("Run: unexpected error: %v", err)
	}

	probs := state.Probabilities()

	if math.Abs(probs[0]-0.5) > 1e-9 {
		t.Fatalf("P(00) = %v, want 0.5", probs[0])
	}
	if math.Abs(probs[3]-0.5) > 1e-9 {
		t.Fatalf("P(11) = %v, want 0.5", probs[3])
	}
	if probs[1] > 1e-9 || probs[2] > 1e-9 {
		t.Fatalf("expected |01> and |10> to carry zero probability, got %v and %v", probs[1], probs[2])
	}
}

func TestRunXFlipsComputationalBasisState(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		gateCall("x", indexed("q", 0)),
	}}

	m, err := qasm3.Loads(prog)
	if err != nil {
		t.Fatalf("Loads: unexpected error: %v", err)
	}

	state, err := simulate.Run(m.Visitor.Output, int(m.NumQubits()), flatIndex(m))
	if err != nil {
		t.Fatalf("Run: unexpected error: %v", err)
	}

	if cmplx.Abs(state.Amplitudes[1]-1) > 1e-9 {
		t.Fatalf("expected |1> with amplitude 1, got amplitudes %v", state.Amplitudes)
	}
}

func TestRunRejectsMeasurement(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		&ast.QuantumMeasurementStatement{Measurement: ast.QuantumMeasurement{Source: id("q")}},
	}}

	m, err := qasm3.Loads(prog)
	if err != nil {
		t.Fatalf("Loads: unexpected error: %v", err)
	}

	if _, err := simulate.Run(m.Visitor.Output, int(m.NumQubits()), flatIndex(m)); err == nil {
		t.Fatalf("Run: expected an error for a measurement statement")
	}
}

func TestRunHTwiceIsIdentity(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		gateCall("h", indexed("q", 0)),
		gateCall("h", indexed("q", 0)),
	}}

	m, err := qasm3.Loads(prog)
	if err != nil {
		t.Fatalf("Loads: unexpected error: %v", err)
	}

	state, err := simulate.Run(m.Visitor.Output, int(m.NumQubits()), flatIndex(m))
	if err != nil {
		t.Fatalf("Run: unexpected error: %v", err)
	}

	if cmplx.Abs(state.Amplitudes[0]-1) > 1e-9 {
		t.Fatalf("expected H*H=I to leave |0> untouched, got amplitudes %v", state.Amplitudes)
	}
}
