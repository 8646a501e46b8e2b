package qasm3

import (
	"testing"

	"github.com/qbraid/qasm3/ast"
)

func TestRemoveMeasurementsDropsOnlyMeasurements(t *testing.T) {
	m := mustLoad(t, bellProgram())

	if !m.HasMeasurements() {
		t.Fatalf("expected the bell program to have a measurement")
	}

	filtered := m.RemoveMeasurements()

	if filtered.HasMeasurements() {
		t.Fatalf("RemoveMeasurements: expected no measurements left")
	}

	if !m.HasMeasurements() {
		t.Fatalf("RemoveMeasurements mutated the original module's measurement presence")
	}

	if len(filtered.Visitor.Output) >= len(m.Visitor.Output) {
		t.Fatalf("RemoveMeasurements: expected fewer output statements than the original")
	}
}

func TestRemoveBarriersDropsOnlyBarriers(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("h", indexed("q", 0)),
		&ast.QuantumBarrier{},
		gateCall("x", indexed("q", 1)),
	}}

	m := mustLoad(t, prog)
	if !m.HasBarriers() {
		t.Fatalf("expected a barrier to be present")
	}

	filtered := m.RemoveBarriers()

	if filtered.HasBarriers() {
		t.Fatalf("RemoveBarriers: expected no barriers left")
	}

	if !m.HasBarriers() {
		t.Fatalf("RemoveBarriers mutated the original module's barrier presence")
	}
}

func TestRemoveIncludesDropsIncludeDirectivesFromTheAST(t *testing.T) {
	prog := &ast.Program{Statements: []ast.Statement{
		&ast.Include{Path: "stdgates.inc"},
		qubitDecl("q", 1),
		gateCall("h", indexed("q", 0)),
	}}

	m := mustLoad(t, prog)

	filtered := m.RemoveIncludes()

	for _, s := range filtered.Program.Statements {
		if _, ok := s.(*ast.Include); ok {
			t.Fatalf("RemoveIncludes: an Include directive survived filtering")
		}
	}

	hasInclude := false
	for _, s := range m.Program.Statements {
		if _, ok := s.(*ast.Include); ok {
			hasInclude = true
		}
	}

	if !hasInclude {
		t.Fatalf("RemoveIncludes mutated the original module's Program")
	}

	if len(filtered.Program.Statements) != len(m.Program.Statements)-1 {
		t.Fatalf("RemoveIncludes: expected exactly 1 statement dropped, got a diff of %d",
			len(m.Program.Statements)-len(filtered.Program.Statements))
	}
}
