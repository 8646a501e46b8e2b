package scope

import (
	"testing"

	"github.com/qbraid/qasm3/internal/types"
)

func TestGlobalVariableVisibleInGlobalScope(t *testing.T) {
	m := NewManager()

	if err := m.DeclareVariable(&Variable{Name: "x", Type: types.NewScalar(types.Int, 32)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !m.CheckInScope("x") {
		t.Fatalf("expected x to be visible in global scope")
	}
}

func TestGateScopeOnlySeesConstantsAndQubitsFromGlobal(t *testing.T) {
	m := NewManager()

	if err := m.DeclareVariable(&Variable{Name: "c", Type: types.NewScalar(types.Int, 32), IsConstant: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.DeclareVariable(&Variable{Name: "plain", Type: types.NewScalar(types.Int, 32)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.PushScope(Gate)
	defer m.PopScope()

	if !m.CheckInScope("c") {
		t.Fatalf("expected global constant to be visible inside gate scope")
	}

	if m.CheckInScope("plain") {
		t.Fatalf("expected plain global variable to be invisible inside gate scope")
	}
}

func TestBlockScopeInheritsParentAndCanShadow(t *testing.T) {
	m := NewManager()

	if err := m.DeclareVariable(&Variable{Name: "x", Type: types.NewScalar(types.Int, 32)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.PushScope(Block)
	defer m.PopScope()

	if !m.CheckInScope("x") {
		t.Fatalf("expected block scope to inherit global variable")
	}

	if err := m.DeclareVariable(&Variable{Name: "x", Type: types.NewScalar(types.Float, 32)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shadowed := m.GetFromVisibleScope("x")
	if shadowed.Type.Kind != types.Float {
		t.Fatalf("expected shadowed x to resolve to the block-local float declaration")
	}
}

func TestDeclareVariableRejectsRedeclarationInSameFrame(t *testing.T) {
	m := NewManager()

	if err := m.DeclareVariable(&Variable{Name: "x", Type: types.NewScalar(types.Int, 32)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.DeclareVariable(&Variable{Name: "x", Type: types.NewScalar(types.Int, 32)}); err == nil {
		t.Fatalf("expected redeclaration error")
	}
}

func TestGateVisibleAfterDeclarationFromNestedScope(t *testing.T) {
	m := NewManager()

	if err := m.DeclareGate("h"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.PushScope(Block)
	defer m.PopScope()

	if !m.GateVisible("h") {
		t.Fatalf("expected gate declaration to be globally visible")
	}
}
