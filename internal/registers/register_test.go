package registers

import "testing"

func TestDeclareAndIndexQubitRegister(t *testing.T) {
	m := NewModel()

	if _, err := m.DeclareQubitRegister("q", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := m.Index("q", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != (Identity{Register: "q", Index: 2}) {
		t.Fatalf("unexpected identity: %+v", id)
	}

	if _, err := m.Index("q", 3); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestSliceNegativeStep(t *testing.T) {
	m := NewModel()

	if _, err := m.DeclareQubitRegister("q", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := m.Slice("q", 3, -1, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Identity{{Register: "q", Index: 3}, {Register: "q", Index: 2}, {Register: "q", Index: 1}, {Register: "q", Index: 0}}
	if len(ids) != len(want) {
		t.Fatalf("expected %d identities, got %d", len(want), len(ids))
	}

	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("at %d: expected %+v, got %+v", i, want[i], ids[i])
		}
	}
}

func TestPhysicalQubitPoolIsStable(t *testing.T) {
	m := NewModel()

	a := m.PhysicalQubit(5)
	b := m.PhysicalQubit(5)
	c := m.PhysicalQubit(6)

	if a != b {
		t.Fatalf("expected repeated physical qubit lookup to be stable")
	}

	if a == c {
		t.Fatalf("expected distinct physical qubits to resolve to distinct identities")
	}
}

func TestAliasIndexResolvesThroughRegister(t *testing.T) {
	m := NewModel()

	if _, err := m.DeclareQubitRegister("q", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := m.Slice("q", 0, 4, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.DeclareAlias("a", ids); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := m.Index("a", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != (Identity{Register: "q", Index: 2}) {
		t.Fatalf("unexpected identity: %+v", id)
	}
}
