package depth

import (
	"testing"

	"github.com/qbraid/qasm3/internal/registers"
)

func q(i uint) registers.Identity { return registers.Identity{Register: "q", Index: i} }
func c(i uint) registers.Identity { return registers.Identity{Register: "c", Index: i} }

func TestGateAdvancesDepthAndTally(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})

	if tr.QubitDepth(q(0)) != 1 {
		t.Fatalf("expected depth 1, got %d", tr.QubitDepth(q(0)))
	}

	if tr.QubitNodeFor(q(0)).NumGates != 1 {
		t.Fatalf("expected 1 gate tally")
	}
}

func TestTwoQubitGateLevelsBothWires(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0), q(1)})

	if tr.QubitDepth(q(0)) != 2 || tr.QubitDepth(q(1)) != 2 {
		t.Fatalf("expected both wires leveled to depth 2, got %d/%d", tr.QubitDepth(q(0)), tr.QubitDepth(q(1)))
	}
}

func TestMeasurementLevelsQubitAndClbit(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})
	tr.Measurement(q(0), c(0))

	if tr.QubitDepth(q(0)) != 2 || tr.ClbitNodeFor(c(0)).Depth != 2 {
		t.Fatalf("expected measurement to level qubit/clbit to depth 2")
	}
}

func TestIdleQubitsReportsUntouchedWires(t *testing.T) {
	tr := New()
	tr.SeedQubit(q(0))
	tr.SeedQubit(q(1))
	tr.Gate([]registers.Identity{q(0)})

	idle := tr.IdleQubits()
	if len(idle) != 1 || idle[0] != q(1) {
		t.Fatalf("expected only q(1) idle, got %+v", idle)
	}
}

func TestBarrierLevelsAllTouchedQubits(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.Barrier([]registers.Identity{q(0), q(1)})

	if tr.QubitDepth(q(1)) != 2 {
		t.Fatalf("expected barrier to level q(1) up to q(0)'s depth, got %d", tr.QubitDepth(q(1)))
	}
}

func TestOverallDepthIsMaxAcrossWires(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(1)})

	if tr.Depth() != 2 {
		t.Fatalf("expected overall depth 2, got %d", tr.Depth())
	}
}

func TestBranchEndAdvancesTouchedWiresByExactlyOneMoment(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})

	tr.BranchBegin()
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.BranchEnd([]registers.Identity{q(0)}, nil)

	if got := tr.QubitDepth(q(0)); got != 2 {
		t.Fatalf("expected a branch with five chained gates to cost q(0) exactly one moment past its pre-branch depth of 1, got %d", got)
	}
}

func TestBranchEndLevelsUntouchedWireToOtherArm(t *testing.T) {
	tr := New()
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.SeedQubit(q(1))

	tr.BranchBegin()
	tr.Gate([]registers.Identity{q(0)})
	tr.BranchEnd([]registers.Identity{q(0), q(1)}, nil)

	if got := tr.QubitDepth(q(0)); got != 3 {
		t.Fatalf("expected q(0) at depth 3 (one past its pre-branch depth of 2), got %d", got)
	}

	if got := tr.QubitDepth(q(1)); got != 3 {
		t.Fatalf("expected untouched-but-named q(1) leveled up to the branch's depth of 3, got %d", got)
	}
}

func TestBranchEndIgnoresWiresNotPassedEvenIfTouchedDuringBranch(t *testing.T) {
	tr := New()

	tr.BranchBegin()
	tr.Gate([]registers.Identity{q(0)})
	tr.BranchEnd(nil, nil)

	if got := tr.QubitDepth(q(0)); got != 1 {
		t.Fatalf("expected BranchEnd to leave q(0) at its in-branch depth of 1 when not named as touched, got %d", got)
	}
}

func TestNestedBranchesUnwindIndependently(t *testing.T) {
	tr := New()

	tr.BranchBegin()
	tr.Gate([]registers.Identity{q(0)})

	tr.BranchBegin()
	tr.Gate([]registers.Identity{q(0)})
	tr.Gate([]registers.Identity{q(0)})
	tr.BranchEnd([]registers.Identity{q(0)}, nil)

	tr.BranchEnd([]registers.Identity{q(0)}, nil)

	if got := tr.QubitDepth(q(0)); got != 1 {
		t.Fatalf("expected the outer branch to level q(0) to depth 1 (one past its pre-outer-branch depth of 0), got %d", got)
	}
}
