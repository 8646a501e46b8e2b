// Package depth implements the Depth Tracker: per-qubit and per-clbit
// moment counters plus the operation-kind tallies (gates, measurements,
// resets, barriers) the reference tool keeps on each wire, grounded on
// pyqasm's QubitDepthNode/ClbitDepthNode and the
// _update_qubit_depth_for_gate family of visitor methods.
package depth

import (
	"github.com/qbraid/qasm3/internal/container/stack"
	"github.com/qbraid/qasm3/internal/registers"
)

// QubitNode is the per-qubit wire accounting pyqasm's QubitDepthNode
// keeps: the current moment depth plus how many of each operation kind
// have touched this wire.
type QubitNode struct {
	Depth           int
	NumResets       int
	NumMeasurements int
	NumGates        int
	NumBarriers     int
}

func (n *QubitNode) totalOps() int {
	return n.NumResets + n.NumMeasurements + n.NumGates + n.NumBarriers
}

// IsIdle mirrors QubitDepthNode.is_idle(): a wire with zero recorded
// operations of any kind, regardless of depth bookkeeping.
func (n *QubitNode) IsIdle() bool {
	return n.totalOps() == 0
}

// ClbitNode is the per-clbit counterpart; only measurements write to a
// classical bit in the operations this tracker models.
type ClbitNode struct {
	Depth           int
	NumMeasurements int
}

// IsIdle mirrors ClbitDepthNode.is_idle().
func (n *ClbitNode) IsIdle() bool {
	return n.NumMeasurements == 0
}

// Tracker owns the full set of per-wire depth nodes for a module, indexed
// by resolved register identity so it stays in lockstep with the
// Register Model's stable id ranges.
type Tracker struct {
	qubits   map[registers.Identity]*QubitNode
	clbits   map[registers.Identity]*ClbitNode
	branches *stack.Stack[branchSnapshot]
}

// branchSnapshot is the pre-branch depth of every wire seeded so far,
// pushed by BranchBegin and consulted by the matching BranchEnd.
type branchSnapshot struct {
	qubits map[registers.Identity]int
	clbits map[registers.Identity]int
}

// New returns an empty Tracker; wires are added via SeedQubit/SeedClbit,
// or lazily the first time a statement mentions them, matching how
// pyqasm seeds _qubit_depths/_clbit_depths as registers are declared.
func New() *Tracker {
	return &Tracker{
		qubits:   make(map[registers.Identity]*QubitNode),
		clbits:   make(map[registers.Identity]*ClbitNode),
		branches: stack.NewStack[branchSnapshot](),
	}
}

// SeedQubit ensures a depth node exists for id without otherwise touching
// it, matching pyqasm's visitor seeding a QubitDepthNode for every index
// in a register at declaration time.
func (t *Tracker) SeedQubit(id registers.Identity) {
	if _, ok := t.qubits[id]; !ok {
		t.qubits[id] = &QubitNode{}
	}
}

// SeedClbit is the classical-bit counterpart of SeedQubit.
func (t *Tracker) SeedClbit(id registers.Identity) {
	if _, ok := t.clbits[id]; !ok {
		t.clbits[id] = &ClbitNode{}
	}
}

func (t *Tracker) qubit(id registers.Identity) *QubitNode {
	t.SeedQubit(id)
	return t.qubits[id]
}

func (t *Tracker) clbit(id registers.Identity) *ClbitNode {
	t.SeedClbit(id)
	return t.clbits[id]
}

// Gate records a single- or multi-qubit gate application spanning ids: it
// advances every involved qubit to one past the deepest among them (the
// same broadcast rule as _update_qubit_depth_for_gate) and increments
// each one's gate tally.
func (t *Tracker) Gate(ids []registers.Identity) {
	maxDepth := 0

	for _, id := range ids {
		n := t.qubit(id)
		n.NumGates++
		if n.Depth+1 > maxDepth {
			maxDepth = n.Depth + 1
		}
	}

	for _, id := range ids {
		t.qubit(id).Depth = maxDepth
	}
}

// Measurement records a measurement from a qubit into a clbit: both wires
// advance by one, then the pair is leveled to their shared maximum,
// matching _visit_measurement's depth update.
func (t *Tracker) Measurement(qubit, clbit registers.Identity) {
	q := t.qubit(qubit)
	c := t.clbit(clbit)

	q.NumMeasurements++
	c.NumMeasurements++
	q.Depth++
	c.Depth++

	leveled := q.Depth
	if c.Depth > leveled {
		leveled = c.Depth
	}

	q.Depth = leveled
	c.Depth = leveled
}

// Reset records a reset on a single qubit.
func (t *Tracker) Reset(qubit registers.Identity) {
	n := t.qubit(qubit)
	n.NumResets++
	n.Depth++
}

// Barrier records a barrier spanning ids: every qubit it touches is
// leveled to the deepest among them, mirroring _visit_barrier.
func (t *Tracker) Barrier(ids []registers.Identity) {
	maxDepth := 0

	for _, id := range ids {
		n := t.qubit(id)
		n.NumBarriers++
		if n.Depth > maxDepth {
			maxDepth = n.Depth
		}
	}

	for _, id := range ids {
		t.qubit(id).Depth = maxDepth
	}
}

// BranchBegin snapshots every wire's current depth before a conditional
// body or box is visited. The matching BranchEnd uses the snapshot to
// advance the wires the body actually touched by exactly one moment,
// regardless of how many statements ran inside: a branch with five gates
// chained on one qubit still costs that qubit a single moment, since at
// runtime only one arm of a branch executes and a box is a scheduling unit,
// not five sequential moments.
func (t *Tracker) BranchBegin() {
	snap := branchSnapshot{
		qubits: make(map[registers.Identity]int, len(t.qubits)),
		clbits: make(map[registers.Identity]int, len(t.clbits)),
	}

	for id, n := range t.qubits {
		snap.qubits[id] = n.Depth
	}

	for id, n := range t.clbits {
		snap.clbits[id] = n.Depth
	}

	t.branches.Push(snap)
}

// BranchEnd pops the snapshot pushed by the matching BranchBegin and levels
// every wire in qubits/clbits to one past the deepest pre-branch depth
// among them, undoing whatever per-statement advancement happened while
// the body was visited.
func (t *Tracker) BranchEnd(qubits, clbits []registers.Identity) {
	snap := t.branches.Pop()

	maxDepth := 0

	for _, id := range qubits {
		if d := snap.qubits[id]; d > maxDepth {
			maxDepth = d
		}
	}

	for _, id := range clbits {
		if d := snap.clbits[id]; d > maxDepth {
			maxDepth = d
		}
	}

	leveled := maxDepth + 1

	for _, id := range qubits {
		t.qubit(id).Depth = leveled
	}

	for _, id := range clbits {
		t.clbit(id).Depth = leveled
	}
}

// QubitDepth returns the moment depth recorded for a qubit id, zero if
// never touched.
func (t *Tracker) QubitDepth(id registers.Identity) int {
	if n, ok := t.qubits[id]; ok {
		return n.Depth
	}

	return 0
}

// Depth returns the overall circuit depth: the deepest recorded moment
// across every tracked qubit and clbit wire.
func (t *Tracker) Depth() int {
	max := 0

	for _, n := range t.qubits {
		if n.Depth > max {
			max = n.Depth
		}
	}

	for _, n := range t.clbits {
		if n.Depth > max {
			max = n.Depth
		}
	}

	return max
}

// IdleQubits returns every seeded qubit identity whose node is still idle,
// the direct input to the Analyzer's idle-qubit pruning pass.
func (t *Tracker) IdleQubits() []registers.Identity {
	var out []registers.Identity

	for id, n := range t.qubits {
		if n.IsIdle() {
			out = append(out, id)
		}
	}

	return out
}

// QubitNodeFor exposes the node for direct inspection (used by the
// Analyzer and by tests); returns nil if the wire was never seeded.
func (t *Tracker) QubitNodeFor(id registers.Identity) *QubitNode {
	return t.qubits[id]
}

// ClbitNodeFor is the classical-bit counterpart of QubitNodeFor.
func (t *Tracker) ClbitNodeFor(id registers.Identity) *ClbitNode {
	return t.clbits[id]
}
