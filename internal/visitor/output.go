package visitor

import (
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/dispatch"
	"github.com/qbraid/qasm3/internal/registers"
)

// Output is the common interface every flattened statement the Visitor
// emits satisfies; it is also analyze.OutputStatement so PresenceScan can
// run directly over a Visitor's Output slice.
type Output interface {
	analyze.OutputStatement
}

// GateOp wraps a single dispatched primitive gate application.
type GateOp struct {
	dispatch.Op
}

func (GateOp) IsMeasurement() bool { return false }
func (GateOp) IsBarrier() bool     { return false }

// Measure is a flattened `c = measure q;`/`measure q;`.
type Measure struct {
	Qubit registers.Identity
	Clbit registers.Identity // zero value when the result is discarded
	Keep  bool
}

func (Measure) IsMeasurement() bool { return true }
func (Measure) IsBarrier() bool     { return false }

// Reset is a flattened `reset q;`.
type Reset struct {
	Qubit registers.Identity
}

func (Reset) IsMeasurement() bool { return false }
func (Reset) IsBarrier() bool     { return false }

// Barrier is a flattened `barrier q0, q1, ...;`.
type Barrier struct {
	Qubits []registers.Identity
}

func (Barrier) IsMeasurement() bool { return false }
func (Barrier) IsBarrier() bool     { return true }

// QubitDecl is a flattened `qubit[Size] Name;` (or a bare `qubit Name;`
// when Size is 1), emitted once per declared quantum register in
// declaration order.
type QubitDecl struct {
	Name string
	Size uint
}

func (QubitDecl) IsMeasurement() bool { return false }
func (QubitDecl) IsBarrier() bool     { return false }

// ClbitDecl is the classical counterpart of QubitDecl: a flattened
// `bit[Size] Name;`.
type ClbitDecl struct {
	Name string
	Size uint
}

func (ClbitDecl) IsMeasurement() bool { return false }
func (ClbitDecl) IsBarrier() bool     { return false }

// Delay is a flattened `delay[duration] q;`, kept passthrough since
// pulse-accurate scheduling is out of scope.
type Delay struct {
	NanosecondsOrTicks float64
	Unit               string
	Qubits             []registers.Identity
}

func (Delay) IsMeasurement() bool { return false }
func (Delay) IsBarrier() bool     { return false }

// Conditional is a classical-register-gated block: `if (c == 5) { ... }`.
// Clauses is the disjunctive-normal-form expansion (analyze.ExpandComparison)
// a multi-bit comparison lowers into: an OR across its outer slice of
// AND-chains of single-bit equality tests, since the target representation
// only understands single-bit feed-forward conditions. A plain == (or a
// bare/negated single bit) always expands to exactly one clause; the
// ordering comparisons (<, <=, >, >=) and != can produce several, taken as
// satisfied when any one clause is. Then/Else are already-flattened bodies.
type Conditional struct {
	Clauses [][]analyze.BranchBit
	Then    []Output
	Else    []Output
}

func (c Conditional) IsMeasurement() bool {
	for _, s := range c.Then {
		if s.IsMeasurement() {
			return true
		}
	}

	for _, s := range c.Else {
		if s.IsMeasurement() {
			return true
		}
	}

	return false
}

func (c Conditional) IsBarrier() bool {
	for _, s := range c.Then {
		if s.IsBarrier() {
			return true
		}
	}

	for _, s := range c.Else {
		if s.IsBarrier() {
			return true
		}
	}

	return false
}

// CalibrationPassthrough carries an opaque cal/defcal/defcalgrammar block
// through unchanged, since pulse-level calibration grammars are not
// interpreted, only preserved verbatim in the flattened output.
type CalibrationPassthrough struct {
	Kind string
	Text string
}

func (CalibrationPassthrough) IsMeasurement() bool { return false }
func (CalibrationPassthrough) IsBarrier() bool     { return false }

// touchedWires collects every qubit and clbit identity referenced anywhere
// in ops, recursing into nested Conditional bodies and clauses, so a
// branch or box can be leveled to the deepest wire it actually touches.
func touchedWires(ops []Output) (qubits, clbits []registers.Identity) {
	qseen := make(map[registers.Identity]bool)
	cseen := make(map[registers.Identity]bool)

	addQ := func(ids ...registers.Identity) {
		for _, id := range ids {
			if !qseen[id] {
				qseen[id] = true
				qubits = append(qubits, id)
			}
		}
	}

	addC := func(id registers.Identity) {
		if !cseen[id] {
			cseen[id] = true
			clbits = append(clbits, id)
		}
	}

	for _, op := range ops {
		switch o := op.(type) {
		case GateOp:
			addQ(o.Qubits...)
		case Measure:
			addQ(o.Qubit)
			if o.Keep {
				addC(o.Clbit)
			}
		case Reset:
			addQ(o.Qubit)
		case Barrier:
			addQ(o.Qubits...)
		case Delay:
			addQ(o.Qubits...)
		case Conditional:
			for _, clause := range o.Clauses {
				for _, bit := range clause {
					addC(bit.Clbit)
				}
			}

			tq, tc := touchedWires(o.Then)
			addQ(tq...)

			for _, c := range tc {
				addC(c)
			}

			eq, ec := touchedWires(o.Else)
			addQ(eq...)

			for _, c := range ec {
				addC(c)
			}
		}
	}

	return qubits, clbits
}

// toOutputSlice adapts a []Output to []analyze.OutputStatement for the
// PresenceScan call sites, since Go does not implicitly convert slice
// element types even when Output is an alias for the interface.
func toOutputSlice(ops []Output) []analyze.OutputStatement {
	return ToOutputSlice(ops)
}

// ToOutputSlice is the exported form of toOutputSlice, used by the
// Module Façade to drive PresenceScan directly over a Visitor's Output.
func ToOutputSlice(ops []Output) []analyze.OutputStatement {
	out := make([]analyze.OutputStatement, len(ops))
	for i, o := range ops {
		out[i] = o
	}

	return out
}
