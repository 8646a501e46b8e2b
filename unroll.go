package qasm3

import (
	"fmt"

	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/dispatch"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/visitor"
)

// Unroll re-runs the Core Visitor over m's original AST under cfg,
// returning a freshly flattened Module. It never mutates m, following
// the same return-a-new-value convention as the teacher's own lowering
// passes.
func (m *Module) Unroll(cfg CompilationConfig) (*Module, error) {
	return loadsWithConfig(m.Program, cfg)
}

// BasisSet re-exports dispatch.BasisSet so callers don't need to import
// internal/dispatch directly to name a rebase target.
type BasisSet = dispatch.BasisSet

const (
	BasisRotationalCX = dispatch.BasisRotationalCX
	BasisCliffordT    = dispatch.BasisCliffordT
)

// Rebase rewrites every GateOp in m's flattened output, including those in
// Conditional's nested bodies, into the named target basis's gate-by-gate
// recipe (internal/dispatch.RebaseRecipes); a gate that the basis's
// recipes themselves emit is kept as it is. Every other Output kind is
// left untouched. Returns a new Module rather than mutating m.
func (m *Module) Rebase(basis BasisSet) (*Module, error) {
	recipes, ok := dispatch.RebaseRecipes[basis]
	if !ok {
		return nil, diag.New(diag.Unsupported, noSpan, "unknown rebase target basis %d", basis)
	}

	rewritten, err := rebaseOutputs(m.Visitor.Output, recipes)
	if err != nil {
		return nil, err
	}

	v := visitor.CloneWithOutput(m.Visitor, rewritten)

	return &Module{
		Program:     m.Program,
		Visitor:     v,
		Config:      m.Config,
		idleRecords: make(map[string]*analyze.IdlePruneRecord),
	}, nil
}

func rebaseOutputs(ops []visitor.Output, recipes map[string][]dispatch.RecipeStep) ([]visitor.Output, error) {
	out := make([]visitor.Output, 0, len(ops))

	for _, op := range ops {
		switch o := op.(type) {
		case visitor.GateOp:
			expanded, err := rebaseGate(o, recipes)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)

		case visitor.Conditional:
			then, err := rebaseOutputs(o.Then, recipes)
			if err != nil {
				return nil, err
			}

			els, err := rebaseOutputs(o.Else, recipes)
			if err != nil {
				return nil, err
			}

			out = append(out, visitor.Conditional{Clauses: o.Clauses, Then: then, Else: els})

		default:
			out = append(out, op)
		}
	}

	return out, nil
}

func rebaseGate(op visitor.GateOp, recipes map[string][]dispatch.RecipeStep) ([]visitor.Output, error) {
	steps, known := recipes[op.Name]
	if !known {
		// A gate some recipe of this basis emits is a basis gate already.
		for _, rs := range recipes {
			for _, s := range rs {
				if s.Gate == op.Name {
					return []visitor.Output{op}, nil
				}
			}
		}

		return nil, diag.New(diag.Unsupported, noSpan, "gate %q has no rebase recipe for this basis", op.Name)
	}

	if steps == nil {
		// A nil recipe (recipes_generated.go's BasisCliffordT
		// "rx"/"ry"/"rz" entries) marks a rotation gate this discrete
		// basis cannot express, so it is reported as unsupported rather
		// than silently kept.
		return nil, diag.New(diag.Unsupported, noSpan, "gate %q with a continuous rotation parameter cannot be rebased onto a discrete basis; decompose it first", op.Name)
	}

	if len(op.Qubits) == 0 || len(op.Qubits) > 2 {
		return nil, fmt.Errorf("qasm3: rebase recipe lookup only supports 1- or 2-qubit gates, got %d qubits for %q", len(op.Qubits), op.Name)
	}

	out := make([]visitor.Output, len(steps))

	for i, step := range steps {
		q, other := op.Qubits[0], op.Qubits[len(op.Qubits)-1]
		if step.Qubit == dispatch.AppliedQubit2 && len(op.Qubits) > 1 {
			q, other = op.Qubits[1], op.Qubits[0]
		}

		params := []float64(nil)
		if step.Angle != 0 {
			params = []float64{step.Angle}
		}

		// A two-qubit step acts on its role's qubit first, then the other.
		qubits := []registers.Identity{q}
		if len(op.Qubits) == 2 && (step.Gate == "cx" || step.Gate == "cz" || step.Gate == "swap") {
			qubits = append(qubits, other)
		}

		out[i] = visitor.GateOp{Op: dispatch.Op{Name: step.Gate, Params: params, Qubits: qubits}}
	}

	return out, nil
}
