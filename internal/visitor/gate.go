package visitor

import (
	"fmt"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/dispatch"
	"github.com/qbraid/qasm3/internal/registers"
)

type controlSpec struct {
	count   int
	negated bool
}

// visitGateCall resolves a (possibly modified, possibly broadcast) gate
// application into zero or more GateOp outputs, inlining a user-defined
// gate's body when Name is not a built-in.
func (v *Visitor) visitGateCall(n *ast.QuantumGate) ([]Output, error) {
	if _, isBuiltin := v.builtinArity(n.Name); !isBuiltin {
		if _, ok := v.gates[n.Name]; ok {
			return v.visitCustomGateCall(n)
		}
	}

	argLists := make([][]registers.Identity, len(n.Qubits))
	for i, q := range n.Qubits {
		ids, err := v.resolveQubitArg(q)
		if err != nil {
			return nil, err
		}
		argLists[i] = ids
	}

	rows, err := broadcastRows(argLists)
	if err != nil {
		return nil, diag.Wrap(diag.Unsupported, ast.Span{}, err, "gate %q", n.Name)
	}

	controlSpecs, invertCount, exponent, err := v.planModifiers(n.Modifiers)
	if err != nil {
		return nil, err
	}

	totalControls := 0
	for _, c := range controlSpecs {
		totalControls += c.count
	}

	if totalControls > len(n.Qubits) {
		return nil, diag.New(diag.Arity, ast.Span{}, "gate %q: more control qubits (%d) than operands (%d)", n.Name, totalControls, len(n.Qubits))
	}

	params := make([]float64, len(n.Params))
	for i, p := range n.Params {
		val, _, err := v.Eval.Eval(p)
		if err != nil {
			return nil, err
		}
		params[i] = val.AsFloat()
	}

	effectiveExponent := exponent
	if invertCount%2 == 1 {
		effectiveExponent = -effectiveExponent
	}

	var out []Output

	for _, row := range rows {
		controls := row[:totalControls]
		targets := row[totalControls:]

		if err := analyze.VerifyGateQubits(n.Name, row); err != nil {
			return nil, err
		}

		var ops []dispatch.Op

		if totalControls == 0 {
			ops, err = v.dispatchNamedGate(n.Name, params, targets, effectiveExponent)
		} else {
			ops, err = v.dispatchControlledGate(n.Name, params, targets, controls, controlSpecs, effectiveExponent)
		}

		if err != nil {
			return nil, err
		}

		for _, op := range ops {
			out = append(out, GateOp{Op: op})
			v.Depth.Gate(op.Qubits)
		}
	}

	return out, nil
}

// broadcastRows implements OpenQASM's gate-broadcasting rule: every operand
// with more than one resolved qubit must agree on the same width; operands
// with exactly one qubit are repeated across every row.
func broadcastRows(argLists [][]registers.Identity) ([][]registers.Identity, error) {
	width := 1

	for _, a := range argLists {
		if len(a) > 1 {
			if width > 1 && len(a) != width {
				return nil, fmt.Errorf("broadcast width mismatch: %d vs %d", width, len(a))
			}
			width = len(a)
		}
	}

	rows := make([][]registers.Identity, width)

	for i := 0; i < width; i++ {
		row := make([]registers.Identity, len(argLists))

		for j, a := range argLists {
			if len(a) == 1 {
				row[j] = a[0]
			} else {
				row[j] = a[i]
			}
		}

		rows[i] = row
	}

	return rows, nil
}

// planModifiers walks a gate call's modifier list in textual (left-to-
// right) order, the same order the leading qubit operands are bound to
// successive ctrl/negctrl layers.
func (v *Visitor) planModifiers(mods []ast.Modifier) ([]controlSpec, int, float64, error) {
	var specs []controlSpec

	invertCount := 0
	exponent := 1.0

	for _, m := range mods {
		switch m.Kind {
		case "inv":
			invertCount++
		case "pow":
			val, _, err := v.Eval.Eval(m.Arg)
			if err != nil {
				return nil, 0, 0, err
			}
			exponent *= val.AsFloat()
		case "ctrl", "negctrl":
			arity := 1
			if m.Arg != nil {
				val, _, err := v.Eval.Eval(m.Arg)
				if err != nil {
					return nil, 0, 0, err
				}
				arity = int(val.AsInt().Int64())
			}
			specs = append(specs, controlSpec{count: arity, negated: m.Kind == "negctrl"})
		default:
			return nil, 0, 0, diag.New(diag.Unsupported, ast.Span{}, "unknown gate modifier %q", m.Kind)
		}
	}

	return specs, invertCount, exponent, nil
}

// builtinArity reports whether name is a built-in (intrinsic or
// decomposable) gate, and if so how many classical parameters it takes.
func (v *Visitor) builtinArity(name string) (int, bool) {
	if v.ExternalGates[name] {
		return 0, true
	}

	if dispatch.Intrinsics[name] {
		return dispatch.NumParams(name), true
	}

	if n := dispatch.NumParams(name); n > 0 {
		return n, true
	}

	// Parameterless decomposables (cy, ch, cswap, ...) still count as
	// built-in even though NumParams reports 0.
	if _, ok, _ := dispatch.Decompose(name, nil, dummyQubits(4)); ok {
		return 0, true
	}

	return 0, false
}

func dummyQubits(n int) []registers.Identity {
	out := make([]registers.Identity, n)
	for i := range out {
		out[i] = registers.Identity{Register: "__probe", Index: uint(i)}
	}

	return out
}

// dispatchNamedGate resolves a plain (uncontrolled) gate application,
// folding any pow/inv modifiers into a single effective exponent (inv is
// exponent -1) per the note in dispatch.Power's doc comment.
func (v *Visitor) dispatchNamedGate(name string, params []float64, qubits []registers.Identity, exponent float64) ([]dispatch.Op, error) {
	if v.ExternalGates[name] && exponent == 1 {
		return []dispatch.Op{{Name: name, Params: params, Qubits: qubits}}, nil
	}

	if exponent != 1 {
		return dispatch.Power(name, params, qubits, exponent)
	}

	if dispatch.Intrinsics[name] {
		return []dispatch.Op{{Name: name, Params: params, Qubits: qubits}}, nil
	}

	ops, ok, err := dispatch.Decompose(name, params, qubits)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, diag.New(diag.Undefined, ast.Span{}, "unknown gate %q", name)
	}

	return ops, nil
}

// dispatchControlledGate resolves a gate application under one or more
// ctrl/negctrl modifiers. Only exponent values of 1 (plain) or -1 (pure
// inversion) are supported in combination with controls; anything else
// is a documented scope limit (see DESIGN.md).
func (v *Visitor) dispatchControlledGate(name string, params []float64, targets, controls []registers.Identity, specs []controlSpec, exponent float64) ([]dispatch.Op, error) {
	effName, effParams, err := atomicNameForExponent(name, params, exponent)
	if err != nil {
		return nil, err
	}

	negations := make([]bool, 0, len(controls))
	for _, s := range specs {
		for i := 0; i < s.count; i++ {
			negations = append(negations, s.negated)
		}
	}

	switch len(controls) {
	case 1:
		return dispatch.Control(effName, effParams, targets, controls[0], negations[0])
	case 2:
		return dispatch.DoubleControl(effName, targets, controls[0], controls[1], negations[0], negations[1])
	default:
		return dispatch.ManyControls(effName, targets, controls, negations)
	}
}

// atomicNameForExponent resolves the gate name/params to use under a
// control modifier given an effective exponent of 1 or -1; any other
// exponent combined with a control is unsupported, since the control
// derivation tables only know named atomic gates, not a generic repeat
// count.
func atomicNameForExponent(name string, params []float64, exponent float64) (string, []float64, error) {
	switch exponent {
	case 1:
		return name, params, nil
	case -1:
		switch {
		case dispatch.SelfInverting[name]:
			return name, params, nil
		case dispatch.STInverse[name] != "":
			return dispatch.STInverse[name], params, nil
		case dispatch.RotationFamily[name] || name == "phaseshift" || name == "p" || name == "u1":
			neg := append([]float64{}, params...)
			if len(neg) > 0 {
				neg[0] = -neg[0]
			}
			return name, neg, nil
		default:
			return "", nil, diag.New(diag.Unsupported, ast.Span{}, "inverting a controlled %q is not supported; decompose first", name)
		}
	default:
		return "", nil, diag.New(diag.Unsupported, ast.Span{}, "pow(%g) combined with a control modifier is not supported", exponent)
	}
}
