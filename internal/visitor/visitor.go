// Package visitor implements the Core Visitor: the single pass that
// walks a parsed ast.Program and produces the flattened Output
// statement list, wiring the Scope Manager, Expression Evaluator, Register
// Model, Gate Dispatcher and Depth Tracker together. Dispatch is a Go
// type switch over ast.Statement, the teacher's own dispatch idiom in
// pkg/corset/{preprocessor,typing}.go's `switch d := decl.(type)`, rather
// than pyqasm's dict-of-lambdas visit_map.
package visitor

import (
	"math/big"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/depth"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/eval"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/scope"
	"github.com/qbraid/qasm3/internal/types"
)

// maxLoopIterations caps while-loop unrolling so a classically-dynamic but
// non-terminating condition cannot hang the analyzer; pyqasm has no such
// cap because CPython simply runs forever in that case, but a
// compile-time pass needs one.
const maxLoopIterations = 1_000_000

// Visitor owns every collaborator the flattening pass needs and
// accumulates the Output statement list as it walks a Program.
type Visitor struct {
	Scope     *scope.Manager
	Registers *registers.Model
	Eval      *eval.Evaluator
	Depth     *depth.Tracker
	Output    []Output
	Scan      analyze.PresenceScan

	gates       map[string]*ast.QuantumGateDefinition
	subroutines map[string]*ast.SubroutineDefinition
	pruneRecord map[string]*analyze.IdlePruneRecord

	returning   bool
	returnValue types.Value
	hasReturn   bool

	breaking   bool
	continuing bool

	// gateQubitBinding rebinds a custom gate definition's formal qubit
	// names to the call site's actual Identity values while that body is
	// being visited; nil outside of a custom gate inlining.
	gateQubitBinding map[string]registers.Identity

	// MaxLoopIterations overrides the default while-loop unrolling cap; a
	// Module Façade sets this from CompilationConfig.MaxLoopIters.
	MaxLoopIterations int

	// ExternalGates names gates the target backend already supports
	// natively: visitGateCall emits them as an opaque passthrough Op
	// instead of consulting the decomposition catalog, mirroring pyqasm's
	// unroll(external_gates=...) parameter.
	ExternalGates map[string]bool

	// UnrollBarriers, when false, still advances depth across a barrier
	// but drops the Barrier statement itself from Output, matching
	// pyqasm's unroll(unroll_barriers=False) behaviour.
	UnrollBarriers bool

	// Strict rejects any opaque CalibrationPassthrough block instead of
	// carrying it through unchanged.
	Strict bool
}

// New builds a Visitor with all collaborators wired together, the root
// object a Module Façade constructs once per `loads`/`load` call.
func New() *Visitor {
	v := &Visitor{
		Scope:             scope.NewManager(),
		Registers:         registers.NewModel(),
		Depth:             depth.New(),
		gates:             make(map[string]*ast.QuantumGateDefinition),
		subroutines:       make(map[string]*ast.SubroutineDefinition),
		pruneRecord:       make(map[string]*analyze.IdlePruneRecord),
		MaxLoopIterations: maxLoopIterations,
		ExternalGates:     make(map[string]bool),
		UnrollBarriers:    true,
	}

	v.Eval = eval.NewEvaluator(v.Scope, v.Registers)
	v.Eval.CallSubroutine = v.callSubroutineInExpr

	return v
}

// CloneWithOutput builds a new Visitor sharing v's Scope/Registers/Eval/
// Depth collaborators but carrying a replacement Output list with a fresh
// PresenceScan, the shape a Module Façade rewrite (rebase, idle-qubit
// pruning, measurement/barrier removal) needs: those operations rewrite
// the flattened statement list without re-running the whole pass.
func CloneWithOutput(v *Visitor, output []Output) *Visitor {
	return &Visitor{
		Scope:             v.Scope,
		Registers:         v.Registers,
		Eval:              v.Eval,
		Depth:             v.Depth,
		Output:            output,
		MaxLoopIterations: v.MaxLoopIterations,
		ExternalGates:     v.ExternalGates,
		UnrollBarriers:    v.UnrollBarriers,
		Strict:            v.Strict,
	}
}

// VisitProgram walks every top-level statement of prog, in order.
func (v *Visitor) VisitProgram(prog *ast.Program) error {
	out, err := v.visitBlock(prog.Statements)
	if err != nil {
		return err
	}

	v.Output = append(v.Output, out...)
	v.Scan.Invalidate()

	return nil
}

// visitBlock visits a statement slice and returns the Output it produced,
// without touching v.Output directly - used both for the top level and
// for every nested body (gate/subroutine/if/for/while/box).
func (v *Visitor) visitBlock(stmts []ast.Statement) ([]Output, error) {
	var out []Output

	for _, stmt := range stmts {
		produced, err := v.visitStatement(stmt)
		if err != nil {
			return nil, err
		}

		out = append(out, produced...)

		if v.returning || v.breaking || v.continuing {
			break
		}
	}

	return out, nil
}

func (v *Visitor) visitStatement(stmt ast.Statement) ([]Output, error) {
	switch n := stmt.(type) {
	case *ast.Include:
		return nil, nil
	case *ast.Pragma, *ast.Annotation, *ast.IODeclaration:
		return nil, nil
	case *ast.QubitDeclaration:
		return v.visitQubitDeclaration(n)
	case *ast.ClassicalDeclaration:
		return v.visitClassicalDeclaration(n)
	case *ast.ConstantDeclaration:
		return v.visitConstantDeclaration(n)
	case *ast.ClassicalAssignment:
		return nil, v.visitClassicalAssignment(n)
	case *ast.AliasStatement:
		return nil, v.visitAliasStatement(n)
	case *ast.QuantumGateDefinition:
		return nil, v.visitGateDefinition(n)
	case *ast.QuantumGate:
		return v.visitGateCall(n)
	case *ast.QuantumReset:
		return v.visitReset(n)
	case *ast.QuantumBarrier:
		return v.visitBarrier(n)
	case *ast.QuantumMeasurementStatement:
		return v.visitMeasurementStatement(n)
	case *ast.BranchingStatement:
		return v.visitBranching(n)
	case *ast.SwitchStatement:
		return v.visitSwitch(n)
	case *ast.ForLoop:
		return v.visitForLoop(n)
	case *ast.WhileLoop:
		return v.visitWhileLoop(n)
	case *ast.BreakStatement:
		v.breaking = true
		return nil, nil
	case *ast.ContinueStatement:
		v.continuing = true
		return nil, nil
	case *ast.SubroutineDefinition:
		return nil, v.visitSubroutineDefinition(n)
	case *ast.ReturnStatement:
		return nil, v.visitReturn(n)
	case *ast.ExpressionStatement:
		_, _, err := v.Eval.Eval(n.Expression)
		return nil, err
	case *ast.DelayInstruction:
		return v.visitDelay(n)
	case *ast.Box:
		return v.visitBox(n)
	case *ast.CalibrationBlock:
		if v.Strict {
			return nil, diag.New(diag.Unsupported, ast.Span{}, "calibration block %q present under strict mode", n.Kind)
		}
		return []Output{CalibrationPassthrough{Kind: n.Kind, Text: n.Text}}, nil
	default:
		return nil, diag.New(diag.Unsupported, ast.Span{}, "unhandled statement type %T", stmt)
	}
}

func (v *Visitor) visitQubitDeclaration(n *ast.QubitDeclaration) ([]Output, error) {
	size := uint(1)

	if n.Size != nil {
		val, _, err := v.Eval.Eval(n.Size)
		if err != nil {
			return nil, err
		}

		size = uint(val.AsInt().Int64())
	}

	reg, err := v.Registers.DeclareQubitRegister(n.Name, size)
	if err != nil {
		return nil, err
	}

	if err := v.Scope.DeclareVariable(&scope.Variable{Name: n.Name, Type: types.NewArray(types.NewScalar(types.Qubit, 0), []uint{size}), IsQubit: true}); err != nil {
		return nil, err
	}

	for i := uint(0); i < reg.Size; i++ {
		v.Depth.SeedQubit(registers.Identity{Register: n.Name, Index: i})
	}

	return []Output{QubitDecl{Name: n.Name, Size: reg.Size}}, nil
}

func (v *Visitor) visitClassicalDeclaration(n *ast.ClassicalDeclaration) ([]Output, error) {
	t, err := eval.TypeFromNode(n.Type)
	if err != nil {
		return nil, err
	}

	if len(n.Type.Dims) > 0 {
		dims := make([]uint, len(n.Type.Dims))
		for i, d := range n.Type.Dims {
			val, _, err := v.Eval.Eval(d)
			if err != nil {
				return nil, err
			}
			dims[i] = uint(val.AsInt().Int64())
		}
		t = types.NewArray(t, dims)
	}

	varVal := &types.Value{Type: t}

	var produced []Output

	if t.IsRegisterCapable() && t.Kind == types.Bit {
		if _, err := v.Registers.DeclareClbitRegister(n.Name, t.Width); err == nil {
			for i := uint(0); i < t.Width; i++ {
				v.Depth.SeedClbit(registers.Identity{Register: n.Name, Index: i})
			}

			produced = append(produced, ClbitDecl{Name: n.Name, Size: t.Width})
		}
	}

	switch {
	case n.Init != nil:
		val, _, err := v.Eval.Eval(n.Init)
		if err != nil {
			return nil, err
		}

		coerced, err := types.Cast(val, t)
		if err != nil {
			return nil, err
		}

		*varVal = coerced
	case n.Measurement != nil:
		qubits, err := v.resolveQubitArg(n.Measurement.Source)
		if err != nil {
			return nil, err
		}

		for i, q := range qubits {
			clbit := registers.Identity{Register: n.Name, Index: uint(i)}
			produced = append(produced, Measure{Qubit: q, Clbit: clbit, Keep: true})
			v.Depth.Measurement(q, clbit)
		}
	}

	if err := v.Scope.DeclareVariable(&scope.Variable{Name: n.Name, Type: t, Value: varVal}); err != nil {
		return nil, err
	}

	return produced, nil
}

func (v *Visitor) visitConstantDeclaration(n *ast.ConstantDeclaration) ([]Output, error) {
	t, err := eval.TypeFromNode(n.Type)
	if err != nil {
		return nil, err
	}

	val, folded, err := v.Eval.Eval(n.Init)
	if err != nil {
		return nil, err
	}

	if !folded {
		return nil, diag.New(diag.Unsupported, ast.Span{}, "initializer for constant %q does not fold to a literal", n.Name)
	}

	coerced, err := types.Cast(val, t)
	if err != nil {
		return nil, err
	}

	return nil, v.Scope.DeclareVariable(&scope.Variable{Name: n.Name, Type: t, Value: &coerced, IsConstant: true, ReadOnly: true})
}

func (v *Visitor) visitClassicalAssignment(n *ast.ClassicalAssignment) error {
	ident, ok := n.Target.(*ast.Identifier)
	if !ok {
		return diag.New(diag.Unsupported, ast.Span{}, "indexed classical assignment targets are not yet supported")
	}

	existing := v.Scope.GetFromVisibleScope(ident.Name)
	if existing == nil {
		return diag.New(diag.Undefined, ast.Span{}, "assignment to undeclared variable %q", ident.Name)
	}

	if existing.ReadOnly {
		return diag.New(diag.Type, ast.Span{}, "cannot assign to constant %q", ident.Name)
	}

	rhs, _, err := v.Eval.Eval(n.Value)
	if err != nil {
		return err
	}

	if n.Op != "" && n.Op != "=" {
		op := n.Op[:len(n.Op)-1]
		combined, err := types.BinaryOp(op, *existing.Value, rhs)
		if err != nil {
			return err
		}
		rhs = combined
	}

	coerced, err := types.Cast(rhs, existing.Type)
	if err != nil {
		return err
	}

	existing.Value = &coerced

	return v.Scope.UpdateVariable(existing)
}

func (v *Visitor) visitAliasStatement(n *ast.AliasStatement) error {
	ids, err := v.resolveQubitArg(n.Value)
	if err != nil {
		return err
	}

	if err := v.Registers.DeclareAlias(n.Name, ids); err != nil {
		return err
	}

	return v.Scope.DeclareAliasName(n.Name)
}

func (v *Visitor) visitGateDefinition(n *ast.QuantumGateDefinition) error {
	v.gates[n.Name] = n
	return v.Scope.DeclareGate(n.Name)
}

func (v *Visitor) visitReset(n *ast.QuantumReset) ([]Output, error) {
	ids, err := v.resolveQubitArg(n.Target)
	if err != nil {
		return nil, err
	}

	out := make([]Output, len(ids))
	for i, id := range ids {
		out[i] = Reset{Qubit: id}
		v.Depth.Reset(id)
	}

	return out, nil
}

func (v *Visitor) visitBarrier(n *ast.QuantumBarrier) ([]Output, error) {
	var ids []registers.Identity

	if len(n.Targets) == 0 {
		for name, reg := range v.Registers.QubitRegisters() {
			for i := uint(0); i < reg.Size; i++ {
				ids = append(ids, registers.Identity{Register: name, Index: i})
			}
		}
	} else {
		for _, t := range n.Targets {
			got, err := v.resolveQubitArg(t)
			if err != nil {
				return nil, err
			}
			ids = append(ids, got...)
		}
	}

	v.Depth.Barrier(ids)

	if !v.UnrollBarriers {
		return nil, nil
	}

	return []Output{Barrier{Qubits: ids}}, nil
}

func (v *Visitor) visitMeasurementStatement(n *ast.QuantumMeasurementStatement) ([]Output, error) {
	qubits, err := v.resolveQubitArg(n.Measurement.Source)
	if err != nil {
		return nil, err
	}

	var clbits []registers.Identity
	keep := n.Target != nil

	if keep {
		clbits, err = v.resolveQubitArg(n.Target)
		if err != nil {
			return nil, err
		}
	}

	out := make([]Output, len(qubits))

	for i, q := range qubits {
		var c registers.Identity
		if keep && i < len(clbits) {
			c = clbits[i]
			v.Depth.Measurement(q, c)
		} else {
			v.Depth.Measurement(q, q)
		}

		out[i] = Measure{Qubit: q, Clbit: c, Keep: keep}
	}

	return out, nil
}

func (v *Visitor) visitDelay(n *ast.DelayInstruction) ([]Output, error) {
	val, _, err := v.Eval.Eval(n.Duration)
	if err != nil {
		return nil, err
	}

	var ids []registers.Identity
	for _, t := range n.Targets {
		got, err := v.resolveQubitArg(t)
		if err != nil {
			return nil, err
		}
		ids = append(ids, got...)
	}

	return []Output{Delay{NanosecondsOrTicks: val.Duration, Unit: val.DurationUnit, Qubits: ids}}, nil
}

// visitBox flattens a box's body, then collapses whatever moments its
// statements individually advanced into the single scheduling unit a box
// represents: every wire the body touches lands one moment past where it
// stood on entry, bracketed by BranchBegin/BranchEnd.
func (v *Visitor) visitBox(n *ast.Box) ([]Output, error) {
	v.Scope.PushScope(scope.Box)
	defer v.Scope.PopScope()

	v.Depth.BranchBegin()

	body, err := v.visitBlock(n.Body)
	if err != nil {
		return nil, err
	}

	qubits, clbits := touchedWires(body)
	v.Depth.BranchEnd(qubits, clbits)

	return body, nil
}

// resolveQubitArg resolves one gate/measurement/reset/barrier operand into
// its flat identity list: a whole register, a single index, a slice, a
// comma-separated index set, an alias, or a physical `$n` reference.
func (v *Visitor) resolveQubitArg(expr ast.Expr) ([]registers.Identity, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		if v.gateQubitBinding != nil {
			if id, ok := v.gateQubitBinding[n.Name]; ok {
				return []registers.Identity{id}, nil
			}
		}

		if len(n.Name) > 1 && n.Name[0] == '$' {
			idx, err := parsePhysicalIndex(n.Name)
			if err != nil {
				return nil, err
			}
			return []registers.Identity{v.Registers.PhysicalQubit(idx)}, nil
		}

		if ids, ok := v.Registers.LookupAlias(n.Name); ok {
			return ids, nil
		}

		if ids, err := v.Registers.Whole(n.Name); err == nil {
			return ids, nil
		}

		return nil, diag.New(diag.Undefined, ast.Span{}, "%q is not a known qubit/clbit register or alias", n.Name)

	case *ast.IndexedIdentifier:
		var out []registers.Identity

		for _, ix := range n.Indices {
			if ix.Range != nil {
				start, end, step, err := v.evalRange(ix.Range)
				if err != nil {
					return nil, err
				}

				ids, err := v.Registers.Slice(n.Name, start, end, step)
				if err != nil {
					return nil, err
				}

				out = append(out, ids...)

				continue
			}

			val, _, err := v.Eval.Eval(ix.Index)
			if err != nil {
				return nil, err
			}

			id, err := v.Registers.Index(n.Name, uint(val.AsInt().Int64()))
			if err != nil {
				return nil, err
			}

			out = append(out, id)
		}

		return out, nil

	case *ast.ArrayLiteral:
		var out []registers.Identity

		for _, elem := range n.Elements {
			got, err := v.resolveQubitArg(elem)
			if err != nil {
				return nil, err
			}

			out = append(out, got...)
		}

		return out, nil

	default:
		return nil, diag.New(diag.Unsupported, ast.Span{}, "unsupported qubit operand expression %T", expr)
	}
}

func (v *Visitor) evalRange(r *ast.RangeExpr) (int, int, int, error) {
	start, end, step := 0, -1, 1

	if r.Start != nil {
		val, _, err := v.Eval.Eval(r.Start)
		if err != nil {
			return 0, 0, 0, err
		}
		start = int(val.AsInt().Int64())
	}

	if r.End != nil {
		val, _, err := v.Eval.Eval(r.End)
		if err != nil {
			return 0, 0, 0, err
		}
		end = int(val.AsInt().Int64())
	}

	if r.Step != nil {
		val, _, err := v.Eval.Eval(r.Step)
		if err != nil {
			return 0, 0, 0, err
		}
		step = int(val.AsInt().Int64())
	}

	if err := analyze.ValidateStep(start, end, step); err != nil {
		return 0, 0, 0, err
	}

	return start, end, step, nil
}

func parsePhysicalIndex(name string) (uint, error) {
	n := new(big.Int)
	if _, ok := n.SetString(name[1:], 10); !ok {
		return 0, diag.New(diag.Syntax, ast.Span{}, "malformed physical qubit reference %q", name)
	}

	return uint(n.Int64()), nil
}

func isConstantTrue(v types.Value) bool {
	switch {
	case v.Type.Kind == types.Bool:
		return v.Bool
	default:
		return v.AsInt().Sign() != 0 || v.AsFloat() != 0
	}
}
