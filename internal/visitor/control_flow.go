package visitor

import (
	"math/big"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/eval"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/scope"
	"github.com/qbraid/qasm3/internal/types"
)

// visitBranching implements the same split pyqasm's _visit_branching_statement
// makes: a condition that mentions a classical register is kept as a
// runtime Conditional (normalized by branchClauses to an OR of AND-chains
// of single-bit equality tests), with both arms recursively flattened;
// a condition that does not mention a classical register constant-folds,
// and only the taken branch is visited at all. A runtime Conditional's two
// arms are visited for their gate/measurement tallies, but the Depth
// Tracker treats the whole if/else as a single moment on every wire either
// arm touches, bracketed by BranchBegin/BranchEnd: only one arm runs at
// execution time, so depth should not accumulate as though both ran in
// sequence.
func (v *Visitor) visitBranching(n *ast.BranchingStatement) ([]Output, error) {
	if v.referencesClassicalRegister(n.Condition) {
		clauses, err := v.branchClauses(n.Condition)
		if err != nil {
			return nil, err
		}

		v.Depth.BranchBegin()

		then, err := v.visitConditionalBody(n.Then)
		if err != nil {
			return nil, err
		}

		els, err := v.visitConditionalBody(n.Else)
		if err != nil {
			return nil, err
		}

		cond := Conditional{Clauses: clauses, Then: then, Else: els}

		qubits, clbits := touchedWires([]Output{cond})
		v.Depth.BranchEnd(qubits, clbits)

		return []Output{cond}, nil
	}

	val, _, err := v.Eval.Eval(n.Condition)
	if err != nil {
		return nil, err
	}

	if isConstantTrue(val) {
		return v.visitConditionalBody(n.Then)
	}

	return v.visitConditionalBody(n.Else)
}

func (v *Visitor) visitConditionalBody(stmts []ast.Statement) ([]Output, error) {
	v.Scope.PushScope(scope.Block)
	defer v.Scope.PopScope()

	return v.visitBlock(stmts)
}

// branchClauses normalizes a branch condition that references a classical
// register into the disjunctive-normal-form clause set
// analyze.ExpandComparison produces, covering every surface form the
// language allows: a bare boolean test (`if (c[0])`), its negation
// (`if (!c[0])`), and an explicit comparison (`if (c == 5)`, `!=`, `<`,
// `<=`, `>`, `>=`). The ordering/inequality operators need a
// magnitude-comparison algorithm, reduced here to the OR of AND-chains
// analyze.ExpandComparison builds rather than the single AND-chain a
// plain == needs.
func (v *Visitor) branchClauses(cond ast.Expr) ([][]analyze.BranchBit, error) {
	switch n := cond.(type) {
	case *ast.BinaryExpr:
		regSide, constSide := n.Left, n.Right
		flip := false
		if v.referencesClassicalRegister(n.Right) {
			regSide, constSide = n.Right, n.Left
			flip = true
		}

		ids, err := v.resolveQubitArg(regSide)
		if err != nil {
			return nil, err
		}

		val, _, err := v.Eval.Eval(constSide)
		if err != nil {
			return nil, err
		}

		op := n.Op
		if flip {
			op = flipComparisonOperator(op)
		}

		return analyze.ExpandComparison(op, val.AsInt(), ids)

	case *ast.UnaryExpr:
		if n.Op != "!" {
			return nil, diag.New(diag.Unsupported, ast.Span{}, "branch condition operator %q on a classical register is not supported", n.Op)
		}

		ids, err := v.resolveQubitArg(n.Operand)
		if err != nil {
			return nil, err
		}

		bits := make([]analyze.BranchBit, len(ids))
		for i, id := range ids {
			bits[i] = analyze.BranchBit{Clbit: id, Expected: false}
		}

		return [][]analyze.BranchBit{bits}, nil

	default:
		ids, err := v.resolveQubitArg(cond)
		if err != nil {
			return nil, err
		}

		bits := make([]analyze.BranchBit, len(ids))
		for i, id := range ids {
			bits[i] = analyze.BranchBit{Clbit: id, Expected: true}
		}

		return [][]analyze.BranchBit{bits}, nil
	}
}

// flipComparisonOperator mirrors a comparison operator for the case where
// the classical register appears on the right of a binary condition
// (`5 == c`, `5 < c`, ...): ExpandComparison always treats its left-hand
// side as the register being compared against a constant.
func flipComparisonOperator(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return op // == and != are symmetric
	}
}

// referencesClassicalRegister reports whether expr mentions any declared
// classical register, the same test pyqasm's visitor runs to decide
// between a compile-time constant fold and a kept runtime conditional.
func (v *Visitor) referencesClassicalRegister(expr ast.Expr) bool {
	switch n := expr.(type) {
	case *ast.Identifier:
		_, ok := v.Registers.ClbitRegister(n.Name)
		return ok
	case *ast.IndexedIdentifier:
		_, ok := v.Registers.ClbitRegister(n.Name)
		return ok
	case *ast.BinaryExpr:
		return v.referencesClassicalRegister(n.Left) || v.referencesClassicalRegister(n.Right)
	case *ast.UnaryExpr:
		return v.referencesClassicalRegister(n.Operand)
	case *ast.Cast:
		return v.referencesClassicalRegister(n.Target)
	case *ast.FunctionCall:
		for _, a := range n.Args {
			if v.referencesClassicalRegister(a) {
				return true
			}
		}
		return false
	case *ast.ArrayLiteral:
		for _, e := range n.Elements {
			if v.referencesClassicalRegister(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// visitSwitch supports the compile-time-constant selector case: the
// selector must fold to a literal, exactly the scope pyqasm's own
// unroller covers (a runtime switch over a classical register has no
// finite flattened form without the same kind of conditional-chain
// machinery branching uses, and is a documented scope limit).
func (v *Visitor) visitSwitch(n *ast.SwitchStatement) ([]Output, error) {
	sel, folded, err := v.Eval.Eval(n.Selector)
	if err != nil {
		return nil, err
	}

	if !folded {
		return nil, diag.New(diag.Unsupported, ast.Span{}, "switch selector does not fold to a compile-time constant; runtime switch is a documented scope limit, see DESIGN.md")
	}

	for _, c := range n.Cases {
		for _, caseExpr := range c.Values {
			cv, _, err := v.Eval.Eval(caseExpr)
			if err != nil {
				return nil, err
			}

			if cv.AsInt().Cmp(sel.AsInt()) == 0 {
				return v.visitConditionalBody(c.Body)
			}
		}
	}

	return v.visitConditionalBody(n.Default)
}

// visitForLoop unrolls a for-loop over a range, array, or set literal,
// binding a fresh read-only loop variable each iteration in its own Block
// scope so declarations inside the body never collide across iterations.
func (v *Visitor) visitForLoop(n *ast.ForLoop) ([]Output, error) {
	t, err := eval.TypeFromNode(n.VarType)
	if err != nil {
		return nil, err
	}

	values, err := v.forLoopValues(n.Iterable, t)
	if err != nil {
		return nil, err
	}

	var out []Output

	for _, val := range values {
		v.Scope.PushScope(scope.Block)

		if err := v.Scope.DeclareVariable(&scope.Variable{Name: n.VarName, Type: t, Value: &val, ReadOnly: true}); err != nil {
			v.Scope.PopScope()
			return nil, err
		}

		produced, err := v.visitBlock(n.Body)
		v.Scope.PopScope()

		if err != nil {
			return nil, err
		}

		out = append(out, produced...)

		if v.breaking {
			v.breaking = false
			break
		}

		v.continuing = false

		if v.returning {
			break
		}
	}

	return out, nil
}

func (v *Visitor) forLoopValues(iterable ast.Expr, elemType types.Type) ([]types.Value, error) {
	if r, ok := iterable.(*ast.RangeExpr); ok {
		start, end, step, err := v.evalRange(r)
		if err != nil {
			return nil, err
		}

		var out []types.Value

		if step > 0 {
			for i := start; i <= end; i += step {
				out = append(out, types.NewInt(elemType.Kind, elemType.Width, big.NewInt(int64(i))))
			}
		} else if step < 0 {
			for i := start; i >= end; i += step {
				out = append(out, types.NewInt(elemType.Kind, elemType.Width, big.NewInt(int64(i))))
			}
		} else {
			return nil, diag.New(diag.Range, ast.Span{}, "for-loop range step must be non-zero")
		}

		return out, nil
	}

	val, folded, err := v.Eval.Eval(iterable)
	if err != nil {
		return nil, err
	}

	if !folded || !val.Type.IsArray() {
		return nil, diag.New(diag.Unsupported, ast.Span{}, "for-loop iterable must be a range or a compile-time-constant array/set")
	}

	return val.Array, nil
}

// visitWhileLoop unrolls a while-loop by repeatedly re-evaluating Condition,
// capped at maxLoopIterations since, unlike pyqasm's interpreter (which
// simply runs forever on a non-terminating loop), a compile-time
// flattening pass must bound its own work.
func (v *Visitor) visitWhileLoop(n *ast.WhileLoop) ([]Output, error) {
	var out []Output

	iterCap := v.MaxLoopIterations
	if iterCap <= 0 {
		iterCap = maxLoopIterations
	}

	for i := 0; i < iterCap; i++ {
		cond, _, err := v.Eval.Eval(n.Condition)
		if err != nil {
			return nil, err
		}

		if !isConstantTrue(cond) {
			break
		}

		v.Scope.PushScope(scope.Block)
		produced, err := v.visitBlock(n.Body)
		v.Scope.PopScope()

		if err != nil {
			return nil, err
		}

		out = append(out, produced...)

		if v.breaking {
			v.breaking = false
			break
		}

		v.continuing = false

		if v.returning {
			break
		}

		if i == iterCap-1 {
			return nil, diag.New(diag.Unsupported, ast.Span{}, "while-loop did not terminate within %d iterations", iterCap)
		}
	}

	return out, nil
}

func (v *Visitor) visitSubroutineDefinition(n *ast.SubroutineDefinition) error {
	v.subroutines[n.Name] = n
	return v.Scope.DeclareSubroutine(n.Name)
}

func (v *Visitor) visitReturn(n *ast.ReturnStatement) error {
	v.returning = true
	v.hasReturn = n.Value != nil

	if n.Value != nil {
		val, _, err := v.Eval.Eval(n.Value)
		if err != nil {
			return err
		}

		v.returnValue = val
	}

	return nil
}

// callSubroutineInExpr is wired into eval.Evaluator.CallSubroutine so a
// subroutine invoked in expression position can participate in constant
// folding: it folds only when every argument folds and the body's control
// flow resolves to a single `return <constant-foldable expr>;` with no
// quantum side effects, otherwise it is reported as non-foldable and the
// caller (a ConstantDeclaration initializer or a folded-array bound, say)
// must surface that as an error itself.
func (v *Visitor) callSubroutineInExpr(name string, args []types.Value) (types.Value, bool, error) {
	def, ok := v.subroutines[name]
	if !ok {
		return types.Value{}, false, diag.New(diag.Undefined, ast.Span{}, "call to undefined subroutine %q", name)
	}

	if len(args) != len(def.Params) {
		return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "subroutine %q expects %d arguments, got %d", name, len(def.Params), len(args))
	}

	v.Scope.PushScope(scope.Function)
	defer v.Scope.PopScope()

	for i, p := range def.Params {
		if p.IsQubit || p.IsRegister {
			return types.Value{}, false, diag.New(diag.Unsupported, ast.Span{}, "subroutine %q takes a qubit/register parameter and cannot be called in expression position", name)
		}

		pt, err := eval.TypeFromNode(p.Type)
		if err != nil {
			return types.Value{}, false, err
		}

		argVal := args[i]

		if err := v.Scope.DeclareVariable(&scope.Variable{Name: p.Name, Type: pt, Value: &argVal}); err != nil {
			return types.Value{}, false, err
		}
	}

	savedReturning, savedHasReturn, savedReturnValue := v.returning, v.hasReturn, v.returnValue
	v.returning, v.hasReturn, v.returnValue = false, false, types.Value{}

	produced, err := v.visitBlock(def.Body)

	result, hasReturn := v.returnValue, v.hasReturn
	v.returning, v.hasReturn, v.returnValue = savedReturning, savedHasReturn, savedReturnValue

	if err != nil {
		return types.Value{}, false, err
	}

	if len(produced) > 0 {
		return types.Value{}, false, diag.New(diag.Unsupported, ast.Span{}, "subroutine %q has quantum side effects and cannot be called in expression position", name)
	}

	if !hasReturn {
		return types.Value{}, false, diag.New(diag.Unsupported, ast.Span{}, "subroutine %q does not return a value", name)
	}

	return result, true, nil
}

// visitCustomGateCall inlines a user-defined gate body, substituting its
// formal classical parameters and qubit arguments for the call's actual
// operands in a fresh Gate scope, the same substitution pyqasm's
// visit_custom_gate_op performs.
func (v *Visitor) visitCustomGateCall(n *ast.QuantumGate) ([]Output, error) {
	def, ok := v.gates[n.Name]
	if !ok {
		return nil, diag.New(diag.Undefined, ast.Span{}, "call to undefined gate %q", n.Name)
	}

	if len(n.Params) != len(def.Params) {
		return nil, diag.New(diag.Arity, ast.Span{}, "gate %q expects %d parameters, got %d", n.Name, len(def.Params), len(n.Params))
	}

	if len(n.Qubits) != len(def.QubitArgs) {
		return nil, diag.New(diag.Arity, ast.Span{}, "gate %q expects %d qubit arguments, got %d", n.Name, len(def.QubitArgs), len(n.Qubits))
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

	paramVals := make([]types.Value, len(n.Params))
	for i, p := range n.Params {
		val, _, err := v.Eval.Eval(p)
		if err != nil {
			return nil, err
		}
		paramVals[i] = val
	}

	var out []Output

	for _, row := range rows {
		v.Scope.PushScope(scope.Gate)

		for i, pname := range def.Params {
			pv := paramVals[i]
			if err := v.Scope.DeclareVariable(&scope.Variable{Name: pname, Type: pv.Type, Value: &pv, ReadOnly: true}); err != nil {
				v.Scope.PopScope()
				return nil, err
			}
		}

		produced, err := v.visitGateBody(def.Body, def.QubitArgs, row)

		v.Scope.PopScope()

		if err != nil {
			return nil, err
		}

		out = append(out, produced...)
	}

	return out, nil
}

// visitGateBody visits a gate definition's body with its formal qubit
// names rebound to the call's actual Identity list via a dedicated alias
// table, since a gate body refers to its qubit arguments by the formal
// name while resolveQubitArg only understands declared registers, physical
// refs, and globally registered aliases.
func (v *Visitor) visitGateBody(body []ast.Statement, formals []string, actuals []registers.Identity) ([]Output, error) {
	bind := make(map[string]registers.Identity, len(formals))
	for i, f := range formals {
		bind[f] = actuals[i]
	}

	prev := v.gateQubitBinding
	v.gateQubitBinding = bind
	defer func() { v.gateQubitBinding = prev }()

	return v.visitBlock(body)
}
