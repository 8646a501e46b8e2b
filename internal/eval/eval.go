// Package eval implements the Expression Evaluator: a recursive walk
// over ast.Expr that resolves identifiers against a
// scope.Manager, dispatches operators through internal/types, and performs
// constant folding where every operand is itself constant. It is grounded
// on the teacher's pkg/corset/expression.go evaluator and on pyqasm's
// expressions.py/maps/expressions.py.
package eval

import (
	"math"
	"math/big"
	"strings"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/scope"
	"github.com/qbraid/qasm3/internal/types"
)

// Constants is the built-in identifier table mirroring pyqasm's
// CONSTANTS_MAP: both the Unicode and ASCII spellings resolve to the same
// float64, matched case-insensitively for the ASCII spellings.
var Constants = map[string]float64{
	"π":     math.Pi,
	"pi":    math.Pi,
	"ℇ":     math.E,
	"euler": math.E,
	"τ":     2 * math.Pi,
	"tau":   2 * math.Pi,
}

func lookupConstant(name string) (float64, bool) {
	if v, ok := Constants[name]; ok {
		return v, true
	}

	v, ok := Constants[strings.ToLower(name)]

	return v, ok
}

// builtins is the set of single-argument math functions always available
// in a constant expression.
var builtins = map[string]func(float64) float64{
	"sin":    math.Sin,
	"cos":    math.Cos,
	"tan":    math.Tan,
	"arcsin": math.Asin,
	"arccos": math.Acos,
	"arctan": math.Atan,
	"exp":    math.Exp,
	"ln":     math.Log,
	"sqrt":   math.Sqrt,
	"abs":    math.Abs,
}

// VarLookup resolves an identifier to a value, wrapping scope.Manager so
// the Evaluator doesn't depend on the Visitor.
type VarLookup interface {
	GetFromVisibleScope(name string) *scope.Variable
}

// RegisterLookup resolves qubit/clbit sizes for `sizeof`.
type RegisterLookup interface {
	QubitRegister(name string) (*registers.Register, bool)
	ClbitRegister(name string) (*registers.Register, bool)
}

// Evaluator walks an ast.Expr and produces a types.Value.
type Evaluator struct {
	Scope     VarLookup
	Registers RegisterLookup
	// CallSubroutine evaluates a user-defined function call; nil if
	// subroutine calls are not permitted in the current context.
	CallSubroutine func(name string, args []types.Value) (types.Value, bool, error)
}

// NewEvaluator constructs an Evaluator bound to the given scope and
// register model.
func NewEvaluator(s VarLookup, r RegisterLookup) *Evaluator {
	return &Evaluator{Scope: s, Registers: r}
}

// Eval evaluates expr, returning its value and whether the result is a
// compile-time constant (every operand resolved to a constant value).
func (e *Evaluator) Eval(expr ast.Expr) (types.Value, bool, error) {
	switch n := expr.(type) {
	case *ast.IntLiteral:
		return types.NewInt(types.Int, 0, n.Value), true, nil
	case *ast.FloatLiteral:
		return types.NewFloat(0, n.Value), true, nil
	case *ast.BoolLiteral:
		return types.NewBool(n.Value), true, nil
	case *ast.BitstringLiteral:
		return e.evalBitstring(n)
	case *ast.ImaginaryLiteral:
		return types.Value{Type: types.NewComplex(0), Complex: complex(0, n.Value)}, true, nil
	case *ast.DurationLiteral:
		ns, ok := types.NormalizeDurationToNanoseconds(n.Value, n.Unit)
		if !ok {
			// symbolic dt duration: carried as-is (DESIGN.md open-question decision)
			return types.Value{Type: types.NewScalar(types.Duration, 0), Duration: n.Value, DurationUnit: n.Unit}, true, nil
		}

		return types.Value{Type: types.NewScalar(types.Duration, 0), Duration: ns, DurationUnit: "ns"}, true, nil
	case *ast.Identifier:
		return e.evalIdentifier(n)
	case *ast.IndexedIdentifier:
		return e.evalIndexedIdentifier(n)
	case *ast.BinaryExpr:
		return e.evalBinary(n)
	case *ast.UnaryExpr:
		return e.evalUnary(n)
	case *ast.Cast:
		return e.evalCast(n)
	case *ast.FunctionCall:
		return e.evalFunctionCall(n)
	case *ast.ArrayLiteral:
		return e.evalArray(n)
	default:
		return types.Value{}, false, diag.New(diag.Unsupported, ast.Span{}, "unsupported expression node %T", expr)
	}
}

func (e *Evaluator) evalBitstring(n *ast.BitstringLiteral) (types.Value, bool, error) {
	bits, err := analyze.BitsFromString(n.Bits)
	if err != nil {
		return types.Value{}, false, err
	}

	v := new(big.Int)
	for _, b := range bits {
		v.Lsh(v, 1)

		if b {
			v.Or(v, big.NewInt(1))
		}
	}

	return types.NewInt(types.Bit, uint(len(bits)), v), true, nil
}

func (e *Evaluator) evalIdentifier(n *ast.Identifier) (types.Value, bool, error) {
	if f, ok := lookupConstant(n.Name); ok {
		return types.NewFloat(0, f), true, nil
	}

	v := e.Scope.GetFromVisibleScope(n.Name)
	if v == nil {
		return types.Value{}, false, diag.New(diag.Undefined, ast.Span{}, "undeclared identifier %q", n.Name)
	}

	if v.Value == nil {
		return types.Value{}, false, diag.New(diag.Undefined, ast.Span{}, "variable %q used before initialization", n.Name)
	}

	return *v.Value, v.IsConstant, nil
}

func (e *Evaluator) evalIndexedIdentifier(n *ast.IndexedIdentifier) (types.Value, bool, error) {
	base, constBase, err := e.evalIdentifier(&ast.Identifier{Name: n.Name})
	if err != nil {
		return types.Value{}, false, err
	}

	if base.Type.Kind != types.Array {
		return types.Value{}, false, diag.New(diag.Type, ast.Span{}, "cannot index non-array value %q", n.Name)
	}

	if len(n.Indices) != 1 || n.Indices[0].Range != nil {
		return types.Value{}, false, diag.New(diag.Unsupported, ast.Span{}, "multi-dimensional and range indexing not supported in constant expressions")
	}

	idxVal, constIdx, err := e.Eval(n.Indices[0].Index)
	if err != nil {
		return types.Value{}, false, err
	}

	idx := idxVal.AsInt().Int64()
	if err := analyze.ValidateIndex(n.Name, int(idx), uint(len(base.Array)), 0); err != nil {
		return types.Value{}, false, err
	}

	return base.Array[idx], constBase && constIdx, nil
}

func (e *Evaluator) evalBinary(n *ast.BinaryExpr) (types.Value, bool, error) {
	lv, lc, err := e.Eval(n.Left)
	if err != nil {
		return types.Value{}, false, err
	}

	rv, rc, err := e.Eval(n.Right)
	if err != nil {
		return types.Value{}, false, err
	}

	r, err := types.BinaryOp(n.Op, lv, rv)
	if err != nil {
		return types.Value{}, false, err
	}

	return r, lc && rc, nil
}

func (e *Evaluator) evalUnary(n *ast.UnaryExpr) (types.Value, bool, error) {
	v, c, err := e.Eval(n.Operand)
	if err != nil {
		return types.Value{}, false, err
	}

	r, err := types.UnaryOp(n.Op, v)
	if err != nil {
		return types.Value{}, false, err
	}

	return r, c, nil
}

func (e *Evaluator) evalCast(n *ast.Cast) (types.Value, bool, error) {
	v, c, err := e.Eval(n.Target)
	if err != nil {
		return types.Value{}, false, err
	}

	t, err := typeFromNode(n.Type)
	if err != nil {
		return types.Value{}, false, err
	}

	r, err := types.Cast(v, t)
	if err != nil {
		return types.Value{}, false, err
	}

	return r, c, nil
}

func (e *Evaluator) evalArray(n *ast.ArrayLiteral) (types.Value, bool, error) {
	elems := make([]types.Value, len(n.Elements))
	allConst := true

	var elemType types.Type

	for i, el := range n.Elements {
		v, c, err := e.Eval(el)
		if err != nil {
			return types.Value{}, false, err
		}

		elems[i] = v
		allConst = allConst && c
		elemType = v.Type
	}

	return types.Value{Type: types.NewArray(elemType, []uint{uint(len(elems))}), Array: elems}, allConst, nil
}

// evalFunctionCall dispatches built-in math functions, `sizeof`, and
// (via CallSubroutine) user-defined subroutines used in expression
// position.
func (e *Evaluator) evalFunctionCall(n *ast.FunctionCall) (types.Value, bool, error) {
	if n.Name == "sizeof" {
		return e.evalSizeof(n)
	}

	if fn, ok := builtins[n.Name]; ok && fn != nil {
		if len(n.Args) != 1 {
			return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "%s expects exactly one argument", n.Name)
		}

		v, c, err := e.Eval(n.Args[0])
		if err != nil {
			return types.Value{}, false, err
		}

		return types.Value{Type: types.NewScalar(types.Float, 0), Float: fn(v.AsFloat())}, c, nil
	}

	switch n.Name {
	case "mod":
		return e.evalMod(n)
	case "popcount":
		return e.evalPopcount(n)
	case "pow":
		return e.evalPow(n)
	case "rotl", "rotr":
		return e.evalRotate(n)
	}

	if e.CallSubroutine == nil {
		return types.Value{}, false, diag.New(diag.Undefined, ast.Span{}, "unsupported function %q", n.Name)
	}

	args := make([]types.Value, len(n.Args))
	allConst := true

	for i, a := range n.Args {
		v, c, err := e.Eval(a)
		if err != nil {
			return types.Value{}, false, err
		}

		args[i] = v
		allConst = allConst && c
	}
	// A subroutine call only constant-folds when every argument is
	// itself constant; otherwise it is still evaluable (it unrolls via
	// inlining elsewhere) but never folds here.
	r, folded, err := e.CallSubroutine(n.Name, args)
	if err != nil {
		return types.Value{}, false, err
	}

	return r, folded && allConst, nil
}

func (e *Evaluator) evalMod(n *ast.FunctionCall) (types.Value, bool, error) {
	if len(n.Args) != 2 {
		return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "mod expects exactly two arguments")
	}

	a, ca, err := e.Eval(n.Args[0])
	if err != nil {
		return types.Value{}, false, err
	}

	b, cb, err := e.Eval(n.Args[1])
	if err != nil {
		return types.Value{}, false, err
	}

	r, err := types.BinaryOp("%", a, b)
	if err != nil {
		return types.Value{}, false, err
	}

	return r, ca && cb, nil
}

func (e *Evaluator) evalPopcount(n *ast.FunctionCall) (types.Value, bool, error) {
	if len(n.Args) != 1 {
		return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "popcount expects exactly one argument")
	}

	v, c, err := e.Eval(n.Args[0])
	if err != nil {
		return types.Value{}, false, err
	}

	count := 0
	x := new(big.Int).Set(v.AsInt())

	if x.Sign() < 0 {
		return types.Value{}, false, diag.New(diag.Type, ast.Span{}, "popcount requires a non-negative operand")
	}

	for x.Sign() != 0 {
		if x.Bit(0) == 1 {
			count++
		}

		x.Rsh(x, 1)
	}

	return types.NewInt(types.Int, 32, big.NewInt(int64(count))), c, nil
}

func (e *Evaluator) evalPow(n *ast.FunctionCall) (types.Value, bool, error) {
	if len(n.Args) != 2 {
		return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "pow expects exactly two arguments")
	}

	a, ca, err := e.Eval(n.Args[0])
	if err != nil {
		return types.Value{}, false, err
	}

	b, cb, err := e.Eval(n.Args[1])
	if err != nil {
		return types.Value{}, false, err
	}

	r, err := types.BinaryOp("**", a, b)
	if err != nil {
		return types.Value{}, false, err
	}

	return r, ca && cb, nil
}

func (e *Evaluator) evalRotate(n *ast.FunctionCall) (types.Value, bool, error) {
	if len(n.Args) != 2 {
		return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "%s expects exactly two arguments", n.Name)
	}

	a, ca, err := e.Eval(n.Args[0])
	if err != nil {
		return types.Value{}, false, err
	}

	b, cb, err := e.Eval(n.Args[1])
	if err != nil {
		return types.Value{}, false, err
	}

	width := a.Type.Width
	if width == 0 {
		return types.Value{}, false, diag.New(diag.Type, ast.Span{}, "%s requires a sized integer operand", n.Name)
	}

	shift := uint(((b.AsInt().Int64() % int64(width)) + int64(width)) % int64(width))
	if n.Name == "rotr" {
		shift = width - shift
		if shift == width {
			shift = 0
		}
	}

	x := new(big.Int).Set(a.AsInt())
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	x.And(x, mask)

	hi := new(big.Int).Rsh(x, width-shift)
	lo := new(big.Int).Lsh(x, shift)
	lo.And(lo, mask)

	r := new(big.Int).Or(lo, hi)
	r.And(r, mask)

	return types.NewInt(a.Type.Kind, width, r), ca && cb, nil
}

func (e *Evaluator) evalSizeof(n *ast.FunctionCall) (types.Value, bool, error) {
	if len(n.Args) == 0 {
		return types.Value{}, false, diag.New(diag.Arity, ast.Span{}, "sizeof expects at least one argument")
	}

	ident, ok := n.Args[0].(*ast.Identifier)
	if !ok {
		return types.Value{}, false, diag.New(diag.Type, ast.Span{}, "sizeof requires an identifier argument")
	}

	if r, ok := e.Registers.QubitRegister(ident.Name); ok {
		return types.NewInt(types.Int, 32, big.NewInt(int64(r.Size))), true, nil
	}

	if r, ok := e.Registers.ClbitRegister(ident.Name); ok {
		return types.NewInt(types.Int, 32, big.NewInt(int64(r.Size))), true, nil
	}

	v := e.Scope.GetFromVisibleScope(ident.Name)
	if v == nil || v.Value == nil || v.Value.Type.Kind != types.Array {
		return types.Value{}, false, diag.New(diag.Type, ast.Span{}, "sizeof requires a register or array argument")
	}

	return types.NewInt(types.Int, 32, big.NewInt(int64(len(v.Value.Array)))), true, nil
}

// TypeFromNode is the exported form of typeFromNode, reused by the Core
// Visitor to resolve a declaration's surface TypeNode without duplicating
// the Kind-string mapping.
func TypeFromNode(t ast.TypeNode) (types.Type, error) {
	return typeFromNode(t)
}

// typeFromNode resolves an ast.TypeNode's Kind string into a types.Kind;
// widths must already have been constant-folded by the caller since a
// TypeNode's Width is itself an ast.Expr.
func typeFromNode(t ast.TypeNode) (types.Type, error) {
	var kind types.Kind

	switch t.Kind {
	case "bool":
		kind = types.Bool
	case "bit":
		kind = types.Bit
	case "int":
		kind = types.Int
	case "uint":
		kind = types.UInt
	case "float":
		kind = types.Float
	case "angle":
		kind = types.Angle
	case "complex":
		kind = types.Complex
	case "duration", "stretch":
		kind = types.Duration
	default:
		return types.Type{}, diag.New(diag.Type, ast.Span{}, "unsupported cast target type %q", t.Kind)
	}

	width := uint(0)

	if lit, ok := t.Width.(*ast.IntLiteral); ok && lit != nil {
		width = uint(lit.Value.Int64())
	}

	return types.NewScalar(kind, width), nil
}
