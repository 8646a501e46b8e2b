package ast

// Include is a verbatim `include "file.inc";` directive.
type Include struct {
	base
	Path string
}

// QubitDeclaration declares a logical qubit register: `qubit[N] name;` or
// `qubit name;` (equivalent to size 1).
type QubitDeclaration struct {
	base
	Name string
	// Size is nil for a bare scalar declaration.
	Size Expr
}

// ClassicalDeclaration declares a classical variable or register, with an
// optional initializer and/or inline measurement
// (`bit[4] c = measure q;`).
type ClassicalDeclaration struct {
	base
	Name string
	Type TypeNode
	// Init is the initializer expression, or nil.
	Init Expr
	// Measurement is set instead of Init for `TYPE name = measure q;`.
	Measurement *QuantumMeasurement
}

// ConstantDeclaration declares an immutable classical constant; the
// initializer must fold to a literal.
type ConstantDeclaration struct {
	base
	Name string
	Type TypeNode
	Init Expr
}

// ClassicalAssignment assigns to an already-declared classical variable,
// with an optional compound operator (`+=`, `-=`, etc; "" for plain `=`).
type ClassicalAssignment struct {
	base
	Target Expr // Identifier or IndexedIdentifier
	Op     string
	Value  Expr
}

// AliasStatement binds a name to a resolved list of (register,index) pairs:
// `let a = q[0:2];`.
type AliasStatement struct {
	base
	Name  string
	Value Expr
}

// QuantumGateDefinition defines a custom gate: `gate name(p) q { body }`.
type QuantumGateDefinition struct {
	base
	Name       string
	Params     []string
	QubitArgs  []string
	Body       []Statement
}

// Modifier is one prefix modifier (`inv`, `pow(k)`, `ctrl(n)`/`negctrl(n)`)
// applied to a gate call, in textual (outermost-last) order.
type Modifier struct {
	// Kind is "inv", "pow", "ctrl", or "negctrl".
	Kind string
	// Arg is the pow exponent or ctrl arity expression; nil for inv and for
	// a bare ctrl/negctrl (arity 1).
	Arg Expr
}

// QuantumGate is a gate application, possibly modified and possibly
// broadcast over register-shaped operands.
type QuantumGate struct {
	base
	Modifiers []Modifier
	Name      string
	Params    []Expr
	Qubits    []Expr // Identifier or IndexedIdentifier
}

// QuantumReset resets one or more qubits to |0>.
type QuantumReset struct {
	base
	Target Expr
}

// QuantumBarrier is a scheduling barrier over zero or more qubits (all
// qubits when Targets is empty).
type QuantumBarrier struct {
	base
	Targets []Expr
}

// QuantumMeasurement is the `measure q` expression form, used both as a
// statement (with an assignment target) and inline in a declaration.
type QuantumMeasurement struct {
	base
	Source Expr
}

// QuantumMeasurementStatement is `c = measure q;` or bare `measure q;`.
type QuantumMeasurementStatement struct {
	base
	Target      Expr // nil if the result is discarded
	Measurement QuantumMeasurement
}

// BranchingStatement is `if (cond) {..} else {..}`.
type BranchingStatement struct {
	base
	Condition Expr
	Then      []Statement
	Else      []Statement
}

// SwitchCase is one `case v1, v2: { body }` arm.
type SwitchCase struct {
	Values []Expr
	Body   []Statement
}

// SwitchStatement is `switch (e) { case ...: ... default: ... }`.
type SwitchStatement struct {
	base
	Selector Expr
	Cases    []SwitchCase
	Default  []Statement
}

// ForLoop is `for t v in range/set/array { body }`.
type ForLoop struct {
	base
	VarName string
	VarType TypeNode
	// Iterable is either a RangeExpr or an array/set-valued expression.
	Iterable Expr
	Body     []Statement
}

// WhileLoop is `while (cond) { body }`.
type WhileLoop struct {
	base
	Condition Expr
	Body      []Statement
}

// BreakStatement / ContinueStatement are loop control statements.
type BreakStatement struct{ base }
type ContinueStatement struct{ base }

// SubroutineParam is one parameter of a subroutine; IsQubit/IsRegister
// determine pass-by-reference-vs-value semantics.
type SubroutineParam struct {
	Name       string
	Type       TypeNode
	IsQubit    bool
	IsRegister bool
}

// SubroutineDefinition is `def name(params) -> T { body }`.
type SubroutineDefinition struct {
	base
	Name       string
	Params     []SubroutineParam
	ReturnType *TypeNode
	Body       []Statement
}

// ReturnStatement is `return expr;` or bare `return;`.
type ReturnStatement struct {
	base
	Value Expr // nil for a bare return
}

// ExpressionStatement is a bare expression used for its side effect, the
// only legal case being a subroutine call.
type ExpressionStatement struct {
	base
	Expression Expr
}

// DelayInstruction is `delay[duration] q;`.
type DelayInstruction struct {
	base
	Duration Expr
	Targets  []Expr
}

// Box is `box[duration] { body }`.
type Box struct {
	base
	Duration Expr // nil if unspecified
	Body     []Statement
}

// CalibrationBlock covers `cal { ... }`, `defcal ... { ... }` and
// `defcalgrammar "name";` — retained as opaque text for passthrough.
type CalibrationBlock struct {
	base
	Kind string // "cal", "defcal", "defcalgrammar"
	Text string
}

// IODeclaration is `input`/`output` declarations, retained verbatim.
type IODeclaration struct {
	base
	Direction string // "input" or "output"
	Name      string
	Type      TypeNode
}

// Pragma is a `#pragma ...` directive, retained verbatim.
type Pragma struct {
	base
	Text string
}

// Annotation is an `@name ...` annotation attached to the following
// statement, retained verbatim alongside it.
type Annotation struct {
	base
	Name string
	Text string
}
