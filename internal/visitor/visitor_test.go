package visitor

import (
	"math/big"
	"testing"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/registers"
)

func id(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func indexed(name string, i int64) *ast.IndexedIdentifier {
	return &ast.IndexedIdentifier{Name: name, Indices: []ast.IndexOrRange{{Index: intLit(i)}}}
}

func intLit(v int64) *ast.IntLiteral { return &ast.IntLiteral{Value: big.NewInt(v)} }

func qubitDecl(name string, size int64) *ast.QubitDeclaration {
	return &ast.QubitDeclaration{Name: name, Size: intLit(size)}
}

func gateCall(name string, qubits ...ast.Expr) *ast.QuantumGate {
	return &ast.QuantumGate{Name: name, Qubits: qubits}
}

func TestVisitProgramAppliesSimpleGatesAndTracksDepth(t *testing.T) {
	v := New()

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		gateCall("h", indexed("q", 0)),
		gateCall("cx", indexed("q", 0), indexed("q", 1)),
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Output) != 3 {
		t.Fatalf("expected the qubit declaration plus 2 output statements, got %d", len(v.Output))
	}

	q0 := registers.Identity{Register: "q", Index: 0}
	q1 := registers.Identity{Register: "q", Index: 1}

	if v.Depth.QubitDepth(q0) != 2 {
		t.Fatalf("expected q[0] depth 2, got %d", v.Depth.QubitDepth(q0))
	}

	if v.Depth.QubitDepth(q1) != 2 {
		t.Fatalf("expected q[1] depth 2, got %d", v.Depth.QubitDepth(q1))
	}
}

func TestVisitGateCallBroadcastsOverWholeRegister(t *testing.T) {
	v := New()

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 3),
		gateCall("x", id("q")),
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Output) != 4 {
		t.Fatalf("expected the qubit declaration plus 3 broadcast applications, got %d", len(v.Output))
	}
}

func TestVisitGateCallWithCtrlModifierYieldsControlledGate(t *testing.T) {
	v := New()

	call := gateCall("x", indexed("q", 0), indexed("q", 1))
	call.Modifiers = []ast.Modifier{{Kind: "ctrl"}}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		call,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Output) != 2 {
		t.Fatalf("expected the qubit declaration plus 1 output, got %d", len(v.Output))
	}

	op, ok := v.Output[1].(GateOp)
	if !ok {
		t.Fatalf("expected a GateOp, got %T", v.Output[1])
	}

	if op.Name != "cx" {
		t.Fatalf("expected ctrl@x to dispatch to cx, got %q", op.Name)
	}
}

func TestVisitGateCallWithInvModifierNegatesRotationAngle(t *testing.T) {
	v := New()

	call := gateCall("rx", indexed("q", 0))
	call.Params = []ast.Expr{&ast.FloatLiteral{Value: 0.5}}
	call.Modifiers = []ast.Modifier{{Kind: "inv"}}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		call,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	op := v.Output[1].(GateOp)
	if op.Params[0] != -0.5 {
		t.Fatalf("expected inverted angle -0.5, got %v", op.Params[0])
	}
}

func TestVisitCustomGateCallInlinesBody(t *testing.T) {
	v := New()

	def := &ast.QuantumGateDefinition{
		Name:      "bell",
		QubitArgs: []string{"a", "b"},
		Body: []ast.Statement{
			gateCall("h", id("a")),
			gateCall("cx", id("a"), id("b")),
		},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		def,
		gateCall("bell", indexed("q", 0), indexed("q", 1)),
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Output) != 3 {
		t.Fatalf("expected the qubit declaration plus 2 inlined outputs, got %d", len(v.Output))
	}

	first := v.Output[1].(GateOp)
	second := v.Output[2].(GateOp)

	if first.Name != "h" || second.Name != "cx" {
		t.Fatalf("unexpected inlined gate sequence: %v %v", first.Name, second.Name)
	}

	if second.Qubits[0].Register != "q" || second.Qubits[0].Index != 0 {
		t.Fatalf("expected inlined cx control bound to q[0], got %+v", second.Qubits[0])
	}
}

func TestVisitMeasurementStatementProducesMeasureOutput(t *testing.T) {
	v := New()

	clDecl := &ast.ClassicalDeclaration{Name: "c", Type: ast.TypeNode{Kind: "bit", Width: intLit(1)}}

	measureStmt := &ast.QuantumMeasurementStatement{
		Measurement: ast.QuantumMeasurement{Source: indexed("q", 0)},
		Target:      indexed("c", 0),
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clDecl,
		measureStmt,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, ok := v.Output[2].(Measure)
	if !ok {
		t.Fatalf("expected a Measure output, got %T", v.Output[2])
	}

	if !m.Keep || m.Clbit.Register != "c" {
		t.Fatalf("expected measurement kept into c, got %+v", m)
	}

	if !v.Scan.HasMeasurements(toOutputSlice(v.Output)) {
		t.Fatalf("expected HasMeasurements to report true")
	}
}

func TestVisitBranchingOnClassicalRegisterProducesConditional(t *testing.T) {
	v := New()

	clDecl := &ast.ClassicalDeclaration{Name: "c", Type: ast.TypeNode{Kind: "bit", Width: intLit(1)}}

	branch := &ast.BranchingStatement{
		Condition: &ast.BinaryExpr{Op: "==", Left: indexed("c", 0), Right: intLit(1)},
		Then:      []ast.Statement{gateCall("x", indexed("q", 0))},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clDecl,
		branch,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond, ok := v.Output[2].(Conditional)
	if !ok {
		t.Fatalf("expected a Conditional output, got %T", v.Output[2])
	}

	if len(cond.Clauses) != 1 || len(cond.Clauses[0]) != 1 || !cond.Clauses[0][0].Expected {
		t.Fatalf("expected a single clause with one expected=true bit, got %+v", cond.Clauses)
	}

	if len(cond.Then) != 1 {
		t.Fatalf("expected 1 flattened statement in Then, got %d", len(cond.Then))
	}
}

func TestVisitBranchingOnLessThanExpandsToMagnitudeComparisonClauses(t *testing.T) {
	v := New()

	clDecl := &ast.ClassicalDeclaration{Name: "c", Type: ast.TypeNode{Kind: "bit", Width: intLit(2)}}

	branch := &ast.BranchingStatement{
		Condition: &ast.BinaryExpr{Op: "<", Left: id("c"), Right: intLit(2)},
		Then:      []ast.Statement{gateCall("x", indexed("q", 0))},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clDecl,
		branch,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond, ok := v.Output[2].(Conditional)
	if !ok {
		t.Fatalf("expected a Conditional output, got %T", v.Output[2])
	}

	// c < 2 over a 2-bit register means c[0] (the MSB) must be 0: a
	// single clause, not an OR, since 2 == 0b10 has only the top bit set.
	if len(cond.Clauses) != 1 || len(cond.Clauses[0]) != 1 || cond.Clauses[0][0].Expected {
		t.Fatalf("expected a single clause requiring the MSB clear, got %+v", cond.Clauses)
	}
}

func TestVisitBranchingOnNotEqualProducesOneClausePerBit(t *testing.T) {
	v := New()

	clDecl := &ast.ClassicalDeclaration{Name: "c", Type: ast.TypeNode{Kind: "bit", Width: intLit(2)}}

	branch := &ast.BranchingStatement{
		Condition: &ast.BinaryExpr{Op: "!=", Left: id("c"), Right: intLit(1)},
		Then:      []ast.Statement{gateCall("x", indexed("q", 0))},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clDecl,
		branch,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cond, ok := v.Output[2].(Conditional)
	if !ok {
		t.Fatalf("expected a Conditional output, got %T", v.Output[2])
	}

	if len(cond.Clauses) != 2 {
		t.Fatalf("expected one OR'd clause per bit, got %+v", cond.Clauses)
	}
}

func TestVisitBranchingOnConstantConditionFoldsAtCompileTime(t *testing.T) {
	v := New()

	branch := &ast.BranchingStatement{
		Condition: &ast.BoolLiteral{Value: false},
		Then:      []ast.Statement{gateCall("x", indexed("q", 0))},
		Else:      []ast.Statement{gateCall("h", indexed("q", 0))},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		branch,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Output) != 2 {
		t.Fatalf("expected the qubit declaration plus exactly 1 output from the folded branch, got %d", len(v.Output))
	}

	op := v.Output[1].(GateOp)
	if op.Name != "h" {
		t.Fatalf("expected the else arm (h) to be taken, got %q", op.Name)
	}
}

func TestVisitForLoopUnrollsOverRange(t *testing.T) {
	v := New()

	loop := &ast.ForLoop{
		VarName:  "i",
		VarType:  ast.TypeNode{Kind: "int"},
		Iterable: &ast.RangeExpr{Start: intLit(0), End: intLit(2)},
		Body:     []ast.Statement{gateCall("x", indexed("q", 0))},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		loop,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Output) != 4 {
		t.Fatalf("expected the qubit declaration plus 3 unrolled iterations (0,1,2 inclusive), got %d", len(v.Output))
	}
}

func TestVisitBranchingAdvancesDepthByOneMomentRegardlessOfArmLength(t *testing.T) {
	v := New()

	clDecl := &ast.ClassicalDeclaration{Name: "c", Type: ast.TypeNode{Kind: "bit", Width: intLit(1)}}

	branch := &ast.BranchingStatement{
		Condition: &ast.BinaryExpr{Op: "==", Left: indexed("c", 0), Right: intLit(1)},
		Then: []ast.Statement{
			gateCall("x", indexed("q", 0)),
			gateCall("x", indexed("q", 0)),
			gateCall("x", indexed("q", 0)),
		},
		Else: []ast.Statement{gateCall("x", indexed("q", 0))},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clDecl,
		gateCall("h", indexed("q", 0)),
		branch,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q0 := registers.Identity{Register: "q", Index: 0}

	if got := v.Depth.QubitDepth(q0); got != 2 {
		t.Fatalf("expected the branch's 3-gate Then arm to cost q[0] exactly one moment past its pre-branch depth of 1, got %d", got)
	}
}

func TestVisitBoxCollapsesBodyToOneMoment(t *testing.T) {
	v := New()

	box := &ast.Box{Body: []ast.Statement{
		gateCall("x", indexed("q", 0)),
		gateCall("x", indexed("q", 0)),
		gateCall("x", indexed("q", 0)),
		gateCall("x", indexed("q", 0)),
	}}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		box,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q0 := registers.Identity{Register: "q", Index: 0}

	if got := v.Depth.QubitDepth(q0); got != 1 {
		t.Fatalf("expected a box with 4 chained gates to cost q[0] exactly one moment, got %d", got)
	}
}

func TestVisitSwitchWithNonConstantSelectorErrors(t *testing.T) {
	v := New()

	clDecl := &ast.ClassicalDeclaration{Name: "c", Type: ast.TypeNode{Kind: "bit", Width: intLit(1)}}

	sw := &ast.SwitchStatement{
		Selector: indexed("c", 0),
		Cases:    []ast.SwitchCase{{Values: []ast.Expr{intLit(0)}, Body: nil}},
	}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 1),
		clDecl,
		sw,
	}}

	if err := v.VisitProgram(prog); err == nil {
		t.Fatalf("expected an error for a non-constant switch selector")
	}
}

func TestVisitGateDefinitionThenDuplicateIsRejected(t *testing.T) {
	v := New()

	if err := v.visitGateDefinition(&ast.QuantumGateDefinition{Name: "foo"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := v.visitGateDefinition(&ast.QuantumGateDefinition{Name: "foo"}); err == nil {
		t.Fatalf("expected redeclaration of gate %q to be rejected", "foo")
	}
}

func TestVisitAliasStatementResolvesThroughResolveQubitArg(t *testing.T) {
	v := New()

	alias := &ast.AliasStatement{Name: "anc", Value: id("q")}

	prog := &ast.Program{Statements: []ast.Statement{
		qubitDecl("q", 2),
		alias,
	}}

	if err := v.VisitProgram(prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := v.resolveQubitArg(id("anc"))
	if err != nil {
		t.Fatalf("unexpected error resolving alias: %v", err)
	}

	if len(ids) != 2 {
		t.Fatalf("expected alias anc to resolve to 2 qubits, got %d", len(ids))
	}
}
