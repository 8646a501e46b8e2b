package qasm3

import (
	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/visitor"
)

// RemoveMeasurements drops every Measure statement from the flattened
// output, including those nested inside a Conditional's bodies.
func (m *Module) RemoveMeasurements() *Module {
	filtered := dropOutputs(m.Visitor.Output, func(o visitor.Output) bool {
		_, ok := o.(visitor.Measure)
		return ok
	})

	v := visitor.CloneWithOutput(m.Visitor, filtered)

	return &Module{Program: m.Program, Visitor: v, Config: m.Config, idleRecords: m.idleRecords}
}

// RemoveBarriers drops every Barrier statement from the flattened output.
func (m *Module) RemoveBarriers() *Module {
	filtered := dropOutputs(m.Visitor.Output, func(o visitor.Output) bool {
		_, ok := o.(visitor.Barrier)
		return ok
	})

	v := visitor.CloneWithOutput(m.Visitor, filtered)

	return &Module{Program: m.Program, Visitor: v, Config: m.Config, idleRecords: m.idleRecords}
}

// RemoveIncludes drops `include` directives from the original AST. This
// operates at the AST level rather than on flattened Output, since the
// Core Visitor already treats *ast.Include as a no-op statement (it never
// reaches Output) — removing it has to edit Program.Statements instead.
func (m *Module) RemoveIncludes() *Module {
	filtered := make([]ast.Statement, 0, len(m.Program.Statements))

	for _, s := range m.Program.Statements {
		if _, ok := s.(*ast.Include); ok {
			continue
		}

		filtered = append(filtered, s)
	}

	newProg := &ast.Program{Span: m.Program.Span, Version: m.Program.Version, Statements: filtered}

	return &Module{Program: newProg, Visitor: m.Visitor, Config: m.Config, idleRecords: m.idleRecords}
}

func dropOutputs(ops []visitor.Output, match func(visitor.Output) bool) []visitor.Output {
	out := make([]visitor.Output, 0, len(ops))

	for _, op := range ops {
		if match(op) {
			continue
		}

		if cond, ok := op.(visitor.Conditional); ok {
			cond.Then = dropOutputs(cond.Then, match)
			cond.Else = dropOutputs(cond.Else, match)
			out = append(out, cond)
			continue
		}

		out = append(out, op)
	}

	return out
}
