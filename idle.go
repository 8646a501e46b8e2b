package qasm3

import (
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/visitor"
)

// RemoveIdleQubits drops every qubit the Depth Tracker reports as
// untouched (IsIdle) from the reported qubit count, recording what was
// removed so PopulateIdleQubits can restore it later. Surviving qubits
// are renumbered to stay contiguous from zero (stable in original
// declaration order), so every remaining Output reference is remapped
// to its compacted index and any surviving QubitDecl shrinks to match.
func (m *Module) RemoveIdleQubits() (*Module, error) {
	idle := m.Visitor.Depth.IdleQubits()
	if len(idle) == 0 {
		return m, nil
	}

	idleByReg := make(map[string]map[uint]bool)
	for _, id := range idle {
		if idleByReg[id.Register] == nil {
			idleByReg[id.Register] = make(map[uint]bool)
		}
		idleByReg[id.Register][id.Index] = true
	}

	newRegs := m.Visitor.Registers.Clone()
	records := make(map[string]*analyze.IdlePruneRecord, len(idleByReg))
	remap := make(map[registers.Identity]registers.Identity)
	newSizes := make(map[string]uint, len(idleByReg))

	var total uint
	for name, reg := range newRegs.QubitRegisters() {
		kept, record := analyze.RemoveIdleQubits(name, reg.Size, idleByReg[name])
		records[name] = &record

		for newIdx, oldIdx := range kept {
			remap[registers.Identity{Register: name, Index: oldIdx}] = registers.Identity{Register: name, Index: uint(newIdx)}
		}

		reg.Size = uint(len(kept))
		newSizes[name] = reg.Size
		total += reg.Size
	}
	newRegs.SetQubitCount(total)

	filtered := filterIdleBarriers(m.Visitor.Output, idleByReg)
	filtered = remapQubits(filtered, remap)
	filtered = resizeQubitDecls(filtered, newSizes)

	v := visitor.CloneWithOutput(m.Visitor, filtered)
	v.Registers = newRegs

	return &Module{Program: m.Program, Visitor: v, Config: m.Config, idleRecords: records}, nil
}

// PopulateIdleQubits reverses the most recent RemoveIdleQubits, or is a
// no-op returning m unchanged if nothing is recorded (the record was
// never populated, or a subsequent unroll()/ReverseQubitOrder() cleared
// it). Surviving Output statements already reference the compacted
// indices, which remain valid once the register grows back to its
// original size, so only register bookkeeping and any surviving
// QubitDecl's size need restoring.
func (m *Module) PopulateIdleQubits() (*Module, error) {
	if len(m.idleRecords) == 0 {
		return m, nil
	}

	newRegs := m.Visitor.Registers.Clone()
	newSizes := make(map[string]uint, len(m.idleRecords))

	var total uint
	for name, reg := range newRegs.QubitRegisters() {
		record, ok := m.idleRecords[name]
		if !ok {
			total += reg.Size
			newSizes[name] = reg.Size
			continue
		}

		restored, err := analyze.PopulateIdleQubits(record)
		if err != nil {
			return nil, err
		}

		reg.Size = restored
		newSizes[name] = restored
		total += restored
	}
	newRegs.SetQubitCount(total)

	v := visitor.CloneWithOutput(m.Visitor, resizeQubitDecls(m.Visitor.Output, newSizes))
	v.Registers = newRegs

	return &Module{Program: m.Program, Visitor: v, Config: m.Config, idleRecords: make(map[string]*analyze.IdlePruneRecord)}, nil
}

// ReverseQubitOrder permutes every register's qubit indices end-to-end
// (index i becomes size-1-i), rewriting every Output statement's qubit
// references accordingly. Classical bits are untouched. Clears any
// pending idle-qubit prune record.
func (m *Module) ReverseQubitOrder() (*Module, error) {
	remap := make(map[registers.Identity]registers.Identity)

	for name, reg := range m.Visitor.Registers.QubitRegisters() {
		perm := analyze.ReverseOrder(reg.Size)
		for oldIdx, newIdx := range perm {
			remap[registers.Identity{Register: name, Index: uint(oldIdx)}] = registers.Identity{Register: name, Index: newIdx}
		}
	}

	rewritten := remapQubits(m.Visitor.Output, remap)
	v := visitor.CloneWithOutput(m.Visitor, rewritten)

	return &Module{Program: m.Program, Visitor: v, Config: m.Config, idleRecords: make(map[string]*analyze.IdlePruneRecord)}, nil
}

func remapQubit(id registers.Identity, remap map[registers.Identity]registers.Identity) registers.Identity {
	if r, ok := remap[id]; ok {
		return r
	}

	return id
}

func remapQubitList(ids []registers.Identity, remap map[registers.Identity]registers.Identity) []registers.Identity {
	out := make([]registers.Identity, len(ids))
	for i, id := range ids {
		out[i] = remapQubit(id, remap)
	}

	return out
}

func remapQubits(ops []visitor.Output, remap map[registers.Identity]registers.Identity) []visitor.Output {
	out := make([]visitor.Output, len(ops))

	for i, op := range ops {
		switch o := op.(type) {
		case visitor.GateOp:
			o.Qubits = remapQubitList(o.Qubits, remap)
			out[i] = o
		case visitor.Measure:
			o.Qubit = remapQubit(o.Qubit, remap)
			out[i] = o
		case visitor.Reset:
			o.Qubit = remapQubit(o.Qubit, remap)
			out[i] = o
		case visitor.Barrier:
			o.Qubits = remapQubitList(o.Qubits, remap)
			out[i] = o
		case visitor.Delay:
			o.Qubits = remapQubitList(o.Qubits, remap)
			out[i] = o
		case visitor.Conditional:
			o.Then = remapQubits(o.Then, remap)
			o.Else = remapQubits(o.Else, remap)
			out[i] = o
		default:
			out[i] = op
		}
	}

	return out
}

// resizeQubitDecls rewrites every QubitDecl's Size to match sizes,
// leaving registers not present in sizes untouched.
func resizeQubitDecls(ops []visitor.Output, sizes map[string]uint) []visitor.Output {
	out := make([]visitor.Output, len(ops))

	for i, op := range ops {
		switch o := op.(type) {
		case visitor.QubitDecl:
			if size, ok := sizes[o.Name]; ok {
				o.Size = size
			}
			out[i] = o
		case visitor.Conditional:
			o.Then = resizeQubitDecls(o.Then, sizes)
			o.Else = resizeQubitDecls(o.Else, sizes)
			out[i] = o
		default:
			out[i] = op
		}
	}

	return out
}

// filterIdleBarriers drops now-idle qubits out of any Barrier's qubit
// list, since a bare `barrier;` with no explicit targets was already
// expanded over every declared qubit by the Core Visitor before pruning
// ran.
func filterIdleBarriers(ops []visitor.Output, idle map[string]map[uint]bool) []visitor.Output {
	out := make([]visitor.Output, len(ops))

	for i, op := range ops {
		switch o := op.(type) {
		case visitor.Barrier:
			o.Qubits = excludeIdle(o.Qubits, idle)
			out[i] = o
		case visitor.Conditional:
			o.Then = filterIdleBarriers(o.Then, idle)
			o.Else = filterIdleBarriers(o.Else, idle)
			out[i] = o
		default:
			out[i] = op
		}
	}

	return out
}

func excludeIdle(ids []registers.Identity, idle map[string]map[uint]bool) []registers.Identity {
	out := make([]registers.Identity, 0, len(ids))

	for _, id := range ids {
		if idle[id.Register] != nil && idle[id.Register][id.Index] {
			continue
		}

		out = append(out, id)
	}

	return out
}
