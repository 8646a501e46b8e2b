// Package registers implements the Register Model: stable integer
// identity ranges for quantum and classical registers, physical qubit
// pooling, indexing, and slicing/alias resolution. Duplicate-qubit
// detection against a resolved operand list lives in internal/analyze,
// which this package's Identity type flows into. It is grounded on the
// teacher's pkg/schema/register package, which allocates stable column
// identities for Corset registers the same way this allocates stable
// qubit/clbit identities for QASM registers.
package registers

import (
	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/container/bitset"
	"github.com/qbraid/qasm3/internal/diag"
)

// Identity is a resolved (register, index) pair, the only form a gate
// emission is ever allowed to mention.
type Identity struct {
	Register string
	Index    uint
}

// Register describes one declared quantum or classical register: a stable
// contiguous id range [Base, Base+Size).
type Register struct {
	Name       string
	Size       uint
	Base       uint
	IsQubit    bool
	IsPhysical bool
}

// Model owns every declared register and the physical-qubit pool, and is
// the sole authority for turning a name/index/slice/alias into resolved
// Identity values.
type Model struct {
	qubitRegs  map[string]*Register
	clbitRegs  map[string]*Register
	qubitNext  uint
	clbitNext  uint
	physical   map[uint]uint // $n -> synthetic qubit id, separate pool
	physNext   uint
	aliases    map[string][]Identity
}

// NewModel constructs an empty register model.
func NewModel() *Model {
	return &Model{
		qubitRegs: make(map[string]*Register),
		clbitRegs: make(map[string]*Register),
		physical:  make(map[uint]uint),
		aliases:   make(map[string][]Identity),
	}
}

// DeclareQubitRegister allocates a fresh logical qubit register of the
// given size (1 for a bare `qubit name;`).
func (m *Model) DeclareQubitRegister(name string, size uint) (*Register, error) {
	if _, ok := m.qubitRegs[name]; ok {
		return nil, diag.New(diag.Duplicate, ast.Span{}, "qubit register %q already declared", name)
	}

	r := &Register{Name: name, Size: size, Base: m.qubitNext, IsQubit: true}
	m.qubitRegs[name] = r
	m.qubitNext += size

	return r, nil
}

// DeclareClbitRegister allocates a fresh classical bit register.
func (m *Model) DeclareClbitRegister(name string, size uint) (*Register, error) {
	if _, ok := m.clbitRegs[name]; ok {
		return nil, diag.New(diag.Duplicate, ast.Span{}, "classical register %q already declared", name)
	}

	r := &Register{Name: name, Size: size, Base: m.clbitNext}
	m.clbitRegs[name] = r
	m.clbitNext += size

	return r, nil
}

// Clone deep-copies m so a caller can mutate register sizes (idle-qubit
// pruning, restoration) without aliasing the original Model, the
// immutable-rewrite convention the Module Façade's structural operations
// rely on.
func (m *Model) Clone() *Model {
	out := &Model{
		qubitRegs: make(map[string]*Register, len(m.qubitRegs)),
		clbitRegs: make(map[string]*Register, len(m.clbitRegs)),
		qubitNext: m.qubitNext,
		clbitNext: m.clbitNext,
		physical:  make(map[uint]uint, len(m.physical)),
		physNext:  m.physNext,
		aliases:   make(map[string][]Identity, len(m.aliases)),
	}

	for name, r := range m.qubitRegs {
		copied := *r
		out.qubitRegs[name] = &copied
	}

	for name, r := range m.clbitRegs {
		copied := *r
		out.clbitRegs[name] = &copied
	}

	for k, v := range m.physical {
		out.physical[k] = v
	}

	for name, ids := range m.aliases {
		out.aliases[name] = append([]Identity{}, ids...)
	}

	return out
}

// SetQubitCount directly overrides NumQubits()'s reported total, used
// after idle-qubit pruning or restoration changes the live qubit count.
// It does not touch any register's Size or Base; renumbering surviving
// qubits and their Output references is the caller's job.
func (m *Model) SetQubitCount(n uint) {
	m.qubitNext = n
}

// PhysicalQubit resolves `$n` against the synthetic physical pool, which is
// kept separate from logical register identities.
func (m *Model) PhysicalQubit(n uint) Identity {
	if _, ok := m.physical[n]; !ok {
		m.physical[n] = m.physNext
		m.physNext++
	}

	return Identity{Register: "$", Index: m.physical[n]}
}

// NumQubits returns the sum of declared qubit register sizes.
func (m *Model) NumQubits() uint {
	return m.qubitNext
}

// NumClbits returns the sum of declared classical register sizes.
func (m *Model) NumClbits() uint {
	return m.clbitNext
}

// QubitRegister looks up a declared qubit register by name.
func (m *Model) QubitRegister(name string) (*Register, bool) {
	r, ok := m.qubitRegs[name]
	return r, ok
}

// ClbitRegister looks up a declared classical register by name.
func (m *Model) ClbitRegister(name string) (*Register, bool) {
	r, ok := m.clbitRegs[name]
	return r, ok
}

// QubitRegisters returns every declared qubit register keyed by name. It
// is the Model's own map, so its iteration order is not defined.
func (m *Model) QubitRegisters() map[string]*Register {
	return m.qubitRegs
}

// ClbitRegisters returns every declared classical register.
func (m *Model) ClbitRegisters() map[string]*Register {
	return m.clbitRegs
}

// Index resolves `name[i]` to an Identity, bounds-checked against the
// declared size.
func (m *Model) Index(name string, i uint) (Identity, error) {
	if r, ok := m.qubitRegs[name]; ok {
		if i >= r.Size {
			return Identity{}, diag.New(diag.Range, ast.Span{}, "index %d out of range for qubit register %q of size %d", i, name, r.Size)
		}

		return Identity{Register: name, Index: i}, nil
	}

	if r, ok := m.clbitRegs[name]; ok {
		if i >= r.Size {
			return Identity{}, diag.New(diag.Range, ast.Span{}, "index %d out of range for classical register %q of size %d", i, name, r.Size)
		}

		return Identity{Register: name, Index: i}, nil
	}
	// Not a register: may be an alias.
	if ids, ok := m.aliases[name]; ok {
		if i >= uint(len(ids)) {
			return Identity{}, diag.New(diag.Range, ast.Span{}, "index %d out of range for alias %q of length %d", i, name, len(ids))
		}

		return ids[i], nil
	}

	return Identity{}, diag.New(diag.Undefined, ast.Span{}, "undeclared register or alias %q", name)
}

// Slice resolves `name[a:b]` or `name[a:b:s]` to an ordered list of
// Identity values over the half-open range [a,b) with step s.
func (m *Model) Slice(name string, start, end int, step int) ([]Identity, error) {
	if step == 0 {
		return nil, diag.New(diag.Range, ast.Span{}, "slice step must be non-zero")
	}

	var out []Identity

	if step > 0 {
		for i := start; i < end; i += step {
			id, err := m.Index(name, uint(i))
			if err != nil {
				return nil, err
			}

			out = append(out, id)
		}
	} else {
		for i := start; i > end; i += step {
			id, err := m.Index(name, uint(i))
			if err != nil {
				return nil, err
			}

			out = append(out, id)
		}
	}

	return out, nil
}

// Whole resolves every index of a declared register, in order.
func (m *Model) Whole(name string) ([]Identity, error) {
	if r, ok := m.qubitRegs[name]; ok {
		out := make([]Identity, r.Size)
		for i := range out {
			out[i] = Identity{Register: name, Index: uint(i)}
		}

		return out, nil
	}

	if r, ok := m.clbitRegs[name]; ok {
		out := make([]Identity, r.Size)
		for i := range out {
			out[i] = Identity{Register: name, Index: uint(i)}
		}

		return out, nil
	}

	if ids, ok := m.aliases[name]; ok {
		return ids, nil
	}

	return nil, diag.New(diag.Undefined, ast.Span{}, "undeclared register or alias %q", name)
}

// DeclareAlias resolves transitively (never circularly, by construction:
// aliasing only ever consumes already-resolved Identity lists) and stores
// the alias under name.
func (m *Model) DeclareAlias(name string, ids []Identity) error {
	if _, ok := m.aliases[name]; ok {
		return diag.New(diag.Duplicate, ast.Span{}, "alias %q already declared", name)
	}

	m.aliases[name] = ids

	return nil
}

// LookupAlias returns the identity list bound to name, if any.
func (m *Model) LookupAlias(name string) ([]Identity, bool) {
	ids, ok := m.aliases[name]
	return ids, ok
}

// TouchSet is a convenience bitset keyed by a flat qubit index. The Depth
// Tracker and idle-qubit pruning keep their own bookkeeping and do not use
// it.
type TouchSet struct {
	set *bitset.Set
}

// NewTouchSet constructs an empty touch set sized for n qubits.
func NewTouchSet(n uint) TouchSet {
	return TouchSet{set: bitset.NewSet(n)}
}

// Touch marks flatIndex as touched.
func (t TouchSet) Touch(flatIndex uint) {
	t.set.Insert(flatIndex)
}

// IsTouched reports whether flatIndex has been touched.
func (t TouchSet) IsTouched(flatIndex uint) bool {
	return t.set.Contains(flatIndex)
}

// Count returns the number of touched identities.
func (t TouchSet) Count() uint {
	return t.set.Count()
}
