// Package scope implements the Scope Manager: a stack of nested
// variable/gate/subroutine/alias namespaces with the visibility
// rules OpenQASM 3 blocks, gates, subroutines and boxes require. It is
// grounded on pyqasm's ScopeManager (scope.py) for the visibility algorithm
// and on the teacher's internal/container/stack.Stack for the underlying
// frame stack, the same way the teacher's resolver walks a stack of
// pkg/corset binding environments.
package scope

import (
	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/container/stack"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/types"
)

// Context names the kind of frame currently on top of the stack. Visibility
// rules differ by context: a BLOCK frame inherits everything visible to its
// parent, while a FUNCTION/GATE/BOX frame only inherits constants and
// qubits declared globally.
type Context int

const (
	Global Context = iota
	Block
	Function
	Gate
	Box
)

func (c Context) String() string {
	switch c {
	case Global:
		return "global"
	case Block:
		return "block"
	case Function:
		return "function"
	case Gate:
		return "gate"
	case Box:
		return "box"
	default:
		return "unknown"
	}
}

// Variable is an entry in a variable namespace frame.
type Variable struct {
	Name       string
	Type       types.Type
	Value      *types.Value
	IsConstant bool
	IsQubit    bool
	ReadOnly   bool // true for loop iterators
}

// namespace holds the four independent dictionaries a single frame owns.
// OpenQASM keeps variables, gates, subroutines and aliases in separate
// namespaces, so `gate h` and a variable `h` never collide.
type namespace struct {
	vars        map[string]*Variable
	gates       map[string]bool
	subroutines map[string]bool
	aliases     map[string]bool
}

func newNamespace() *namespace {
	return &namespace{
		vars:        make(map[string]*Variable),
		gates:       make(map[string]bool),
		subroutines: make(map[string]bool),
		aliases:     make(map[string]bool),
	}
}

// Manager is the single chokepoint through which every declaration and
// every lookup in the analyzer passes, mirroring pyqasm's ScopeManager.
type Manager struct {
	frames   *stack.Stack[*namespace]
	contexts *stack.Stack[Context]
}

// NewManager returns a Manager seeded with one global frame.
func NewManager() *Manager {
	m := &Manager{
		frames:   stack.NewStack[*namespace](),
		contexts: stack.NewStack[Context](),
	}
	m.frames.Push(newNamespace())
	m.contexts.Push(Global)

	return m
}

// PushScope opens a new frame under the given context.
func (m *Manager) PushScope(ctx Context) {
	m.frames.Push(newNamespace())
	m.contexts.Push(ctx)
}

// PopScope closes the innermost frame.
func (m *Manager) PopScope() {
	m.frames.Pop()
	m.contexts.Pop()
}

// CurrentContext reports the context of the innermost frame.
func (m *Manager) CurrentContext() Context {
	return m.contexts.Top()
}

// InGlobalScope reports whether exactly the global frame is active.
func (m *Manager) InGlobalScope() bool {
	return m.frames.Len() == 1 && m.CurrentContext() == Global
}

func (m *Manager) inBoundaryScope() bool {
	ctx := m.CurrentContext()
	return m.frames.Len() > 1 && (ctx == Function || ctx == Gate || ctx == Box)
}

func (m *Manager) inBlockScope() bool {
	return m.frames.Len() > 1 && m.CurrentContext() == Block
}

func (m *Manager) globalFrame() *namespace {
	return m.frames.Peek(m.frames.Len() - 1)
}

func (m *Manager) currentFrame() *namespace {
	return m.frames.Top()
}

// DeclareVariable is the single chokepoint for adding a variable to the
// current frame; it rejects redeclaration within the same frame exactly as
// pyqasm's add_var_in_scope does.
func (m *Manager) DeclareVariable(v *Variable) error {
	frame := m.currentFrame()
	if _, exists := frame.vars[v.Name]; exists {
		return diag.New(diag.Duplicate, ast.Span{}, "variable %q already declared in current scope", v.Name)
	}

	frame.vars[v.Name] = v

	return nil
}

// DeclareGate registers a gate name in the current frame's gate namespace.
func (m *Manager) DeclareGate(name string) error {
	frame := m.currentFrame()
	if frame.gates[name] {
		return diag.New(diag.Duplicate, ast.Span{}, "gate %q already declared in current scope", name)
	}

	frame.gates[name] = true

	return nil
}

// DeclareSubroutine registers a subroutine name.
func (m *Manager) DeclareSubroutine(name string) error {
	frame := m.currentFrame()
	if frame.subroutines[name] {
		return diag.New(diag.Duplicate, ast.Span{}, "subroutine %q already declared in current scope", name)
	}

	frame.subroutines[name] = true

	return nil
}

// DeclareAliasName registers an alias name in the current frame's alias
// namespace (the actual resolved identity list lives in registers.Model).
func (m *Manager) DeclareAliasName(name string) error {
	frame := m.currentFrame()
	if frame.aliases[name] {
		return diag.New(diag.Duplicate, ast.Span{}, "alias %q already declared in current scope", name)
	}

	frame.aliases[name] = true

	return nil
}

// CheckInScope reports whether var_name is visible from the current
// context, following pyqasm's check_in_scope boundary rules verbatim:
// a FUNCTION/GATE/BOX frame only sees global constants and qubits besides
// its own locals; a BLOCK frame walks outward until it hits a non-BLOCK
// frame.
func (m *Manager) CheckInScope(name string) bool {
	global := m.globalFrame()
	curr := m.currentFrame()

	if m.InGlobalScope() {
		_, ok := global.vars[name]
		return ok
	}

	if m.inBoundaryScope() {
		if _, ok := curr.vars[name]; ok {
			return true
		}

		if gv, ok := global.vars[name]; ok {
			return gv.IsConstant || gv.IsQubit
		}
	}

	if m.inBlockScope() {
		frames := m.frames.All()
		contexts := m.contexts.All()

		for i := 0; i < len(frames); i++ {
			if contexts[i] != Block {
				_, ok := frames[i].vars[name]
				return ok
			}

			if _, ok := frames[i].vars[name]; ok {
				return true
			}
		}
	}

	return false
}

// GetFromVisibleScope retrieves a variable following the same walk as
// CheckInScope, returning nil when not visible.
func (m *Manager) GetFromVisibleScope(name string) *Variable {
	global := m.globalFrame()
	curr := m.currentFrame()

	if m.InGlobalScope() {
		return global.vars[name]
	}

	if m.inBoundaryScope() {
		if v, ok := curr.vars[name]; ok {
			return v
		}

		if gv, ok := global.vars[name]; ok && (gv.IsConstant || gv.IsQubit) {
			return gv
		}

		return nil
	}

	if m.inBlockScope() {
		frames := m.frames.All()
		contexts := m.contexts.All()

		for i := 0; i < len(frames); i++ {
			if contexts[i] != Block {
				return frames[i].vars[name]
			}

			if v, ok := frames[i].vars[name]; ok {
				return v
			}
		}

		return global.vars[name]
	}

	return nil
}

// UpdateVariable writes a new Variable value into the frame that owns name,
// mirroring pyqasm's update_var_in_scope.
func (m *Manager) UpdateVariable(v *Variable) error {
	if m.frames.Len() == 0 {
		return diag.New(diag.Undefined, ast.Span{}, "no scope available to update")
	}

	global := m.globalFrame()

	if m.InGlobalScope() {
		global.vars[v.Name] = v
		return nil
	}

	if m.CurrentContext() == Function || m.CurrentContext() == Gate {
		m.currentFrame().vars[v.Name] = v
		return nil
	}

	if m.inBlockScope() {
		frames := m.frames.All()
		contexts := m.contexts.All()

		for i := 0; i < len(frames); i++ {
			if contexts[i] != Block {
				frames[i].vars[v.Name] = v
				return nil
			}

			if _, ok := frames[i].vars[v.Name]; ok {
				frames[i].vars[v.Name] = v
				return nil
			}
		}
	}

	return diag.New(diag.Undefined, ast.Span{}, "variable %q is not visible in current scope", v.Name)
}

// GateVisible reports whether a gate name is visible from anywhere on the
// frame stack; gate and subroutine definitions are always hoisted to
// global visibility once declared.
func (m *Manager) GateVisible(name string) bool {
	return m.globalFrame().gates[name]
}

// SubroutineVisible reports whether a subroutine name has been declared.
func (m *Manager) SubroutineVisible(name string) bool {
	return m.globalFrame().subroutines[name]
}
