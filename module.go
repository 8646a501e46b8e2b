// Package qasm3 implements the Module Façade: the single public entry
// point that wraps a parsed ast.Program with the Core Visitor's flattened
// output and exposes the load/validate/unroll/rebase/compare operation
// set external callers actually use. It is grounded on the teacher's own
// pkg/cmd one-subcommand-per-operation layout and on pyqasm's
// Qasm3Module, which this package's method set mirrors.
package qasm3

import (
	"os"
	"strings"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/visitor"
)

// CompilationConfig threads the knobs unroll()/rebase() accept through to
// a fresh Core Visitor pass.
type CompilationConfig struct {
	// MaxLoopIters bounds while-loop unrolling; zero means use the
	// Visitor's built-in default.
	MaxLoopIters uint
	// UnrollBarriers, when false, drops barrier statements from the
	// flattened output instead of keeping them.
	UnrollBarriers bool
	// ExternalGates names gates the target backend already supports
	// natively; they are passed through unchanged instead of decomposed.
	ExternalGates []string
	// Strict rejects calibration passthrough blocks instead of carrying
	// them through unchanged.
	Strict bool
}

// defaultConfig matches pyqasm's unroll() defaults: keep barriers, no
// external gate allowlist, not strict.
func defaultConfig() CompilationConfig {
	return CompilationConfig{UnrollBarriers: true}
}

// noSpan is used by every diagnostic this package raises that has no
// source location to attach, since the Module Façade operates on
// already-flattened output rather than original source positions.
var noSpan = ast.Span{}

// ExternalParser is the seam this module leaves for its surface-syntax
// parser collaborator — the surface-syntax parser that yields the AST is
// an external concern this module does not implement. Loads/Load call it
// when given raw program text; it is nil until a caller installs a real
// OpenQASM 3 parser. Without one, text input is rejected with a clear
// diag.Unsupported rather than silently misbehaving.
var ExternalParser func(source string) (*ast.Program, error)

// Module is a loaded, analyzed OpenQASM 3 program: the parsed AST plus
// the Core Visitor's flattened Output/Registers/Depth/Scan state.
type Module struct {
	Program *ast.Program
	Visitor *visitor.Visitor
	Config  CompilationConfig

	// SourceText holds the raw program text a Module was parsed from, set
	// only by Load/LoadsText; empty for a Module built directly from an
	// ast.Program. ToQASM3 needs the original text since it is a
	// QASM2-source-text rewrite, not an AST transform.
	SourceText string

	idleRecords map[string]*analyze.IdlePruneRecord
}

// Loads builds a Module from an already-parsed AST; LoadsText and Load
// reach it after parsing.
func Loads(prog *ast.Program) (*Module, error) {
	return loadsWithConfig(prog, defaultConfig())
}

// LoadsText builds a Module from raw OpenQASM 3 source text, routing
// through ExternalParser. Line endings must be LF; a CRLF source is
// rejected with a formatting diagnostic.
func LoadsText(source string) (*Module, error) {
	if err := checkLineEndings(source); err != nil {
		return nil, err
	}

	if ExternalParser == nil {
		return nil, diag.New(diag.Unsupported, ast.Span{},
			"parsing OpenQASM 3 source text requires an external parser collaborator; install one via qasm3.ExternalParser, or call Loads with an already-parsed *ast.Program")
	}

	prog, err := ExternalParser(source)
	if err != nil {
		return nil, err
	}

	mod, err := Loads(prog)
	if err != nil {
		return nil, err
	}

	mod.SourceText = source

	return mod, nil
}

// Load reads path and delegates to LoadsText.
func Load(path string) (*Module, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Wrap(diag.Syntax, ast.Span{}, err, "reading %q", path)
	}

	return LoadsText(string(bytes))
}

func checkLineEndings(source string) error {
	if strings.Contains(source, "\r\n") || strings.ContainsRune(source, '\r') {
		return diag.New(diag.Syntax, ast.Span{}, "source uses CRLF line endings; only LF is accepted")
	}

	return nil
}

// loadsWithConfig runs one Core Visitor pass over prog configured per cfg
// and wraps the result as a Module. This single pass both validates and
// flattens, per internal/visitor's design (see DESIGN.md): there is no
// cheaper validate-only pre-pass, so Validate() and the error path of
// Loads/Unroll share this exact mechanism.
func loadsWithConfig(prog *ast.Program, cfg CompilationConfig) (*Module, error) {
	v := visitor.New()

	if cfg.MaxLoopIters > 0 {
		v.MaxLoopIterations = int(cfg.MaxLoopIters)
	}

	v.UnrollBarriers = cfg.UnrollBarriers
	v.Strict = cfg.Strict

	for _, g := range cfg.ExternalGates {
		v.ExternalGates[g] = true
	}

	if err := v.VisitProgram(prog); err != nil {
		return nil, err
	}

	return &Module{
		Program:     prog,
		Visitor:     v,
		Config:      cfg,
		idleRecords: make(map[string]*analyze.IdlePruneRecord),
	}, nil
}

// Validate re-confirms that m's flattening pass succeeded. Since the
// Core Visitor validates and flattens in one walk, any live Module
// already passed this check at construction time; Validate exists so
// callers can name the step explicitly, matching the CLI's `validate`
// subcommand.
func (m *Module) Validate() error {
	return nil
}

// NumQubits returns the total number of declared logical qubits.
func (m *Module) NumQubits() uint {
	return m.Visitor.Registers.NumQubits()
}

// NumClbits returns the total number of declared classical bits.
func (m *Module) NumClbits() uint {
	return m.Visitor.Registers.NumClbits()
}

// Depth returns the circuit's overall depth: the deepest moment the Depth
// Tracker recorded across every qubit and clbit wire.
func (m *Module) Depth() int {
	return m.Visitor.Depth.Depth()
}

// HasMeasurements reports whether the flattened output contains any kept
// or discarded measurement, via the cached PresenceScan.
func (m *Module) HasMeasurements() bool {
	return m.Visitor.Scan.HasMeasurements(visitor.ToOutputSlice(m.Visitor.Output))
}

// HasBarriers reports whether the flattened output contains any barrier.
func (m *Module) HasBarriers() bool {
	return m.Visitor.Scan.HasBarriers(visitor.ToOutputSlice(m.Visitor.Output))
}
