// Package analyze implements the Analyzer Helpers: the utility functions
// the Core Visitor leans on for classical index
// validation, duplicate-qubit/version extraction, idle-qubit pruning and
// restoration, multi-bit branch expansion, and a cached measurement/
// barrier presence scan. Grounded directly on pyqasm's analyzer.py
// (Qasm3Analyzer) and on Qasm3Module's remove_idle_qubits/
// populate_idle_qubits/reverse_qubit_order methods.
package analyze

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/qbraid/qasm3/ast"
	"github.com/qbraid/qasm3/internal/diag"
	"github.com/qbraid/qasm3/internal/registers"
)

var qasmVersionLine = regexp.MustCompile(`^OPENQASM\s+(\d+)(?:\.(\d+))?;`)

var commentLine = regexp.MustCompile(`//.*`)
var blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

// ExtractQASMVersion mirrors Qasm3Analyzer.extract_qasm_version: it strips
// comments and finds the leading `OPENQASM major.minor;` pragma.
func ExtractQASMVersion(source string) (float64, error) {
	stripped := blockComment.ReplaceAllString(commentLine.ReplaceAllString(source, ""), "")

	for _, line := range strings.Split(stripped, "\n") {
		line = strings.TrimSpace(line)

		if !strings.HasPrefix(line, "OPENQASM") {
			continue
		}

		m := qasmVersionLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		minor := "0"
		if m[2] != "" {
			minor = m[2]
		}

		v, err := strconv.ParseFloat(m[1]+"."+minor, 64)
		if err != nil {
			return 0, diag.New(diag.Syntax, ast.Span{}, "malformed OPENQASM version pragma %q", line)
		}

		return v, nil
	}

	return 0, diag.New(diag.Syntax, ast.Span{}, "could not determine the OpenQASM version")
}

// ValidateIndex mirrors Qasm3Analyzer.analyze_classical_indices's bounds
// check: index must land in [0, dimension).
func ValidateIndex(varName string, index int, dimension uint, dimNum int) error {
	if index < 0 || uint(index) >= dimension {
		return diag.New(diag.Range, ast.Span{}, "index %d out of bounds for dimension %d of variable %q: expected index in range [0, %d]",
			index, dimNum, varName, int(dimension)-1)
	}

	return nil
}

// ValidateStep mirrors Qasm3Analyzer.analyze_classical_indices's
// direction check: a negative step must descend, a positive step must
// ascend.
func ValidateStep(start, end, step int) error {
	if (step < 0 && start < end) || (step > 0 && start > end) {
		direction := "greater than"
		if step < 0 {
			direction = "less than"
		}

		return diag.New(diag.Range, ast.Span{}, "index %d is %s %d but step is %s", start, direction, end, signWord(step))
	}

	return nil
}

func signWord(step int) string {
	if step < 0 {
		return "negative"
	}

	return "positive"
}

// ExtractDuplicateQubit mirrors Qasm3Analyzer.extract_duplicate_qubit: it
// reports the first repeated (register, index) pair in a gate's qubit
// argument list, or ok=false if none repeat.
func ExtractDuplicateQubit(ids []registers.Identity) (registers.Identity, bool) {
	seen := make(map[registers.Identity]bool, len(ids))

	for _, id := range ids {
		if seen[id] {
			return id, true
		}

		seen[id] = true
	}

	return registers.Identity{}, false
}

// VerifyGateQubits mirrors Qasm3Analyzer.verify_gate_qubits: a gate
// application may not mention the same qubit twice.
func VerifyGateQubits(gateName string, ids []registers.Identity) error {
	if dup, found := ExtractDuplicateQubit(ids); found {
		return diag.New(diag.Duplicate, ast.Span{}, "duplicate qubit %s[%d] arg in gate %s", dup.Register, dup.Index, gateName)
	}

	return nil
}

// BitsFromString decodes an OpenQASM bit-string literal ("0101") into an
// MSB-first bool slice, the same order types.Value.BitString and
// internal/eval's bitstring-literal evaluation use.
func BitsFromString(s string) ([]bool, error) {
	out := make([]bool, len(s))

	for i, ch := range s {
		switch ch {
		case '0':
			out[i] = false
		case '1':
			out[i] = true
		default:
			return nil, diag.New(diag.Syntax, ast.Span{}, "invalid bit-string literal character %q", ch)
		}
	}

	return out, nil
}

// StringFromBits is the inverse of BitsFromString.
func StringFromBits(bits []bool) string {
	var b strings.Builder

	for _, bit := range bits {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}

	return b.String()
}

// BranchBit is one single-bit equality test in a multi-bit branch's
// expansion: the Visitor AND-chains these together to build the nested
// comparison a `switch`/`if (c == 5)` condition on a multi-bit register
// lowers to, since the target ISA only has single-qubit-conditioned
// classical control in practice.
type BranchBit struct {
	Clbit    registers.Identity
	Expected bool
}

// ExpandBranch turns a classical register comparison ("c == value") into
// its MSB-first chain of single-bit equality tests, one BranchBit per
// clbit in ids: a nested chain of single-bit comparisons, since the
// target representation only understands single-bit feed-forward
// conditions.
func ExpandBranch(value *big.Int, ids []registers.Identity) []BranchBit {
	width := len(ids)
	out := make([]BranchBit, width)

	for i, id := range ids {
		bitIndex := width - 1 - i
		out[i] = BranchBit{Clbit: id, Expected: value.Bit(bitIndex) == 1}
	}

	return out
}

// ExpandComparison turns a classical register comparison "c <op> value"
// into its disjunctive-normal-form expansion: an OR of AND-chains of
// single-bit equality tests, a magnitude-comparison algorithm covering
// ==, !=, <, <=, >, >= (a plain == stays the single AND-chain
// ExpandBranch already produces, wrapped as the sole clause).
// Each inner slice is one AND-chain; the outer slice is the OR across
// chains, evaluated MSB-first the same way ExpandBranch orders ids.
func ExpandComparison(op string, value *big.Int, ids []registers.Identity) ([][]BranchBit, error) {
	switch op {
	case "==":
		return [][]BranchBit{ExpandBranch(value, ids)}, nil
	case "!=":
		return expandUnequalBitwise(value, ids), nil
	case "<":
		return expandMagnitude(value, ids, false), nil
	case "<=":
		return append(expandMagnitude(value, ids, false), ExpandBranch(value, ids)), nil
	case ">":
		return expandMagnitude(value, ids, true), nil
	case ">=":
		return append(expandMagnitude(value, ids, true), ExpandBranch(value, ids)), nil
	default:
		return nil, diag.New(diag.Unsupported, ast.Span{}, "branch condition operator %q on a classical register is not supported", op)
	}
}

// expandUnequalBitwise expands "c != value" as the OR, across every bit
// position, of "this bit of c differs from value's bit there" — a single
// differing bit is sufficient for the whole register to differ.
func expandUnequalBitwise(value *big.Int, ids []registers.Identity) [][]BranchBit {
	width := len(ids)
	out := make([][]BranchBit, width)

	for i, id := range ids {
		bitIndex := width - 1 - i
		out[i] = []BranchBit{{Clbit: id, Expected: value.Bit(bitIndex) == 0}}
	}

	return out
}

// expandMagnitude builds the standard MSB-first magnitude-comparison
// clauses for "c < value" (greater=false) or "c > value" (greater=true):
// one clause per bit position where value's bit there decides the
// comparison, each requiring every higher-order bit of c to equal value's
// corresponding bit and this bit of c to take the deciding value.
func expandMagnitude(value *big.Int, ids []registers.Identity, greater bool) [][]BranchBit {
	width := len(ids)
	var out [][]BranchBit

	decidingValueBit := uint(0)
	if !greater {
		decidingValueBit = 1
	}

	for i, id := range ids {
		bitIndex := width - 1 - i
		if value.Bit(bitIndex) != decidingValueBit {
			continue
		}

		clause := make([]BranchBit, i+1)
		for j := 0; j < i; j++ {
			prefixBitIndex := width - 1 - j
			clause[j] = BranchBit{Clbit: ids[j], Expected: value.Bit(prefixBitIndex) == 1}
		}
		clause[i] = BranchBit{Clbit: id, Expected: greater}

		out = append(out, clause)
	}

	return out
}

// IdlePruneRecord remembers what remove_idle_qubits removed from a
// register so populate_idle_qubits can restore it later. The record is
// cleared by unroll()/reverse_qubit_order() so a stale restore after a
// structural rewrite is impossible.
type IdlePruneRecord struct {
	RegisterName string
	OriginalSize uint
	KeptIndices  []uint
}

// RemoveIdleQubits filters idle out of a register's index list, returning
// the surviving indices plus the record needed to reverse the operation.
func RemoveIdleQubits(registerName string, size uint, idle map[uint]bool) ([]uint, IdlePruneRecord) {
	kept := make([]uint, 0, size)

	for i := uint(0); i < size; i++ {
		if !idle[i] {
			kept = append(kept, i)
		}
	}

	return kept, IdlePruneRecord{RegisterName: registerName, OriginalSize: size, KeptIndices: kept}
}

// PopulateIdleQubits reverses RemoveIdleQubits using the recorded state,
// or errors if the record has been invalidated.
func PopulateIdleQubits(record *IdlePruneRecord) (uint, error) {
	if record == nil {
		return 0, diag.New(diag.Unsupported, ast.Span{}, "no idle-qubit prune record to restore; module was unrolled or reversed since the last prune")
	}

	return record.OriginalSize, nil
}

// ReverseOrder returns the permutation that maps index i of a size-n
// register to its reversed position, the mechanics behind
// reverse_qubit_order().
func ReverseOrder(size uint) []uint {
	perm := make([]uint, size)

	for i := uint(0); i < size; i++ {
		perm[i] = size - 1 - i
	}

	return perm
}

// PresenceScan is the cached measurement/barrier presence tracker: a
// linear scan result invalidated on any output-list mutation rather than
// recomputed from scratch on every has_measurements()/has_barriers()
// call.
type PresenceScan struct {
	measurements bool
	barriers     bool
	valid        bool
}

// OutputStatement is satisfied by any flattened statement kind the
// Visitor can emit; only the two predicates PresenceScan needs are
// required here to keep this package decoupled from the Visitor's
// concrete statement types.
type OutputStatement interface {
	IsMeasurement() bool
	IsBarrier() bool
}

// Invalidate marks the cached scan stale, to be called by anything that
// mutates the underlying output list.
func (p *PresenceScan) Invalidate() {
	p.valid = false
}

// Recompute performs the single linear scan and caches its result.
func (p *PresenceScan) Recompute(statements []OutputStatement) {
	p.measurements = false
	p.barriers = false

	for _, s := range statements {
		if s.IsMeasurement() {
			p.measurements = true
		}

		if s.IsBarrier() {
			p.barriers = true
		}

		if p.measurements && p.barriers {
			break
		}
	}

	p.valid = true
}

// HasMeasurements returns the cached result, recomputing first if stale.
func (p *PresenceScan) HasMeasurements(statements []OutputStatement) bool {
	if !p.valid {
		p.Recompute(statements)
	}

	return p.measurements
}

// HasBarriers returns the cached result, recomputing first if stale.
func (p *PresenceScan) HasBarriers(statements []OutputStatement) bool {
	if !p.valid {
		p.Recompute(statements)
	}

	return p.barriers
}

// FindArrayElement mirrors Qasm3Analyzer.find_array_element for the
// single-dimension case the Register Model and Expression Evaluator
// actually need (multi-dimensional classical arrays are resolved a
// dimension at a time by the caller): it slices a flat value list by a
// (start, end, step) triple already validated by ValidateIndex/ValidateStep.
func FindArrayElement(values []interface{}, start, end, step int) ([]interface{}, error) {
	if start == end {
		if start < 0 || start >= len(values) {
			return nil, diag.New(diag.Range, ast.Span{}, "array index %d out of bounds (len %d)", start, len(values))
		}

		return []interface{}{values[start]}, nil
	}

	if step == 0 {
		return nil, diag.New(diag.Range, ast.Span{}, "array slice step cannot be zero")
	}

	var out []interface{}
	if step > 0 {
		for i := start; i <= end; i += step {
			out = append(out, values[i])
		}
	} else {
		for i := start; i >= end; i += step {
			out = append(out, values[i])
		}
	}

	return out, nil
}
