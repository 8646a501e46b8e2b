package qasm3

import (
	"fmt"
	"os"
	"strings"

	"github.com/qbraid/qasm3/internal/analyze"
	"github.com/qbraid/qasm3/internal/registers"
	"github.com/qbraid/qasm3/internal/values"
	"github.com/qbraid/qasm3/internal/visitor"
)

// Dumps renders m's flattened Output statement list as deterministic,
// one-statement-per-line text. This is NOT a grammar-conformant OpenQASM 3
// pretty-printer — there is no surface-syntax emitter in this module, only
// a stable textual form for golden-file tests, the CLI's `--output` flag,
// and diffing two modules by eye.
func (m *Module) Dumps() (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "OPENQASM 3.0;\n")

	for _, line := range dumpOutputs(m.Visitor.Output, "") {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// Dump writes Dumps' rendering to path.
func (m *Module) Dump(path string) error {
	text, err := m.Dumps()
	if err != nil {
		return err
	}

	return os.WriteFile(path, []byte(text), 0o644)
}

func dumpOutputs(ops []visitor.Output, indent string) []string {
	var lines []string

	for _, op := range ops {
		switch o := op.(type) {
		case visitor.QubitDecl:
			if o.Size == 1 {
				lines = append(lines, fmt.Sprintf("%squbit %s;", indent, o.Name))
			} else {
				lines = append(lines, fmt.Sprintf("%squbit[%d] %s;", indent, o.Size, o.Name))
			}

		case visitor.ClbitDecl:
			if o.Size == 1 {
				lines = append(lines, fmt.Sprintf("%sbit %s;", indent, o.Name))
			} else {
				lines = append(lines, fmt.Sprintf("%sbit[%d] %s;", indent, o.Size, o.Name))
			}

		case visitor.GateOp:
			params := ""
			if len(o.Params) > 0 {
				parts := make([]string, len(o.Params))
				for i, p := range o.Params {
					parts[i] = values.Format(p)
				}
				params = "(" + strings.Join(parts, ", ") + ")"
			}
			lines = append(lines, fmt.Sprintf("%s%s%s %s;", indent, o.Name, params, idList(o.Qubits)))

		case visitor.Measure:
			if o.Keep {
				lines = append(lines, fmt.Sprintf("%s%s = measure %s;", indent, idStr(o.Clbit), idStr(o.Qubit)))
			} else {
				lines = append(lines, fmt.Sprintf("%smeasure %s;", indent, idStr(o.Qubit)))
			}

		case visitor.Reset:
			lines = append(lines, fmt.Sprintf("%sreset %s;", indent, idStr(o.Qubit)))

		case visitor.Barrier:
			lines = append(lines, fmt.Sprintf("%sbarrier %s;", indent, idList(o.Qubits)))

		case visitor.Delay:
			lines = append(lines, fmt.Sprintf("%sdelay[%g%s] %s;", indent, o.NanosecondsOrTicks, o.Unit, idList(o.Qubits)))

		case visitor.Conditional:
			lines = append(lines, fmt.Sprintf("%sif (%s) {", indent, clauseChain(o.Clauses)))
			lines = append(lines, dumpOutputs(o.Then, indent+"  ")...)
			if len(o.Else) > 0 {
				lines = append(lines, indent+"} else {")
				lines = append(lines, dumpOutputs(o.Else, indent+"  ")...)
			}
			lines = append(lines, indent+"}")

		case visitor.CalibrationPassthrough:
			lines = append(lines, fmt.Sprintf("%s%s %s", indent, o.Kind, o.Text))
		}
	}

	return lines
}

func idStr(id registers.Identity) string {
	return fmt.Sprintf("%s[%d]", id.Register, id.Index)
}

func idList(ids []registers.Identity) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = idStr(id)
	}

	return strings.Join(parts, ", ")
}

func bitChain(bits []analyze.BranchBit) string {
	parts := make([]string, len(bits))
	for i, b := range bits {
		if b.Expected {
			parts[i] = idStr(b.Clbit)
		} else {
			parts[i] = "!" + idStr(b.Clbit)
		}
	}

	return strings.Join(parts, " && ")
}

// clauseChain renders an OR of AND-chains, parenthesizing each clause only
// when there is more than one so the common single-clause (==, bare/negated
// bit) case prints exactly as it always has.
func clauseChain(clauses [][]analyze.BranchBit) string {
	if len(clauses) == 1 {
		return bitChain(clauses[0])
	}

	parts := make([]string, len(clauses))
	for i, c := range clauses {
		parts[i] = "(" + bitChain(c) + ")"
	}

	return strings.Join(parts, " || ")
}
