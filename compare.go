package qasm3

import (
	"reflect"

	"github.com/qbraid/qasm3/internal/visitor"
)

// StatementDiff is one index at which two compared modules' canonical
// flattened output diverges.
type StatementDiff struct {
	Index    int
	Expected visitor.Output
	Actual   visitor.Output
}

// CompareReport is the result of Module.Compare: a structural comparison
// after both modules are independently unrolled to canonical form, so two
// syntactically different but semantically equivalent programs compare
// equal.
type CompareReport struct {
	Equal          bool
	QubitCountDiff int
	ClbitCountDiff int
	DepthDiff      int
	Differences    []StatementDiff
}

// Compare canonicalizes m and other (an independent unroll() of each,
// under default CompilationConfig) and diffs their flattened Output
// statement lists position by position, plus qubit/clbit count and
// overall depth.
func (m *Module) Compare(other *Module) (*CompareReport, error) {
	a, err := m.Unroll(defaultConfig())
	if err != nil {
		return nil, err
	}

	b, err := other.Unroll(defaultConfig())
	if err != nil {
		return nil, err
	}

	report := &CompareReport{
		QubitCountDiff: int(a.NumQubits()) - int(b.NumQubits()),
		ClbitCountDiff: int(a.NumClbits()) - int(b.NumClbits()),
		DepthDiff:      a.Depth() - b.Depth(),
	}

	n := len(a.Visitor.Output)
	if len(b.Visitor.Output) > n {
		n = len(b.Visitor.Output)
	}

	for i := 0; i < n; i++ {
		var expected, actual visitor.Output

		if i < len(a.Visitor.Output) {
			expected = a.Visitor.Output[i]
		}

		if i < len(b.Visitor.Output) {
			actual = b.Visitor.Output[i]
		}

		if !reflect.DeepEqual(expected, actual) {
			report.Differences = append(report.Differences, StatementDiff{Index: i, Expected: expected, Actual: actual})
		}
	}

	report.Equal = report.QubitCountDiff == 0 && report.ClbitCountDiff == 0 &&
		report.DepthDiff == 0 && len(report.Differences) == 0

	return report, nil
}
