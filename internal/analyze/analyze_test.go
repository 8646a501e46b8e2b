package analyze

import (
	"math/big"
	"testing"

	"github.com/qbraid/qasm3/internal/registers"
)

func TestExtractQASMVersionFindsPragma(t *testing.T) {
	v, err := ExtractQASMVersion("// header\nOPENQASM 3.0;\nqubit[2] q;")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != 3.0 {
		t.Fatalf("expected 3.0, got %f", v)
	}
}

func TestExtractQASMVersionDefaultsMinorToZero(t *testing.T) {
	v, err := ExtractQASMVersion("OPENQASM 2;\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != 2.0 {
		t.Fatalf("expected 2.0, got %f", v)
	}
}

func TestExtractQASMVersionMissingPragmaErrors(t *testing.T) {
	if _, err := ExtractQASMVersion("qubit[2] q;"); err == nil {
		t.Fatalf("expected error for missing version pragma")
	}
}

func TestExtractDuplicateQubitFindsRepeat(t *testing.T) {
	ids := []registers.Identity{{Register: "q", Index: 0}, {Register: "q", Index: 1}, {Register: "q", Index: 0}}

	dup, found := ExtractDuplicateQubit(ids)
	if !found || dup.Index != 0 {
		t.Fatalf("expected duplicate q[0], got %+v found=%v", dup, found)
	}
}

func TestVerifyGateQubitsRejectsDuplicate(t *testing.T) {
	ids := []registers.Identity{{Register: "q", Index: 0}, {Register: "q", Index: 0}}

	if err := VerifyGateQubits("cx", ids); err == nil {
		t.Fatalf("expected duplicate-qubit error")
	}
}

func TestBitsFromStringRoundTrips(t *testing.T) {
	bits, err := BitsFromString("1011")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if StringFromBits(bits) != "1011" {
		t.Fatalf("expected round trip to 1011, got %s", StringFromBits(bits))
	}
}

func TestExpandBranchProducesMSBFirstChain(t *testing.T) {
	ids := []registers.Identity{{Register: "c", Index: 0}, {Register: "c", Index: 1}, {Register: "c", Index: 2}}

	bits := ExpandBranch(big.NewInt(5), ids) // 101
	if len(bits) != 3 || !bits[0].Expected || bits[1].Expected || !bits[2].Expected {
		t.Fatalf("expected [1,0,1], got %+v", bits)
	}
}

// evalClauses evaluates an OR-of-AND-chain clause set against a concrete
// 3-bit assignment, where bits[i] is the truth value of ids[i].
func evalClauses(clauses [][]BranchBit, bits []bool) bool {
	byBit := make(map[registers.Identity]bool, len(bits))
	for i, b := range bits {
		byBit[registers.Identity{Register: "c", Index: uint(i)}] = b
	}

	for _, clause := range clauses {
		ok := true
		for _, bb := range clause {
			if byBit[bb.Clbit] != bb.Expected {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}

	return false
}

func TestExpandComparisonMatchesMagnitudeComparisonForEveryOperatorAndValue(t *testing.T) {
	ids := []registers.Identity{{Register: "c", Index: 0}, {Register: "c", Index: 1}, {Register: "c", Index: 2}}

	ops := map[string]func(c, v int64) bool{
		"==": func(c, v int64) bool { return c == v },
		"!=": func(c, v int64) bool { return c != v },
		"<":  func(c, v int64) bool { return c < v },
		"<=": func(c, v int64) bool { return c <= v },
		">":  func(c, v int64) bool { return c > v },
		">=": func(c, v int64) bool { return c >= v },
	}

	for op, want := range ops {
		for value := int64(0); value < 8; value++ {
			clauses, err := ExpandComparison(op, big.NewInt(value), ids)
			if err != nil {
				t.Fatalf("ExpandComparison(%q, %d): unexpected error: %v", op, value, err)
			}

			for c := int64(0); c < 8; c++ {
				bits := []bool{c&4 != 0, c&2 != 0, c&1 != 0} // MSB-first, matching ExpandBranch's bit order
				got := evalClauses(clauses, bits)
				if got != want(c, value) {
					t.Fatalf("op %q, c=%d, value=%d: clauses evaluated to %v, want %v", op, c, value, got, want(c, value))
				}
			}
		}
	}
}

func TestExpandComparisonRejectsUnknownOperator(t *testing.T) {
	ids := []registers.Identity{{Register: "c", Index: 0}}

	if _, err := ExpandComparison("<=>", big.NewInt(0), ids); err == nil {
		t.Fatalf("expected an error for an unsupported operator")
	}
}

func TestRemoveAndPopulateIdleQubits(t *testing.T) {
	idle := map[uint]bool{1: true, 3: true}

	kept, record := RemoveIdleQubits("q", 4, idle)
	if len(kept) != 2 || kept[0] != 0 || kept[1] != 2 {
		t.Fatalf("expected kept [0,2], got %+v", kept)
	}

	restored, err := PopulateIdleQubits(&record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if restored != 4 {
		t.Fatalf("expected restore to original size 4, got %d", restored)
	}
}

func TestPopulateIdleQubitsErrorsWhenRecordCleared(t *testing.T) {
	if _, err := PopulateIdleQubits(nil); err == nil {
		t.Fatalf("expected error when no prune record exists")
	}
}

func TestReverseOrderPermutation(t *testing.T) {
	perm := ReverseOrder(3)
	if perm[0] != 2 || perm[1] != 1 || perm[2] != 0 {
		t.Fatalf("expected [2,1,0], got %+v", perm)
	}
}

type fakeStatement struct {
	measurement bool
	barrier     bool
}

func (s fakeStatement) IsMeasurement() bool { return s.measurement }
func (s fakeStatement) IsBarrier() bool     { return s.barrier }

func TestPresenceScanCachesUntilInvalidated(t *testing.T) {
	var scan PresenceScan

	stmts := []OutputStatement{fakeStatement{measurement: true}, fakeStatement{barrier: true}}

	if !scan.HasMeasurements(stmts) || !scan.HasBarriers(stmts) {
		t.Fatalf("expected both present on first scan")
	}

	scan.Invalidate()

	if scan.HasMeasurements(nil) {
		t.Fatalf("expected recompute against the new (empty) statement list after invalidation")
	}
}
