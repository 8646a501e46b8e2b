package main

import (
	"testing"

	qasm3 "github.com/qbraid/qasm3"
)

func TestParseBasisRecognizesEachName(t *testing.T) {
	if _, useDefault, err := parseBasis(""); err != nil || !useDefault {
		t.Fatalf("parseBasis(\"\") = (_, %v, %v), want (_, true, nil)", useDefault, err)
	}

	if _, useDefault, err := parseBasis("default"); err != nil || !useDefault {
		t.Fatalf("parseBasis(\"default\") = (_, %v, %v), want (_, true, nil)", useDefault, err)
	}

	basis, useDefault, err := parseBasis("rotational-cx")
	if err != nil || useDefault || basis != qasm3.BasisRotationalCX {
		t.Fatalf("parseBasis(\"rotational-cx\") = (%v, %v, %v), want (BasisRotationalCX, false, nil)", basis, useDefault, err)
	}

	basis, useDefault, err = parseBasis("clifford-t")
	if err != nil || useDefault || basis != qasm3.BasisCliffordT {
		t.Fatalf("parseBasis(\"clifford-t\") = (%v, %v, %v), want (BasisCliffordT, false, nil)", basis, useDefault, err)
	}
}

func TestParseBasisRejectsUnknownName(t *testing.T) {
	if _, _, err := parseBasis("bogus"); err == nil {
		t.Fatalf("parseBasis(\"bogus\"): expected an error")
	}
}

func TestFindEnclosingLineLocatesTheRightLine(t *testing.T) {
	text := "qubit q;\nh q[0];\ncx q[0], q[5];\n"

	// index into "cx q[0], q[5];" — the third line.
	idx := len("qubit q;\nh q[0];\n") + 3

	line, offset, num := findEnclosingLine(idx, text)

	if line != "cx q[0], q[5];" {
		t.Fatalf("findEnclosingLine: line = %q, want %q", line, "cx q[0], q[5];")
	}
	if num != 3 {
		t.Fatalf("findEnclosingLine: lineNum = %d, want 3", num)
	}
	if offset != 3 {
		t.Fatalf("findEnclosingLine: offset = %d, want 3", offset)
	}
}

func TestFindEnclosingLineHandlesTrailingIndex(t *testing.T) {
	text := "h q[0];\n"

	line, _, num := findEnclosingLine(len(text), text)
	if num != 1 {
		t.Fatalf("findEnclosingLine: lineNum = %d, want 1 for an end-of-text index", num)
	}
	if line == "" {
		t.Fatalf("findEnclosingLine: expected a non-empty line for an end-of-text index")
	}
}

func TestWriteOrReportWritesFileContents(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.qasm"

	if writeOrReport(path, "OPENQASM 3.0;\n") {
		t.Fatalf("writeOrReport: unexpected failure writing %q", path)
	}
}

func TestWriteOrReportReportsUnwritablePath(t *testing.T) {
	if !writeOrReport("/nonexistent-dir-for-this-test/out.qasm", "x") {
		t.Fatalf("writeOrReport: expected failure for an unwritable path")
	}
}
