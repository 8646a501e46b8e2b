package qasm3

import (
	"strings"
	"testing"
)

const sampleQASM2 = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];
h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`

func TestConvertQASM2ToQASM3RewritesDeclarationsAndMeasurements(t *testing.T) {
	out, err := ConvertQASM2ToQASM3(sampleQASM2)
	if err != nil {
		t.Fatalf("ConvertQASM2ToQASM3: unexpected error: %v", err)
	}

	for _, want := range []string{
		"OPENQASM 3.0;",
		`include "stdgates.inc";`,
		"qubit q[2];",
		"bit c[2];",
		"c[0] = measure q[0];",
		"c[1] = measure q[1];",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("ConvertQASM2ToQASM3: expected output to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Contains(out, "qreg") || strings.Contains(out, "creg") {
		t.Fatalf("ConvertQASM2ToQASM3: leftover qreg/creg keyword in output:\n%s", out)
	}
}

func TestConvertQASM2ToQASM3RejectsNonQASM2Source(t *testing.T) {
	if _, err := ConvertQASM2ToQASM3("OPENQASM 3.0;\nqubit q;\n"); err == nil {
		t.Fatalf("ConvertQASM2ToQASM3: expected an error for a non-QASM2 version pragma")
	}
}

func TestToQASM3RequiresSourceText(t *testing.T) {
	m := mustLoad(t, bellProgram())

	if _, err := m.ToQASM3(); err == nil {
		t.Fatalf("ToQASM3: expected an error for a Module built via Loads (no SourceText)")
	}

	m.SourceText = sampleQASM2

	out, err := m.ToQASM3()
	if err != nil {
		t.Fatalf("ToQASM3: unexpected error once SourceText is set: %v", err)
	}

	if !strings.Contains(out, "OPENQASM 3.0;") {
		t.Fatalf("ToQASM3: expected a converted OpenQASM 3 version pragma, got:\n%s", out)
	}
}
