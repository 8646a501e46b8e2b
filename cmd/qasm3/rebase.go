package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	qasm3 "github.com/qbraid/qasm3"
)

var rebaseCmd = &cobra.Command{
	Use:   "rebase [flags] paths...",
	Short: "Unroll each program and recursively decompose it onto a restricted basis gate set.",
	Long: `Unroll each program and recursively decompose it onto a restricted basis
gate set.

--basis selects the target: "default" (the full intrinsic set, i.e. plain
unroll with no further decomposition), "rotational-cx" ({rx, ry, rz, cx})
or "clifford-t" ({h, s, t, cx}; z, sdg, tdg, cz and swap are kept as
they are, not decomposed further). A parameterized rotation has no
Clifford+T decomposition and is reported as an error rather than silently
approximated.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		basisName := getString(cmd, "basis")
		basis, useDefault, err := parseBasis(basisName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		failed := false

		for _, path := range args {
			m, err := qasm3.Load(path)
			if err != nil {
				printDiagnostic(path, err)
				failed = true
				continue
			}

			var result *qasm3.Module
			if useDefault {
				result, err = m.Unroll(qasm3.CompilationConfig{UnrollBarriers: true})
			} else {
				result, err = m.Rebase(basis)
			}
			if err != nil {
				printDiagnostic(path, err)
				failed = true
				continue
			}

			text, err := result.Dumps()
			if err != nil {
				printDiagnostic(path, err)
				failed = true
				continue
			}

			fmt.Print(text)
		}

		if failed {
			os.Exit(1)
		}
	},
}

// parseBasis resolves --basis. useDefault is true for "default"/"", which
// names the full intrinsic set Rebase has nothing to decompose onto — a
// plain unroll already lands there, so there is no dispatch.BasisSet
// value for it.
func parseBasis(name string) (basis qasm3.BasisSet, useDefault bool, err error) {
	switch name {
	case "", "default":
		return 0, true, nil
	case "rotational-cx":
		return qasm3.BasisRotationalCX, false, nil
	case "clifford-t":
		return qasm3.BasisCliffordT, false, nil
	default:
		return 0, false, fmt.Errorf("qasm3 rebase: unknown --basis %q (want default, rotational-cx or clifford-t)", name)
	}
}

func init() {
	rootCmd.AddCommand(rebaseCmd)
	rebaseCmd.Flags().String("basis", "rotational-cx", "target basis: default, rotational-cx or clifford-t")
}
