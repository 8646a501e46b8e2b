package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	qasm3 "github.com/qbraid/qasm3"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] paths...",
	Short: "Load and flatten each program, reporting the first diagnostic encountered.",
	Long: `Load and flatten each program, reporting the first diagnostic encountered.

Exits 0 if every path loads cleanly, 1 if any path raises a diagnostic.
Loading text requires an external OpenQASM 3 parser collaborator to be
wired into qasm3.ExternalParser; this binary does not bundle one (see
Module.LoadsText's documentation) and reports that plainly instead of
silently producing the wrong answer.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		failed := false

		for _, path := range args {
			m, err := qasm3.Load(path)
			if err != nil {
				printDiagnostic(path, err)
				failed = true
				continue
			}

			fmt.Printf("%s: ok (%d qubits, %d clbits, depth %d)\n", path, m.NumQubits(), m.NumClbits(), m.Depth())
		}

		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
