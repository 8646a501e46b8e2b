package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	qasm3 "github.com/qbraid/qasm3"
)

var unrollCmd = &cobra.Command{
	Use:   "unroll [flags] paths...",
	Short: "Flatten each program and print or write its canonical form.",
	Long: `Flatten each program and print or write its canonical form.

By default the unrolled text is printed to stdout for each path in turn.
--overwrite writes it back to the same file; --output redirects it to a
single given path instead (valid only with exactly one input path).`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		skip := getBool(cmd, "skip-validation")
		overwrite := getBool(cmd, "overwrite")
		output := getString(cmd, "output")

		if output != "" && len(args) != 1 {
			fmt.Fprintln(os.Stderr, "qasm3 unroll: --output requires exactly one input path")
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

			if !skip {
				// Validate() is trivially satisfied once a Module
				// exists (loading and flattening happen together in
				// one pass), but the call is kept to preserve the CLI
				// surface; --skip-validation opts out of it.
				if err := m.Validate(); err != nil {
					printDiagnostic(path, err)
					failed = true
					continue
				}
			}

			rolled, err := m.Unroll(qasm3.CompilationConfig{UnrollBarriers: true})
			if err != nil {
				printDiagnostic(path, err)
				failed = true
				continue
			}

			text, err := rolled.Dumps()
			if err != nil {
				printDiagnostic(path, err)
				failed = true
				continue
			}

			switch {
			case output != "":
				failed = writeOrReport(output, text) || failed
			case overwrite:
				failed = writeOrReport(path, text) || failed
			default:
				fmt.Print(text)
			}
		}

		if failed {
			os.Exit(1)
		}
	},
}

func writeOrReport(path, text string) bool {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "qasm3 unroll: writing %q: %v\n", path, err)
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(unrollCmd)
	unrollCmd.Flags().Bool("overwrite", false, "write the unrolled program back to its source file")
	unrollCmd.Flags().String("output", "", "write the unrolled program to this path instead of stdout")
}
