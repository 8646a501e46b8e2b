// Command qasm3 is a small toolbox for loading, validating, unrolling
// and rebasing OpenQASM 3 programs, grounded on the
// one-subcommand-per-operation cobra layout the go-corset toolbox's
// pkg/cmd package uses for its constraint-checking commands.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// version is filled in by the release build via -ldflags; empty when
// built with a plain "go build"/"go install".
var version string

// noColor mirrors the --no-color persistent flag; diagnostics_print.go
// reads it once flags are parsed.
var noColor bool

var rootCmd = &cobra.Command{
	Use:   "qasm3",
	Short: "A semantic analyzer and program-transformation toolbox for OpenQASM 3.",
	Long: `A semantic analyzer and program-transformation toolbox for OpenQASM 3.

qasm3 loads an already-parsed program, flattens it (inlining gate
definitions, unrolling bounded loops, expanding control/inverse/power
modifiers), and exposes that flattened form to the validate, unroll and
rebase (onto a restricted gate set) subcommands.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Print("qasm3 ")
			if version != "" {
				fmt.Print(version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Print(info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}
			fmt.Println()
			return
		}

		fmt.Println(cmd.UsageString())
	},
}

// Execute runs the root command; main() just calls this once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().Bool("skip-validation", false, "skip the explicit validate() call before unrolling")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI highlighting in diagnostic output")

	cobra.OnInitialize(func() {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		noColor, _ = rootCmd.PersistentFlags().GetBool("no-color")
	})
}

// getBool panics-via-exit on a cobra flag-lookup error, the same
// fail-fast convention pkg/cmd/util.go's getFlag uses: a missing or
// mistyped flag definition is a programming error in this binary, not a
// user-facing one, so there is nothing more useful to do than report it
// and stop.
func getBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return v
}

func getString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return v
}
