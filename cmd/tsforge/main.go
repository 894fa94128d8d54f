// Command tsforge is the CLI collaborator spec §6 names (loadEntry/
// checkAll/lower/interpret/emit are the programmatic entry points; exit
// codes and argument parsing are this command's own concern, not the
// core's). Grounded on ailang's cmd/ailang (subcommand-per-file layout,
// color-gated output) generalized from ailang's stdlib flag parsing to
// spf13/cobra + spf13/pflag, since escalier's own go.mod carries
// cobra directly.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// outputFormat selects how diagnostics are rendered; set by persistent
// flags shared across every subcommand, per SPEC_FULL.md §3.
type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

var (
	format         string
	noColor        bool
	traceNarrowing bool
)

func main() {
	root := &cobra.Command{
		Use:           "tsforge",
		Short:         "tsforge checks and lowers TypeScript modules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().StringVar(&format, "format", string(formatText), "diagnostic output format: text|json|yaml")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic text output")
	root.PersistentFlags().BoolVar(&traceNarrowing, "trace-narrowing", false, "demo: report the CFG block count and the names of narrowed bindings")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error:"), err)
		os.Exit(1)
	}
}
