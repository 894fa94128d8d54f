package main

import (
	"github.com/spf13/cobra"

	"github.com/ts-forge/tsforge/internal/ast"
	"github.com/ts-forge/tsforge/internal/diag"
	"github.com/ts-forge/tsforge/internal/modgraph"
)

// newCheckCmd wires the real, disk-backed half of the Module Graph (spec
// §4.1): specifier resolution, cycle detection, and topological ordering
// against actual files. It does not type-check statement bodies, because
// the lexer/parser that would turn file bytes into an ast.Module body is
// an explicit external collaborator (spec §1/§6) with no implementation
// anywhere in the retrieval pack to adopt; `tsforge demo` exercises the
// checker and async lowering instead, against an embedded syntax tree.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <entry.ts> [more entries...]",
		Short: "load the module graph for one or more entry files and report resolution diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := modgraph.NewResolver(modgraph.OSFileSystem{})
			graph := modgraph.NewGraph(resolver, modgraph.NoopParse)

			var reports []*diag.Report
			for _, entry := range args {
				if _, err := graph.Load(entry); err != nil {
					reports = append(reports, diag.New("TSF5001", diag.PhaseModule, diag.SeverityError, nil, err.Error()))
				}
			}
			if len(reports) == 0 {
				order := graph.TopologicalOrder()
				for i, path := range order {
					reports = append(reports, diag.New("TSF0000", diag.PhaseModule, diag.SeverityWarning,
						&ast.Span{SourceID: i}, "resolved: "+path))
				}
			}
			if err := renderReports(reports); err != nil {
				return err
			}
			exitIfErrors(reports)
			return nil
		},
	}
}
