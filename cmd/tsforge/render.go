package main

import (
	"fmt"
	"os"

	"github.com/ts-forge/tsforge/internal/diag"
)

func renderReports(reports []*diag.Report) error {
	switch outputFormat(format) {
	case formatJSON:
		return diag.RenderJSON(os.Stdout, reports)
	case formatYAML:
		return diag.RenderYAML(os.Stdout, reports)
	default:
		diag.RenderText(os.Stdout, reports)
		return nil
	}
}

func exitIfErrors(reports []*diag.Report) {
	for _, r := range reports {
		if r.Severity == diag.SeverityError {
			fmt.Fprintln(os.Stderr, "tsforge: compilation failed")
			os.Exit(1)
		}
	}
}
