package diag

import (
	"github.com/ts-forge/tsforge/internal/checker"
)

// FromCheckerDiagnostics lifts the checker's own Diagnostic list into
// Reports the CLI can render uniformly alongside module-graph and
// async-lowering failures, per spec §7's "two taxonomies, one surfacing
// path" design.
func FromCheckerDiagnostics(diags []*checker.Diagnostic) []*Report {
	out := make([]*Report, len(diags))
	for i, d := range diags {
		sev := SeverityError
		if d.Severity == checker.SeverityWarning {
			sev = SeverityWarning
		}
		span := d.Span
		out[i] = New(d.Code, PhaseType, sev, &span, d.Error())
	}
	return out
}
