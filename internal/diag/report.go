// Package diag unifies the two error taxonomies spec §7 describes
// (compile-time diagnostics and runtime faults) into one renderable
// Report shape, plus the CLI's text/JSON/YAML rendering of them.
// Grounded on ailang's internal/errors/report.go (the Report struct
// shape: Schema/Code/Phase/Message/Data) and internal/errors/codes.go
// (a stable string code per diagnostic kind), generalized from ailang's
// own phase set to this repo's parse/module/type/runtime phases.
package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/ts-forge/tsforge/internal/ast"
)

// Severity mirrors spec §7's two diagnostic severities.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Phase names which pipeline stage produced the report, per spec §7's
// two-taxonomy split (compile-time diagnostics vs. runtime faults).
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseModule  Phase = "module"
	PhaseType    Phase = "type"
	PhaseAsync   Phase = "async"
	PhaseRuntime Phase = "runtime"
)

// Report is the canonical structured diagnostic for this CLI, the
// ancestor of ailang's Report struct generalized to this repo's own
// phase/code set.
type Report struct {
	ID       string         `json:"id" yaml:"id"`
	Schema   string         `json:"schema" yaml:"schema"`
	Code     string         `json:"code" yaml:"code"`
	Phase    Phase          `json:"phase" yaml:"phase"`
	Severity Severity       `json:"-" yaml:"-"`
	Message  string         `json:"message" yaml:"message"`
	Span     *ast.Span      `json:"span,omitempty" yaml:"span,omitempty"`
	Data     map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// reportOnWire exports Severity through a parallel SeverityText field for
// the JSON/YAML encoders, since Severity's int representation isn't the stable string
// contract external tooling consumes.
type reportOnWire struct {
	Report
	SeverityText string `json:"severity" yaml:"severity"`
}

const schemaVersion = "tsforge.diagnostic/v1"

// New stamps a fresh Report with a session-scoped uuid, the same
// correlation-id role funxy's go.mod dependency on google/uuid serves
// elsewhere in the pack, repurposed here for diagnostic cross-reference
// in --json output rather than RPC correlation.
func New(code string, phase Phase, severity Severity, span *ast.Span, message string) *Report {
	return &Report{
		ID:       uuid.NewString(),
		Schema:   schemaVersion,
		Code:     code,
		Phase:    phase,
		Severity: severity,
		Message:  message,
		Span:     span,
	}
}

func (r *Report) Error() string { return fmt.Sprintf("%s: %s", r.Code, r.Message) }

func (r *Report) wire() reportOnWire {
	return reportOnWire{Report: *r, SeverityText: r.Severity.String()}
}

// Bag accumulates reports across a compilation run, the same
// collect-don't-abort discipline spec §7 mandates for compile-time
// diagnostics.
type Bag struct {
	Reports []*Report
}

func (b *Bag) Add(r *Report) { b.Reports = append(b.Reports, r) }

func (b *Bag) HasErrors() bool {
	for _, r := range b.Reports {
		if r.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sorted returns reports ordered by source span, diagnostics with no span
// (SourceID < 0, i.e. ast.NoSpan) sorting last.
func (b *Bag) Sorted() []*Report {
	out := append([]*Report{}, b.Reports...)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Span, out[j].Span
		iNone := si == nil || si.SourceID < 0
		jNone := sj == nil || sj.SourceID < 0
		switch {
		case iNone:
			return false
		case jNone:
			return true
		case si.Start.Line != sj.Start.Line:
			return si.Start.Line < sj.Start.Line
		default:
			return si.Start.Column < sj.Start.Column
		}
	})
	return out
}

// RenderText writes a human-readable report list, one line per
// diagnostic, colored by severity via fatih/color and gated by
// mattn/go-isatty so piped/CI output stays plain (the same
// color-gating convention ailang's REPL and escalier's CLI both use).
func RenderText(w io.Writer, reports []*Report) {
	useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, r := range reports {
		label := r.Severity.String()
		if useColor {
			if r.Severity == SeverityError {
				label = red(label)
			} else {
				label = yellow(label)
			}
		}
		loc := "-"
		if r.Span != nil {
			loc = r.Span.Start.String()
		}
		fmt.Fprintf(w, "%s: %s [%s] %s (%s)\n", loc, label, r.Code, r.Message, r.Phase)
	}
}

// RenderJSON writes reports as a JSON array, one Report-on-wire object
// per entry, stable field order via struct tags (not gjson/sjson: this is
// the CLI's own fixed output schema, not a user-facing JSON.stringify
// with replacer/space semantics, so struct-tag marshaling is the right
// tool here, matching internal/config's package.json handling).
func RenderJSON(w io.Writer, reports []*Report) error {
	wired := make([]reportOnWire, len(reports))
	for i, r := range reports {
		wired[i] = r.wire()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wired)
}

// RenderYAML writes reports as a YAML sequence via gopkg.in/yaml.v3 (the
// teacher's own indirect dependency, reserved for output formatting so
// goccy/go-yaml stays internal/config's input-parsing library and the two
// YAML dependencies escalier carries each keep one job).
func RenderYAML(w io.Writer, reports []*Report) error {
	wired := make([]reportOnWire, len(reports))
	for i, r := range reports {
		wired[i] = r.wire()
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(wired)
}
