package cli

import (
	"fmt"
	"io"

	"github.com/gdblint/gdblint/internal/fileutil"
	"github.com/gdblint/gdblint/internal/report"
)

type DiagnosticSummary struct {
	Issue   string `json:"issue"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type RunSummary struct {
	Mode        string              `json:"mode"`
	File        string              `json:"file"`
	Format      string              `json:"format,omitempty"`
	Source      string              `json:"source"`
	Lines       int                 `json:"lines"`
	Definitions int                 `json:"definitions"`
	References  int                 `json:"references"`
	Commands    int                 `json:"commands"`
	Issues      int                 `json:"issues"`
	DurationMS  int64               `json:"duration_ms"`
	Diagnostics []DiagnosticSummary `json:"diagnostics,omitempty"`
}

func summarizeDiagnostics(diags []report.Diagnostic, file string, width int) []DiagnosticSummary {
	out := make([]DiagnosticSummary, 0, len(diags))
	for _, d := range diags {
		out = append(out, DiagnosticSummary{
			Issue:   d.Issue.String(),
			Kind:    d.Kind.String(),
			Name:    d.Name,
			Line:    d.Line,
			Message: d.Message(file, width),
		})
	}
	return out
}

func PrintRunSummary(w io.Writer, summary RunSummary, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(w, summary)
	}

	_, err := fmt.Fprintf(w,
		"%s: file=%s source=%s lines=%d definitions=%d references=%d commands=%d issues=%d duration=%dms\n",
		summary.Mode,
		summary.File,
		summary.Source,
		summary.Lines,
		summary.Definitions,
		summary.References,
		summary.Commands,
		summary.Issues,
		summary.DurationMS,
	)
	return err
}
