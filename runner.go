package bounceflow

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// Runner executes a bounce and writes a human-readable report to the
// provided writer. This allows for easy testing and integration with
// different frontends (CLI, TUI, etc).
type Runner struct {
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms the report before
// outputting it. This allows for TUI rendering (markdown to ANSI) without
// coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a new Runner. The caller must set Output before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes one bounce on the engine and prints its report.
// Aborts are reported through the report status, not as an error; Run
// returns an error only for host failures and IO problems.
func (r *Runner) Run(ctx context.Context, engine *Engine, pass domain.RenderPass) (*domain.Report, error) {
	writer := r.Output
	if writer == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	report, runErr := engine.Run(ctx, pass)

	output := FormatReport(report)
	if r.Renderer != nil {
		if rendered, err := r.Renderer(output); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(writer, strings.TrimSpace(output))

	if report.Status == domain.RunFailed {
		return report, runErr
	}
	return report, nil
}

// FormatReport renders a run report as markdown.
func FormatReport(report *domain.Report) string {
	var b strings.Builder

	switch report.Status {
	case domain.RunSucceeded:
		fmt.Fprintf(&b, "# Bounce complete\n\n")
		fmt.Fprintf(&b, "- **Run:** %s\n", report.RunID)
		fmt.Fprintf(&b, "- **Source:** %s\n", report.SourceTrack)
		fmt.Fprintf(&b, "- **Rendered:** %s\n", report.RenderedTrack)
		fmt.Fprintf(&b, "- **Pass:** %s\n", report.Pass)
		fmt.Fprintf(&b, "- **Strategy:** %s\n", report.Strategy)
		fmt.Fprintf(&b, "- **Range:** %.3fs to %.3fs\n", report.Range.Start, report.Range.End)
		fmt.Fprintf(&b, "- **FX moved:** %d\n", report.FXTransferred)
		fmt.Fprintf(&b, "- **Items muted:** %d\n", report.ItemsMuted)
		fmt.Fprintf(&b, "- **Took:** %s\n", report.Duration)
	case domain.RunAborted:
		fmt.Fprintf(&b, "# Bounce aborted\n\n")
		fmt.Fprintf(&b, "- **Run:** %s\n", report.RunID)
		fmt.Fprintf(&b, "- **Stage:** %s\n", report.AbortStage)
		fmt.Fprintf(&b, "- **Reason:** %s\n\n", report.AbortReason)
		fmt.Fprintf(&b, "Nothing was changed in the session.\n")
	default:
		fmt.Fprintf(&b, "# Bounce failed\n\n")
		fmt.Fprintf(&b, "- **Run:** %s\n", report.RunID)
		fmt.Fprintf(&b, "- **Reason:** %s\n\n", report.AbortReason)
		fmt.Fprintf(&b, "The session may be partially modified; undo the last transaction to recover.\n")
	}

	return b.String()
}
