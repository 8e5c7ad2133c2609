package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/jfellner/bounceflow/internal/logging"
	"github.com/jfellner/bounceflow/pkg/domain"
)

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout report output).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// isTerminal reports whether stdout is an interactive terminal.
// Banner and ANSI rendering are skipped when output is piped.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnter: func(ctx context.Context, e *domain.StageEvent) {
			logger.Debug("Enter Stage", "stage", string(e.Stage), "run", e.RunID)
		},
		OnStageLeave: func(ctx context.Context, e *domain.StageEvent) {
			logger.Debug("Leave Stage", "stage", string(e.Stage), "run", e.RunID)
		},
		OnRenderDispatch: func(ctx context.Context, e *domain.StageEvent) {
			logger.Debug("Render Dispatch", "pass", string(e.Pass), "run", e.RunID)
		},
		OnAbort: func(ctx context.Context, e *domain.AbortEvent) {
			logger.Debug("Abort", "stage", string(e.Stage), "reason", e.Reason, "run", e.RunID)
		},
	}
}
