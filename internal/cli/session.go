package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jfellner/bounceflow"
	"github.com/jfellner/bounceflow/internal/presentation/tui"
	"github.com/jfellner/bounceflow/pkg/domain"
)

// RunSession executes a single bounce against the project fixture.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	interactive := !opts.JSON && !opts.Headless && isTerminal()
	if interactive {
		tui.PrintBanner(bounceflow.Version)
	}

	pass, err := domain.ParsePass(opts.Pass)
	if err != nil {
		return err
	}

	engine, _, err := BuildEngine(opts, logger)
	if err != nil {
		return err
	}

	store, err := BuildStore(opts.RedisURL)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if opts.JSON {
		report, runErr := engine.Run(ctx, pass)
		if report != nil {
			_ = store.Save(ctx, report)
			if err := printJSON(report); err != nil {
				return err
			}
		}
		if report != nil && report.Status == domain.RunFailed {
			return runErr
		}
		return nil
	}

	runner := bounceflow.NewRunner()
	runner.Output = os.Stdout
	runner.Headless = opts.Headless
	if interactive {
		runner.Renderer = tui.NewRenderer()
	}

	report, runErr := runner.Run(ctx, engine, pass)
	if report != nil {
		_ = store.Save(ctx, report)
	}
	if runErr != nil {
		return fmt.Errorf("bounce failed: %w", runErr)
	}
	return nil
}
