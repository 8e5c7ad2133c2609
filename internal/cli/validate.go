package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// RunValidate checks every bounce precondition without mutating any state.
// Returns an error when a precondition fails, so the process exits nonzero.
func RunValidate(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	pass, err := domain.ParsePass(opts.Pass)
	if err != nil {
		return err
	}

	engine, _, err := BuildEngine(opts, logger)
	if err != nil {
		return err
	}

	err = engine.Preflight(context.Background(), pass)
	if err != nil {
		var abort *domain.AbortError
		if errors.As(err, &abort) {
			if opts.JSON {
				return printJSON(map[string]string{
					"status": "failed",
					"stage":  string(abort.Stage),
					"reason": abort.Reason.Error(),
				})
			}
			printSystemMessage("Precondition failed at %s: %s", abort.Stage, abort.Reason)
			return fmt.Errorf("validation failed")
		}
		return fmt.Errorf("validation error: %w", err)
	}

	if opts.JSON {
		return printJSON(map[string]string{"status": "ok"})
	}
	printSystemMessage("All preconditions satisfied.")
	return nil
}
