// Package cli implements the command-line session flow: load a project
// fixture or host binding, run a bounce, and present the report.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jfellner/bounceflow/pkg/domain"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ProjectPath string // YAML fixture for the in-memory host
	ConfigPath  string
	Pass        string
	Strategy    string
	Headless    bool
	JSON        bool
	Debug       bool
	RedisURL    string

	// Hooks lets embedding surfaces (the HTTP server) attach metrics or
	// other observers to the engine this options set builds.
	Hooks domain.LifecycleHooks
}

// Execute handles the run command logic.
func Execute(opts RunOptions) error {
	if opts.ProjectPath == "" {
		return fmt.Errorf("a project fixture is required (--project)")
	}
	if _, err := os.Stat(opts.ProjectPath); err != nil {
		return fmt.Errorf("project fixture not readable: %w", err)
	}
	return RunSession(opts)
}

// printJSON writes v to stdout as a single JSON document.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
