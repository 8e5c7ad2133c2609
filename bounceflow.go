package bounceflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jfellner/bounceflow/internal/config"
	"github.com/jfellner/bounceflow/internal/workflow"
	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// Engine is the high-level entry point for the bounceflow library.
// It wraps the internal workflow engine and provides a simplified API for
// consumers that bring their own host binding.
type Engine struct {
	workflow *workflow.Engine
	host     ports.Host

	configPath string
	cfg        *config.Config
	strategy   string
	insertName string
	undoLabel  string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	transfer   ports.ChainTransfer
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithConfigFile loads settings from a YAML file. A missing file yields
// the stock configuration.
func WithConfigFile(path string) Option {
	return func(e *Engine) {
		e.configPath = path
	}
}

// WithStrategy selects the chain transfer strategy: "copy" or "chunk".
func WithStrategy(name string) Option {
	return func(e *Engine) {
		e.strategy = name
	}
}

// WithInsertName overrides the FX name expected in chain slot 0.
func WithInsertName(name string) Option {
	return func(e *Engine) {
		e.insertName = name
	}
}

// WithUndoLabel overrides the label of the undo transaction.
func WithUndoLabel(label string) Option {
	return func(e *Engine) {
		e.undoLabel = label
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithChainTransfer injects a custom transfer implementation, bypassing
// the strategy name.
func WithChainTransfer(t ports.ChainTransfer) Option {
	return func(e *Engine) {
		e.transfer = t
	}
}

// New initializes an Engine against the given host binding.
func New(host ports.Host, opts ...Option) (*Engine, error) {
	if host == nil {
		return nil, fmt.Errorf("host binding is required")
	}

	eng := &Engine{host: host}
	for _, opt := range opts {
		opt(eng)
	}

	cfg := config.Default()
	if eng.configPath != "" {
		loaded, err := config.Load(eng.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if eng.strategy != "" {
		cfg.Strategy = eng.strategy
	}
	if eng.insertName != "" {
		cfg.InsertName = eng.insertName
	}
	if eng.undoLabel != "" {
		cfg.UndoLabel = eng.undoLabel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	eng.cfg = &cfg

	// Ensure logger is initialized so we don't pass nil down, which would
	// overwrite the workflow default.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	workflowOpts := []workflow.EngineOption{
		workflow.WithLifecycleHooks(eng.hooks),
		workflow.WithLogger(eng.logger),
	}
	if eng.transfer != nil {
		workflowOpts = append(workflowOpts, workflow.WithTransfer(eng.transfer))
	}

	eng.workflow = workflow.NewEngine(host, cfg, workflowOpts...)
	return eng, nil
}

// Run executes one bounce. The returned report is never nil and records
// the outcome even when err is non-nil.
func (e *Engine) Run(ctx context.Context, pass domain.RenderPass) (*domain.Report, error) {
	return e.workflow.Run(ctx, pass)
}

// Preflight runs the guard stages only and never mutates host state.
// It returns nil when every precondition holds.
func (e *Engine) Preflight(ctx context.Context, pass domain.RenderPass) error {
	return e.workflow.Preflight(ctx, pass)
}

// Strategy reports the active chain transfer strategy name.
func (e *Engine) Strategy() string {
	return e.cfg.Strategy
}

// Host returns the host binding the engine drives.
func (e *Engine) Host() ports.Host {
	return e.host
}
