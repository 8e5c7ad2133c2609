// Package workflow implements the guarded sequential bounce procedure: it
// validates preconditions, transiently mutates host track and FX state,
// triggers a host-owned render, and restores what it touched.
package workflow

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jfellner/bounceflow/internal/config"
	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// Engine executes the bounce workflow against a host. One Engine may serve
// many invocations, but a single invocation is strictly sequential and runs
// to completion or early abort; there is no suspension point and no
// cancellation path past the guard stages.
type Engine struct {
	host     ports.Host
	cfg      config.Config
	transfer ports.ChainTransfer
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	clock    func() time.Time
	newRunID func() string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithTransfer overrides the chain transfer strategy picked from config.
func WithTransfer(t ports.ChainTransfer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.transfer = t
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) EngineOption {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine creates a workflow engine bound to a host.
func NewEngine(host ports.Host, cfg config.Config, opts ...EngineOption) *Engine {
	e := &Engine{
		host:   host,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  time.Now,
	}
	e.newRunID = func() string {
		return fmt.Sprintf("run-%d", e.clock().UnixNano())
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.transfer == nil {
		e.transfer = TransferForStrategy(e.cfg.Strategy)
	}
	return e
}

// Config returns the engine's resolved configuration.
func (e *Engine) Config() config.Config {
	return e.cfg
}
