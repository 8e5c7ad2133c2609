package cli

import (
	"fmt"
	"log/slog"

	backend "github.com/redis/go-redis/v9"

	"github.com/jfellner/bounceflow"
	"github.com/jfellner/bounceflow/internal/config"
	"github.com/jfellner/bounceflow/pkg/adapters/memory"
	redisstore "github.com/jfellner/bounceflow/pkg/adapters/redis"
	"github.com/jfellner/bounceflow/pkg/domain"
	"github.com/jfellner/bounceflow/pkg/observability"
	"github.com/jfellner/bounceflow/pkg/ports"
)

// BuildEngine loads the configuration, builds the in-memory host from the
// project fixture, and wires the facade engine.
func BuildEngine(opts RunOptions, logger *slog.Logger) (*bounceflow.Engine, *memory.Host, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}
	if opts.Strategy != "" {
		cfg.Strategy = opts.Strategy
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	host, err := memory.LoadProject(opts.ProjectPath, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading project: %w", err)
	}

	engineOpts := []bounceflow.Option{
		bounceflow.WithLogger(logger),
	}
	if opts.ConfigPath != "" {
		engineOpts = append(engineOpts, bounceflow.WithConfigFile(opts.ConfigPath))
	}
	if opts.Strategy != "" {
		engineOpts = append(engineOpts, bounceflow.WithStrategy(opts.Strategy))
	}
	hooks := []domain.LifecycleHooks{opts.Hooks}
	if opts.Debug {
		hooks = append(hooks, createDebugHooks(logger))
	}
	engineOpts = append(engineOpts, bounceflow.WithLifecycleHooks(observability.Merge(hooks...)))

	engine, err := bounceflow.New(host, engineOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, host, nil
}

// BuildStore resolves the report store: Redis when a URL is given,
// otherwise in-memory.
func BuildStore(redisURL string) (ports.ReportStore, error) {
	if redisURL == "" {
		return memory.NewStore(), nil
	}
	redisOpts, err := backend.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redisstore.NewFromClient(backend.NewClient(redisOpts)), nil
}
