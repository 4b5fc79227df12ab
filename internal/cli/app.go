package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/pacer"
	"github.com/aretw0/pacer/internal/config"
	"github.com/aretw0/pacer/pkg/adapters/memory"
	"github.com/aretw0/pacer/pkg/adapters/redis"
	"github.com/aretw0/pacer/pkg/observability"
	"github.com/aretw0/pacer/pkg/persistence/middleware"
	"github.com/aretw0/pacer/pkg/ports"
	"github.com/aretw0/pacer/pkg/session"
)

const redisPingTimeout = 2 * time.Second

// Options are the command-line switches that shape how an App is built.
type Options struct {
	Debug bool
	// Quiet silences non-debug logging (interactive chat).
	Quiet bool
	// JSONLogs switches to structured JSON logs (server modes).
	JSONLogs bool
}

// App holds everything a command needs, built once from the configuration.
type App struct {
	Config   config.Config
	Engine   *pacer.Engine
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	closers []func() error
}

// NewApp wires the engine, the history store and the metrics from cfg.
func NewApp(cfg config.Config, opts Options) (*App, error) {
	logger, err := createLogger(cfg.LogLevel, opts)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks()
	if opts.Debug {
		hooks = hooks.Merge(observability.DebugHooks(logger))
	}

	engineOpts := []pacer.Option{
		pacer.WithLogger(logger),
		pacer.WithLifecycleHooks(hooks),
		pacer.WithTimeScale(cfg.TimeScale),
	}
	if cfg.Seed != 0 {
		engineOpts = append(engineOpts, pacer.WithSeed(cfg.Seed))
	}
	if cfg.WorkspaceRoot != "" {
		engineOpts = append(engineOpts, pacer.WithWorkspaceDirs(cfg.WorkspaceRoot))
	}

	engine, err := pacer.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	app := &App{
		Config:  cfg,
		Engine:  engine,
		Metrics: metrics,
		Logger:  logger,
	}

	store, locker, err := app.createStore(cfg.Store)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if store, err = wrapStore(store, cfg.Store); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Sessions = session.NewManager(store,
		session.WithLocker(locker),
		session.WithLogger(logger),
	)

	logger.Debug("app ready", "store", cfg.Store.Kind, "time_scale", cfg.TimeScale, "workspace", cfg.WorkspaceRoot)
	return app, nil
}

// createStore opens the configured history store and its session locker.
func (a *App) createStore(cfg config.StoreConfig) (ports.HistoryStore, ports.SessionLocker, error) {
	switch cfg.Kind {
	case "", config.StoreMemory:
		return memory.NewStore(), memory.NewLocker(), nil

	case config.StoreRedis:
		store := redis.New(cfg.RedisAddr,
			redis.WithPrefix(cfg.Prefix),
			redis.WithTTL(cfg.TTL),
		)
		a.closers = append(a.closers, store.Client().Close)

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := store.Client().Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, redis.NewLocker(store.Client(), store.Prefix()), nil

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
}

// wrapStore applies redaction and then encryption to stored turns.
func wrapStore(store ports.HistoryStore, cfg config.StoreConfig) (ports.HistoryStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.Redact)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), nil
}

// Close releases the store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
