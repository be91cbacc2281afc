package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/descent/application"
	domainconfig "github.com/felixgeelhaar/descent/domain/config"
	"github.com/felixgeelhaar/descent/domain/result"
	"github.com/felixgeelhaar/descent/infrastructure/config"
	"github.com/felixgeelhaar/descent/infrastructure/logging"
	infrapack "github.com/felixgeelhaar/descent/infrastructure/pack"
	"github.com/felixgeelhaar/descent/infrastructure/storage/badger"
	"github.com/felixgeelhaar/descent/infrastructure/storage/memory"
	"github.com/felixgeelhaar/descent/infrastructure/storage/postgres"
	"github.com/felixgeelhaar/descent/infrastructure/storage/redis"
	"github.com/felixgeelhaar/descent/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/descent/infrastructure/telemetry"
	"github.com/felixgeelhaar/descent/pack/vieta"
)

// runtimeOptions are the flags shared by commands that solve.
type runtimeOptions struct {
	configPath string
	logLevel   string
	telemetry  string
	maxSteps   int
	timeout    time.Duration
	backend    string
	path       string
	dsn        string
	address    string
}

// addBaseFlags registers the flags every command that reads configuration
// accepts.
func (opts *runtimeOptions) addBaseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// addRunFlags registers the flags that shape a descent run. scope ends the
// timeout and max-steps help text.
func (opts *runtimeOptions) addRunFlags(cmd *cobra.Command, scope string) {
	cmd.Flags().StringVar(&opts.telemetry, "telemetry", "", "Trace exporter (none, stdout, otlp)")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "Maximum number of descent steps "+scope)
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Timeout "+scope)
}

func (opts *runtimeOptions) addStoreFlags(cmd *cobra.Command, backends string) {
	cmd.Flags().StringVar(&opts.backend, "store", "", "Result store backend ("+backends+")")
	cmd.Flags().StringVar(&opts.path, "path", "", "Badger directory or sqlite database file")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "Postgres connection string")
	cmd.Flags().StringVar(&opts.address, "redis-addr", "", "Redis host:port")
}

// runtime is everything a solving command needs, built from configuration
// and flag overrides.
type runtime struct {
	build    *config.BuildResult
	registry *infrapack.Registry
	engine   *application.Engine
	provider *telemetry.Provider
	store    result.Store
	closers  []func() error
}

func (a *App) loadConfig(path string) (*domainconfig.SolverConfig, error) {
	if path == "" {
		return domainconfig.Default(), nil
	}
	cfg, err := config.NewLoader().LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (opts *runtimeOptions) apply(cfg *domainconfig.SolverConfig) {
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.telemetry != "" {
		cfg.Telemetry.Exporter = opts.telemetry
	}
	if opts.maxSteps > 0 {
		cfg.Engine.MaxSteps = opts.maxSteps
	}
	if opts.timeout > 0 {
		cfg.Engine.Timeout = domainconfig.Duration(opts.timeout)
	}
	if opts.backend != "" {
		cfg.Storage.Backend = opts.backend
	}
	if opts.path != "" {
		cfg.Storage.Path = opts.path
	}
	if opts.dsn != "" {
		cfg.Storage.DSN = opts.dsn
	}
	if opts.address != "" {
		cfg.Storage.Address = opts.address
	}
}

// setup builds the runtime. The caller must call close.
func (a *App) setup(ctx context.Context, opts *runtimeOptions, cfg *domainconfig.SolverConfig) (*runtime, error) {
	opts.apply(cfg)

	build, err := config.NewBuilder(cfg).Build()
	if err != nil {
		return nil, err
	}

	build.Logging.Output = a.stderr
	logging.Init(build.Logging)
	logging.SetLevel(build.Logging.Level)

	rt := &runtime{build: build, registry: infrapack.NewRegistry()}

	provider, err := telemetry.NewProvider(ctx, build.Telemetry,
		telemetry.WithWriter(a.stderr),
		telemetry.WithServiceVersion(Version),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	rt.provider = provider
	rt.closers = append(rt.closers, func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return provider.Shutdown(shutdownCtx)
	})

	if err := vieta.Register(rt.registry); err != nil {
		_ = rt.close()
		return nil, err
	}

	rt.engine, err = application.NewEngineWithOptions(
		application.WithMaxSteps(build.MaxSteps),
		application.WithTimeout(build.Timeout),
		application.WithTransitions(build.Transitions),
		application.WithTelemetry(provider),
	)
	if err != nil {
		_ = rt.close()
		return nil, err
	}

	return rt, nil
}

// openStore opens the configured result store.
func (rt *runtime) openStore(ctx context.Context) error {
	storage := rt.build.Storage
	switch storage.Backend {
	case domainconfig.BackendMemory:
		rt.store = memory.NewResultStore()
	case domainconfig.BackendBadger:
		opt := badger.WithInMemory()
		if storage.Path != "" {
			opt = badger.WithDir(storage.Path)
		}
		store, err := badger.NewResultStore(badger.DefaultConfig(), opt)
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		rt.store = store
		rt.closers = append(rt.closers, store.Close)
	case domainconfig.BackendSQLite:
		store, err := sqlite.NewResultStore(sqlite.DefaultConfig(), sqlite.WithDSN("file:"+storage.Path))
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		rt.store = store
		rt.closers = append(rt.closers, store.Close)
	case domainconfig.BackendPostgres:
		pool, err := pgxpool.New(ctx, storage.DSN)
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		store := postgres.NewResultStore(pool, "")
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return fmt.Errorf("open result store: %w", err)
		}
		rt.store = store
		rt.closers = append(rt.closers, func() error {
			pool.Close()
			return nil
		})
	case domainconfig.BackendRedis:
		store, err := redis.NewResultStore(redis.DefaultConfig(), redis.WithAddress(storage.Address))
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		rt.store = store
		rt.closers = append(rt.closers, store.Close)
	default:
		return fmt.Errorf("unknown storage backend %q", storage.Backend)
	}
	return nil
}

func (rt *runtime) close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
