package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/textkit"
	"github.com/aretw0/textkit/internal/config"
	"github.com/aretw0/textkit/internal/logging"
	"github.com/aretw0/textkit/pkg/adapters/memory"
	"github.com/aretw0/textkit/pkg/adapters/redis"
	"github.com/aretw0/textkit/pkg/keystore"
	"github.com/aretw0/textkit/pkg/observability"
	"github.com/aretw0/textkit/pkg/persistence/middleware"
	"github.com/aretw0/textkit/pkg/ports"
	"github.com/aretw0/textkit/pkg/runner"
)

// Stack is the engine and everything around it, built from one Config.
type Stack struct {
	Config *config.Config
	Engine *textkit.Engine
	Runner *runner.Runner
	Cache  ports.ResultCache
	Keys   *keystore.FileStore

	closers []func() error
}

// BuildOptions carries collaborators that outlive a single Stack.
type BuildOptions struct {
	Logger      *slog.Logger
	Metrics     *observability.Metrics
	Interceptor runner.Interceptor
}

// Build creates a Stack with standard CLI conventions:
// - log hooks at debug level, metrics hooks when Metrics is set
// - the crypto family when crypto is enabled, keys generated on first use
// - a result cache wrapped in the configured middlewares
func Build(cfg *config.Config, opts BuildOptions) (*Stack, error) {
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(cfg.LogLevel, false)
	}

	s := &Stack{Config: cfg}

	hooks := observability.LogHooks(logger)
	engineOpts := []textkit.Option{
		textkit.WithLogger(logger),
		textkit.WithLifecycleHooks(hooks),
		textkit.WithMaxRules(cfg.Rules.MaxPerChain),
		textkit.WithDisabledFamilies(cfg.Rules.Disabled...),
	}
	if opts.Metrics != nil {
		engineOpts = append(engineOpts, textkit.WithLifecycleHooks(opts.Metrics.Hooks()))
	}
	if cfg.Crypto.Enabled {
		s.Keys = keystore.NewFileStore(cfg.Crypto.KeyDir,
			keystore.WithKeyBits(cfg.Crypto.KeyBits),
			keystore.WithAutoGenerate(true),
		)
		engineOpts = append(engineOpts, textkit.WithKeyProvider(s.Keys))
	}

	engine, err := textkit.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	s.Engine = engine

	cache, err := s.newCache(cfg.Cache, opts.Metrics)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Cache = cache

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithWorkers(cfg.Batch.Workers),
		runner.WithTimeout(cfg.Rules.Timeout),
		runner.WithMaxInputSize(cfg.MaxInputSize),
		runner.WithInterceptor(opts.Interceptor),
	}
	if cache != nil {
		runnerOpts = append(runnerOpts, runner.WithCache(cache, cfg.Cache.TTL))
	}
	s.Runner = runner.NewRunner(engine, runnerOpts...)

	logger.Debug("stack ready",
		"rules", len(engine.RuleNames()),
		"cache", cfg.Cache.Backend,
		"crypto", cfg.Crypto.Enabled,
	)
	return s, nil
}

func (s *Stack) newCache(cfg config.CacheConfig, metrics *observability.Metrics) (ports.ResultCache, error) {
	var base ports.ResultCache
	switch cfg.Backend {
	case config.CacheNone, "":
		return nil, nil
	case config.CacheMemory:
		base = memory.NewCache(cfg.Size)
	case config.CacheRedis:
		rc := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TTL))
		s.closers = append(s.closers, rc.Close)
		base = rc
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}

	var mws []middleware.Middleware
	if metrics != nil {
		mws = append(mws, func(next ports.ResultCache) ports.ResultCache {
			return metrics.InstrumentCache(next)
		})
	}
	if cfg.MaxValueSize > 0 {
		mws = append(mws, middleware.NewMaxValueSizeMiddleware(cfg.MaxValueSize))
	}
	if cfg.SkipPII {
		mws = append(mws, middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns))
	}
	if cfg.EncryptionKey != "" {
		key, err := cfg.Key()
		if err != nil {
			return nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Chain(base, mws...), nil
}

// Close releases backend connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// createLogger configures the application logger.
// Debug overrides the configured level.
func createLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(logging.ParseLevel(level))
}
