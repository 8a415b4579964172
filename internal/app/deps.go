package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"skipgram-query/internal/cache"
	"skipgram-query/internal/config"
	"skipgram-query/internal/logger"
	"skipgram-query/internal/model"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	Eval   model.Evaluator
	Cache  cache.Cache
}

// WorkerDeps extends Deps with the NATS connection the worker consumes.
type WorkerDeps struct {
	Deps
	NC *nats.Conn
}

// Build loads env, config, the model, and shared components.
func Build() (Deps, error) {
	// A .env file is a development convenience, not a requirement.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Deps{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.LogLevel)

	mdl, err := model.Load(cfg.ModelDir)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load model: %w", err)
	}
	log.Info("model loaded", "dir", cfg.ModelDir, "vocab", mdl.VocabSize(), "dim", mdl.Dim())

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}

	return Deps{
		Config: cfg,
		Log:    log,
		Eval:   mdl,
		Cache:  c,
	}, nil
}

// BuildWorker builds the shared components plus a NATS connection.
func BuildWorker() (WorkerDeps, error) {
	deps, err := Build()
	if err != nil {
		return WorkerDeps{}, err
	}
	if deps.Config.QueueURL == "" {
		return WorkerDeps{}, fmt.Errorf("QUEUE_URL is required for the worker")
	}
	nc, err := nats.Connect(deps.Config.QueueURL)
	if err != nil {
		return WorkerDeps{}, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	deps.Log.Info("connected to NATS", "url", deps.Config.QueueURL)
	return WorkerDeps{Deps: deps, NC: nc}, nil
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			// Serve without caching rather than refuse to start.
			log.Warn("redis unavailable, falling back to no-op cache", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c, nil
	case "none":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, none)", cfg.CacheProvider)
	}
}
