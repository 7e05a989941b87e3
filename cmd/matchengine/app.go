package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/config"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
	dbRedis "github.com/Denis-Wendell/matchmaking-sub000/internal/db/redis"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	logpkg "github.com/Denis-Wendell/matchmaking-sub000/internal/logger"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/metrics"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/repository/embcache"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/repository/entity"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/transport/gemini"
	openaiTransport "github.com/Denis-Wendell/matchmaking-sub000/internal/transport/openai"
	embeddinguc "github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/embedding"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/indexer"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/version"
)

// app holds what every command needs: config, logger, store and the
// embedding pipeline.
type app struct {
	env      string
	cfg      config.Config
	logger   *zap.Logger
	store    db.Store
	entities *entity.Repo
	embedder *embeddinguc.InstrumentedEmbedder
	indexer  *indexer.Service
}

func bootstrap(ctx context.Context, component string) (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	logger.Info("Starting matchengine "+component,
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("create database store: %w", err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	// Registered explicitly, not in init().
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	vec := domain.VectorConfig{
		Model:       cfg.Embedding.Model,
		Dimensions:  cfg.Embedding.Dimensions,
		Algorithm:   cfg.Index.Algorithm,
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}
	entities := entity.New(store, vec)
	if err := entities.EnsureIndexes(ctx); err != nil {
		store.Close()
		_ = logger.Sync()
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	instrumented := buildEmbedder(cfg.Embedding, store, logger)
	var embedder domain.Embedder = instrumented
	// Instruction prefix is outermost so the cache key includes it.
	if cfg.Embedding.Instruction != "" {
		embedder = domain.NewInstructionEmbedder(instrumented, cfg.Embedding.Instruction)
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache.Enabled),
	)

	idx := indexer.New(entities, entities, embedder, indexer.Config{
		Model:             cfg.Embedding.Model,
		Timeout:           time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Concurrency:       cfg.Embedding.Concurrency,
		RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		MaxLimit:          cfg.Embedding.ReindexMaxLimit,
	}, logger)

	return &app{
		env:      env,
		cfg:      cfg,
		logger:   logger,
		store:    store,
		entities: entities,
		embedder: instrumented,
		indexer:  idx,
	}, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.logger.Sync()
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg config.EmbeddingConfig, store db.KVStore, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	if cfg.APIKey == "" {
		logger.Warn("Embedding api key is empty; similarity ranking and reindex will fail")
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.Cache.Enabled {
		embedder = embcache.New(base, store, embcache.Options{
			Model: cfg.Model,
			TTL:   time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger)
}

// buildGenerator returns the explanation provider, or nil when generation is
// disabled. A nil generator makes every explanation empty.
func buildGenerator(ctx context.Context, cfg config.GenerationConfig, logger *zap.Logger) (domain.Generator, error) {
	if !cfg.Enabled {
		logger.Info("Explanation generation disabled")
		return nil, nil
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		gen, err := openaiTransport.NewGenerator(&openaiTransport.Config{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			Provider: cfg.Provider,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("openai generator: %w", err)
		}
		return gen, nil
	case config.ProviderGemini:
		gen, err := gemini.NewGenerator(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini generator: %w", err)
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}
