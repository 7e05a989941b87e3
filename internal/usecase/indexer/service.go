package indexer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	dombatch "github.com/Denis-Wendell/matchmaking-sub000/internal/domain/batch"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/canonical"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/metrics"
)

// Defaults.
const (
	MaxInputChars  = 8000
	DefaultLimit   = 500
	MaxLimit       = 5000
	DefaultTimeout = 30 * time.Second
	DefaultWorkers = 1
)

// Config tunes a reindex run.
type Config struct {
	// Model identifies the embedding model; stored with every vector.
	Model string
	// Timeout bounds each provider call.
	Timeout time.Duration
	// Concurrency is the worker count; 1 processes items sequentially.
	Concurrency int
	// RequestsPerSecond throttles provider calls; 0 disables throttling.
	RequestsPerSecond float64
	MaxLimit          int
}

// Service (re)computes and persists embeddings.
type Service struct {
	entities EntityLister
	writer   EmbeddingWriter
	embed    Embedder
	cfg      Config
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// New creates an indexer service.
func New(entities EntityLister, writer EmbeddingWriter, embed Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultWorkers
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = MaxLimit
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond)))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		entities: entities, writer: writer, embed: embed,
		cfg: cfg, limiter: limiter, logger: logger,
	}
}

// Reindex embeds up to limit entities of kind. Per-item failures are folded
// into the summary; only invalid input or a failed listing returns an error.
func (s *Service) Reindex(ctx context.Context, kind domain.Kind, limit int) (dombatch.Summary, error) {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return dombatch.Summary{}, err
	}
	if limit < 0 || limit > s.cfg.MaxLimit {
		return dombatch.Summary{}, fmt.Errorf("%w: limit must be in [1,%d], got %d",
			domain.ErrInvalidInput, s.cfg.MaxLimit, limit)
	}
	if limit == 0 {
		limit = min(DefaultLimit, s.cfg.MaxLimit)
	}

	items, err := s.entities.ListRecent(ctx, kind, limit)
	if err != nil {
		return dombatch.Summary{}, fmt.Errorf("list %s: %w", kind, err)
	}
	if len(items) > limit {
		items = items[:limit]
	}

	start := time.Now()
	results := s.Run(ctx, items)
	summary := dombatch.Summarize(results)

	s.logger.Info("Reindex finished",
		zap.String("kind", string(kind)),
		zap.String("model", s.cfg.Model),
		zap.Int("ok", summary.OK),
		zap.Int("fail", summary.Fail),
		zap.Int("skipped", summary.Skipped),
		zap.Int("total", summary.Total),
		zap.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// Run processes items and returns one result per item, in input order.
// Once ctx is done no further provider calls are made and unattempted items
// are reported as failed with the context error.
func (s *Service) Run(ctx context.Context, items []domain.Entity) []dombatch.Result {
	results := make([]dombatch.Result, len(items))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(items); j++ {
				results[j] = s.record(items[j], dombatch.NewError(items[j].EntityID(), fmt.Errorf("not attempted: %w", err)))
			}
			break
		}
		g.Go(func() error {
			results[i] = s.record(item, s.indexOne(ctx, item))
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) indexOne(ctx context.Context, item domain.Entity) dombatch.Result {
	id := item.EntityID()

	text := textnorm.Truncate(canonical.Build(item), MaxInputChars)
	if strings.TrimSpace(text) == "" {
		return dombatch.NewSkipped(id)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return dombatch.NewError(id, fmt.Errorf("rate limit wait: %w", err))
		}
	}
	if err := ctx.Err(); err != nil {
		return dombatch.NewError(id, fmt.Errorf("not attempted: %w", err))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	res, err := s.embed.Embed(callCtx, text)
	if err != nil {
		return dombatch.NewError(id, fmt.Errorf("embed: %w", err))
	}
	if len(res.Embedding) == 0 {
		return dombatch.NewError(id, fmt.Errorf("embed: empty vector: %w", domain.ErrEmbeddingProviderError))
	}

	if err := s.writer.SetEmbedding(ctx, item.EntityKind(), id, res.Embedding, s.cfg.Model); err != nil {
		return dombatch.NewError(id, fmt.Errorf("persist embedding: %w", err))
	}
	return dombatch.NewOK(id)
}

func (s *Service) record(item domain.Entity, r dombatch.Result) dombatch.Result {
	metrics.ReindexItemsTotal.WithLabelValues(string(item.EntityKind()), string(r.Status())).Inc()
	if r.Status() == dombatch.StatusError {
		s.logger.Warn("Reindex item failed",
			zap.String("kind", string(item.EntityKind())),
			zap.String("id", r.ID()),
			zap.Error(r.Err()),
		)
	}
	return r
}
