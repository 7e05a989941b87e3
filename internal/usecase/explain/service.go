package explain

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/logger"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/metrics"
)

// Defaults.
const (
	DefaultTimeout      = 20 * time.Second
	DefaultConcurrency  = 4
	DefaultMaxLogLength = 200
)

// Config tunes the enricher.
type Config struct {
	// Provider and Model label logs and metrics.
	Provider     string
	Model        string
	Timeout      time.Duration
	Concurrency  int
	MaxLogLength int
}

// Pair is one ranked item to explain.
type Pair struct {
	Posting     *domain.Posting
	Profile     *domain.Profile
	Score       int
	Perspective Perspective
}

// Service turns a scored pair into a short natural-language explanation.
// Provider failures never surface: the result is an empty explanation.
type Service struct {
	gen    domain.Generator
	cfg    Config
	logger *zap.Logger
}

// New creates an explanation enricher. A nil generator disables enrichment.
func New(gen domain.Generator, cfg Config, l *zap.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = DefaultMaxLogLength
	}
	return &Service{gen: gen, cfg: cfg, logger: logger.WithProvider(l, cfg.Provider, cfg.Model)}
}

// Enabled reports whether a generator is configured.
func (s *Service) Enabled() bool { return s != nil && s.gen != nil }

// Explain asks the generator to justify score for the pair.
func (s *Service) Explain(
	ctx context.Context, posting *domain.Posting, profile *domain.Profile, score int, p Perspective,
) match.Explanation {
	if !s.Enabled() || posting == nil || profile == nil {
		return match.Explanation{}
	}

	prompt, err := buildPrompt(posting, profile, score, p)
	if err != nil {
		s.logger.Warn("Build explanation prompt failed", zap.Error(err))
		return match.Explanation{}
	}

	log := s.logger.With(
		zap.String("posting_id", posting.ID),
		zap.String("profile_id", profile.ID),
		zap.String("perspective", string(p)),
	)
	log.Debug("Explanation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.cfg.MaxLogLength)),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := s.gen.GenerateContent(callCtx, prompt)
	metrics.ExplainRequestDuration.WithLabelValues(s.cfg.Provider).Observe(time.Since(start).Seconds())
	if err != nil {
		s.count("error")
		log.Warn("Explanation provider call failed", zap.Error(err))
		return match.Explanation{}
	}

	log.Debug("Explanation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.cfg.MaxLogLength)),
	)

	out, err := parseResponse(raw)
	if err != nil {
		s.count("invalid")
		log.Warn("Explanation response rejected", zap.Error(err))
		return match.Explanation{}
	}
	s.count("ok")
	return out
}

// ExplainPage explains every pair concurrently. Results keep the input order.
// Once ctx is done no further calls start and the remaining items stay empty.
func (s *Service) ExplainPage(ctx context.Context, pairs []Pair) []match.Explanation {
	out := make([]match.Explanation, len(pairs))
	if !s.Enabled() {
		return out
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			out[i] = s.Explain(ctx, pair.Posting, pair.Profile, pair.Score, pair.Perspective)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Service) count(status string) {
	metrics.ExplainRequestsTotal.WithLabelValues(s.cfg.Provider, status).Inc()
}
