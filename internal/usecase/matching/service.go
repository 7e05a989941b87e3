package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	dombatch "github.com/Denis-Wendell/matchmaking-sub000/internal/domain/batch"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/metrics"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/explain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/ranking"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/scoring"
)

// DefaultMaxPool caps how many entities one lexical ranking scores.
const DefaultMaxPool = 1000

// Ranking paths for metrics.
const (
	pathLexical    = "lexical"
	pathSimilarity = "similarity"
)

// Config tunes the facade.
type Config struct {
	MaxPool int
}

// Service is the engine's entry point: it resolves anchors within the
// caller's ownership scope, fetches pools and delegates to the rankers.
type Service struct {
	profiles  ProfileSource
	postings  PostingSource
	similar   SimilarityRanker
	reindexer Reindexer
	explainer Explainer
	cfg       Config
	logger    *zap.Logger
}

// New creates the matching facade.
func New(
	profiles ProfileSource,
	postings PostingSource,
	similar SimilarityRanker,
	reindexer Reindexer,
	explainer Explainer,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.MaxPool <= 0 {
		cfg.MaxPool = DefaultMaxPool
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		profiles: profiles, postings: postings, similar: similar,
		reindexer: reindexer, explainer: explainer, cfg: cfg, logger: logger,
	}
}

// RankCandidates ranks active profiles against the caller's postings. With
// postingIDs empty every active posting of the caller is an anchor; otherwise
// each listed posting must belong to the caller.
func (s *Service) RankCandidates(
	ctx context.Context, caller domain.Caller, postingIDs []string,
	page match.PageRequest, f match.Filters, withExplain bool,
) (res match.Page, err error) {
	defer s.observe(pathLexical, time.Now(), &err)

	anchors, err := s.ownedPostings(ctx, caller, postingIDs)
	if err != nil {
		return match.Page{}, err
	}
	if len(anchors) == 0 {
		return page.Slice(nil), nil
	}

	pool, err := s.profiles.ListProfiles(ctx, s.poolFilter())
	if err != nil {
		return match.Page{}, fmt.Errorf("list profiles: %w", err)
	}
	s.observePool(explain.PerspectiveEmployer, len(pool))

	res = ranking.RankCandidates(pool, anchors, page, f)
	if withExplain {
		s.explainLexical(ctx, res.Items, indexPostings(anchors), indexProfiles(pool), explain.PerspectiveEmployer)
	}
	return res, nil
}

// RankPostings ranks active postings for the caller's profile. With profileID
// empty every active profile of the caller is an anchor.
func (s *Service) RankPostings(
	ctx context.Context, caller domain.Caller, profileID string,
	page match.PageRequest, f match.Filters, withExplain bool,
) (res match.Page, err error) {
	defer s.observe(pathLexical, time.Now(), &err)

	anchors, err := s.ownedProfiles(ctx, caller, profileID)
	if err != nil {
		return match.Page{}, err
	}
	if len(anchors) == 0 {
		return page.Slice(nil), nil
	}

	pool, err := s.postings.ListPostings(ctx, s.poolFilter())
	if err != nil {
		return match.Page{}, fmt.Errorf("list postings: %w", err)
	}
	s.observePool(explain.PerspectiveCandidate, len(pool))

	res = ranking.RankPostings(pool, anchors, page, f)
	if withExplain {
		s.explainLexical(ctx, res.Items, indexPostings(pool), indexProfiles(anchors), explain.PerspectiveCandidate)
	}
	return res, nil
}

// RankBySimilarity ranks the opposite kind by embedding similarity to an
// anchor the caller owns.
func (s *Service) RankBySimilarity(
	ctx context.Context, caller domain.Caller, kind domain.Kind, anchorID string,
	page match.PageRequest, withExplain bool,
) (res match.Page, err error) {
	defer s.observe(pathSimilarity, time.Now(), &err)

	if _, err := domain.ParseKind(string(kind)); err != nil {
		return match.Page{}, err
	}

	var (
		anchorPosting *domain.Posting
		anchorProfile *domain.Profile
	)
	switch kind {
	case domain.KindPosting:
		p, err := s.postings.GetPosting(ctx, anchorID)
		if err != nil {
			return match.Page{}, fmt.Errorf("get posting: %w", err)
		}
		if !caller.Owns(p.OwnerID) {
			return match.Page{}, fmt.Errorf("posting %q: %w", anchorID, domain.ErrForbidden)
		}
		anchorPosting = &p
	case domain.KindProfile:
		p, err := s.profiles.GetProfile(ctx, anchorID)
		if err != nil {
			return match.Page{}, fmt.Errorf("get profile: %w", err)
		}
		if !caller.Owns(p.OwnerID) {
			return match.Page{}, fmt.Errorf("profile %q: %w", anchorID, domain.ErrForbidden)
		}
		anchorProfile = &p
	}

	res, err = s.similar.Rank(ctx, kind, anchorID, page)
	if err != nil {
		return match.Page{}, fmt.Errorf("rank by similarity: %w", err)
	}
	if withExplain {
		s.explainSimilar(ctx, res.Items, anchorPosting, anchorProfile)
	}
	return res, nil
}

// Reindex recomputes embeddings for up to limit entities of kind.
func (s *Service) Reindex(ctx context.Context, kind domain.Kind, limit int) (dombatch.Summary, error) {
	sum, err := s.reindexer.Reindex(ctx, kind, limit)
	if err != nil {
		return dombatch.Summary{}, fmt.Errorf("reindex %s: %w", kind, err)
	}
	return sum, nil
}

// Explain scores a single pair and explains it from the given perspective.
// The caller must own the posting (employer) or the profile (candidate). A
// provider failure leaves the explanation empty; it never fails the call.
func (s *Service) Explain(
	ctx context.Context, caller domain.Caller, postingID, profileID string, p explain.Perspective,
) (match.Result, error) {
	posting, err := s.postings.GetPosting(ctx, postingID)
	if err != nil {
		return match.Result{}, fmt.Errorf("get posting: %w", err)
	}
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return match.Result{}, fmt.Errorf("get profile: %w", err)
	}

	var res match.Result
	switch p {
	case explain.PerspectiveEmployer:
		if !caller.Owns(posting.OwnerID) {
			return match.Result{}, fmt.Errorf("posting %q: %w", postingID, domain.ErrForbidden)
		}
		res = match.Result{ID: profile.ID, AnchorID: posting.ID}
	case explain.PerspectiveCandidate:
		if !caller.Owns(profile.OwnerID) {
			return match.Result{}, fmt.Errorf("profile %q: %w", profileID, domain.ErrForbidden)
		}
		res = match.Result{ID: posting.ID, AnchorID: profile.ID}
	default:
		return match.Result{}, fmt.Errorf("%w: unknown perspective %q", domain.ErrInvalidInput, p)
	}

	bd := scoring.Explain(&profile, &posting, nil)
	res.Score = bd.Total
	res.Breakdown = &bd
	e := s.explainer.Explain(ctx, &posting, &profile, res.Score, p)
	res.Explanation = &e
	return res, nil
}

// poolFilter selects the active pool, most recently updated first, so a
// pool larger than MaxPool drops its oldest entries.
func (s *Service) poolFilter() domain.ListFilter {
	return domain.ListFilter{ActiveOnly: true, Limit: s.cfg.MaxPool, NewestFirst: true}
}

func (s *Service) observePool(p explain.Perspective, n int) {
	metrics.RankPoolSize.WithLabelValues(string(p)).Observe(float64(n))
	if n >= s.cfg.MaxPool {
		metrics.RankPoolTruncatedTotal.WithLabelValues(string(p)).Inc()
		s.logger.Warn("Ranking pool truncated",
			zap.String("perspective", string(p)),
			zap.Int("max_pool", s.cfg.MaxPool),
		)
	}
}

func (s *Service) ownedPostings(ctx context.Context, caller domain.Caller, ids []string) ([]domain.Posting, error) {
	if len(ids) == 0 {
		out, err := s.postings.ListPostings(ctx, domain.ListFilter{OwnerID: caller.ID, ActiveOnly: true})
		if err != nil {
			return nil, fmt.Errorf("list caller postings: %w", err)
		}
		return out, nil
	}

	out := make([]domain.Posting, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := s.postings.GetPosting(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get posting: %w", err)
		}
		if !caller.Owns(p.OwnerID) {
			return nil, fmt.Errorf("posting %q: %w", id, domain.ErrForbidden)
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) ownedProfiles(ctx context.Context, caller domain.Caller, id string) ([]domain.Profile, error) {
	if id == "" {
		out, err := s.profiles.ListProfiles(ctx, domain.ListFilter{OwnerID: caller.ID, ActiveOnly: true})
		if err != nil {
			return nil, fmt.Errorf("list caller profiles: %w", err)
		}
		return out, nil
	}

	p, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !caller.Owns(p.OwnerID) {
		return nil, fmt.Errorf("profile %q: %w", id, domain.ErrForbidden)
	}
	return []domain.Profile{p}, nil
}

// explainLexical attaches explanations to the page items only; items whose
// enrichment failed keep a nil Explanation.
func (s *Service) explainLexical(
	ctx context.Context, items []match.Result,
	postings map[string]*domain.Posting, profiles map[string]*domain.Profile, p explain.Perspective,
) {
	pairs := make([]explain.Pair, len(items))
	for i, it := range items {
		pair := explain.Pair{Score: it.Score, Perspective: p}
		if p == explain.PerspectiveEmployer {
			pair.Profile, pair.Posting = profiles[it.ID], postings[it.AnchorID]
		} else {
			pair.Posting, pair.Profile = postings[it.ID], profiles[it.AnchorID]
		}
		pairs[i] = pair
	}
	attach(items, s.explainer.ExplainPage(ctx, pairs))
}

// explainSimilar loads the page's targets and explains them against the anchor.
func (s *Service) explainSimilar(
	ctx context.Context, items []match.Result, anchorPosting *domain.Posting, anchorProfile *domain.Profile,
) {
	pairs := make([]explain.Pair, len(items))
	for i, it := range items {
		pair := explain.Pair{Score: it.Score}
		if anchorPosting != nil {
			pair.Perspective = explain.PerspectiveEmployer
			pair.Posting = anchorPosting
			if p, err := s.profiles.GetProfile(ctx, it.ID); err == nil {
				pair.Profile = &p
			} else {
				s.logger.Warn("Load similarity target failed", zap.String("id", it.ID), zap.Error(err))
			}
		} else {
			pair.Perspective = explain.PerspectiveCandidate
			pair.Profile = anchorProfile
			if p, err := s.postings.GetPosting(ctx, it.ID); err == nil {
				pair.Posting = &p
			} else {
				s.logger.Warn("Load similarity target failed", zap.String("id", it.ID), zap.Error(err))
			}
		}
		pairs[i] = pair
	}
	attach(items, s.explainer.ExplainPage(ctx, pairs))
}

func attach(items []match.Result, explanations []match.Explanation) {
	for i := range items {
		if i >= len(explanations) {
			break
		}
		if e := explanations[i]; !e.Empty() {
			items[i].Explanation = &e
		}
	}
}

func indexPostings(ps []domain.Posting) map[string]*domain.Posting {
	m := make(map[string]*domain.Posting, len(ps))
	for i := range ps {
		m[ps[i].ID] = &ps[i]
	}
	return m
}

func indexProfiles(ps []domain.Profile) map[string]*domain.Profile {
	m := make(map[string]*domain.Profile, len(ps))
	for i := range ps {
		m[ps[i].ID] = &ps[i]
	}
	return m
}

func (s *Service) observe(path string, start time.Time, errp *error) {
	metrics.RankDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	metrics.RankRequestsTotal.WithLabelValues(path, status(*errp)).Inc()
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNotIndexed):
		return "not_indexed"
	default:
		return "error"
	}
}
