package similarity

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
)

// Service ranks the opposite side of the market by embedding similarity.
type Service struct {
	index   VectorIndex
	anchors AnchorReader
	model   string
	logger  *zap.Logger
}

// New creates a similarity ranker for vectors produced by model.
func New(index VectorIndex, anchors AnchorReader, model string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{index: index, anchors: anchors, model: model, logger: logger}
}

// Rank returns one page of targets ordered by similarity to the anchor.
// Ordering and paging happen in the vector index. An anchor without a vector
// from the current model fails with domain.ErrNotIndexed.
func (s *Service) Rank(ctx context.Context, anchorKind domain.Kind, anchorID string, page match.PageRequest) (match.Page, error) {
	if _, err := domain.ParseKind(string(anchorKind)); err != nil {
		return match.Page{}, err
	}

	vec, err := s.anchorVector(ctx, anchorKind, anchorID)
	if err != nil {
		return match.Page{}, err
	}

	target := anchorKind.Opposite()
	total, err := s.index.CountIndexed(ctx, target, s.model)
	if err != nil {
		return match.Page{}, fmt.Errorf("count indexed %s: %w", target, err)
	}

	neighbors, err := s.index.Nearest(ctx, target, vec, s.model, page.Offset(), page.Size)
	if err != nil {
		return match.Page{}, fmt.Errorf("nearest %s: %w", target, err)
	}

	items := make([]match.Result, 0, len(neighbors))
	for _, n := range neighbors {
		items = append(items, match.Result{
			ID:       n.ID,
			AnchorID: anchorID,
			Score:    match.SimilarityPercent(n.Similarity),
		})
	}
	// the count and the search are separate queries
	total = max(total, page.Offset()+len(items))

	s.logger.Debug("Similarity ranking",
		zap.String("anchor_kind", string(anchorKind)),
		zap.String("anchor_id", anchorID),
		zap.Int("total", total),
		zap.Int("page", page.Page),
		zap.Int("returned", len(items)),
	)

	return match.Page{
		Items:      items,
		Total:      total,
		TotalPages: page.TotalPages(total),
		Page:       page.Page,
		PageSize:   page.Size,
	}, nil
}

func (s *Service) anchorVector(ctx context.Context, kind domain.Kind, id string) ([]float32, error) {
	var (
		vec        []float32
		storedWith string
	)
	switch kind {
	case domain.KindProfile:
		p, err := s.anchors.GetProfile(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get anchor profile: %w", err)
		}
		vec, storedWith = p.Embedding, p.EmbeddingModel
	case domain.KindPosting:
		p, err := s.anchors.GetPosting(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get anchor posting: %w", err)
		}
		vec, storedWith = p.Embedding, p.EmbeddingModel
	}

	if !domain.IndexedWith(vec, storedWith, s.model) {
		return nil, fmt.Errorf("%s %q has no %s embedding, run reindex first: %w",
			kind, id, s.model, domain.ErrNotIndexed)
	}
	return vec, nil
}
