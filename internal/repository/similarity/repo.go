package similarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/category"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/repository/entity"
)

// store is the consumer interface for vector search (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string, f db.Filter) (int, error)
}

// Repo runs KNN queries against the entity vector indexes.
type Repo struct {
	store store
}

// New creates a similarity repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// eligible restricts targets to active entities embedded with model.
func eligible(model string) db.Filter {
	return db.Filter{}.
		And(entity.FieldStatus, string(category.StatusActive)).
		And(entity.FieldEmbeddingModel, model)
}

// Nearest returns the targets of kind closest to vector, skipping offset hits
// and returning at most limit. Hits are ordered by decreasing similarity.
func (r *Repo) Nearest(
	ctx context.Context, kind domain.Kind, vector []float32, model string, offset, limit int,
) ([]match.Neighbor, error) {
	if limit <= 0 {
		return nil, nil
	}
	q := &db.KNNQuery{
		IndexName:    entity.IndexName(kind),
		VectorField:  entity.FieldEmbedding,
		Filter:       eligible(model),
		Vector:       vector,
		K:            offset + limit,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: []string{entity.FieldID},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", kind, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	prefix := entity.KeyPrefix(kind)
	out := make([]match.Neighbor, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		id := e.Fields[entity.FieldID]
		if id == "" {
			id = strings.TrimPrefix(e.Key, prefix)
		}
		out = append(out, match.Neighbor{ID: id, Similarity: e.Score})
	}
	return out, nil
}

// CountIndexed returns how many active targets of kind carry a vector from model.
func (r *Repo) CountIndexed(ctx context.Context, kind domain.Kind, model string) (int, error) {
	n, err := r.store.SearchCount(ctx, entity.IndexName(kind), eligible(model))
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", kind, err)
	}
	return n, nil
}
