package matching

import (
	"context"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	dombatch "github.com/Denis-Wendell/matchmaking-sub000/internal/domain/batch"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/explain"
)

// ProfileSource fetches profiles from the persistence layer.
type ProfileSource interface {
	ListProfiles(ctx context.Context, f domain.ListFilter) ([]domain.Profile, error)
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
}

// PostingSource fetches postings from the persistence layer.
type PostingSource interface {
	ListPostings(ctx context.Context, f domain.ListFilter) ([]domain.Posting, error)
	GetPosting(ctx context.Context, id string) (domain.Posting, error)
}

// SimilarityRanker ranks by embedding similarity.
type SimilarityRanker interface {
	Rank(ctx context.Context, anchorKind domain.Kind, anchorID string, page match.PageRequest) (match.Page, error)
}

// Reindexer recomputes embeddings.
type Reindexer interface {
	Reindex(ctx context.Context, kind domain.Kind, limit int) (dombatch.Summary, error)
}

// Explainer enriches scored pairs with generated text.
type Explainer interface {
	Explain(ctx context.Context, posting *domain.Posting, profile *domain.Profile, score int, p explain.Perspective) match.Explanation
	ExplainPage(ctx context.Context, pairs []explain.Pair) []match.Explanation
}
