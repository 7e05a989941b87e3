package similarity

import (
	"context"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
)

// VectorIndex answers ordered, paginated nearest-neighbor queries.
type VectorIndex interface {
	Nearest(ctx context.Context, kind domain.Kind, vector []float32, model string, offset, limit int) ([]match.Neighbor, error)
	CountIndexed(ctx context.Context, kind domain.Kind, model string) (int, error)
}

// AnchorReader loads the entity whose vector drives the search.
type AnchorReader interface {
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	GetPosting(ctx context.Context, id string) (domain.Posting, error)
}
