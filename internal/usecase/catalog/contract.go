package catalog

import (
	"context"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	dombatch "github.com/Denis-Wendell/matchmaking-sub000/internal/domain/batch"
)

// Store persists profiles and postings together with their derived index fields.
type Store interface {
	GetProfile(ctx context.Context, id string) (domain.Profile, error)
	GetPosting(ctx context.Context, id string) (domain.Posting, error)
	SaveProfile(ctx context.Context, p *domain.Profile) error
	SavePosting(ctx context.Context, p *domain.Posting) error
}

// Indexer embeds freshly written entities.
type Indexer interface {
	Run(ctx context.Context, items []domain.Entity) []dombatch.Result
}
