// Package catalog writes profiles and postings on behalf of their owners.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	dombatch "github.com/Denis-Wendell/matchmaking-sub000/internal/domain/batch"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
)

// Result describes one upsert.
type Result struct {
	ID      string              `json:"id"`
	Created bool                `json:"created"`
	Index   dombatch.ItemStatus `json:"index"`
}

// Service upserts entities and embeds them in the same call.
type Service struct {
	store   Store
	indexer Indexer
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a catalog service. A nil indexer stores entities without
// vectors; a later reindex picks them up.
func New(store Store, indexer Indexer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, indexer: indexer, now: time.Now, logger: logger}
}

// UpsertProfile creates or replaces a profile owned by caller. Any previous
// vector is discarded and recomputed; an embedding failure does not fail the
// write.
func (s *Service) UpsertProfile(ctx context.Context, caller domain.Caller, p *domain.Profile) (Result, error) {
	if err := checkWrite(caller, p.ID, &p.OwnerID); err != nil {
		return Result{}, err
	}
	existing, err := s.store.GetProfile(ctx, p.ID)
	created, err := ownedOrMissing(caller, domain.KindProfile, p.ID, existing.OwnerID, err)
	if err != nil {
		return Result{}, err
	}

	p.UpdatedAt = s.now().UTC()
	p.Embedding, p.EmbeddingModel = nil, ""
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return Result{}, fmt.Errorf("save profile: %w", err)
	}
	return Result{ID: p.ID, Created: created, Index: s.index(ctx, p)}, nil
}

// UpsertPosting creates or replaces a posting owned by caller.
func (s *Service) UpsertPosting(ctx context.Context, caller domain.Caller, p *domain.Posting) (Result, error) {
	if err := checkWrite(caller, p.ID, &p.OwnerID); err != nil {
		return Result{}, err
	}
	existing, err := s.store.GetPosting(ctx, p.ID)
	created, err := ownedOrMissing(caller, domain.KindPosting, p.ID, existing.OwnerID, err)
	if err != nil {
		return Result{}, err
	}

	p.UpdatedAt = s.now().UTC()
	p.Embedding, p.EmbeddingModel = nil, ""
	if err := s.store.SavePosting(ctx, p); err != nil {
		return Result{}, fmt.Errorf("save posting: %w", err)
	}
	return Result{ID: p.ID, Created: created, Index: s.index(ctx, p)}, nil
}

func (s *Service) index(ctx context.Context, e domain.Entity) dombatch.ItemStatus {
	if s.indexer == nil {
		return dombatch.StatusSkipped
	}
	results := s.indexer.Run(ctx, []domain.Entity{e})
	if len(results) == 0 {
		return dombatch.StatusSkipped
	}
	r := results[0]
	if r.Status() == dombatch.StatusError {
		s.logger.Warn("Embed on write failed",
			zap.String("kind", string(e.EntityKind())),
			zap.String("id", e.EntityID()),
			zap.Error(r.Err()),
		)
	}
	return r.Status()
}

// checkWrite validates the id and binds an empty owner to the caller.
func checkWrite(caller domain.Caller, id string, ownerID *string) error {
	if caller.ID == "" {
		return fmt.Errorf("%w: caller identity is required", domain.ErrForbidden)
	}
	if !db.IsValidIdentifier(id) {
		return fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, id)
	}
	if *ownerID == "" {
		*ownerID = caller.ID
	}
	if !caller.Owns(*ownerID) {
		return fmt.Errorf("%w: owner_id must be the caller", domain.ErrForbidden)
	}
	return nil
}

// ownedOrMissing reports whether the write creates a new entity, and rejects
// writes over an entity another caller owns.
func ownedOrMissing(caller domain.Caller, kind domain.Kind, id, ownerID string, getErr error) (bool, error) {
	switch {
	case errors.Is(getErr, domain.ErrNotFound):
		return true, nil
	case getErr != nil:
		return false, fmt.Errorf("get %s: %w", kind, getErr)
	case !caller.Owns(ownerID):
		return false, fmt.Errorf("%s %q: %w", kind, id, domain.ErrForbidden)
	default:
		return false, nil
	}
}
