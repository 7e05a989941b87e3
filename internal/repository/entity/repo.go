package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/category"
)

// DefaultListLimit caps list queries that do not set a limit.
const DefaultListLimit = 1000

// store is the consumer interface for entities (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo stores profiles and postings as JSON documents and lists them through
// per-kind FT indexes.
type Repo struct {
	store store
	vec   domain.VectorConfig
}

// New creates an entity repository.
func New(s store, vec domain.VectorConfig) *Repo {
	return &Repo{store: s, vec: vec}
}

// EnsureIndexes creates the FT index of every kind. Existing indexes are kept.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	for _, kind := range []domain.Kind{domain.KindProfile, domain.KindPosting} {
		def, err := buildIndex(kind, r.vec)
		if err != nil {
			return fmt.Errorf("build %s index: %w", kind, err)
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create %s index: %w", kind, err)
		}
	}
	return nil
}

// RebuildIndex drops and recreates the FT index of kind with the current
// vector settings. Documents are kept and reindexed by the server; needed
// after a change of embedding dimensions or vector algorithm.
func (r *Repo) RebuildIndex(ctx context.Context, kind domain.Kind) error {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return err
	}
	def, err := buildIndex(kind, r.vec)
	if err != nil {
		return fmt.Errorf("build %s index: %w", kind, err)
	}
	if err := r.store.DropIndex(ctx, def.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop %s index: %w", kind, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create %s index: %w", kind, err)
	}
	return nil
}

// SaveProfile upserts a profile.
func (r *Repo) SaveProfile(ctx context.Context, p *domain.Profile) error {
	return r.save(ctx, domain.KindProfile, p.ID, newProfileDoc(p))
}

// SavePosting upserts a posting.
func (r *Repo) SavePosting(ctx context.Context, p *domain.Posting) error {
	return r.save(ctx, domain.KindPosting, p.ID, newPostingDoc(p))
}

func (r *Repo) save(ctx context.Context, kind domain.Kind, id string, doc any) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is required", domain.ErrInvalidInput, kind)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", kind, err)
	}
	key := docKey(kind, id)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}
	return nil
}

// GetProfile returns a profile by id.
func (r *Repo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	doc, err := get[profileDoc](ctx, r.store, domain.KindProfile, id)
	return doc.Profile, err
}

// GetPosting returns a posting by id.
func (r *Repo) GetPosting(ctx context.Context, id string) (domain.Posting, error) {
	doc, err := get[postingDoc](ctx, r.store, domain.KindPosting, id)
	return doc.Posting, err
}

func get[T any](ctx context.Context, s store, kind domain.Kind, id string) (T, error) {
	var zero T
	key := docKey(kind, id)
	raw, err := s.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return zero, fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
		}
		return zero, fmt.Errorf("json.get %s: %w", key, err)
	}
	doc, err := decodeJSONGet[T](raw)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
		}
		return zero, err
	}
	return doc, nil
}

// ListProfiles returns profiles matching f.
func (r *Repo) ListProfiles(ctx context.Context, f domain.ListFilter) ([]domain.Profile, error) {
	docs, err := list[profileDoc](ctx, r.store, domain.KindProfile, f)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Profile, len(docs))
	for i := range docs {
		out[i] = docs[i].Profile
	}
	return out, nil
}

// ListPostings returns postings matching f.
func (r *Repo) ListPostings(ctx context.Context, f domain.ListFilter) ([]domain.Posting, error) {
	docs, err := list[postingDoc](ctx, r.store, domain.KindPosting, f)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Posting, len(docs))
	for i := range docs {
		out[i] = docs[i].Posting
	}
	return out, nil
}

// ListRecent returns up to limit entities of kind, most recently updated first.
func (r *Repo) ListRecent(ctx context.Context, kind domain.Kind, limit int) ([]domain.Entity, error) {
	f := domain.ListFilter{Limit: limit, NewestFirst: true}
	switch kind {
	case domain.KindProfile:
		items, err := r.ListProfiles(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Entity, len(items))
		for i := range items {
			out[i] = &items[i]
		}
		return out, nil
	case domain.KindPosting:
		items, err := r.ListPostings(ctx, f)
		if err != nil {
			return nil, err
		}
		out := make([]domain.Entity, len(items))
		for i := range items {
			out[i] = &items[i]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, kind)
	}
}

func list[T any](ctx context.Context, s store, kind domain.Kind, f domain.ListFilter) ([]T, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var filter db.Filter
	if f.OwnerID != "" {
		filter = filter.And(FieldOwnerID, f.OwnerID)
	}
	if f.ActiveOnly {
		filter = filter.And(FieldStatus, string(category.StatusActive))
	}

	res, err := s.SearchList(ctx, &db.ListQuery{
		IndexName:    IndexName(kind),
		Filter:       filter,
		SortBy:       FieldUpdatedAt,
		SortDesc:     f.NewestFirst,
		Limit:        limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("search list %s: %w", kind, err)
	}
	if res == nil {
		return nil, nil
	}

	out := make([]T, 0, len(res.Entries))
	for _, entry := range res.Entries {
		raw := entry.Fields["$"]
		if raw == "" {
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s %s: %w", kind, entry.Key, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

// SetEmbedding stores a vector and the model that produced it on an existing
// document. Other fields are left untouched.
func (r *Repo) SetEmbedding(ctx context.Context, kind domain.Kind, id string, vec []float32, model string) error {
	key := docKey(kind, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("%s %q: %w", kind, id, domain.ErrNotFound)
	}

	vecJSON, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}
	modelJSON, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	err = r.store.JSONSetMulti(ctx, []db.JSONSetItem{
		{Key: key, Path: "$.embedding", Data: vecJSON},
		{Key: key, Path: "$.embedding_model", Data: modelJSON},
	})
	if err != nil {
		return fmt.Errorf("set embedding %s: %w", key, err)
	}
	return nil
}
