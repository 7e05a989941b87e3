package indexer

import (
	"context"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

// EntityLister returns entities of a kind, most recently updated first.
type EntityLister interface {
	ListRecent(ctx context.Context, kind domain.Kind, limit int) ([]domain.Entity, error)
}

// EmbeddingWriter persists a vector against an entity's durable record.
type EmbeddingWriter interface {
	SetEmbedding(ctx context.Context, kind domain.Kind, id string, vec []float32, model string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
