package entity

import (
	"fmt"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/db"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

// Index field aliases shared with the similarity repository.
const (
	FieldID             = "id"
	FieldOwnerID        = "owner_id"
	FieldStatus         = "status"
	FieldEmbeddingModel = "embedding_model"
	FieldUpdatedAt      = "updated_at"
	FieldEmbedding      = "embedding"
)

// buildIndex describes the JSON FT index for one entity kind: tag filters,
// a sortable update time and a cosine vector field.
func buildIndex(kind domain.Kind, vec domain.VectorConfig) (*db.IndexDefinition, error) {
	algo, err := db.ParseVectorAlgorithm(vec.Algorithm)
	if err != nil {
		return nil, err
	}
	return db.NewIndex(IndexName(kind)).
		OnJSON().
		Prefix(KeyPrefix(kind)).
		Tag("$.id").As(FieldID).
		Tag("$.owner_id").As(FieldOwnerID).
		Tag("$.status_canonical").As(FieldStatus).
		Tag("$.embedding_model").As(FieldEmbeddingModel).
		NumericSortable("$.updated_unix").As(FieldUpdatedAt).
		Vector("$.embedding", db.VectorSpec{
			Algo:        algo,
			Dim:         vec.Dimensions,
			Distance:    db.DistanceCosine,
			M:           vec.M,
			EFConstruct: vec.EFConstruct,
		}).As(FieldEmbedding).
		Build()
}

// KeyPrefix returns the key prefix for documents of kind.
func KeyPrefix(kind domain.Kind) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, kind)
}

// IndexName returns the FT index name for kind.
func IndexName(kind domain.Kind) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, kind)
}

func docKey(kind domain.Kind, id string) string {
	return KeyPrefix(kind) + id
}
