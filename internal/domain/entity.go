package domain

import (
	"fmt"
	"time"
)

// Kind identifies which side of the match an entity belongs to.
type Kind string

// Entity kinds.
const (
	KindProfile Kind = "profile"
	KindPosting Kind = "posting"
)

// ParseKind validates a kind coming from the outside.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProfile, KindPosting:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, s)
	}
}

// Opposite returns the kind an entity of k is matched against.
func (k Kind) Opposite() Kind {
	if k == KindProfile {
		return KindPosting
	}
	return KindProfile
}

// Entity is the part of Profile and Posting the indexer needs.
type Entity interface {
	EntityID() string
	EntityKind() Kind
	Updated() time.Time
}

// Profile is a candidate's self-description. The engine never mutates it
// except for the embedding fields, which only the indexer writes.
type Profile struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Area           string    `json:"area"`
	Level          string    `json:"level"`
	Modality       string    `json:"modality"`
	Status         string    `json:"status"`
	Skills         []string  `json:"skills"`
	Certifications []string  `json:"certifications"`
	Languages      []string  `json:"languages"`
	Summary        string    `json:"summary"`
	Experience     string    `json:"experience"`
	UpdatedAt      time.Time `json:"updated_at"`
	Embedding      []float32 `json:"embedding,omitempty"`
	EmbeddingModel string    `json:"embedding_model,omitempty"`
}

// EntityID implements Entity.
func (p *Profile) EntityID() string { return p.ID }

// EntityKind implements Entity.
func (p *Profile) EntityKind() Kind { return KindProfile }

// Updated implements Entity.
func (p *Profile) Updated() time.Time { return p.UpdatedAt }

// Posting is an employer's opportunity.
type Posting struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Area           string    `json:"area"`
	Level          string    `json:"level"`
	Modality       string    `json:"modality"`
	Status         string    `json:"status"`
	RequiredSkills []string  `json:"required_skills"`
	DesiredSkills  []string  `json:"desired_skills"`
	Languages      []string  `json:"languages"`
	Requirements   string    `json:"requirements"`
	Description    string    `json:"description"`
	UpdatedAt      time.Time `json:"updated_at"`
	Embedding      []float32 `json:"embedding,omitempty"`
	EmbeddingModel string    `json:"embedding_model,omitempty"`
}

// EntityID implements Entity.
func (p *Posting) EntityID() string { return p.ID }

// EntityKind implements Entity.
func (p *Posting) EntityKind() Kind { return KindPosting }

// Updated implements Entity.
func (p *Posting) Updated() time.Time { return p.UpdatedAt }

// IndexedWith reports whether the stored vector was produced by model.
func IndexedWith(embedding []float32, storedModel, model string) bool {
	return len(embedding) > 0 && storedModel == model
}

// ListFilter narrows entity fetches from the persistence layer.
type ListFilter struct {
	OwnerID    string
	ActiveOnly bool
	// Limit caps the number of entities; 0 means the store default.
	Limit int
	// NewestFirst orders by update time descending instead of ascending.
	NewestFirst bool
}
