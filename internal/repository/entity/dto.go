package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/category"
)

// derived holds the fields the FT index filters and sorts on. They are
// recomputed on every write and never read back into the domain.
type derived struct {
	StatusCanonical string `json:"status_canonical"`
	UpdatedUnix     int64  `json:"updated_unix"`
}

func derive(status string, updated time.Time) derived {
	d := derived{StatusCanonical: string(category.Normalize(category.KindStatus, status))}
	if !updated.IsZero() {
		d.UpdatedUnix = updated.Unix()
	}
	return d
}

type profileDoc struct {
	domain.Profile
	derived
}

type postingDoc struct {
	domain.Posting
	derived
}

func newProfileDoc(p *domain.Profile) profileDoc {
	return profileDoc{Profile: *p, derived: derive(p.Status, p.UpdatedAt)}
}

func newPostingDoc(p *domain.Posting) postingDoc {
	return postingDoc{Posting: *p, derived: derive(p.Status, p.UpdatedAt)}
}

// decodeJSONGet parses a JSON.GET "$" reply, which wraps the document in an array.
func decodeJSONGet[T any](raw []byte) (T, error) {
	var docs []T
	var zero T
	if err := json.Unmarshal(raw, &docs); err != nil {
		return zero, fmt.Errorf("unmarshal document: %w", err)
	}
	if len(docs) == 0 {
		return zero, domain.ErrNotFound
	}
	return docs[0], nil
}
