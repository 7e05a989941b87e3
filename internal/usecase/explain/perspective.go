package explain

import (
	"fmt"
	"strings"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

// Perspective selects who the explanation is written for.
type Perspective string

// Perspectives.
const (
	PerspectiveEmployer  Perspective = "employer"
	PerspectiveCandidate Perspective = "candidate"
)

// ParsePerspective accepts only the known perspectives.
func ParsePerspective(s string) (Perspective, error) {
	switch p := Perspective(strings.ToLower(strings.TrimSpace(s))); p {
	case PerspectiveEmployer, PerspectiveCandidate:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown perspective %q", domain.ErrInvalidInput, s)
	}
}
