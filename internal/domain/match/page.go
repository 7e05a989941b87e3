package match

import (
	"fmt"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/category"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

// Pagination defaults.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a validated page/size pair; Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest validates pagination. Zero values fall back to page 1 and
// the default size; negatives or sizes above maxSize are rejected.
func NewPageRequest(page, size, maxSize int) (PageRequest, error) {
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if page < 0 {
		return PageRequest{}, fmt.Errorf("%w: page must be >= 1, got %d", domain.ErrInvalidInput, page)
	}
	if size < 0 || size > maxSize {
		return PageRequest{}, fmt.Errorf("%w: page_size must be in [1,%d], got %d",
			domain.ErrInvalidInput, maxSize, size)
	}
	if page == 0 {
		page = 1
	}
	if size == 0 {
		size = min(DefaultPageSize, maxSize)
	}
	return PageRequest{Page: page, Size: size}, nil
}

// Offset is the index of the first item on the page.
func (r PageRequest) Offset() int { return (r.Page - 1) * r.Size }

// TotalPages returns ceil(total/size).
func (r PageRequest) TotalPages(total int) int {
	if total <= 0 || r.Size <= 0 {
		return 0
	}
	return (total + r.Size - 1) / r.Size
}

// Slice cuts the page out of a fully sorted list. A page past the end is empty.
func (r PageRequest) Slice(sorted []Result) Page {
	out := Page{
		Total:      len(sorted),
		TotalPages: r.TotalPages(len(sorted)),
		Page:       r.Page,
		PageSize:   r.Size,
		Items:      []Result{},
	}
	start := r.Offset()
	if start >= len(sorted) {
		return out
	}
	end := min(start+r.Size, len(sorted))
	out.Items = append(out.Items, sorted[start:end]...)
	return out
}

// Filters narrow a ranking. Zero values disable the corresponding filter.
type Filters struct {
	Area     string
	Level    category.Value
	Modality category.Value
	MinScore int
}

// NewFilters validates raw filter input. Unknown level or modality spellings
// are rejected, not coerced.
func NewFilters(area, level, modality string, minScore int) (Filters, error) {
	f := Filters{Area: textnorm.Normalize(area), MinScore: minScore}
	if level != "" {
		v, ok := category.Lookup(category.KindLevel, level)
		if !ok {
			return Filters{}, fmt.Errorf("%w: unknown level %q", domain.ErrInvalidInput, level)
		}
		f.Level = v
	}
	if modality != "" {
		v, ok := category.Lookup(category.KindModality, modality)
		if !ok {
			return Filters{}, fmt.Errorf("%w: unknown modality %q", domain.ErrInvalidInput, modality)
		}
		f.Modality = v
	}
	if minScore < MinScore || minScore > MaxScore {
		return Filters{}, fmt.Errorf("%w: min_score must be in [0,100], got %d", domain.ErrInvalidInput, minScore)
	}
	return f, nil
}

// AcceptsCategories reports whether an entity with the given raw area, level
// and modality passes the category filters.
func (f Filters) AcceptsCategories(area, level, modality string) bool {
	if f.Area != "" && textnorm.Normalize(area) != f.Area {
		return false
	}
	if f.Level != category.Unspecified && category.Normalize(category.KindLevel, level) != f.Level {
		return false
	}
	if f.Modality != category.Unspecified && category.Normalize(category.KindModality, modality) != f.Modality {
		return false
	}
	return true
}
