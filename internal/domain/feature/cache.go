package feature

import (
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
)

type cacheKey struct {
	kind domain.Kind
	id   string
}

// Cache memoizes feature sets for the duration of one ranking request.
// Allocate one per request with NewCache; it is not safe for concurrent use
// and must never outlive the request.
type Cache struct {
	sets  map[cacheKey]Set
	langs map[cacheKey]Set
}

// NewCache returns an empty request-scoped cache.
func NewCache() *Cache {
	return &Cache{
		sets:  make(map[cacheKey]Set),
		langs: make(map[cacheKey]Set),
	}
}

// Profile returns the profile's feature set, computing it on first use.
func (c *Cache) Profile(p *domain.Profile) Set {
	if c == nil {
		return Build(ProfileSources(p)...)
	}
	k := cacheKey{domain.KindProfile, p.ID}
	if s, ok := c.sets[k]; ok {
		return s
	}
	s := Build(ProfileSources(p)...)
	c.sets[k] = s
	return s
}

// Posting returns the posting's feature set, computing it on first use.
func (c *Cache) Posting(p *domain.Posting) Set {
	if c == nil {
		return Build(PostingSources(p)...)
	}
	k := cacheKey{domain.KindPosting, p.ID}
	if s, ok := c.sets[k]; ok {
		return s
	}
	s := Build(PostingSources(p)...)
	c.sets[k] = s
	return s
}

// ProfileLanguages returns the profile's language set.
func (c *Cache) ProfileLanguages(p *domain.Profile) Set {
	return c.languages(cacheKey{domain.KindProfile, p.ID}, p.Languages)
}

// PostingLanguages returns the posting's language set.
func (c *Cache) PostingLanguages(p *domain.Posting) Set {
	return c.languages(cacheKey{domain.KindPosting, p.ID}, p.Languages)
}

func (c *Cache) languages(k cacheKey, langs []string) Set {
	if c == nil {
		return Languages(langs)
	}
	if s, ok := c.langs[k]; ok {
		return s
	}
	s := Languages(langs)
	c.langs[k] = s
	return s
}

// Len returns the number of memoized feature sets.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.sets)
}
