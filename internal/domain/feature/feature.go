// Package feature builds the normalized token sets used for lexical overlap.
package feature

import (
	"sort"
	"unicode/utf8"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

// minTextToken is the length floor for tokens derived from free text.
const minTextToken = 2

// SourceKind tells how a field's content is turned into tokens.
type SourceKind int

// Source kinds.
const (
	// List is an explicit tag list, taken verbatim after per-token normalize.
	List SourceKind = iota
	// Text is free text, tokenized then normalized.
	Text
)

// Source is one field converted at the boundary into a uniform shape, so the
// scorer never branches on whether an attribute was a list or free text.
type Source struct {
	Kind   SourceKind
	Values []string
	Text   string
}

// ListSource wraps an explicit tag list.
func ListSource(values []string) Source { return Source{Kind: List, Values: values} }

// TextSource wraps a free-text field.
func TextSource(text string) Source { return Source{Kind: Text, Text: text} }

// Set is a deduplicated token set.
type Set map[string]struct{}

// Build merges sources into one set. The result does not depend on source order.
func Build(sources ...Source) Set {
	s := make(Set)
	for _, src := range sources {
		switch src.Kind {
		case List:
			for _, v := range src.Values {
				if tok := textnorm.Normalize(v); tok != "" {
					s[tok] = struct{}{}
				}
			}
		case Text:
			for _, tok := range textnorm.Tokenize(src.Text) {
				tok = textnorm.TrimPunct(tok)
				if utf8.RuneCountInString(tok) >= minTextToken {
					s[tok] = struct{}{}
				}
			}
		}
	}
	return s
}

// Has reports membership.
func (s Set) Has(tok string) bool {
	_, ok := s[tok]
	return ok
}

// Len returns the set size.
func (s Set) Len() int { return len(s) }

// Intersect returns |s ∩ o|.
func (s Set) Intersect(o Set) int {
	small, big := s, o
	if len(big) < len(small) {
		small, big = big, small
	}
	n := 0
	for tok := range small {
		if big.Has(tok) {
			n++
		}
	}
	return n
}

// Sorted returns the tokens in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for tok := range s {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// ProfileSources lists the feature-bearing fields of a profile.
func ProfileSources(p *domain.Profile) []Source {
	return []Source{
		ListSource(p.Skills),
		ListSource(p.Certifications),
		TextSource(p.Summary),
		TextSource(p.Experience),
	}
}

// PostingSources lists the feature-bearing fields of a posting.
func PostingSources(p *domain.Posting) []Source {
	return []Source{
		ListSource(p.RequiredSkills),
		ListSource(p.DesiredSkills),
		TextSource(p.Requirements),
	}
}

// Languages builds the spoken-language set of an entity.
func Languages(langs []string) Set {
	return Build(ListSource(langs))
}
