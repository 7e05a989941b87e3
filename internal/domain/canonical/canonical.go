// Package canonical renders an entity into the single normalized text block
// that is sent to the embedding provider.
package canonical

import (
	"strings"
	"unicode/utf8"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/category"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

// Caps on the merged skill list and per-field free text, in runes.
const (
	ProfileMaxSkills = 64
	PostingMaxSkills = 80
	PostingMaxBoost  = PostingMaxSkills / 4
	ProfileMaxText   = 600
	PostingMaxText   = 700
)

const minTextToken = 2

// Build dispatches on the entity kind. Unknown implementations yield "".
func Build(e domain.Entity) string {
	switch v := e.(type) {
	case *domain.Profile:
		return Profile(v)
	case *domain.Posting:
		return Posting(v)
	default:
		return ""
	}
}

// Profile renders a candidate profile.
func Profile(p *domain.Profile) string {
	skills := newMerger(ProfileMaxSkills)
	skills.addList(p.Skills)
	skills.addList(p.Certifications)
	skills.addText(p.Summary)
	skills.addText(p.Experience)

	var b lines
	b.add("name", textnorm.Normalize(p.Name))
	b.add("area", textnorm.Normalize(p.Area))
	b.add("level", string(category.Normalize(category.KindLevel, p.Level)))
	b.add("modality", string(category.Normalize(category.KindModality, p.Modality)))
	b.add("languages", joinList(textnorm.NormalizeAll(p.Languages)))
	b.add("skills_all", joinList(skills.items))
	b.add("summary", clip(p.Summary, ProfileMaxText))
	b.add("experience", clip(p.Experience, ProfileMaxText))
	return b.String()
}

// Posting renders an opportunity. Up to PostingMaxBoost required skills are
// repeated once after the merged list to weigh mandatory requirements in the
// embedding, so skills_all holds at most PostingMaxSkills+PostingMaxBoost items.
func Posting(p *domain.Posting) string {
	skills := newMerger(PostingMaxSkills)
	skills.addList(p.RequiredSkills)
	skills.addList(p.DesiredSkills)
	skills.addText(p.Requirements)

	merged := skills.items
	if boost := dedup(textnorm.NormalizeAll(p.RequiredSkills), PostingMaxBoost); len(boost) > 0 {
		merged = append(append([]string{}, merged...), boost...)
	}

	var b lines
	b.add("title", textnorm.Normalize(p.Title))
	b.add("area", textnorm.Normalize(p.Area))
	b.add("level", string(category.Normalize(category.KindLevel, p.Level)))
	b.add("modality", string(category.Normalize(category.KindModality, p.Modality)))
	b.add("languages", joinList(textnorm.NormalizeAll(p.Languages)))
	b.add("skills_all", joinList(merged))
	b.add("requirements", clip(p.Requirements, PostingMaxText))
	b.add("description", clip(p.Description, PostingMaxText))
	return b.String()
}

// lines accumulates "label: value" rows, dropping empty values.
type lines struct {
	rows []string
}

func (l *lines) add(label, value string) {
	if value == "" {
		return
	}
	l.rows = append(l.rows, label+": "+value)
}

func (l *lines) String() string { return strings.Join(l.rows, "\n") }

// merger keeps an ordered, deduplicated, capped token list.
type merger struct {
	limit int
	seen  map[string]struct{}
	items []string
}

func newMerger(limit int) *merger {
	return &merger{limit: limit, seen: make(map[string]struct{})}
}

func (m *merger) push(tok string) {
	if tok == "" || len(m.items) >= m.limit {
		return
	}
	if _, ok := m.seen[tok]; ok {
		return
	}
	m.seen[tok] = struct{}{}
	m.items = append(m.items, tok)
}

func (m *merger) addList(values []string) {
	for _, v := range values {
		m.push(textnorm.Normalize(v))
	}
}

func (m *merger) addText(text string) {
	for _, tok := range textnorm.Tokenize(text) {
		tok = textnorm.TrimPunct(tok)
		if utf8.RuneCountInString(tok) >= minTextToken {
			m.push(tok)
		}
	}
}

func dedup(values []string, limit int) []string {
	m := newMerger(limit)
	for _, v := range values {
		m.push(v)
	}
	return m.items
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

// clip normalizes free text, flattens it to one line and caps its length.
func clip(s string, n int) string {
	return strings.TrimSpace(textnorm.Truncate(textnorm.Normalize(s), n))
}
