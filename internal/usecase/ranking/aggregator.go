// Package ranking turns a pool and a set of anchors into a sorted, paginated
// list of lexical matches.
package ranking

import (
	"sort"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/feature"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/usecase/scoring"
)

// RankCandidates scores every profile against every posting anchor, keeps the
// best anchor per profile and returns the requested page of the full sorted list.
// Ties keep pool order. Cost is O(len(pool) * len(anchors)).
func RankCandidates(pool []domain.Profile, anchors []domain.Posting, page match.PageRequest, f match.Filters) match.Page {
	cache := feature.NewCache()
	results := make([]match.Result, 0, len(pool))
	for i := range pool {
		p := &pool[i]
		if !f.AcceptsCategories(p.Area, p.Level, p.Modality) {
			continue
		}
		best, ok := bestAnchor(len(anchors), func(k int) (string, match.Breakdown) {
			return anchors[k].ID, scoring.Explain(p, &anchors[k], cache)
		})
		if !ok || best.Score < f.MinScore {
			continue
		}
		best.ID = p.ID
		results = append(results, best)
	}
	return sortAndSlice(results, page)
}

// RankPostings is the candidate perspective: postings ranked for the
// candidate's profiles.
func RankPostings(pool []domain.Posting, anchors []domain.Profile, page match.PageRequest, f match.Filters) match.Page {
	cache := feature.NewCache()
	results := make([]match.Result, 0, len(pool))
	for i := range pool {
		j := &pool[i]
		if !f.AcceptsCategories(j.Area, j.Level, j.Modality) {
			continue
		}
		best, ok := bestAnchor(len(anchors), func(k int) (string, match.Breakdown) {
			return anchors[k].ID, scoring.Explain(&anchors[k], j, cache)
		})
		if !ok || best.Score < f.MinScore {
			continue
		}
		best.ID = j.ID
		results = append(results, best)
	}
	return sortAndSlice(results, page)
}

// bestAnchor returns the highest-scoring anchor; the first one wins ties.
func bestAnchor(n int, score func(k int) (string, match.Breakdown)) (match.Result, bool) {
	var best match.Result
	found := false
	for k := 0; k < n; k++ {
		id, b := score(k)
		if !found || b.Total > best.Score {
			bd := b
			best = match.Result{AnchorID: id, Score: b.Total, Breakdown: &bd}
			found = true
		}
	}
	return best, found
}

// sortAndSlice orders the whole set before cutting the page.
func sortAndSlice(results []match.Result, page match.PageRequest) match.Page {
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return page.Slice(results)
}
