// Package match holds the request-scoped ranking value types.
package match

import (
	"math"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Breakdown itemizes a lexical score.
type Breakdown struct {
	Area         int  `json:"area"`
	Level        int  `json:"level"`
	Modality     int  `json:"modality"`
	Language     int  `json:"language"`
	Features     int  `json:"features"`
	Intersection int  `json:"intersection"`
	Floored      bool `json:"floored,omitempty"`
	Total        int  `json:"total"`
}

// Explanation is the optional natural-language enrichment of a result.
type Explanation struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Empty reports whether no enrichment is present.
func (e Explanation) Empty() bool { return e.Reason == "" && e.Message == "" }

// Result is one ranked entity. Score is always within [0,100].
type Result struct {
	ID          string       `json:"id"`
	AnchorID    string       `json:"anchor_id"`
	Score       int          `json:"score"`
	Breakdown   *Breakdown   `json:"breakdown,omitempty"`
	Explanation *Explanation `json:"explanation,omitempty"`
}

// Page is one slice of a ranked list plus the totals of the whole list.
type Page struct {
	Items      []Result `json:"items"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// ClampScore bounds s to [0,100].
func ClampScore(s int) int {
	return max(MinScore, min(MaxScore, s))
}

// similarityExponent softens the curve so near-ties keep distinct percentages.
const similarityExponent = 0.95

// SimilarityPercent converts a raw similarity into an integer percentage:
// round(clamp(s,0,1)^0.95*100). Monotonic, 0 -> 0, 1 -> 100.
func SimilarityPercent(s float64) int {
	if math.IsNaN(s) || s <= 0 {
		return 0
	}
	if s >= 1 {
		return MaxScore
	}
	return int(math.Round(math.Pow(s, similarityExponent) * 100))
}

// Neighbor is one vector search hit: a target id and its raw similarity.
type Neighbor struct {
	ID         string
	Similarity float64
}
