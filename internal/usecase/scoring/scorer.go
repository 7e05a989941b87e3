// Package scoring computes the deterministic lexical compatibility score.
package scoring

import (
	"math"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/category"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/feature"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/match"
	"github.com/Denis-Wendell/matchmaking-sub000/internal/domain/textnorm"
)

// Term weights. Without a language requirement the ceiling is 95.
const (
	WeightArea     = 20
	WeightLevel    = 15
	WeightModality = 10
	WeightLanguage = 5
	WeightFeatures = 50

	// FloorScore is awarded when every term is zero but features still overlap.
	FloorScore = 5
)

// Score returns the compatibility of p with j in [0,100]. c may be nil, in
// which case feature sets are built without memoization.
func Score(p *domain.Profile, j *domain.Posting, c *feature.Cache) int {
	return Explain(p, j, c).Total
}

// Explain returns the itemized score.
func Explain(p *domain.Profile, j *domain.Posting, c *feature.Cache) match.Breakdown {
	var b match.Breakdown

	if sameText(p.Area, j.Area) {
		b.Area = WeightArea
	}
	if sameCategory(category.KindLevel, p.Level, j.Level) {
		b.Level = WeightLevel
	}
	if sameCategory(category.KindModality, p.Modality, j.Modality) {
		b.Modality = WeightModality
	}

	b.Language = ratioPoints(c.ProfileLanguages(p), c.PostingLanguages(j), WeightLanguage)

	pf, jf := c.Profile(p), c.Posting(j)
	b.Intersection = pf.Intersect(jf)
	if jf.Len() > 0 {
		b.Features = ratioPoints(pf, jf, WeightFeatures)
	}

	total := match.ClampScore(b.Area + b.Level + b.Modality + b.Language + b.Features)
	if total == 0 && b.Intersection > 0 {
		total = FloorScore
		b.Floored = true
	}
	b.Total = total
	return b
}

// ratioPoints returns round(min(weight, |have ∩ want| / |want| * weight)),
// or 0 when either side is empty.
func ratioPoints(have, want feature.Set, weight int) int {
	if have.Len() == 0 || want.Len() == 0 {
		return 0
	}
	ratio := float64(have.Intersect(want)) / float64(want.Len())
	return int(math.Round(math.Min(float64(weight), ratio*float64(weight))))
}

func sameText(a, b string) bool {
	na := textnorm.Normalize(a)
	return na != "" && na == textnorm.Normalize(b)
}

// sameCategory gives no credit when either side is unspecified.
func sameCategory(kind category.Kind, a, b string) bool {
	va := category.Normalize(kind, a)
	return va != category.Unspecified && va == category.Normalize(kind, b)
}
