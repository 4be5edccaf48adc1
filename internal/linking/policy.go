package linking

import (
	"fmt"
	"math"
)

// Policy is the named, swappable scoring policy for house-accessory
// linking: signal weights plus the acceptance floors. Defaults were tuned
// on the production catalog and are configuration, not domain law.
type Policy struct {
	SeriesWeight      float64 `toml:"series_weight"`
	CollectionWeight  float64 `toml:"collection_weight"`
	NameWeight        float64 `toml:"name_weight"`
	DescriptionWeight float64 `toml:"description_weight"`
	YearWeight        float64 `toml:"year_weight"`
	CodeWeight        float64 `toml:"code_weight"`

	// SimilarityFloor is the minimum fuzzy similarity (0-1) accepted for
	// series, collection, and code signals. Sub-floor similarity
	// contributes nothing rather than partial credit.
	SimilarityFloor float64 `toml:"similarity_floor"`
	// MatchFloor discards combined scores at or below it; below this the
	// signals are indistinguishable from chance co-occurrence.
	MatchFloor float64 `toml:"match_floor"`
}

// DefaultPolicy returns the production linking policy.
func DefaultPolicy() Policy {
	return Policy{
		SeriesWeight:      0.40,
		CollectionWeight:  0.30,
		NameWeight:        0.15,
		DescriptionWeight: 0.10,
		YearWeight:        0.03,
		CodeWeight:        0.02,
		SimilarityFloor:   0.7,
		MatchFloor:        0.3,
	}
}

// Validate rejects weightings that are negative or do not sum to 1.0 and
// floors outside [0,1].
func (p Policy) Validate() error {
	weights := map[string]float64{
		"series_weight":      p.SeriesWeight,
		"collection_weight":  p.CollectionWeight,
		"name_weight":        p.NameWeight,
		"description_weight": p.DescriptionWeight,
		"year_weight":        p.YearWeight,
		"code_weight":        p.CodeWeight,
	}
	sum := 0.0
	for name, value := range weights {
		if value < 0 {
			return fmt.Errorf("linking weight %s must not be negative", name)
		}
		sum += value
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("linking weights must sum to 1.0, got %.6f", sum)
	}
	if p.SimilarityFloor < 0 || p.SimilarityFloor > 1 {
		return fmt.Errorf("linking similarity_floor must be in [0,1], got %v", p.SimilarityFloor)
	}
	if p.MatchFloor < 0 || p.MatchFloor > 1 {
		return fmt.Errorf("linking match_floor must be in [0,1], got %v", p.MatchFloor)
	}
	return nil
}
