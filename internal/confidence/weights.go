package confidence

import (
	"fmt"
	"math"
)

// Weights is the hand-tuned scoring policy combining the eight confidence
// factors. The defaults were tuned empirically on the production catalog;
// alternative weightings can be tested without touching scoring logic.
type Weights struct {
	NameMatch          float64 `toml:"name_match"`
	CodeMatch          float64 `toml:"code_match"`
	DataCompleteness   float64 `toml:"data_completeness"`
	CrossSource        float64 `toml:"cross_source_validation"`
	SeriesDiscovery    float64 `toml:"series_discovery"`
	ImageQuality       float64 `toml:"image_quality"`
	YearConsistency    float64 `toml:"year_consistency"`
	DescriptionQuality float64 `toml:"description_quality"`
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		NameMatch:          0.35,
		CodeMatch:          0.15,
		DataCompleteness:   0.20,
		CrossSource:        0.15,
		SeriesDiscovery:    0.05,
		ImageQuality:       0.05,
		YearConsistency:    0.03,
		DescriptionQuality: 0.02,
	}
}

const weightSumTolerance = 1e-9

// Validate rejects weight tables that are negative or do not sum to 1.0.
func (w Weights) Validate() error {
	values := map[string]float64{
		"name_match":              w.NameMatch,
		"code_match":              w.CodeMatch,
		"data_completeness":       w.DataCompleteness,
		"cross_source_validation": w.CrossSource,
		"series_discovery":        w.SeriesDiscovery,
		"image_quality":           w.ImageQuality,
		"year_consistency":        w.YearConsistency,
		"description_quality":     w.DescriptionQuality,
	}
	sum := 0.0
	for name, value := range values {
		if value < 0 {
			return fmt.Errorf("confidence weight %s must not be negative", name)
		}
		sum += value
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("confidence weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}
