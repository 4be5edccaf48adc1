package matching

// Outcome summarizes one query item's resolution for batch statistics.
type Outcome struct {
	Matched    bool
	Confidence float64
}

// Stats aggregates resolution outcomes across a batch run.
type Stats struct {
	Total              int     `json:"total"`
	Matched            int     `json:"matched"`
	Unmatched          int     `json:"unmatched"`
	MatchRate          float64 `json:"match_rate"`
	AvgConfidence      float64 `json:"avg_confidence"`
	HighConfidence     int     `json:"high_confidence"`
	HighConfidenceRate float64 `json:"high_confidence_rate"`
}

// highConfidenceFloor marks outcomes counted as high confidence.
const highConfidenceFloor = 0.8

// Summarize computes batch statistics from individual outcomes.
func Summarize(outcomes []Outcome) Stats {
	stats := Stats{Total: len(outcomes)}

	var confidenceSum float64
	for _, outcome := range outcomes {
		if !outcome.Matched {
			continue
		}
		stats.Matched++
		confidenceSum += outcome.Confidence
		if outcome.Confidence >= highConfidenceFloor {
			stats.HighConfidence++
		}
	}

	stats.Unmatched = stats.Total - stats.Matched
	if stats.Total > 0 {
		stats.MatchRate = float64(stats.Matched) / float64(stats.Total)
	}
	if stats.Matched > 0 {
		stats.AvgConfidence = confidenceSum / float64(stats.Matched)
		stats.HighConfidenceRate = float64(stats.HighConfidence) / float64(stats.Matched)
	}
	return stats
}
