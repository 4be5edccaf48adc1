package matching

import (
	"fmt"
	"log/slog"

	"curator/internal/catalog"
	"curator/internal/logging"
	"curator/internal/similarity"
	"curator/internal/sources"
	"curator/internal/textutil"
)

// DefaultMinScore is the similarity floor (0-100 scale) a candidate must
// clear to be kept for its source.
const DefaultMinScore = 60.0

// SourceMatch is one source's best candidate for a query item.
type SourceMatch struct {
	Candidate catalog.Candidate `json:"candidate"`
	Score     float64           `json:"score"`
	Source    string            `json:"source"`
}

// Result maps source identifier to that source's best match. At most one
// match per source.
type Result map[string]SourceMatch

// Sources returns the contributing source identifiers in aggregation order.
func (r Result) Sources() []string {
	ordered := make([]string, 0, len(r))
	for _, site := range sources.Sites() {
		if _, ok := r[site]; ok {
			ordered = append(ordered, site)
		}
	}
	return ordered
}

// Best returns the highest-scoring match across sources, if any.
func (r Result) Best() (SourceMatch, bool) {
	var best SourceMatch
	found := false
	for _, site := range sources.Sites() {
		match, ok := r[site]
		if !ok {
			continue
		}
		if !found || match.Score > best.Score {
			best = match
			found = true
		}
	}
	return best, found
}

// Aggregator scans per-source candidate buckets for the best match per
// source. It holds no state beyond its logger; every call is pure with
// respect to its inputs.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger disables logging.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logging.NewComponentLogger(logger, "matching")}
}

// Aggregate searches every configured source for the query item and keeps
// each source's single best candidate scoring at or above minScore. A
// minScore of zero falls back to DefaultMinScore; values outside the 0-100
// scoring scale are rejected.
func (a *Aggregator) Aggregate(query catalog.QueryItem, idx sources.Index, minScore float64) (Result, error) {
	if minScore < 0 || minScore > 100 {
		return nil, fmt.Errorf("matching: min score must be between 0 and 100, got %v", minScore)
	}
	if minScore == 0 {
		minScore = DefaultMinScore
	}

	result := make(Result)
	if idx == nil || query.Name == "" {
		return result, nil
	}

	queryCode := textutil.Normalize(query.Code)

	for _, site := range sources.Sites() {
		bucket := idx.Source(site)
		if len(bucket) == 0 {
			continue
		}

		var best SourceMatch
		for _, candidate := range bucket {
			score := similarity.BestScore(query.Name, candidate.Name)
			// A query without a code is scored on name alone; a
			// missing candidate code is never counted against it.
			if queryCode != "" && candidate.ItemNumber != "" {
				codeScore := similarity.Ratio(queryCode, textutil.Normalize(candidate.ItemNumber))
				if codeScore > score {
					score = codeScore
				}
			}
			if score > best.Score {
				best = SourceMatch{Candidate: candidate, Score: score, Source: site}
			}
		}

		if best.Score >= minScore {
			result[site] = best
			a.logger.Debug("source match kept",
				logging.String("source", site),
				logging.String("query", query.Name),
				logging.String("candidate", best.Candidate.Name),
				logging.Float64("score", best.Score))
		} else {
			a.logger.Debug("source below floor",
				logging.String("source", site),
				logging.String("query", query.Name),
				logging.Float64("best_score", best.Score),
				logging.Float64("min_score", minScore))
		}
	}

	return result, nil
}
