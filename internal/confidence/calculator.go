package confidence

import (
	"strings"
	"time"

	"curator/internal/catalog"
	"curator/internal/matching"
	"curator/internal/similarity"
	"curator/internal/textutil"
)

// DefaultFoundedYear is the earliest plausible introduction year for the
// catalog. Department 56 started producing villages in 1976.
const DefaultFoundedYear = 1976

// Calculator computes confidence factors for aggregated match results.
// Construction validates the weight table; a Calculator, once built,
// scores deterministically and is safe for concurrent use.
type Calculator struct {
	weights     Weights
	foundedYear int
	now         func() time.Time
}

// New creates a calculator with the given weight table. Invalid weights
// are a configuration error and fail immediately.
func New(weights Weights) (*Calculator, error) {
	return NewWithFoundedYear(weights, DefaultFoundedYear)
}

// NewWithFoundedYear creates a calculator whose year-consistency window
// starts at foundedYear instead of the catalog default.
func NewWithFoundedYear(weights Weights, foundedYear int) (*Calculator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if foundedYear <= 0 {
		foundedYear = DefaultFoundedYear
	}
	return &Calculator{
		weights:     weights,
		foundedYear: foundedYear,
		now:         time.Now,
	}, nil
}

// Calculate scores an aggregated result for the query item. An empty
// result yields zero factors, which downstream maps to VERY_POOR/REJECT.
func (c *Calculator) Calculate(query catalog.QueryItem, result matching.Result) Factors {
	var factors Factors
	if len(result) == 0 {
		return factors
	}

	factors.NameMatch = c.nameMatch(query.Name, result)
	factors.CodeMatch = c.codeMatch(query.Code, result)
	factors.DataCompleteness = c.dataCompleteness(result)
	factors.CrossSource = c.crossSourceValidation(result)
	factors.SeriesDiscovery = c.seriesBonus(result)
	factors.ImageQuality = c.imageBonus(result)
	factors.YearConsistency = c.yearConsistency(result)
	factors.DescriptionQuality = c.descriptionQuality(result)

	overall := factors.NameMatch*c.weights.NameMatch +
		factors.CodeMatch*c.weights.CodeMatch +
		factors.DataCompleteness*c.weights.DataCompleteness +
		factors.CrossSource*c.weights.CrossSource +
		factors.SeriesDiscovery*c.weights.SeriesDiscovery +
		factors.ImageQuality*c.weights.ImageQuality +
		factors.YearConsistency*c.weights.YearConsistency +
		factors.DescriptionQuality*c.weights.DescriptionQuality

	factors.Overall = clamp01(overall)
	return factors
}

// nameMatch blends the best similarity across sources with the average,
// rewarding one excellent match without letting a single outlier carry
// the whole factor.
func (c *Calculator) nameMatch(queryName string, result matching.Result) float64 {
	var best, sum float64
	count := 0
	for _, match := range result {
		score := similarity.BestScore(queryName, match.Candidate.Name)
		sum += score
		count++
		if score > best {
			best = score
		}
	}
	if count == 0 {
		return 0
	}
	avg := sum / float64(count)
	return clamp01((best*0.7 + avg*0.3) / 100)
}

// codeMatch averages exact (1.0) and partial (0.5) code matches over the
// sources that actually carry a code.
func (c *Calculator) codeMatch(queryCode string, result matching.Result) float64 {
	normalized := textutil.Normalize(queryCode)
	if normalized == "" {
		return 0
	}

	exact, partial, withCode := 0, 0, 0
	for _, match := range result {
		candidateCode := textutil.Normalize(match.Candidate.ItemNumber)
		if candidateCode == "" {
			continue
		}
		withCode++
		switch {
		case candidateCode == normalized:
			exact++
		case strings.Contains(candidateCode, normalized), strings.Contains(normalized, candidateCode):
			partial++
		}
	}
	if withCode == 0 {
		return 0
	}
	return clamp01((float64(exact) + float64(partial)*0.5) / float64(withCode))
}

// dataCompleteness is the best per-source ratio of required fields
// present, plus a 20% bonus scaled by optional-field coverage.
func (c *Calculator) dataCompleteness(result matching.Result) float64 {
	best := 0.0
	for _, match := range result {
		cand := match.Candidate

		required := 0
		if cand.ItemNumber != "" {
			required++
		}
		if cand.Description != "" {
			required++
		}
		if cand.IntroYear != 0 {
			required++
		}
		if cand.PrimaryImageURL != "" {
			required++
		}
		score := float64(required) / 4.0

		optional := 0
		if cand.RetireYear != 0 {
			optional++
		}
		if cand.Dimensions != "" {
			optional++
		}
		if cand.Series != "" {
			optional++
		}
		if cand.Collection != "" {
			optional++
		}
		score += float64(optional) / 4.0 * 0.2

		if score > 1 {
			score = 1
		}
		if score > best {
			best = score
		}
	}
	return best
}

// crossSourceValidation rises with the number of contributing sources
// (full credit at 3) and with pairwise agreement on names, codes, and
// introduction years.
func (c *Calculator) crossSourceValidation(result matching.Result) float64 {
	if len(result) <= 1 {
		return 0
	}

	countScore := float64(len(result)) / 3.0
	if countScore > 1 {
		countScore = 1
	}

	candidates := make([]catalog.Candidate, 0, len(result))
	for _, site := range result.Sources() {
		candidates = append(candidates, result[site].Candidate)
	}

	var agreements []float64

	var nameSims []float64
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			sim := similarity.TokenSortRatio(
				textutil.Normalize(candidates[i].Name),
				textutil.Normalize(candidates[j].Name),
			) / 100
			nameSims = append(nameSims, sim)
		}
	}
	if len(nameSims) > 0 {
		agreements = append(agreements, mean(nameSims))
	}

	codes := make(map[string]struct{})
	codeCount := 0
	for _, cand := range candidates {
		code := textutil.Normalize(cand.ItemNumber)
		if code == "" {
			continue
		}
		codeCount++
		codes[code] = struct{}{}
	}
	if codeCount > 1 {
		if len(codes) == 1 {
			agreements = append(agreements, 1.0)
		} else {
			agreements = append(agreements, 0.5)
		}
	}

	var minYear, maxYear int
	yearCount := 0
	for _, cand := range candidates {
		if cand.IntroYear == 0 {
			continue
		}
		if yearCount == 0 || cand.IntroYear < minYear {
			minYear = cand.IntroYear
		}
		if yearCount == 0 || cand.IntroYear > maxYear {
			maxYear = cand.IntroYear
		}
		yearCount++
	}
	if yearCount > 1 {
		yearRange := maxYear - minYear
		// Full credit within one year, linear decay to a 0.5 floor at
		// ten years apart.
		yearAgreement := 1.0
		if yearRange > 1 {
			yearAgreement = 1.0 - float64(yearRange)/10.0
			if yearAgreement < 0.5 {
				yearAgreement = 0.5
			}
		}
		agreements = append(agreements, yearAgreement)
	}

	if len(agreements) == 0 {
		return clamp01(countScore * 0.5)
	}
	return clamp01((countScore + mean(agreements)) / 2)
}

// seriesBonus credits sources that surfaced a series or collection label,
// with a small extra when both were found.
func (c *Calculator) seriesBonus(result matching.Result) float64 {
	seriesFound, collectionFound := 0, 0
	for _, match := range result {
		if match.Candidate.Series != "" {
			seriesFound++
		}
		if match.Candidate.Collection != "" {
			collectionFound++
		}
	}

	total := float64(len(result))
	seriesScore := float64(seriesFound) / total
	collectionScore := float64(collectionFound) / total

	combined := seriesScore
	if collectionScore > combined {
		combined = collectionScore
	}
	if seriesScore > 0 && collectionScore > 0 {
		combined = clamp01(seriesScore + collectionScore*0.3)
	}
	return combined
}

// imageBonus credits a primary image plus up to three extra images.
func (c *Calculator) imageBonus(result matching.Result) float64 {
	best := 0.0
	for _, match := range result {
		score := 0.0
		if match.Candidate.PrimaryImageURL != "" {
			score += 0.7
		}
		if extra := len(match.Candidate.AdditionalImages); extra > 0 {
			bonus := float64(extra) * 0.1
			if bonus > 0.3 {
				bonus = 0.3
			}
			score += bonus
		}
		if score > 1 {
			score = 1
		}
		if score > best {
			best = score
		}
	}
	return best
}

// yearConsistency rewards plausible, chronologically consistent years and
// penalizes years outside the founding-year-to-present range.
func (c *Calculator) yearConsistency(result matching.Result) float64 {
	currentYear := c.now().Year()

	best := 0.0
	for _, match := range result {
		cand := match.Candidate
		score := 0.0

		if cand.IntroYear != 0 {
			if cand.IntroYear >= c.foundedYear && cand.IntroYear <= currentYear {
				score += 0.5
			} else {
				score -= 0.2
			}
		}

		if cand.RetireYear != 0 {
			switch {
			case cand.IntroYear != 0 && cand.RetireYear >= cand.IntroYear && cand.RetireYear <= currentYear:
				score += 0.3
			case cand.IntroYear == 0 && cand.RetireYear >= c.foundedYear && cand.RetireYear <= currentYear:
				score += 0.2
			}
		}

		if cand.IntroYear != 0 && cand.RetireYear != 0 {
			score += 0.2
		}

		if score < 0 {
			score = 0
		}
		if score > best {
			best = score
		}
	}
	return clamp01(best)
}

// descriptionKeywords are the domain terms whose presence marks a
// substantive product description.
var descriptionKeywords = []string{
	"department 56", "village", "collection", "series",
	"introduced", "retired", "dimensions", "detail",
}

// descriptionQuality combines length-based credit with keyword credit.
func (c *Calculator) descriptionQuality(result matching.Result) float64 {
	best := 0.0
	for _, match := range result {
		desc := match.Candidate.Description
		if desc == "" {
			continue
		}

		score := 0.0
		switch {
		case len(desc) > 200:
			score += 0.5
		case len(desc) > 100:
			score += 0.3
		case len(desc) > 50:
			score += 0.1
		}

		lowered := strings.ToLower(desc)
		keywordBonus := 0.0
		for _, keyword := range descriptionKeywords {
			if strings.Contains(lowered, keyword) {
				keywordBonus += 0.1
			}
		}
		if keywordBonus > 0.5 {
			keywordBonus = 0.5
		}
		score += keywordBonus

		if score > 1 {
			score = 1
		}
		if score > best {
			best = score
		}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
