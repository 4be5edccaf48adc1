package linking

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"curator/internal/logging"
	"curator/internal/similarity"
	"curator/internal/textutil"
)

// Linker scores house-accessory compatibility against a read-only house
// snapshot. Safe for concurrent use; all state is fixed at construction.
type Linker struct {
	policy    Policy
	extractor PhraseExtractor
	logger    *slog.Logger
}

// NewLinker creates a linker with the given policy. A nil extractor uses
// the regex default; invalid policies fail immediately.
func NewLinker(policy Policy, extractor PhraseExtractor, logger *slog.Logger) (*Linker, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if extractor == nil {
		extractor = RegexExtractor{}
	}
	return &Linker{
		policy:    policy,
		extractor: extractor,
		logger:    logging.NewComponentLogger(logger, "linking"),
	}, nil
}

// FindCompatible scores every house in the snapshot against the accessory
// and returns matches above the policy floor, sorted by descending score.
// Equal scores keep the snapshot's scan order.
func (l *Linker) FindCompatible(accessory AccessoryData, houses []HouseRecord) []Match {
	var matches []Match

	for _, house := range houses {
		score, reasons := l.score(house, accessory)
		if score <= l.policy.MatchFloor {
			continue
		}
		matches = append(matches, Match{
			House:     house,
			Accessory: accessory,
			Score:     score,
			Reasons:   reasons,
			Level:     LevelForScore(score),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	l.logger.Debug("linking scan complete",
		logging.String("accessory", accessory.Name),
		logging.Int("houses", len(houses)),
		logging.Int("matches", len(matches)))

	return matches
}

func (l *Linker) score(house HouseRecord, accessory AccessoryData) (float64, []string) {
	score := 0.0
	var reasons []string

	if seriesScore := l.labelMatch(house.Series, accessory.Series); seriesScore > 0 {
		score += seriesScore * l.policy.SeriesWeight
		if seriesScore >= 0.8 {
			reasons = append(reasons, fmt.Sprintf("Same series: %s", accessory.Series))
		} else {
			reasons = append(reasons, fmt.Sprintf("Similar series: %s ~ %s", house.Series, accessory.Series))
		}
	}

	if collectionScore := l.labelMatch(house.Collection, accessory.Collection); collectionScore > 0 {
		score += collectionScore * l.policy.CollectionWeight
		if collectionScore >= 0.8 {
			reasons = append(reasons, fmt.Sprintf("Same collection: %s", accessory.Collection))
		} else {
			reasons = append(reasons, fmt.Sprintf("Similar collection: %s ~ %s", house.Collection, accessory.Collection))
		}
	}

	if nameScore := l.namePatterns(house, accessory); nameScore > 0 {
		score += nameScore * l.policy.NameWeight
		if nameScore >= 0.8 {
			reasons = append(reasons, "Name contains house reference")
		} else {
			reasons = append(reasons, "Name similarity detected")
		}
	}

	if descScore := l.descriptionMining(house, accessory); descScore > 0 {
		score += descScore * l.policy.DescriptionWeight
		reasons = append(reasons, "Description indicates compatibility")
	}

	if yearScore := yearProximity(house.Year, accessory.IntroYear); yearScore > 0 {
		score += yearScore * l.policy.YearWeight
		reasons = append(reasons, "Introduced in similar years")
	}

	if codeScore := l.codePatterns(house.Code, accessory.ItemNumber); codeScore > 0 {
		score += codeScore * l.policy.CodeWeight
		reasons = append(reasons, "Similar item numbers")
	}

	if score > 1 {
		score = 1
	}
	return score, reasons
}

// labelMatch scores series or collection agreement: exact case-insensitive
// match is full credit, otherwise fuzzy similarity accepted only above the
// policy floor.
func (l *Linker) labelMatch(houseLabel, accessoryLabel string) float64 {
	if houseLabel == "" || accessoryLabel == "" {
		return 0
	}
	if strings.EqualFold(houseLabel, accessoryLabel) {
		return 1.0
	}
	sim := similarity.TokenSortRatio(
		textutil.Normalize(houseLabel),
		textutil.Normalize(accessoryLabel),
	) / 100
	if sim < l.policy.SimilarityFloor {
		return 0
	}
	return sim
}

// namePatterns catches accessories named after their house ("Workshop
// Sign" for "Workshop"): full containment scores highest, then word
// overlap over the smaller name after stop words, then a bonus when a
// sufficiently long house word appears literally in the accessory name.
func (l *Linker) namePatterns(house HouseRecord, accessory AccessoryData) float64 {
	houseName := textutil.Normalize(house.Name)
	accessoryName := textutil.Normalize(accessory.Name)
	if houseName == "" || accessoryName == "" {
		return 0
	}

	score := 0.0
	if strings.Contains(accessoryName, houseName) {
		score = 0.9
	} else if strings.Contains(houseName, accessoryName) {
		score = 0.8
	}

	houseWords := textutil.ContentWords(house.Name)
	accessoryWords := textutil.ContentWords(accessory.Name)
	if len(houseWords) > 0 && len(accessoryWords) > 0 {
		common := 0
		for word := range houseWords {
			if _, ok := accessoryWords[word]; ok {
				common++
			}
		}
		if common > 0 {
			smaller := len(houseWords)
			if len(accessoryWords) < smaller {
				smaller = len(accessoryWords)
			}
			overlap := float64(common) / float64(smaller) * 0.6
			if overlap > score {
				score = overlap
			}
		}
	}

	for word := range houseWords {
		if len(word) > 3 && strings.Contains(accessoryName, word) {
			if score < 0.7 {
				score = 0.7
			}
			break
		}
	}

	return score
}

// descriptionMining looks for explicit relationship phrases in either
// item's text. A phrase whose object resembles the house name scores
// higher than a bare keyword overlap.
func (l *Linker) descriptionMining(house HouseRecord, accessory AccessoryData) float64 {
	score := 0.0

	houseText := strings.ToLower(house.Name + " " + house.Notes)

	for _, match := range l.extractor.Compatibility(accessory.Description) {
		object := strings.ToLower(match.Object)
		if similarity.PartialRatio(object, strings.ToLower(house.Name)) > 70 {
			if score < 0.9 {
				score = 0.9
			}
			continue
		}
		for _, word := range strings.Fields(object) {
			if strings.Contains(houseText, word) {
				if score < 0.6 {
					score = 0.6
				}
				break
			}
		}
	}

	for _, match := range l.extractor.Inclusion(houseText) {
		if similarity.PartialRatio(strings.ToLower(match.Object), strings.ToLower(accessory.Name)) > 70 {
			if score < 0.8 {
				score = 0.8
			}
		}
	}

	return score
}

// yearProximity decays stepwise: same year full credit, nothing beyond
// five years apart.
func yearProximity(houseYear, accessoryYear int) float64 {
	if houseYear == 0 || accessoryYear == 0 {
		return 0
	}
	diff := houseYear - accessoryYear
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff == 1:
		return 0.8
	case diff <= 3:
		return 0.5
	case diff <= 5:
		return 0.2
	default:
		return 0
	}
}

// codePatterns treats shared leading digits as a family code: a shared
// six-character prefix outranks plain edit similarity.
func (l *Linker) codePatterns(houseCode, accessoryCode string) float64 {
	houseStripped := stripCode(houseCode)
	accessoryStripped := stripCode(accessoryCode)
	if houseStripped == "" || accessoryStripped == "" {
		return 0
	}

	if len(houseStripped) >= 6 && len(accessoryStripped) >= 6 {
		if houseStripped[:6] == accessoryStripped[:6] {
			return 0.8
		}
		if houseStripped[:4] == accessoryStripped[:4] {
			return 0.5
		}
	}

	sim := similarity.Ratio(houseStripped, accessoryStripped) / 100
	if sim < l.policy.SimilarityFloor {
		return 0
	}
	return sim
}

func stripCode(code string) string {
	lowered := strings.ToLower(strings.TrimSpace(code))
	lowered = strings.ReplaceAll(lowered, "-", "")
	return strings.ReplaceAll(lowered, ".", "")
}
