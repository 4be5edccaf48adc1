package linking

// HouseRecord is the cached view of one cataloged house used for linking.
// Series and Collection are derived from the free-text notes when the
// snapshot is loaded.
type HouseRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Year       int    `json:"year,omitempty"`
	Code       string `json:"sku,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Series     string `json:"series,omitempty"`
	Collection string `json:"collection,omitempty"`
}

// AccessoryData is the accessory-side input to a linking run.
type AccessoryData struct {
	Name        string `json:"name"`
	ItemNumber  string `json:"item_number,omitempty"`
	IntroYear   int    `json:"intro_year,omitempty"`
	Description string `json:"description,omitempty"`
	Series      string `json:"discovered_series,omitempty"`
	Collection  string `json:"discovered_collection,omitempty"`
	SourceSite  string `json:"source_site,omitempty"`
}

// ConfidenceLevel labels a linking match score for review.
type ConfidenceLevel string

const (
	LevelVeryHigh ConfidenceLevel = "VERY_HIGH"
	LevelHigh     ConfidenceLevel = "HIGH"
	LevelMedium   ConfidenceLevel = "MEDIUM"
	LevelLow      ConfidenceLevel = "LOW"
	LevelVeryLow  ConfidenceLevel = "VERY_LOW"
)

// LevelForScore maps a combined match score to its confidence level.
func LevelForScore(score float64) ConfidenceLevel {
	switch {
	case score >= 0.85:
		return LevelVeryHigh
	case score >= 0.70:
		return LevelHigh
	case score >= 0.55:
		return LevelMedium
	case score >= 0.40:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

// Match is one candidate house for an accessory. Reasons list every
// signal that contributed; they are part of the contract, not debug
// output.
type Match struct {
	House     HouseRecord     `json:"house"`
	Accessory AccessoryData   `json:"accessory"`
	Score     float64         `json:"match_score"`
	Reasons   []string        `json:"match_reasons"`
	Level     ConfidenceLevel `json:"confidence_level"`
}
