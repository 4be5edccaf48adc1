package staging

import (
	"time"

	"curator/internal/confidence"
	"curator/internal/linking"
)

// Status tracks a staged row through the review workflow.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatus reports whether status names a known review status.
func ValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// House is one approved catalog house. Series and Collection may be
// empty when only the free-text notes mention them; LoadHouseSnapshot
// fills them in for the linker.
type House struct {
	ID         string
	Name       string
	ItemNumber string
	IntroYear  int
	Notes      string
	Series     string
	Collection string
}

// StagedHouse is a scraped house candidate awaiting review, with the
// confidence breakdown that produced its recommendation.
type StagedHouse struct {
	ID               string
	OriginalHouseID  string
	Name             string
	ItemNumber       string
	IntroYear        int
	RetireYear       int
	Description      string
	PrimaryImageURL  string
	AdditionalImages []string
	DiscoveredSeries string

	// Source URLs, one per site the candidate was seen on.
	OfficialURL     string
	RetiredURL      string
	ReplacementsURL string

	NameMatchScore float64
	Factors        confidence.Factors
	Category       confidence.Category
	Recommendation confidence.Recommendation

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SuggestedLink is one ranked house suggestion stored with a staged
// accessory.
type SuggestedLink struct {
	HouseID         string                  `json:"house_id"`
	HouseName       string                  `json:"house_name"`
	MatchScore      float64                 `json:"match_score"`
	ConfidenceLevel linking.ConfidenceLevel `json:"confidence_level"`
	MatchReasons    []string                `json:"match_reasons"`
}

// maxSuggestedLinks caps how many house suggestions are stored per
// staged accessory.
const maxSuggestedLinks = 3

// SuggestedLinksFromMatches converts ranked linker output into the
// stored suggestion form, keeping only the top entries.
func SuggestedLinksFromMatches(matches []linking.Match) []SuggestedLink {
	if len(matches) > maxSuggestedLinks {
		matches = matches[:maxSuggestedLinks]
	}
	links := make([]SuggestedLink, 0, len(matches))
	for _, match := range matches {
		links = append(links, SuggestedLink{
			HouseID:         match.House.ID,
			HouseName:       match.House.Name,
			MatchScore:      match.Score,
			ConfidenceLevel: match.Level,
			MatchReasons:    match.Reasons,
		})
	}
	return links
}

// StagedAccessory is a scraped accessory candidate awaiting review,
// carrying its ranked house link suggestions.
type StagedAccessory struct {
	ID                   string
	OriginalAccessoryID  string
	Name                 string
	ItemNumber           string
	IntroYear            int
	Description          string
	DiscoveredSeries     string
	DiscoveredCollection string
	SuggestedLinks       []SuggestedLink

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary aggregates review-queue counts for status output.
type Summary struct {
	HousesPending      int
	AccessoriesPending int
	Approved           int
	Rejected           int
	AvgConfidence      float64
}
