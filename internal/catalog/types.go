package catalog

import "strings"

// ItemKind distinguishes primary items (houses) from companion items
// (accessories).
type ItemKind string

const (
	KindHouse     ItemKind = "house"
	KindAccessory ItemKind = "accessory"
)

// ParseItemKind maps free-form input to an ItemKind, defaulting to house.
func ParseItemKind(value string) ItemKind {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "accessory", "accessories":
		return KindAccessory
	default:
		return KindHouse
	}
}

// Candidate is one externally sourced product description. Candidates are
// produced by the crawler and treated as read-only by the scoring engine.
type Candidate struct {
	Name             string   `json:"name"`
	ItemNumber       string   `json:"item_number,omitempty"`
	IntroYear        int      `json:"intro_year,omitempty"`
	RetireYear       int      `json:"retire_year,omitempty"`
	Description      string   `json:"description,omitempty"`
	Dimensions       string   `json:"dimensions,omitempty"`
	PrimaryImageURL  string   `json:"primary_image_url,omitempty"`
	AdditionalImages []string `json:"additional_images,omitempty"`
	SourceSite       string   `json:"source_site"`
	SourceURL        string   `json:"source_url"`
	Series           string   `json:"discovered_series,omitempty"`
	Collection       string   `json:"discovered_collection,omitempty"`
	Kind             ItemKind `json:"item_type,omitempty"`
}

// HasRequiredFields reports whether the candidate carries the field set
// used for completeness scoring.
func (c Candidate) HasRequiredFields() bool {
	return c.ItemNumber != "" && c.Description != "" && c.IntroYear != 0 && c.PrimaryImageURL != ""
}

// QueryItem is a locally known item being resolved against the candidate
// indexes. Constructed per call, never stored.
type QueryItem struct {
	Name string
	Code string
	Kind ItemKind
}
