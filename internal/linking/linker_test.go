package linking

import (
	"testing"
)

func newTestLinker(t *testing.T) *Linker {
	t.Helper()
	linker, err := NewLinker(DefaultPolicy(), nil, nil)
	if err != nil {
		t.Fatalf("NewLinker failed: %v", err)
	}
	return linker
}

func testHouses() []HouseRecord {
	return []HouseRecord{
		{
			ID:     "h1",
			Name:   "Santa's Wonderland House",
			Year:   2006,
			Code:   "56.56720",
			Series: "North Pole Series",
		},
		{
			ID:     "h2",
			Name:   "Santa's Workshop",
			Year:   2007,
			Code:   "56.54100",
			Series: "North Pole Series",
		},
		{
			ID:     "h3",
			Name:   "Fezziwig's Warehouse",
			Year:   1995,
			Code:   "56.58440",
			Series: "Dickens Village",
		},
	}
}

func TestFindCompatibleSeriesMatch(t *testing.T) {
	linker := newTestLinker(t)
	accessory := AccessoryData{
		Name:        "Village Animated Neon Sign",
		ItemNumber:  "56.53320",
		Description: "Animated neon sign for your village display",
		Series:      "North Pole Series",
	}

	matches := linker.FindCompatible(accessory, testHouses())
	if len(matches) == 0 {
		t.Fatal("expected at least one match for a shared series")
	}

	for _, match := range matches {
		if match.House.Series != "North Pole Series" {
			t.Errorf("unexpected house %q in results", match.House.Name)
		}
		if match.Score < 0.4-1e-9 {
			t.Errorf("series-only match score = %v, want >= 0.4", match.Score)
		}
		found := false
		for _, reason := range match.Reasons {
			if reason == "Same series: North Pole Series" {
				found = true
			}
		}
		if !found {
			t.Errorf("missing series reason, got %v", match.Reasons)
		}
	}
}

func TestFindCompatibleSeriesOnlyScoresLow(t *testing.T) {
	linker := newTestLinker(t)
	accessory := AccessoryData{
		Name:   "Crystal Ice Fountain",
		Series: "North Pole Series",
	}
	houses := []HouseRecord{{ID: "h1", Name: "Elf Bunkhouse", Series: "North Pole Series"}}

	matches := linker.FindCompatible(accessory, houses)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Score < 0.39 || matches[0].Score > 0.41 {
		t.Errorf("score = %v, want ~0.4", matches[0].Score)
	}
	if matches[0].Level != LevelLow {
		t.Errorf("level = %v, want LOW", matches[0].Level)
	}
}

func TestFindCompatibleNamePattern(t *testing.T) {
	linker := newTestLinker(t)
	accessory := AccessoryData{
		Name:        "Santa's Workshop Sign",
		ItemNumber:  "56.54100",
		IntroYear:   2007,
		Description: "Sign for Santa's Workshop building",
		Series:      "North Pole Series",
	}

	matches := linker.FindCompatible(accessory, testHouses())
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	if matches[0].House.ID != "h2" {
		t.Errorf("best match = %q, want Santa's Workshop", matches[0].House.Name)
	}

	foundName := false
	for _, reason := range matches[0].Reasons {
		if reason == "Name contains house reference" {
			foundName = true
		}
	}
	if !foundName {
		t.Errorf("missing name reason, got %v", matches[0].Reasons)
	}
}

func TestFindCompatibleFloor(t *testing.T) {
	linker := newTestLinker(t)
	// Year proximity alone is worth 0.03; far below the floor.
	accessory := AccessoryData{Name: "Mystery Figurine", IntroYear: 2006}

	matches := linker.FindCompatible(accessory, testHouses())
	for _, match := range matches {
		if match.Score < 0.3 {
			t.Errorf("match %q below floor: %v", match.House.Name, match.Score)
		}
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches above floor, got %d", len(matches))
	}
}

func TestFindCompatibleSorted(t *testing.T) {
	linker := newTestLinker(t)
	accessory := AccessoryData{
		Name:       "Santa's Workshop Sign",
		ItemNumber: "56.54101",
		IntroYear:  2007,
		Series:     "North Pole Series",
	}

	matches := linker.FindCompatible(accessory, testHouses())
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("results not sorted: %v before %v", matches[i-1].Score, matches[i].Score)
		}
	}
}

func TestFindCompatibleEmptyInputs(t *testing.T) {
	linker := newTestLinker(t)

	if got := linker.FindCompatible(AccessoryData{}, testHouses()); len(got) != 0 {
		t.Errorf("empty accessory matched %d houses", len(got))
	}
	if got := linker.FindCompatible(AccessoryData{Name: "Sign", Series: "North Pole Series"}, nil); len(got) != 0 {
		t.Errorf("empty snapshot produced %d matches", len(got))
	}
}

func TestDescriptionMining(t *testing.T) {
	linker := newTestLinker(t)
	house := HouseRecord{Name: "Santa's Workshop"}
	accessory := AccessoryData{
		Name:        "Toy Conveyor",
		Description: "Goes with Santa's Workshop. Hand painted.",
	}

	score := linker.descriptionMining(house, accessory)
	if score != 0.9 {
		t.Errorf("description score = %v, want 0.9 for named house", score)
	}

	vague := AccessoryData{
		Name:        "Toy Conveyor",
		Description: "Designed for workshop displays everywhere",
	}
	score = linker.descriptionMining(house, vague)
	if score != 0.6 {
		t.Errorf("description score = %v, want 0.6 for keyword overlap", score)
	}

	unrelated := AccessoryData{Name: "Toy Conveyor", Description: "A lovely hand painted piece"}
	if score := linker.descriptionMining(house, unrelated); score != 0 {
		t.Errorf("description score = %v, want 0", score)
	}
}

func TestInclusionMining(t *testing.T) {
	linker := newTestLinker(t)
	house := HouseRecord{
		Name:  "North Pole Post Office",
		Notes: "Includes mail cart accessory. Series: North Pole Series",
	}
	accessory := AccessoryData{Name: "Mail Cart Accessory"}

	score := linker.descriptionMining(house, accessory)
	if score != 0.8 {
		t.Errorf("inclusion score = %v, want 0.8", score)
	}
}

func TestYearProximitySteps(t *testing.T) {
	tests := []struct {
		house, accessory int
		want             float64
	}{
		{2006, 2006, 1.0},
		{2006, 2007, 0.8},
		{2006, 2009, 0.5},
		{2006, 2011, 0.2},
		{2006, 2012, 0},
		{0, 2006, 0},
		{2006, 0, 0},
	}
	for _, tt := range tests {
		if got := yearProximity(tt.house, tt.accessory); got != tt.want {
			t.Errorf("yearProximity(%d, %d) = %v, want %v", tt.house, tt.accessory, got, tt.want)
		}
	}
}

func TestCodePatterns(t *testing.T) {
	linker := newTestLinker(t)
	tests := []struct {
		name       string
		house, acc string
		want       float64
	}{
		{"six digit family prefix", "56.54305", "56.54306", 0.8},
		{"four digit prefix", "56.54305", "56.54999", 0.5},
		{"different families", "56.54305", "56.58440", 0},
		{"missing code", "", "56.54305", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := linker.codePatterns(tt.house, tt.acc); got != tt.want {
				t.Errorf("codePatterns(%q, %q) = %v, want %v", tt.house, tt.acc, got, tt.want)
			}
		})
	}
}

func TestExtractSeriesCollection(t *testing.T) {
	tests := []struct {
		name           string
		notes          string
		wantSeries     string
		wantCollection string
	}{
		{
			name:       "series label",
			notes:      "Series: North Pole Series. Lighted building.",
			wantSeries: "north pole series",
		},
		{
			name:           "collection label",
			notes:          "Part of the Heritage collection",
			wantCollection: "the heritage collection",
		},
		{
			name:           "both labels",
			notes:          "Series: Dickens Village. Collection: Heritage Collection",
			wantSeries:     "dickens village",
			wantCollection: "heritage collection",
		},
		{
			name:  "no labels",
			notes: "A charming lighted house.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, collection := ExtractSeriesCollection(tt.notes)
			if series != tt.wantSeries {
				t.Errorf("series = %q, want %q", series, tt.wantSeries)
			}
			if collection != tt.wantCollection {
				t.Errorf("collection = %q, want %q", collection, tt.wantCollection)
			}
		})
	}
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  ConfidenceLevel
	}{
		{0.9, LevelVeryHigh},
		{0.85, LevelVeryHigh},
		{0.75, LevelHigh},
		{0.6, LevelMedium},
		{0.45, LevelLow},
		{0.35, LevelVeryLow},
	}
	for _, tt := range tests {
		if got := LevelForScore(tt.score); got != tt.want {
			t.Errorf("LevelForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestCollectionReasonWording(t *testing.T) {
	linker := newTestLinker(t)
	houses := []HouseRecord{
		{
			ID:         "h1",
			Name:       "Maple Sugaring Shed",
			Series:     "New England Village",
			Collection: "Heritage Village Collection",
		},
	}

	exact := AccessoryData{
		Name:       "Sap Buckets",
		Series:     "New England Village",
		Collection: "heritage village collection",
	}
	matches := linker.FindCompatible(exact, houses)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match for exact collection, got %d", len(matches))
	}
	if !containsReason(matches[0].Reasons, "Same collection: heritage village collection") {
		t.Errorf("expected exact collection reason, got %v", matches[0].Reasons)
	}

	fuzzy := AccessoryData{
		Name:       "Sap Buckets",
		Series:     "New England Village",
		Collection: "Heritage Collection",
	}
	matches = linker.FindCompatible(fuzzy, houses)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match for fuzzy collection, got %d", len(matches))
	}
	if !containsReason(matches[0].Reasons, "Similar collection: Heritage Village Collection ~ Heritage Collection") {
		t.Errorf("expected fuzzy collection reason, got %v", matches[0].Reasons)
	}
	if containsReason(matches[0].Reasons, "Same collection: Heritage Collection") {
		t.Errorf("fuzzy collection should not claim an exact match: %v", matches[0].Reasons)
	}
}

func containsReason(reasons []string, want string) bool {
	for _, reason := range reasons {
		if reason == want {
			return true
		}
	}
	return false
}

func TestNewLinkerRejectsBadPolicy(t *testing.T) {
	bad := DefaultPolicy()
	bad.SeriesWeight = 0.9
	if _, err := NewLinker(bad, nil, nil); err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}

	badFloor := DefaultPolicy()
	badFloor.MatchFloor = -0.1
	if _, err := NewLinker(badFloor, nil, nil); err == nil {
		t.Fatal("expected error for negative floor")
	}
}
