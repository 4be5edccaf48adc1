package staging_test

import (
	"context"
	"errors"
	"testing"

	"curator/internal/confidence"
	"curator/internal/linking"
	"curator/internal/staging"
	"curator/internal/testsupport"
)

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	id := testsupport.MustInsertHouse(t, store, staging.House{Name: "Santa's Workshop"})
	if id == "" {
		t.Fatal("expected house id to be assigned")
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := staging.Open(cfg)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	house, err := reopened.GetHouse(ctx, id)
	if err != nil {
		t.Fatalf("GetHouse failed: %v", err)
	}
	if house == nil || house.Name != "Santa's Workshop" {
		t.Fatalf("house did not survive reopen: %+v", house)
	}
}

func TestHouseRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	id := testsupport.MustInsertHouse(t, store, staging.House{
		Name:       "Fezziwig's Warehouse",
		ItemNumber: "56.58440",
		IntroYear:  1995,
		Notes:      "Series: Dickens Village. Lighted.",
	})

	house, err := store.GetHouse(ctx, id)
	if err != nil {
		t.Fatalf("GetHouse failed: %v", err)
	}
	if house.ItemNumber != "56.58440" || house.IntroYear != 1995 {
		t.Fatalf("unexpected round trip: %+v", house)
	}

	if missing, err := store.GetHouse(ctx, "no-such-id"); err != nil || missing != nil {
		t.Fatalf("expected nil, nil for missing house, got %+v, %v", missing, err)
	}
}

func TestLoadHouseSnapshotExtractsNotes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.MustInsertHouse(t, store, staging.House{
		Name:  "North Pole Post Office",
		Notes: "Series: North Pole Series. Includes mail cart.",
	})
	testsupport.MustInsertHouse(t, store, staging.House{
		Name:   "Ye Olde Mill",
		Series: "Dickens Village",
		Notes:  "Series: Wrong Series (column wins)",
	})

	records, err := store.LoadHouseSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadHouseSnapshot failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	byName := map[string]linking.HouseRecord{}
	for _, record := range records {
		byName[record.Name] = record
	}
	if got := byName["North Pole Post Office"].Series; got != "north pole series" {
		t.Errorf("extracted series = %q", got)
	}
	if got := byName["Ye Olde Mill"].Series; got != "Dickens Village" {
		t.Errorf("explicit series overridden: %q", got)
	}
}

func TestStageHouseRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	factors := confidence.Factors{
		NameMatch:   0.95,
		CrossSource: 0.8,
		Overall:     0.91,
	}
	id, err := store.StageHouse(ctx, staging.StagedHouse{
		Name:             "Robbie's Robot Factory",
		ItemNumber:       "56.12345",
		IntroYear:        2005,
		Description:      "Animated robot factory",
		PrimaryImageURL:  "https://example.com/robot.jpg",
		AdditionalImages: []string{"https://example.com/robot.jpg", "https://example.com/robot2.jpg"},
		DiscoveredSeries: "North Pole Series",
		RetiredURL:       "https://retired.example.com/robot",
		NameMatchScore:   0.93,
		Factors:          factors,
		Category:         confidence.CategoryExcellent,
		Recommendation:   confidence.AutoApprove,
	})
	if err != nil {
		t.Fatalf("StageHouse failed: %v", err)
	}

	staged, err := store.GetStagedHouse(ctx, id)
	if err != nil {
		t.Fatalf("GetStagedHouse failed: %v", err)
	}
	if staged == nil {
		t.Fatal("staged house missing")
	}
	if staged.Status != staging.StatusPending {
		t.Errorf("status = %q, want pending", staged.Status)
	}
	if staged.Factors.NameMatch != 0.95 || staged.Factors.Overall != 0.91 {
		t.Errorf("factors did not round trip: %+v", staged.Factors)
	}
	if staged.Category != confidence.CategoryExcellent {
		t.Errorf("category = %q", staged.Category)
	}
	if len(staged.AdditionalImages) != 2 {
		t.Errorf("images did not round trip: %v", staged.AdditionalImages)
	}
	if staged.CreatedAt.IsZero() || staged.UpdatedAt.IsZero() {
		t.Error("timestamps not recorded")
	}
}

func TestStageHouseRequiresName(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.StageHouse(context.Background(), staging.StagedHouse{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestListStagedHousesOrdersByConfidence(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, entry := range []struct {
		name    string
		overall float64
	}{
		{"Low Confidence House", 0.55},
		{"High Confidence House", 0.92},
		{"Mid Confidence House", 0.75},
	} {
		if _, err := store.StageHouse(ctx, staging.StagedHouse{
			Name:    entry.name,
			Factors: confidence.Factors{Overall: entry.overall},
		}); err != nil {
			t.Fatalf("StageHouse(%s) failed: %v", entry.name, err)
		}
	}

	staged, err := store.ListStagedHouses(ctx, staging.StatusPending, 2)
	if err != nil {
		t.Fatalf("ListStagedHouses failed: %v", err)
	}
	if len(staged) != 2 {
		t.Fatalf("got %d rows, want 2", len(staged))
	}
	if staged[0].Name != "High Confidence House" || staged[1].Name != "Mid Confidence House" {
		t.Errorf("unexpected order: %q, %q", staged[0].Name, staged[1].Name)
	}
}

func TestStageAccessoryWithLinks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	matches := []linking.Match{
		{House: linking.HouseRecord{ID: "h1", Name: "First"}, Score: 0.9, Level: linking.LevelVeryHigh, Reasons: []string{"Same series: North Pole Series"}},
		{House: linking.HouseRecord{ID: "h2", Name: "Second"}, Score: 0.7, Level: linking.LevelHigh},
		{House: linking.HouseRecord{ID: "h3", Name: "Third"}, Score: 0.5, Level: linking.LevelLow},
		{House: linking.HouseRecord{ID: "h4", Name: "Fourth"}, Score: 0.4, Level: linking.LevelLow},
	}

	id, err := store.StageAccessory(ctx, staging.StagedAccessory{
		Name:             "Village Animated Neon Sign",
		DiscoveredSeries: "North Pole Series",
		SuggestedLinks:   staging.SuggestedLinksFromMatches(matches),
	})
	if err != nil {
		t.Fatalf("StageAccessory failed: %v", err)
	}

	staged, err := store.GetStagedAccessory(ctx, id)
	if err != nil {
		t.Fatalf("GetStagedAccessory failed: %v", err)
	}
	if staged == nil {
		t.Fatal("staged accessory missing")
	}
	if len(staged.SuggestedLinks) != 3 {
		t.Fatalf("suggestions should cap at 3, got %d", len(staged.SuggestedLinks))
	}
	if staged.SuggestedLinks[0].HouseID != "h1" || staged.SuggestedLinks[0].MatchScore != 0.9 {
		t.Errorf("first suggestion did not round trip: %+v", staged.SuggestedLinks[0])
	}
	if staged.SuggestedLinks[0].MatchReasons[0] != "Same series: North Pole Series" {
		t.Errorf("reasons did not round trip: %v", staged.SuggestedLinks[0].MatchReasons)
	}
}

func TestStatusTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	id, err := store.StageHouse(ctx, staging.StagedHouse{Name: "Pending House"})
	if err != nil {
		t.Fatalf("StageHouse failed: %v", err)
	}

	if err := store.SetHouseStatus(ctx, id, staging.StatusApproved); err != nil {
		t.Fatalf("SetHouseStatus failed: %v", err)
	}
	staged, err := store.GetStagedHouse(ctx, id)
	if err != nil {
		t.Fatalf("GetStagedHouse failed: %v", err)
	}
	if staged.Status != staging.StatusApproved {
		t.Errorf("status = %q, want approved", staged.Status)
	}

	err = store.SetHouseStatus(ctx, "missing-id", staging.StatusRejected)
	if !errors.Is(err, staging.ErrNotStaged) {
		t.Fatalf("expected ErrNotStaged, got %v", err)
	}

	if err := store.SetHouseStatus(ctx, id, staging.Status("bogus")); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestPendingSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	houseID, err := store.StageHouse(ctx, staging.StagedHouse{
		Name:    "House A",
		Factors: confidence.Factors{Overall: 0.8},
	})
	if err != nil {
		t.Fatalf("StageHouse failed: %v", err)
	}
	if _, err := store.StageHouse(ctx, staging.StagedHouse{
		Name:    "House B",
		Factors: confidence.Factors{Overall: 0.6},
	}); err != nil {
		t.Fatalf("StageHouse failed: %v", err)
	}
	if _, err := store.StageAccessory(ctx, staging.StagedAccessory{Name: "Accessory A"}); err != nil {
		t.Fatalf("StageAccessory failed: %v", err)
	}

	summary, err := store.PendingSummary(ctx)
	if err != nil {
		t.Fatalf("PendingSummary failed: %v", err)
	}
	if summary.HousesPending != 2 || summary.AccessoriesPending != 1 {
		t.Fatalf("unexpected pending counts: %+v", summary)
	}
	if summary.AvgConfidence < 0.69 || summary.AvgConfidence > 0.71 {
		t.Errorf("avg confidence = %v, want ~0.7", summary.AvgConfidence)
	}

	if err := store.SetHouseStatus(ctx, houseID, staging.StatusApproved); err != nil {
		t.Fatalf("SetHouseStatus failed: %v", err)
	}
	summary, err = store.PendingSummary(ctx)
	if err != nil {
		t.Fatalf("PendingSummary failed: %v", err)
	}
	if summary.HousesPending != 1 || summary.Approved != 1 {
		t.Fatalf("unexpected counts after approval: %+v", summary)
	}
}
