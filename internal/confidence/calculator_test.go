package confidence

import (
	"testing"
	"time"

	"curator/internal/catalog"
	"curator/internal/matching"
	"curator/internal/sources"
)

func newTestCalculator(t *testing.T) *Calculator {
	t.Helper()
	calc, err := New(DefaultWeights())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	// Pin the clock so year scoring does not drift with the wall clock.
	calc.now = func() time.Time { return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return calc
}

func robbieResult() matching.Result {
	return matching.Result{
		sources.SiteRetired: {
			Source: sources.SiteRetired,
			Score:  100,
			Candidate: catalog.Candidate{
				Name:            "Robbie's Robot Factory",
				ItemNumber:      "56.54305",
				IntroYear:       2006,
				RetireYear:      2008,
				Description:     "A whimsical robot factory from the North Pole Series",
				PrimaryImageURL: "https://example.com/image1.jpg",
				Series:          "North Pole Series",
				SourceSite:      sources.SiteRetired,
				SourceURL:       "https://retired.example.com/robbie",
			},
		},
		sources.SiteOfficial: {
			Source: sources.SiteOfficial,
			Score:  100,
			Candidate: catalog.Candidate{
				Name:            "Robbie's Robot Factory",
				ItemNumber:      "56.54305",
				IntroYear:       2006,
				Description:     "Robot factory building",
				PrimaryImageURL: "https://example.com/image2.jpg",
				SourceSite:      sources.SiteOfficial,
				SourceURL:       "https://official.example.com/robbie",
			},
		},
	}
}

func TestCalculateTwoAgreeingSources(t *testing.T) {
	calc := newTestCalculator(t)
	query := catalog.QueryItem{Name: "Robbie's Robot Factory", Code: "56.54305"}

	factors := calc.Calculate(query, robbieResult())

	if factors.NameMatch < 0.95 {
		t.Errorf("name match = %v, want ~1.0", factors.NameMatch)
	}
	if factors.CodeMatch != 1.0 {
		t.Errorf("code match = %v, want 1.0", factors.CodeMatch)
	}
	if factors.CrossSource < 0.6 {
		t.Errorf("cross-source = %v, want >= 0.6", factors.CrossSource)
	}
	if factors.Overall < 0.85 {
		t.Errorf("overall = %v, want >= 0.85", factors.Overall)
	}

	category := Categorize(factors.Overall)
	if category != CategoryGood && category != CategoryExcellent {
		t.Errorf("category = %v, want GOOD or EXCELLENT", category)
	}

	rec := Recommend(factors)
	if rec != RecommendApprove && rec != AutoApprove {
		t.Errorf("recommendation = %v, want RECOMMEND_APPROVE or AUTO_APPROVE", rec)
	}
}

func TestCalculateEmptyResult(t *testing.T) {
	calc := newTestCalculator(t)

	factors := calc.Calculate(catalog.QueryItem{Name: "Totally Unrelated Widget"}, matching.Result{})

	if factors.Overall != 0 {
		t.Errorf("overall = %v, want 0", factors.Overall)
	}
	if Categorize(factors.Overall) != CategoryVeryPoor {
		t.Errorf("category = %v, want VERY_POOR", Categorize(factors.Overall))
	}
	if Recommend(factors) != Reject {
		t.Errorf("recommendation = %v, want REJECT", Recommend(factors))
	}
}

func TestCalculateBounds(t *testing.T) {
	calc := newTestCalculator(t)
	results := []matching.Result{
		{},
		robbieResult(),
		{
			sources.SiteRetired: {
				Source:    sources.SiteRetired,
				Score:     100,
				Candidate: catalog.Candidate{Name: "X", IntroYear: 1800, RetireYear: 3000},
			},
		},
	}

	for _, result := range results {
		factors := calc.Calculate(catalog.QueryItem{Name: "X"}, result)
		all := []float64{
			factors.NameMatch, factors.CodeMatch, factors.DataCompleteness,
			factors.CrossSource, factors.SeriesDiscovery, factors.ImageQuality,
			factors.YearConsistency, factors.DescriptionQuality, factors.Overall,
		}
		for i, value := range all {
			if value < 0 || value > 1 {
				t.Errorf("factor %d = %v, out of [0,1]", i, value)
			}
		}
	}
}

func TestAdditionalAgreeingSourceNeverLowersConfidence(t *testing.T) {
	calc := newTestCalculator(t)
	query := catalog.QueryItem{Name: "Robbie's Robot Factory", Code: "56.54305"}

	twoSources := robbieResult()
	before := calc.Calculate(query, twoSources)

	threeSources := robbieResult()
	agreeing := twoSources[sources.SiteRetired]
	agreeing.Source = sources.SiteReplacements
	agreeing.Candidate.SourceSite = sources.SiteReplacements
	threeSources[sources.SiteReplacements] = agreeing
	after := calc.Calculate(query, threeSources)

	if after.CrossSource < before.CrossSource {
		t.Errorf("cross-source dropped: %v -> %v", before.CrossSource, after.CrossSource)
	}
	if after.Overall < before.Overall {
		t.Errorf("overall dropped: %v -> %v", before.Overall, after.Overall)
	}
}

func TestCodeMatchBreaksNameTies(t *testing.T) {
	calc := newTestCalculator(t)

	withCode := matching.Result{
		sources.SiteRetired: {
			Source: sources.SiteRetired,
			Score:  100,
			Candidate: catalog.Candidate{
				Name:       "Robbie's Robot Factory",
				ItemNumber: "56.54305",
			},
		},
	}
	withoutCode := matching.Result{
		sources.SiteRetired: {
			Source: sources.SiteRetired,
			Score:  100,
			Candidate: catalog.Candidate{
				Name: "Robbie's Robot Factory",
			},
		},
	}

	query := catalog.QueryItem{Name: "Robbie's Robot Factory", Code: "56.54305"}
	scored := calc.Calculate(query, withCode)
	unscored := calc.Calculate(query, withoutCode)

	if scored.CodeMatch <= unscored.CodeMatch {
		t.Errorf("code match not higher: %v vs %v", scored.CodeMatch, unscored.CodeMatch)
	}
	if scored.Overall <= unscored.Overall {
		t.Errorf("overall not higher: %v vs %v", scored.Overall, unscored.Overall)
	}
}

func TestPartialCodeMatch(t *testing.T) {
	calc := newTestCalculator(t)
	result := matching.Result{
		sources.SiteRetired: {
			Source: sources.SiteRetired,
			Candidate: catalog.Candidate{
				Name:       "Robbie's Robot Factory",
				ItemNumber: "56.54305-A",
			},
		},
	}

	factors := calc.Calculate(catalog.QueryItem{Name: "Robbie's Robot Factory", Code: "56.54305"}, result)
	if factors.CodeMatch != 0.5 {
		t.Errorf("partial code match = %v, want 0.5", factors.CodeMatch)
	}
}

func TestYearConsistency(t *testing.T) {
	calc := newTestCalculator(t)

	tests := []struct {
		name      string
		candidate catalog.Candidate
		wantMin   float64
		wantMax   float64
	}{
		{
			name:      "plausible both years",
			candidate: catalog.Candidate{Name: "X", IntroYear: 2006, RetireYear: 2008},
			wantMin:   1.0,
			wantMax:   1.0,
		},
		{
			name:      "implausible intro year",
			candidate: catalog.Candidate{Name: "X", IntroYear: 1800},
			wantMin:   0,
			wantMax:   0,
		},
		{
			name:      "retire before intro",
			candidate: catalog.Candidate{Name: "X", IntroYear: 2008, RetireYear: 2005},
			wantMin:   0.5,
			wantMax:   0.7,
		},
		{
			name:      "no years",
			candidate: catalog.Candidate{Name: "X"},
			wantMin:   0,
			wantMax:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := matching.Result{
				sources.SiteRetired: {Source: sources.SiteRetired, Candidate: tt.candidate},
			}
			factors := calc.Calculate(catalog.QueryItem{Name: "X"}, result)
			if factors.YearConsistency < tt.wantMin || factors.YearConsistency > tt.wantMax {
				t.Errorf("year consistency = %v, want [%v, %v]", factors.YearConsistency, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestCategorizeThresholds(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Category
	}{
		{0.95, CategoryExcellent},
		{0.90, CategoryExcellent},
		{0.85, CategoryGood},
		{0.80, CategoryGood},
		{0.75, CategoryFair},
		{0.70, CategoryFair},
		{0.60, CategoryPoor},
		{0.50, CategoryPoor},
		{0.49, CategoryVeryPoor},
		{0.0, CategoryVeryPoor},
	}
	for _, tt := range tests {
		if got := Categorize(tt.confidence); got != tt.want {
			t.Errorf("Categorize(%v) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func TestRecommendPolicy(t *testing.T) {
	tests := []struct {
		name    string
		factors Factors
		want    Recommendation
	}{
		{"excellent with agreement", Factors{Overall: 0.92, CrossSource: 0.7}, AutoApprove},
		{"excellent without agreement", Factors{Overall: 0.92, CrossSource: 0.3}, RecommendApprove},
		{"good", Factors{Overall: 0.85}, RecommendApprove},
		{"fair", Factors{Overall: 0.72}, ManualReview},
		{"poor", Factors{Overall: 0.55}, NeedsVerification},
		{"very poor", Factors{Overall: 0.2}, Reject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Recommend(tt.factors); got != tt.want {
				t.Errorf("Recommend = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	bad := DefaultWeights()
	bad.NameMatch = 0.5 // sum now exceeds 1.0
	if _, err := New(bad); err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}

	negative := DefaultWeights()
	negative.NameMatch = -0.1
	if _, err := New(negative); err == nil {
		t.Fatal("expected error for negative weight")
	}
}
