package confidence

// Factors is the detailed breakdown of a confidence calculation. Every
// factor and the overall score are in [0,1]. Overall is always the
// weighted sum of the factors, clamped to 1.0.
type Factors struct {
	NameMatch          float64 `json:"name_match"`
	CodeMatch          float64 `json:"code_match"`
	DataCompleteness   float64 `json:"data_completeness"`
	CrossSource        float64 `json:"cross_source_validation"`
	SeriesDiscovery    float64 `json:"series_discovery"`
	ImageQuality       float64 `json:"image_quality"`
	YearConsistency    float64 `json:"year_consistency"`
	DescriptionQuality float64 `json:"description_quality"`
	Overall            float64 `json:"overall"`
}

// Category buckets a numeric confidence for human review.
type Category string

const (
	CategoryExcellent Category = "EXCELLENT"
	CategoryGood      Category = "GOOD"
	CategoryFair      Category = "FAIR"
	CategoryPoor      Category = "POOR"
	CategoryVeryPoor  Category = "VERY_POOR"
)

// Categorize maps an overall confidence to its qualitative bucket.
func Categorize(confidence float64) Category {
	switch {
	case confidence >= 0.90:
		return CategoryExcellent
	case confidence >= 0.80:
		return CategoryGood
	case confidence >= 0.70:
		return CategoryFair
	case confidence >= 0.50:
		return CategoryPoor
	default:
		return CategoryVeryPoor
	}
}

// Recommendation is the suggested downstream review action.
type Recommendation string

const (
	AutoApprove       Recommendation = "AUTO_APPROVE"
	RecommendApprove  Recommendation = "RECOMMEND_APPROVE"
	ManualReview      Recommendation = "MANUAL_REVIEW"
	NeedsVerification Recommendation = "NEEDS_VERIFICATION"
	Reject            Recommendation = "REJECT"
)

// Recommend derives the review action from the overall category and the
// cross-source agreement factor alone, keeping the policy testable in
// isolation.
func Recommend(factors Factors) Recommendation {
	switch Categorize(factors.Overall) {
	case CategoryExcellent:
		if factors.CrossSource > 0.5 {
			return AutoApprove
		}
		return RecommendApprove
	case CategoryGood:
		return RecommendApprove
	case CategoryFair:
		return ManualReview
	case CategoryPoor:
		return NeedsVerification
	default:
		return Reject
	}
}
