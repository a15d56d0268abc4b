package models

// Recommendation is an ordered list of free-form advice, most actionable first.
type Recommendation []string

// RecommendationSource records which path produced a Recommendation.
type RecommendationSource string

const (
	SourceAI         RecommendationSource = "ai"
	SourceRules      RecommendationSource = "rules"
	SourceAIAndRules RecommendationSource = "ai+rules"
)
