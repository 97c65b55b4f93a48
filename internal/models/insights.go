package models

import "time"

// CorrelationRecord is the transient result of one pairwise Pearson test.
// MetricA always sorts lexically before MetricB, so each unordered pair is
// represented in exactly one orientation.
type CorrelationRecord struct {
	MetricA     string  `json:"metric_a"`
	MetricB     string  `json:"metric_b"`
	Coefficient float64 `json:"coefficient"` // Pearson r, in [-1, 1]
	PValue      float64 `json:"p_value"`     // two-sided significance
	SampleSize  int     `json:"sample_size"` // overlapping dates used
}

// Insight is a persisted, human-readable correlation statement. The score
// is always the signed coefficient, never the p-value.
type Insight struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Description      string    `json:"description"`
	CorrelationScore float64   `json:"correlation_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// AnalysisReport summarizes one run of the engine for a single user
type AnalysisReport struct {
	UserID           string    `json:"user_id"`
	TotalPoints      int       `json:"total_points"`
	TotalMetrics     int       `json:"total_metrics"`
	PairsTested      int       `json:"total_pairs_tested"`
	SignificantCount int       `json:"significant_count"`
	PositiveCount    int       `json:"positive_count"`
	NegativeCount    int       `json:"negative_count"`
	Insights         []Insight `json:"insights"`
}

// InsightsResponse is the API response for a user's stored insights
type InsightsResponse struct {
	Insights []Insight `json:"insights"`
	Count    int       `json:"count"`
}
