package models

import "time"

// ForecastRequest represents the incoming forecast question
type ForecastRequest struct {
	Question string `json:"question"`
}

// ForecastResponse represents the forecast result returned to callers.
// Fields are a field-for-field projection of the downstream payload.
type ForecastResponse struct {
	FinalProbability    float64            `json:"final_probability"`
	ConfidenceRangeLow  float64            `json:"confidence_range_low"`
	ConfidenceRangeHigh float64            `json:"confidence_range_high"`
	BaselineValue       float64            `json:"baseline_value"`
	TerrainAdjustments  []AdjustmentDetail `json:"terrain_adjustments"`
	FullExplanation     string             `json:"full_explanation"`
}

// AdjustmentDetail represents a single factor that adjusted the probability
type AdjustmentDetail struct {
	FactorName           string  `json:"factor_name"`
	AdjustmentPercentage float64 `json:"adjustment_percentage"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error          string  `json:"error"`
	Message        string  `json:"message"`
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty"`
}

// ForecastRecord is a history entry persisted after a successful forecast
type ForecastRecord struct {
	Question            string    `json:"question" firestore:"question"`
	FinalProbability    float64   `json:"final_probability" firestore:"final_probability"`
	ConfidenceRangeLow  float64   `json:"confidence_range_low" firestore:"confidence_range_low"`
	ConfidenceRangeHigh float64   `json:"confidence_range_high" firestore:"confidence_range_high"`
	CreatedAt           time.Time `json:"created_at" firestore:"created_at"`
}
