package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"wildebeast-llm-api/internal/faults"
	"wildebeast-llm-api/internal/models"
)

// ForecastClient is the downstream boundary. The production implementation
// lives in pkg/wildebeast; tests substitute stubs.
type ForecastClient interface {
	Forecast(ctx context.Context, question string) (json.RawMessage, error)
}

// ForecastService coordinates the forecast pipeline: one downstream call,
// strict validation of the payload, and a history record on success.
type ForecastService struct {
	client  ForecastClient
	history *HistoryService
}

func NewForecastService(client ForecastClient, history *HistoryService) *ForecastService {
	return &ForecastService{
		client:  client,
		history: history,
	}
}

// Forecast resolves a question into a validated forecast. Every non-nil
// error is a *faults.Failure.
func (s *ForecastService) Forecast(ctx context.Context, question string) (*models.ForecastResponse, error) {
	raw, err := s.client.Forecast(ctx, question)
	if err != nil {
		return nil, faults.Ensure(err)
	}

	forecast, err := mapPayload(raw)
	if err != nil {
		return nil, err
	}

	s.history.Record(question, forecast)

	return forecast, nil
}

// rawForecast mirrors the downstream schema with pointer fields so missing
// required values are distinguishable from zero values.
type rawForecast struct {
	FinalProbability    *float64        `json:"final_probability"`
	ConfidenceRangeLow  *float64        `json:"confidence_range_low"`
	ConfidenceRangeHigh *float64        `json:"confidence_range_high"`
	BaselineValue       *float64        `json:"baseline_value"`
	TerrainAdjustments  []rawAdjustment `json:"terrain_adjustments"`
	FullExplanation     *string         `json:"full_explanation"`
}

type rawAdjustment struct {
	FactorName           *string  `json:"factor_name"`
	AdjustmentPercentage *float64 `json:"adjustment_percentage"`
}

// mapPayload validates the downstream payload and re-projects it
// field-for-field into the public contract. The payload is rejected as a
// whole on any required-field violation: a partially-populated forecast is
// worse than an explicit error for a decision-making agent.
func mapPayload(raw json.RawMessage) (*models.ForecastResponse, error) {
	var p rawForecast
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, faults.Wrap(err, faults.KindForecastService,
			"Forecast service returned a malformed payload.")
	}

	required := []struct {
		name  string
		value *float64
	}{
		{"final_probability", p.FinalProbability},
		{"confidence_range_low", p.ConfidenceRangeLow},
		{"confidence_range_high", p.ConfidenceRangeHigh},
		{"baseline_value", p.BaselineValue},
	}
	for _, field := range required {
		if field.value == nil || !isFinite(*field.value) {
			return nil, faults.New(faults.KindForecastService,
				fmt.Sprintf("Forecast payload field %q is missing or not a finite number.", field.name))
		}
	}

	adjustments := make([]models.AdjustmentDetail, 0, len(p.TerrainAdjustments))
	for _, adj := range p.TerrainAdjustments {
		if adj.FactorName == nil || adj.AdjustmentPercentage == nil || !isFinite(*adj.AdjustmentPercentage) {
			return nil, faults.New(faults.KindForecastService,
				"Forecast payload contains a malformed terrain adjustment.")
		}
		adjustments = append(adjustments, models.AdjustmentDetail{
			FactorName:           *adj.FactorName,
			AdjustmentPercentage: *adj.AdjustmentPercentage,
		})
	}

	explanation := ""
	if p.FullExplanation != nil {
		explanation = *p.FullExplanation
	}

	return &models.ForecastResponse{
		FinalProbability:    *p.FinalProbability,
		ConfidenceRangeLow:  *p.ConfidenceRangeLow,
		ConfidenceRangeHigh: *p.ConfidenceRangeHigh,
		BaselineValue:       *p.BaselineValue,
		TerrainAdjustments:  adjustments,
		FullExplanation:     explanation,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
