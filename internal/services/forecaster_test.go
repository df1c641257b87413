package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildebeast-llm-api/internal/faults"
	"wildebeast-llm-api/internal/models"
	"wildebeast-llm-api/internal/services"
)

type stubClient struct {
	raw   json.RawMessage
	err   error
	calls int
}

func (s *stubClient) Forecast(ctx context.Context, question string) (json.RawMessage, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

func newService(stub *stubClient) *services.ForecastService {
	return services.NewForecastService(stub, nil)
}

func forecastFailure(t *testing.T, err error) *faults.Failure {
	t.Helper()
	require.Error(t, err)
	var f *faults.Failure
	require.True(t, errors.As(err, &f))
	return f
}

const wellFormedPayload = `{
	"final_probability": 0.75,
	"confidence_range_low": 0.68,
	"confidence_range_high": 0.82,
	"baseline_value": 0.70,
	"terrain_adjustments": [
		{"factor_name": "Historical Weather Patterns", "adjustment_percentage": 5.2}
	],
	"full_explanation": "..."
}`

func TestForecastLosslessProjection(t *testing.T) {
	svc := newService(&stubClient{raw: json.RawMessage(wellFormedPayload)})

	got, err := svc.Forecast(context.Background(), "Will it rain tomorrow?")
	require.NoError(t, err)

	want := &models.ForecastResponse{
		FinalProbability:    0.75,
		ConfidenceRangeLow:  0.68,
		ConfidenceRangeHigh: 0.82,
		BaselineValue:       0.70,
		TerrainAdjustments: []models.AdjustmentDetail{
			{FactorName: "Historical Weather Patterns", AdjustmentPercentage: 5.2},
		},
		FullExplanation: "...",
	}
	assert.Equal(t, want, got)
}

func TestForecastMissingRequiredFields(t *testing.T) {
	fields := []string{
		"final_probability",
		"confidence_range_low",
		"confidence_range_high",
		"baseline_value",
	}

	for _, missing := range fields {
		t.Run(missing, func(t *testing.T) {
			var payload map[string]any
			require.NoError(t, json.Unmarshal([]byte(wellFormedPayload), &payload))
			delete(payload, missing)
			raw, err := json.Marshal(payload)
			require.NoError(t, err)

			svc := newService(&stubClient{raw: raw})
			_, err = svc.Forecast(context.Background(), "q")

			f := forecastFailure(t, err)
			assert.Equal(t, faults.KindForecastService, f.Kind())
			assert.Contains(t, f.Message(), missing)
		})
	}
}

func TestForecastWrongFieldType(t *testing.T) {
	svc := newService(&stubClient{raw: json.RawMessage(`{"final_probability":"high"}`)})

	_, err := svc.Forecast(context.Background(), "q")

	f := forecastFailure(t, err)
	assert.Equal(t, faults.KindForecastService, f.Kind())
}

func TestForecastNotJSON(t *testing.T) {
	svc := newService(&stubClient{raw: json.RawMessage(`<html>oops</html>`)})

	_, err := svc.Forecast(context.Background(), "q")

	f := forecastFailure(t, err)
	assert.Equal(t, faults.KindForecastService, f.Kind())
}

// One bad adjustment rejects the whole payload; partial forecasts are never
// returned.
func TestForecastMalformedAdjustmentRejectsWholePayload(t *testing.T) {
	payload := `{
		"final_probability": 0.75,
		"confidence_range_low": 0.68,
		"confidence_range_high": 0.82,
		"baseline_value": 0.70,
		"terrain_adjustments": [
			{"factor_name": "Good Factor", "adjustment_percentage": 1.0},
			{"factor_name": "Broken Factor"}
		],
		"full_explanation": "x"
	}`
	svc := newService(&stubClient{raw: json.RawMessage(payload)})

	_, err := svc.Forecast(context.Background(), "q")

	f := forecastFailure(t, err)
	assert.Equal(t, faults.KindForecastService, f.Kind())
}

func TestForecastAbsentAdjustmentsBecomeEmptyList(t *testing.T) {
	payload := `{
		"final_probability": 0.5,
		"confidence_range_low": 0.4,
		"confidence_range_high": 0.6,
		"baseline_value": 0.5
	}`
	svc := newService(&stubClient{raw: json.RawMessage(payload)})

	got, err := svc.Forecast(context.Background(), "q")
	require.NoError(t, err)

	assert.NotNil(t, got.TerrainAdjustments)
	assert.Len(t, got.TerrainAdjustments, 0)
	assert.Empty(t, got.FullExplanation)
}

func TestForecastClientFailurePassesThrough(t *testing.T) {
	down := faults.New(faults.KindUnavailable, "Failed to connect to forecast service.")
	svc := newService(&stubClient{err: down})

	_, err := svc.Forecast(context.Background(), "q")

	f := forecastFailure(t, err)
	assert.Equal(t, faults.KindUnavailable, f.Kind())
}

func TestForecastUnknownClientErrorBecomesInternal(t *testing.T) {
	svc := newService(&stubClient{err: errors.New("boom")})

	_, err := svc.Forecast(context.Background(), "q")

	f := forecastFailure(t, err)
	assert.Equal(t, faults.KindInternal, f.Kind())
}
