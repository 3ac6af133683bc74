package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

func TestFormatPrediction(t *testing.T) {
	assert.Contains(t, FormatPrediction("NIFTY", nil), "No prediction yet")

	failed := FormatPrediction("NIFTY", &model.PredictionResult{Error: "model <unavailable>"})
	assert.Contains(t, failed, "model &lt;unavailable&gt;")

	down := FormatPrediction("TCS", &model.PredictionResult{Direction: model.DirectionDown, Suggestion: "Sell", LivePrice: 3500, PredictedPrice: 3450.25, Confidence: 60})
	assert.Contains(t, down, "🔴 <b>DOWN</b>")
	assert.Contains(t, down, "Live Price: ₹3500")
	assert.Contains(t, down, "Predicted Price: ₹3450.25")
}

func TestFormatStatus(t *testing.T) {
	s := dashboard.State{
		Symbol:    "NIFTY",
		Timeframe: model.DefaultTimeframe(),
		Range:     model.DateRange{Start: "2024-06-05", End: "2024-06-10"},
		LiveError: "Symbol not found",
		Prediction: &model.PredictionResult{
			Direction: model.DirectionUp, PredictedPrice: 101.5, Confidence: 80,
		},
	}
	out := FormatStatus(s, time.UTC)
	assert.Contains(t, out, "Symbol: NIFTY")
	assert.Contains(t, out, "Timeframe: 5D (2024-06-05 → 2024-06-10)")
	assert.Contains(t, out, "Live: Symbol not found")
	assert.Contains(t, out, "Prediction: UP 101.5 (80%)")

	s.Predicting = true
	assert.Contains(t, FormatStatus(s, time.UTC), "Prediction: pending")
}

func TestFormatLoad_Empty(t *testing.T) {
	s := dashboard.State{Symbol: "NIFTY", Timeframe: model.DefaultTimeframe()}
	assert.Contains(t, FormatLoad(s), "No price data loaded.")
}
