package calculator

import (
	"errors"
	"math"

	"StockDashboard/internal/model"
)

// CalculateRange scans the most recent lookback points and returns the high and low.
// A lookback <= 0 scans everything. Non-finite values are ignored.
func CalculateRange(points []model.PricePoint, lookback int) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no points provided")
	}
	start := 0
	if lookback > 0 && len(points) > lookback {
		start = len(points) - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(points); i++ {
		if h := points[i].High; !math.IsNaN(h) && h > high {
			high = h
		}
		if l := points[i].Low; !math.IsNaN(l) && l < low {
			low = l
		}
	}
	if math.IsInf(high, 0) || math.IsInf(low, 0) {
		return 0, 0, ErrInsufficientData
	}
	return high, low, nil
}

// ChangePercent returns the percentage move from first to last.
func ChangePercent(first, last float64) (float64, error) {
	if first == 0 {
		return 0, errors.New("first value must be non-zero")
	}
	return (last - first) / first * 100, nil
}
