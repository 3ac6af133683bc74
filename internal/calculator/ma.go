package calculator

import (
	"errors"
	"math"

	"StockDashboard/internal/model"
)

var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// Closes returns the finite closing prices in order. Bars with a NaN close are skipped.
func Closes(points []model.PricePoint) []float64 {
	closes := make([]float64, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		closes = append(closes, p.Close)
	}
	return closes
}
