package chart

import (
	"math"

	"StockDashboard/internal/calculator"
	"StockDashboard/internal/model"
)

// Summary holds headline statistics of a loaded series. Unavailable figures are NaN.
type Summary struct {
	LastClose     float64
	ChangePercent float64
	High          float64
	Low           float64
	SMA5          float64
	SMA10         float64
	RSI14         float64
}

// Summarize computes the summary over the full-resolution points.
func Summarize(points []model.PricePoint) Summary {
	nan := math.NaN()
	s := Summary{LastClose: nan, ChangePercent: nan, High: nan, Low: nan, SMA5: nan, SMA10: nan, RSI14: nan}

	closes := calculator.Closes(points)
	if len(closes) == 0 {
		return s
	}
	s.LastClose = closes[len(closes)-1]
	if pct, err := calculator.ChangePercent(closes[0], s.LastClose); err == nil {
		s.ChangePercent = pct
	}
	if h, l, err := calculator.CalculateRange(points, 0); err == nil {
		s.High, s.Low = h, l
	}
	if v, err := calculator.CalculateSMA(closes, 5); err == nil {
		s.SMA5 = v
	}
	if v, err := calculator.CalculateSMA(closes, 10); err == nil {
		s.SMA10 = v
	}
	if v, err := calculator.CalculateRSI(closes, 14); err == nil {
		s.RSI14 = v
	}
	return s
}
