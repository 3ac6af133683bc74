package calculator

import (
	"math"
	"testing"

	"StockDashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, v, 1e-9)

	_, err = CalculateSMA([]float64{1, 2}, 5)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = CalculateSMA([]float64{1}, 0)
	assert.Error(t, err)
}

func TestCloses_SkipsNaN(t *testing.T) {
	pts := []model.PricePoint{{Close: 1}, {Close: math.NaN()}, {Close: 3}}
	assert.Equal(t, []float64{1, 3}, Closes(pts))
}

func TestCalculateRange(t *testing.T) {
	pts := []model.PricePoint{
		{High: 10, Low: 5},
		{High: 12, Low: math.NaN()},
		{High: 11, Low: 7},
	}
	h, l, err := CalculateRange(pts, 0)
	require.NoError(t, err)
	assert.Equal(t, 12.0, h)
	assert.Equal(t, 5.0, l)

	h, l, err = CalculateRange(pts, 1)
	require.NoError(t, err)
	assert.Equal(t, 11.0, h)
	assert.Equal(t, 7.0, l)

	_, _, err = CalculateRange(nil, 0)
	assert.Error(t, err)

	_, _, err = CalculateRange([]model.PricePoint{{High: math.NaN(), Low: math.NaN()}}, 0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestChangePercent(t *testing.T) {
	v, err := ChangePercent(100, 110)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)

	_, err = ChangePercent(0, 1)
	assert.Error(t, err)
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	v, err := CalculateRSI(rising, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	alternating := make([]float64, 30)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 100
		} else {
			alternating[i] = 101
		}
	}
	v, err = CalculateRSI(alternating, 14)
	require.NoError(t, err)
	assert.InDelta(t, 50, v, 5)

	_, err = CalculateRSI(rising[:10], 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
