package backend

import (
	"context"
	"math"
	"time"

	"github.com/guregu/null/v6"
	"github.com/pkg/errors"

	"StockDashboard/internal/model"
)

// MockClient returns controllable fixed data for development and testing.
// Nil fields are synthesised around Price.
type MockClient struct {
	Price      float64
	History    *model.PriceHistory
	Prediction *model.PredictionResult
	Err        error
	Now        func() time.Time
}

func (m *MockClient) Name() string { return "mock" }

func (m *MockClient) FetchPriceHistory(_ context.Context, symbol, start, end string) (*model.PriceHistory, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "symbol is required")
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.History != nil {
		return m.History, nil
	}
	return generateMockHistory(m.Price, start, end), nil
}

func (m *MockClient) FetchPrediction(_ context.Context, symbol string) (*model.PredictionResult, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "symbol is required")
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Prediction != nil {
		return m.Prediction, nil
	}
	return &model.PredictionResult{
		Symbol:         symbol,
		Direction:      model.DirectionUp,
		Suggestion:     "BUY CALL",
		LivePrice:      m.Price,
		PredictedPrice: math.Round(m.Price*1.006*100) / 100,
		Confidence:     60,
	}, nil
}

func (m *MockClient) FetchLiveQuote(_ context.Context, symbol string) (*model.LiveQuote, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "symbol is required")
	}
	if m.Err != nil {
		return nil, m.Err
	}
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return &model.LiveQuote{Symbol: symbol, Price: m.Price, ObservedAt: now()}, nil
}

// generateMockHistory produces one daily bar per calendar day in [start, end].
func generateMockHistory(basePrice float64, start, end string) *model.PriceHistory {
	from, err1 := time.Parse(model.DateLayout, start)
	to, err2 := time.Parse(model.DateLayout, end)
	if err1 != nil || err2 != nil || to.Before(from) {
		return &model.PriceHistory{ChartData: &model.RawPriceSeries{}}
	}
	days := int(to.Sub(from).Hours()/24) + 1
	raw := &model.RawPriceSeries{}
	pricing := make([]model.PricingRow, 0, days)
	prevClose := 0.0
	for i := 0; i < days; i++ {
		p := basePrice * (1 + float64(i-days/2)*0.001)
		d := from.AddDate(0, 0, i)
		raw.Dates = append(raw.Dates, d.Format("2006-01-02 15:04:05"))
		raw.Open = append(raw.Open, p*0.999)
		raw.High = append(raw.High, p*1.005)
		raw.Low = append(raw.Low, p*0.995)
		raw.Close = append(raw.Close, p)
		raw.Volume = append(raw.Volume, 1000000.0)

		change := 0.0
		if prevClose != 0 {
			change = (p - prevClose) / prevClose * 100
		}
		prevClose = p
		pricing = append(pricing, model.PricingRow{
			Date:          null.StringFrom(d.Format("2006-01-02 15:04:05")),
			Open:          null.FloatFrom(p * 0.999),
			High:          null.FloatFrom(p * 1.005),
			Low:           null.FloatFrom(p * 0.995),
			Close:         null.FloatFrom(p),
			AdjClose:      null.FloatFrom(p),
			Volume:        null.FloatFrom(1000000),
			PercentChange: null.FloatFrom(change),
		})
	}
	// latest first, as the backend sends it
	for i, j := 0, len(pricing)-1; i < j; i, j = i+1, j-1 {
		pricing[i], pricing[j] = pricing[j], pricing[i]
	}
	return &model.PriceHistory{
		ChartData: raw,
		Pricing:   pricing,
		Fundamentals: &model.Fundamentals{
			Sector:    null.StringFrom("Index"),
			MarketCap: null.FloatFrom(basePrice * 1e9),
			Beta:      null.FloatFrom(1),
		},
	}
}
