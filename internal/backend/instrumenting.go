package backend

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"

	"StockDashboard/internal/model"
)

// instrumentingMiddleware wraps Client and records request metrics
type instrumentingMiddleware struct {
	reqCount    metrics.Counter
	reqDuration metrics.Histogram
	next        Client
}

// NewInstrumentingMiddleware counts and times each call, labelled by method and error.
func NewInstrumentingMiddleware(reqCount metrics.Counter, reqDuration metrics.Histogram, next Client) Client {
	return &instrumentingMiddleware{
		reqCount:    reqCount,
		reqDuration: reqDuration,
		next:        next,
	}
}

func (m *instrumentingMiddleware) Name() string { return m.next.Name() }

func (m *instrumentingMiddleware) FetchPriceHistory(ctx context.Context, symbol, start, end string) (out *model.PriceHistory, err error) {
	defer func(begin time.Time) { m.record("FetchPriceHistory", begin, err) }(time.Now())
	return m.next.FetchPriceHistory(ctx, symbol, start, end)
}

func (m *instrumentingMiddleware) FetchPrediction(ctx context.Context, symbol string) (out *model.PredictionResult, err error) {
	defer func(begin time.Time) { m.record("FetchPrediction", begin, err) }(time.Now())
	return m.next.FetchPrediction(ctx, symbol)
}

func (m *instrumentingMiddleware) FetchLiveQuote(ctx context.Context, symbol string) (out *model.LiveQuote, err error) {
	defer func(begin time.Time) { m.record("FetchLiveQuote", begin, err) }(time.Now())
	return m.next.FetchLiveQuote(ctx, symbol)
}

func (m *instrumentingMiddleware) record(method string, begin time.Time, err error) {
	labels := []string{
		"method", method,
		"error", strconv.FormatBool(err != nil),
	}
	m.reqCount.With(labels...).Add(1)
	m.reqDuration.With(labels...).Observe(time.Since(begin).Seconds())
}
