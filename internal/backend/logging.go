package backend

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"StockDashboard/internal/model"
)

// loggingMiddleware wraps Client and logs every call to the provided logger
type loggingMiddleware struct {
	logger log.Logger
	next   Client
}

// NewLoggingMiddleware logs method, arguments, error and elapsed time of each call.
func NewLoggingMiddleware(logger log.Logger, next Client) Client {
	return &loggingMiddleware{logger: logger, next: next}
}

func (m *loggingMiddleware) Name() string { return m.next.Name() }

func (m *loggingMiddleware) FetchPriceHistory(ctx context.Context, symbol, start, end string) (out *model.PriceHistory, err error) {
	defer func(begin time.Time) {
		points := 0
		if out != nil {
			points = out.ChartData.Len()
		}
		_ = m.wrap(err).Log(
			"method", "FetchPriceHistory",
			"symbol", symbol,
			"start", start,
			"end", end,
			"points", points,
			"err", err,
			"elapsed", time.Since(begin),
		)
	}(time.Now())
	return m.next.FetchPriceHistory(ctx, symbol, start, end)
}

func (m *loggingMiddleware) FetchPrediction(ctx context.Context, symbol string) (out *model.PredictionResult, err error) {
	defer func(begin time.Time) {
		_ = m.wrap(err).Log(
			"method", "FetchPrediction",
			"symbol", symbol,
			"err", err,
			"elapsed", time.Since(begin),
		)
	}(time.Now())
	return m.next.FetchPrediction(ctx, symbol)
}

func (m *loggingMiddleware) FetchLiveQuote(ctx context.Context, symbol string) (out *model.LiveQuote, err error) {
	defer func(begin time.Time) {
		_ = m.wrap(err).Log(
			"method", "FetchLiveQuote",
			"symbol", symbol,
			"err", err,
			"elapsed", time.Since(begin),
		)
	}(time.Now())
	return m.next.FetchLiveQuote(ctx, symbol)
}

func (m *loggingMiddleware) wrap(err error) log.Logger {
	lvl := level.Debug
	if err != nil {
		lvl = level.Error
	}
	return lvl(m.logger)
}
