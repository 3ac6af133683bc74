package notifier

import (
	"context"
	"sync"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// PredictionAlerter pushes a prediction when its direction differs from the
// last one seen for the same symbol. Failed predictions are never pushed.
type PredictionAlerter struct {
	Sender     Sender
	Logger     log.Logger
	MaxRetries int

	mu   sync.Mutex
	last map[string]model.Direction
}

// NewPredictionAlerter creates an alerter that retries each send up to three times.
func NewPredictionAlerter(sender Sender, logger log.Logger) *PredictionAlerter {
	return &PredictionAlerter{Sender: sender, Logger: logger, MaxRetries: 3, last: make(map[string]model.Direction)}
}

// OnEvent is a dashboard subscriber.
func (a *PredictionAlerter) OnEvent(evt dashboard.Event) {
	if evt.Kind != dashboard.EventPredict || evt.Pending || evt.Prediction == nil || evt.Prediction.Failed() {
		return
	}
	a.mu.Lock()
	prev, seen := a.last[evt.Symbol]
	a.last[evt.Symbol] = evt.Prediction.Direction
	a.mu.Unlock()
	if seen && prev == evt.Prediction.Direction {
		return
	}

	text := "🔔 <b>Direction change</b>\n\n" + FormatPrediction(evt.Symbol, evt.Prediction)
	if err := a.Sender.SendWithRetry(context.Background(), text, a.MaxRetries); err != nil {
		_ = level.Error(a.Logger).Log("msg", "send prediction alert", "symbol", evt.Symbol, "err", err)
	}
}
