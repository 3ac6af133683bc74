package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return f.err
}

func predictEvent(symbol string, dir model.Direction) dashboard.Event {
	return dashboard.Event{
		Kind:       dashboard.EventPredict,
		Symbol:     symbol,
		Prediction: &model.PredictionResult{Symbol: symbol, Direction: dir, PredictedPrice: 100, Confidence: 55},
	}
}

func TestPredictionAlerter_OnlyOnDirectionChange(t *testing.T) {
	sender := &fakeSender{}
	a := NewPredictionAlerter(sender, log.NewNopLogger())

	a.OnEvent(predictEvent("NIFTY", model.DirectionUp))
	a.OnEvent(predictEvent("NIFTY", model.DirectionUp))
	a.OnEvent(predictEvent("NIFTY", model.DirectionDown))
	a.OnEvent(predictEvent("TCS", model.DirectionDown))

	require.Len(t, sender.sent, 3)
	assert.Contains(t, sender.sent[0], "NIFTY Prediction")
	assert.Contains(t, sender.sent[1], "<b>DOWN</b>")
	assert.Contains(t, sender.sent[2], "TCS Prediction")
}

func TestPredictionAlerter_IgnoresOtherEvents(t *testing.T) {
	sender := &fakeSender{}
	a := NewPredictionAlerter(sender, log.NewNopLogger())

	pending := predictEvent("NIFTY", model.DirectionUp)
	pending.Pending = true
	a.OnEvent(pending)
	a.OnEvent(dashboard.Event{Kind: dashboard.EventPredict, Symbol: "NIFTY", Prediction: &model.PredictionResult{Error: "model unavailable"}})
	a.OnEvent(dashboard.Event{Kind: dashboard.EventLive, Symbol: "NIFTY"})

	assert.Empty(t, sender.sent)
}

func TestPredictionAlerter_SendErrorIsLogged(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram down")}
	a := NewPredictionAlerter(sender, log.NewNopLogger())

	assert.NotPanics(t, func() { a.OnEvent(predictEvent("NIFTY", model.DirectionUp)) })
	assert.Len(t, sender.sent, 1)
}
