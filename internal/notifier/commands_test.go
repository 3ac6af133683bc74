package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockDashboard/internal/chart"
	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

type fakeDashboard struct {
	state     dashboard.State
	loads     int
	predicts  int
	onLoad    func(*dashboard.State)
	onPredict func(*dashboard.State)
}

func (f *fakeDashboard) Snapshot() dashboard.State { return f.state }
func (f *fakeDashboard) SetSymbol(symbol string) {
	f.state.Symbol = dashboard.NormalizeSymbol(symbol)
}
func (f *fakeDashboard) SetDates(start, end string) {
	f.state.Range = model.DateRange{Start: start, End: end}
}
func (f *fakeDashboard) ApplyTimeframe(tf model.TimeframeSpec) {
	f.state.Timeframe = tf
	f.state.Range = tf.RangeEndingAt(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
}
func (f *fakeDashboard) Load(context.Context) {
	f.loads++
	if f.onLoad != nil {
		f.onLoad(&f.state)
	}
}
func (f *fakeDashboard) Predict(context.Context) {
	f.predicts++
	if f.onPredict != nil {
		f.onPredict(&f.state)
	}
}
func (f *fakeDashboard) Location() *time.Location { return time.UTC }

func TestCommands_Symbol(t *testing.T) {
	d := &fakeDashboard{}
	c := &Commands{Dashboard: d}

	assert.Equal(t, "Symbol set to TCS", c.Handle(context.Background(), "/symbol tcs"))
	assert.Equal(t, "TCS", d.state.Symbol)
	assert.Equal(t, "Usage: /symbol NAME", c.Handle(context.Background(), "/symbol"))
}

func TestCommands_Timeframe(t *testing.T) {
	d := &fakeDashboard{}
	c := &Commands{Dashboard: d}

	assert.Equal(t, "Timeframe 1Y: 2023-06-11 → 2024-06-10", c.Handle(context.Background(), "/timeframe 1y"))
	assert.Equal(t, "1Y", d.state.Timeframe.Label)
	assert.Equal(t, `Unknown timeframe "2W"`, c.Handle(context.Background(), "/timeframe 2W"))
}

func TestCommands_Dates(t *testing.T) {
	d := &fakeDashboard{}
	c := &Commands{Dashboard: d}

	assert.Equal(t, "Dates set: 2024-01-01 → 2024-02-01", c.Handle(context.Background(), "/dates 2024-01-01 2024-02-01"))
	assert.Equal(t, model.DateRange{Start: "2024-01-01", End: "2024-02-01"}, d.state.Range)

	reply := c.Handle(context.Background(), "/dates 01/02/2024 2024-02-01")
	assert.Contains(t, reply, "Invalid date")
	assert.Equal(t, "2024-01-01", d.state.Range.Start)
}

func TestCommands_LoadReportsError(t *testing.T) {
	d := &fakeDashboard{onLoad: func(s *dashboard.State) { s.Error = "No data for symbol" }}
	d.state.Symbol = "NIFTY"
	c := &Commands{Dashboard: d}

	reply := c.Handle(context.Background(), "/load@DashBot")
	assert.Equal(t, 1, d.loads)
	assert.Contains(t, reply, "No data for symbol")
}

func TestCommands_LoadReportsStats(t *testing.T) {
	raw := &model.RawPriceSeries{
		Dates:  []string{"2024-06-05", "2024-06-06"},
		Open:   []interface{}{100.0, 101.0},
		High:   []interface{}{102.0, 103.0},
		Low:    []interface{}{99.0, 100.0},
		Close:  []interface{}{101.0, 102.0},
		Volume: []interface{}{1000.0, 1200.0},
	}
	d := &fakeDashboard{onLoad: func(s *dashboard.State) {
		s.Chart = chart.Transform(raw)
		s.Summary = chart.Summarize(chart.Points(raw))
	}}
	d.state.Symbol = "NIFTY"
	c := &Commands{Dashboard: d}

	reply := c.Handle(context.Background(), "/load")
	assert.Contains(t, reply, "Bars: 2")
	assert.Contains(t, reply, "Last Close: 102.00")
}

func TestCommands_Predict(t *testing.T) {
	d := &fakeDashboard{onPredict: func(s *dashboard.State) {
		s.Prediction = &model.PredictionResult{
			Symbol: "NIFTY", Direction: model.DirectionUp, Suggestion: "Buy",
			LivePrice: 22000.5, PredictedPrice: 22100, Confidence: 71.3,
		}
	}}
	d.state.Symbol = "NIFTY"
	c := &Commands{Dashboard: d}

	reply := c.Handle(context.Background(), "/predict")
	assert.Equal(t, 1, d.predicts)
	assert.Contains(t, reply, "<b>UP</b>")
	assert.Contains(t, reply, "Predicted Price: ₹22100")
	assert.Contains(t, reply, "Confidence: 71.3%")
}

func TestCommands_QuoteAndHelp(t *testing.T) {
	d := &fakeDashboard{}
	d.state.Symbol = "NIFTY"
	c := &Commands{Dashboard: d}

	assert.Contains(t, c.Handle(context.Background(), "/quote"), "Waiting for live data...")

	d.state.Live = &model.LiveQuote{Symbol: "NIFTY", Price: 22000, ObservedAt: time.Date(2024, 6, 10, 15, 4, 5, 0, time.UTC)}
	assert.Equal(t, "💹 <b>NIFTY</b>: ₹22000.00\nLast update: 3:04:05 pm", c.Handle(context.Background(), "/quote"))

	assert.Equal(t, FormatHelp(), c.Handle(context.Background(), "/unknown"))
	assert.Equal(t, FormatHelp(), c.Handle(context.Background(), ""))
}

func TestCommands_Summary(t *testing.T) {
	d := &fakeDashboard{onLoad: func(s *dashboard.State) { s.Error = "Backend offline" }}
	d.state.Symbol = "NIFTY"
	d.state.Live = &model.LiveQuote{Symbol: "NIFTY", Price: 21950.25, ObservedAt: time.Date(2024, 6, 10, 9, 15, 0, 0, time.UTC)}
	c := &Commands{Dashboard: d}

	out := c.Summary(context.Background())
	assert.Equal(t, 1, d.loads)
	assert.Contains(t, out, "Backend offline")
	assert.Contains(t, out, "₹21950.25")
	assert.Contains(t, out, "9:15:00 am")
}
