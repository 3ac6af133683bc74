package view

import (
	"time"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

const (
	waitingForLive   = "Waiting for live data..."
	fundamentalsHint = "Load data to see fundamentals for this symbol."
	predictHint      = "Click Predict to get a direction."
)

type LiveView struct {
	HasPrice bool   `json:"has_price"`
	Price    string `json:"price,omitempty"`
	Time     string `json:"time,omitempty"`
	Message  string `json:"message,omitempty"`
}

type FundamentalsView struct {
	Items []StatLine `json:"items"`
}

type PredictionView struct {
	Button     string `json:"button"`
	Pending    bool   `json:"pending"`
	Error      string `json:"error,omitempty"`
	HasResult  bool   `json:"has_result"`
	Direction  string `json:"direction,omitempty"`
	Tone       string `json:"tone,omitempty"` // green for UP, red otherwise
	Suggestion string `json:"suggestion,omitempty"`
	LivePrice  string `json:"live_price,omitempty"`
	Predicted  string `json:"predicted_price,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

type SidebarView struct {
	Symbol           string            `json:"symbol"`
	Live             LiveView          `json:"live"`
	Fundamentals     *FundamentalsView `json:"fundamentals"`
	FundamentalsHint string            `json:"fundamentals_hint,omitempty"`
	Prediction       PredictionView    `json:"prediction"`
}

// Sidebar renders the live quote, fundamentals and prediction panels.
func Sidebar(s dashboard.State, loc *time.Location) SidebarView {
	out := SidebarView{
		Symbol:       s.Symbol,
		Live:         Live(s.Live, s.LiveError, loc),
		Fundamentals: Fundamentals(s.Fundamentals),
		Prediction:   Prediction(s.Prediction, s.Predicting),
	}
	if out.Fundamentals == nil {
		out.FundamentalsHint = fundamentalsHint
	}
	return out
}

// Live shows the last price when there is one, otherwise the live error or a waiting line.
func Live(q *model.LiveQuote, liveErr string, loc *time.Location) LiveView {
	if q != nil && q.Price != 0 && finite(q.Price) {
		return LiveView{HasPrice: true, Price: Rupees(q.Price), Time: Clock(q.ObservedAt, loc)}
	}
	if liveErr != "" {
		return LiveView{Message: liveErr}
	}
	return LiveView{Message: waitingForLive}
}

// Fundamentals renders each field with its own fallback, or nil when absent.
func Fundamentals(f *model.Fundamentals) *FundamentalsView {
	if f == nil {
		return nil
	}
	marketCap := NA
	if truthy(f.MarketCap) {
		marketCap = Grouped(f.MarketCap.Float64)
	}
	divYield := NA
	if truthy(f.DividendYield) {
		divYield = Fixed(f.DividendYield.Float64*100, 2) + "%"
	}
	return &FundamentalsView{Items: []StatLine{
		{"Sector", OrNA(f.Sector)},
		{"Industry", OrNA(f.Industry)},
		{"Market Cap", marketCap},
		{"Trailing PE", NumberOrNA(f.TrailingPE)},
		{"Forward PE", NumberOrNA(f.ForwardPE)},
		{"EPS (TTM)", NumberOrNA(f.EPS)},
		{"Dividend Yield", divYield},
		{"Beta", NumberOrNA(f.Beta)},
	}}
}

// Prediction renders the prediction panel and its trigger button.
func Prediction(p *model.PredictionResult, pending bool) PredictionView {
	out := PredictionView{Button: "Predict", Pending: pending}
	if pending {
		out.Button = "Predicting..."
	}
	switch {
	case p == nil:
		out.Hint = predictHint
	case p.Failed():
		out.Error = p.Error
	default:
		tone := "red"
		if p.Direction == model.DirectionUp {
			tone = "green"
		}
		out.HasResult = true
		out.Direction = string(p.Direction)
		out.Tone = tone
		out.Suggestion = p.Suggestion
		out.LivePrice = "₹" + Number(p.LivePrice)
		out.Predicted = "₹" + Number(p.PredictedPrice)
		out.Confidence = Number(p.Confidence) + "%"
	}
	return out
}
