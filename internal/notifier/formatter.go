package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
	"StockDashboard/internal/view"
)

// FormatPrediction formats a prediction result into a Telegram message.
func FormatPrediction(symbol string, p *model.PredictionResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔮 <b>%s Prediction</b>\n\n", html.EscapeString(symbol)))
	if p == nil {
		b.WriteString("No prediction yet. Send /predict.")
		return b.String()
	}
	if p.Failed() {
		b.WriteString(fmt.Sprintf("❌ %s", html.EscapeString(p.Error)))
		return b.String()
	}
	arrow := "🔴"
	if p.Direction == model.DirectionUp {
		arrow = "🟢"
	}
	pv := view.Prediction(p, false)
	b.WriteString(fmt.Sprintf("Direction: %s <b>%s</b>\n", arrow, pv.Direction))
	b.WriteString(fmt.Sprintf("Suggestion: %s\n", html.EscapeString(pv.Suggestion)))
	b.WriteString(fmt.Sprintf("Live Price: %s\n", pv.LivePrice))
	b.WriteString(fmt.Sprintf("Predicted Price: %s\n", pv.Predicted))
	b.WriteString(fmt.Sprintf("Confidence: %s\n", pv.Confidence))
	return b.String()
}

// FormatQuote formats the latest live quote.
func FormatQuote(symbol string, q *model.LiveQuote, liveErr string, loc *time.Location) string {
	lv := view.Live(q, liveErr, loc)
	if !lv.HasPrice {
		return fmt.Sprintf("💹 <b>%s</b>\n%s", html.EscapeString(symbol), html.EscapeString(lv.Message))
	}
	return fmt.Sprintf("💹 <b>%s</b>: %s\nLast update: %s", html.EscapeString(symbol), lv.Price, lv.Time)
}

// FormatLoad summarises the outcome of a price-history load.
func FormatLoad(s dashboard.State) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s → %s (%s)\n\n",
		html.EscapeString(s.Symbol), s.Range.Start, s.Range.End, s.Timeframe.Label))
	if s.Error != "" {
		b.WriteString(fmt.Sprintf("❌ %s", html.EscapeString(s.Error)))
		return b.String()
	}
	cv := view.Chart(s.Symbol, s.Timeframe, s.Chart, s.Summary)
	if cv == nil {
		b.WriteString("No price data loaded.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Bars: %d\n", len(s.Chart.Points)))
	for _, line := range cv.Stats {
		b.WriteString(fmt.Sprintf("%s: %s\n", line.Label, line.Value))
	}
	return b.String()
}

// FormatStatus formats the current dashboard parameters, quote and prediction.
func FormatStatus(s dashboard.State, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📦 <b>Dashboard Status</b>\n\n")
	b.WriteString(fmt.Sprintf("Symbol: %s\n", html.EscapeString(s.Symbol)))
	b.WriteString(fmt.Sprintf("Timeframe: %s (%s → %s)\n", s.Timeframe.Label, s.Range.Start, s.Range.End))

	lv := view.Live(s.Live, s.LiveError, loc)
	if lv.HasPrice {
		b.WriteString(fmt.Sprintf("Live: %s at %s\n", lv.Price, lv.Time))
	} else {
		b.WriteString(fmt.Sprintf("Live: %s\n", html.EscapeString(lv.Message)))
	}

	switch {
	case s.Predicting:
		b.WriteString("Prediction: pending\n")
	case s.Prediction == nil:
		b.WriteString("Prediction: none\n")
	case s.Prediction.Failed():
		b.WriteString(fmt.Sprintf("Prediction: %s\n", html.EscapeString(s.Prediction.Error)))
	default:
		b.WriteString(fmt.Sprintf("Prediction: %s %s (%s)\n", s.Prediction.Direction,
			view.Number(s.Prediction.PredictedPrice), view.Number(s.Prediction.Confidence)+"%"))
	}
	if s.Error != "" {
		b.WriteString(fmt.Sprintf("Last load: %s\n", html.EscapeString(s.Error)))
	} else if !s.Chart.Empty() {
		b.WriteString(fmt.Sprintf("Loaded bars: %d\n", len(s.Chart.Points)))
	}
	return b.String()
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("• /symbol NAME, select a symbol\n")
	b.WriteString("• /timeframe 1D|5D|1M|3M|6M|1Y\n")
	b.WriteString("• /dates YYYY-MM-DD YYYY-MM-DD\n")
	b.WriteString("• /load, fetch price history\n")
	b.WriteString("• /predict, request a prediction\n")
	b.WriteString("• /quote, latest live price\n")
	b.WriteString("• /status, current dashboard state")
	return b.String()
}
