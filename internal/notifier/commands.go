package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

// Dashboard is the part of the controller the command handler drives.
type Dashboard interface {
	Snapshot() dashboard.State
	SetSymbol(symbol string)
	SetDates(start, end string)
	ApplyTimeframe(tf model.TimeframeSpec)
	Load(ctx context.Context)
	Predict(ctx context.Context)
	Location() *time.Location
}

// Commands maps chat commands onto dashboard operations.
type Commands struct {
	Dashboard Dashboard
}

// Handle processes a command and returns the reply. It satisfies CommandHandler.
func (c *Commands) Handle(ctx context.Context, text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return FormatHelp()
	}
	// "/load@MyBot" addresses a command to a bot in group chats.
	cmd := strings.ToLower(strings.SplitN(fields[0], "@", 2)[0])
	args := fields[1:]
	d := c.Dashboard

	switch cmd {
	case "/symbol":
		if len(args) != 1 {
			return "Usage: /symbol NAME"
		}
		d.SetSymbol(args[0])
		return fmt.Sprintf("Symbol set to %s", d.Snapshot().Symbol)
	case "/timeframe":
		if len(args) != 1 {
			return "Usage: /timeframe 1D|5D|1M|3M|6M|1Y"
		}
		tf, ok := model.TimeframeByLabel(strings.ToUpper(args[0]))
		if !ok {
			return fmt.Sprintf("Unknown timeframe %q", args[0])
		}
		d.ApplyTimeframe(tf)
		s := d.Snapshot()
		return fmt.Sprintf("Timeframe %s: %s → %s", tf.Label, s.Range.Start, s.Range.End)
	case "/dates":
		if len(args) != 2 {
			return "Usage: /dates YYYY-MM-DD YYYY-MM-DD"
		}
		for _, a := range args {
			if _, err := time.Parse(model.DateLayout, a); err != nil {
				return fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", a)
			}
		}
		d.SetDates(args[0], args[1])
		return fmt.Sprintf("Dates set: %s → %s", args[0], args[1])
	case "/load":
		d.Load(ctx)
		return FormatLoad(d.Snapshot())
	case "/predict":
		d.Predict(ctx)
		s := d.Snapshot()
		return FormatPrediction(s.Symbol, s.Prediction)
	case "/quote":
		s := d.Snapshot()
		return FormatQuote(s.Symbol, s.Live, s.LiveError, d.Location())
	case "/status":
		return FormatStatus(d.Snapshot(), d.Location())
	default:
		return FormatHelp()
	}
}

// Summary loads the current parameters and reports the result with the latest quote.
func (c *Commands) Summary(ctx context.Context) string {
	c.Dashboard.Load(ctx)
	s := c.Dashboard.Snapshot()
	return FormatLoad(s) + "\n" + FormatQuote(s.Symbol, s.Live, s.LiveError, c.Dashboard.Location())
}
