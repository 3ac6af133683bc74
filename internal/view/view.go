// Package view builds render models from dashboard state. Builders are pure;
// templates only print what they return.
package view

import (
	"fmt"
	"time"

	"StockDashboard/internal/chart"
	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
)

// PricingRowLimit caps the rows shown in the pricing table.
const PricingRowLimit = 50

// Page is the whole dashboard.
type Page struct {
	Controls ControlsView      `json:"controls"`
	Error    string            `json:"error,omitempty"`
	Chart    *ChartView        `json:"chart"`
	Pricing  *PricingTableView `json:"pricing"`
	Sidebar  SidebarView       `json:"sidebar"`
}

// Build renders every component from one snapshot.
func Build(s dashboard.State, loc *time.Location) Page {
	return Page{
		Controls: Controls(s),
		Error:    s.Error,
		Chart:    Chart(s.Symbol, s.Timeframe, s.Chart, s.Summary),
		Pricing:  PricingTable(s.Pricing),
		Sidebar:  Sidebar(s, loc),
	}
}

type TimeframeButton struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type ControlsView struct {
	Symbol     string            `json:"symbol"`
	Start      string            `json:"start"`
	End        string            `json:"end"`
	Timeframes []TimeframeButton `json:"timeframes"`
	Loading    bool              `json:"loading"`
	LoadLabel  string            `json:"load_label"`
}

// Controls renders the parameter inputs. The active timeframe is matched by label.
func Controls(s dashboard.State) ControlsView {
	tfs := model.Timeframes()
	buttons := make([]TimeframeButton, len(tfs))
	for i, tf := range tfs {
		buttons[i] = TimeframeButton{Label: tf.Label, Active: tf.Label == s.Timeframe.Label}
	}
	label := "Load Data"
	if s.Loading {
		label = "Loading..."
	}
	return ControlsView{
		Symbol:     s.Symbol,
		Start:      s.Range.Start,
		End:        s.Range.End,
		Timeframes: buttons,
		Loading:    s.Loading,
		LoadLabel:  label,
	}
}

// SeriesData is the payload handed to the charting library.
type SeriesData struct {
	Candles  []chart.Candle `json:"candles"`
	Volumes  []chart.Bar    `json:"volumes"`
	Labels   []string       `json:"labels"`
	Tooltips []string       `json:"tooltips"`
}

type StatLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ChartView struct {
	Title        string     `json:"title"`
	PriceSeries  string     `json:"price_series"`
	VolumeSeries string     `json:"volume_series"`
	Data         SeriesData `json:"data"`
	Stats        []StatLine `json:"stats"`
}

// Chart renders the candlestick and volume charts, or nil when there is nothing to draw.
func Chart(symbol string, tf model.TimeframeSpec, out chart.Output, sum chart.Summary) *ChartView {
	if out.Empty() {
		return nil
	}
	return &ChartView{
		Title:        fmt.Sprintf("%s Price Chart (%s)", symbol, tf.Label),
		PriceSeries:  "Price",
		VolumeSeries: "Volume",
		Data: SeriesData{
			Candles:  out.Candles,
			Volumes:  out.Volumes,
			Labels:   out.Labels,
			Tooltips: out.Tooltips,
		},
		Stats: []StatLine{
			{"Last Close", Fixed(sum.LastClose, 2)},
			{"Change", percent(sum.ChangePercent)},
			{"High", Fixed(sum.High, 2)},
			{"Low", Fixed(sum.Low, 2)},
			{"SMA 5", Fixed(sum.SMA5, 2)},
			{"SMA 10", Fixed(sum.SMA10, 2)},
			{"RSI 14", Fixed(sum.RSI14, 2)},
		},
	}
}

func percent(v float64) string {
	s := Fixed(v, 2)
	if s == NA {
		return s
	}
	if v > 0 {
		s = "+" + s
	}
	return s + "%"
}

// PricingHeaders are the table columns in display order.
var PricingHeaders = []string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume", "% Change"}

type PricingTableView struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

// PricingTable renders the first PricingRowLimit rows, or nil when there are none.
func PricingTable(rows []model.PricingRow) *PricingTableView {
	if len(rows) == 0 {
		return nil
	}
	n := len(rows)
	if n > PricingRowLimit {
		n = PricingRowLimit
	}
	out := &PricingTableView{Headers: PricingHeaders, Rows: make([][]string, n), Total: len(rows)}
	for i, r := range rows[:n] {
		change := NA
		if r.PercentChange.Valid {
			change = Fixed(r.PercentChange.Float64, 2)
		}
		out.Rows[i] = []string{
			OrNA(r.Date),
			NumberOrNA(r.Open),
			NumberOrNA(r.High),
			NumberOrNA(r.Low),
			NumberOrNA(r.Close),
			NumberOrNA(r.AdjClose),
			NumberOrNA(r.Volume),
			change,
		}
	}
	return out
}
