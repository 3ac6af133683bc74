// Package chart turns the backend's parallel price arrays into candlestick and
// volume series capped to a renderable number of points.
package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"StockDashboard/internal/model"
)

// MaxPoints caps the number of bars handed to the renderer.
const MaxPoints = 400

const (
	axisLayout    = "02 Jan, 03:04 pm"
	tooltipLayout = "02 Jan 2006, 03:04 pm"
)

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
	model.DateLayout,
}

// Candle is one candlestick entry; Y is [open, high, low, close].
type Candle struct {
	X int      `json:"x"`
	Y [4]Value `json:"y"`
}

// Bar is one volume entry.
type Bar struct {
	X int   `json:"x"`
	Y Value `json:"y"`
}

// Output is the renderer-ready form of a price series.
// X of every candle and bar is its position in Points.
type Output struct {
	Points   []model.PricePoint `json:"-"`
	Candles  []Candle           `json:"candles"`
	Volumes  []Bar              `json:"volumes"`
	Labels   []string           `json:"labels"`
	Tooltips []string           `json:"tooltips"`
}

// Empty reports whether there is nothing to draw.
func (o Output) Empty() bool { return len(o.Points) == 0 }

// LabelAt returns the axis label for x, or "" when x is out of range or the date is invalid.
func (o Output) LabelAt(x int) string {
	if x < 0 || x >= len(o.Labels) {
		return ""
	}
	return o.Labels[x]
}

// TooltipAt returns the tooltip title for x, or "".
func (o Output) TooltipAt(x int) string {
	if x < 0 || x >= len(o.Tooltips) {
		return ""
	}
	return o.Tooltips[x]
}

// Transform coerces, downsamples and projects raw into chart series.
func Transform(raw *model.RawPriceSeries) Output {
	points := Downsample(Points(raw), MaxPoints)
	out := Output{
		Points:   points,
		Candles:  make([]Candle, len(points)),
		Volumes:  make([]Bar, len(points)),
		Labels:   make([]string, len(points)),
		Tooltips: make([]string, len(points)),
	}
	for i, p := range points {
		out.Candles[i] = Candle{X: i, Y: [4]Value{Value(p.Open), Value(p.High), Value(p.Low), Value(p.Close)}}
		out.Volumes[i] = Bar{X: i, Y: Value(p.Volume)}
		if !p.Date.IsZero() {
			out.Labels[i] = p.Date.Format(axisLayout)
			out.Tooltips[i] = p.Date.Format(tooltipLayout)
		}
	}
	return out
}

// Points zips the parallel arrays by index over Dates.
// Numeric columns shorter than Dates yield NaN for the missing positions.
func Points(raw *model.RawPriceSeries) []model.PricePoint {
	n := raw.Len()
	if n == 0 {
		return nil
	}
	points := make([]model.PricePoint, n)
	for i, d := range raw.Dates {
		points[i] = model.PricePoint{
			Date:   ParseDate(d),
			Open:   at(raw.Open, i),
			High:   at(raw.High, i),
			Low:    at(raw.Low, i),
			Close:  at(raw.Close, i),
			Volume: at(raw.Volume, i),
		}
	}
	return points
}

// Downsample keeps every stride-th point, stride = ceil(n/max), when n exceeds max.
// Order and values are preserved.
func Downsample(points []model.PricePoint, max int) []model.PricePoint {
	if max <= 0 || len(points) <= max {
		return points
	}
	stride := (len(points) + max - 1) / max
	out := make([]model.PricePoint, 0, (len(points)+stride-1)/stride)
	for i := 0; i < len(points); i += stride {
		out = append(out, points[i])
	}
	return out
}

func at(col []interface{}, i int) float64 {
	if i >= len(col) {
		return math.NaN()
	}
	return ToNumber(col[i])
}

// ToNumber converts a decoded JSON value the way a lenient numeric cast would:
// null and blank strings become 0, unparseable input becomes NaN.
func ToNumber(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// ParseDate accepts the backend's timestamp formats. Unparseable input yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
