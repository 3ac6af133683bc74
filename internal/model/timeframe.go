package model

import "time"

// DateLayout is the calendar-date format exchanged with the backend.
const DateLayout = "2006-01-02"

// TimeframeSpec is a named lookback window.
type TimeframeSpec struct {
	Label string `json:"label"`
	Days  int    `json:"days"`
}

var timeframes = []TimeframeSpec{
	{Label: "1D", Days: 1},
	{Label: "5D", Days: 5},
	{Label: "1M", Days: 30},
	{Label: "3M", Days: 90},
	{Label: "6M", Days: 180},
	{Label: "1Y", Days: 365},
}

const defaultTimeframe = 1 // 5D

// Timeframes returns the catalog in display order.
func Timeframes() []TimeframeSpec {
	out := make([]TimeframeSpec, len(timeframes))
	copy(out, timeframes)
	return out
}

// DefaultTimeframe returns the timeframe selected on startup.
func DefaultTimeframe() TimeframeSpec {
	return timeframes[defaultTimeframe]
}

// TimeframeByLabel looks a timeframe up by its label.
func TimeframeByLabel(label string) (TimeframeSpec, bool) {
	for _, tf := range timeframes {
		if tf.Label == label {
			return tf, true
		}
	}
	return TimeframeSpec{}, false
}

// RangeEndingAt returns the calendar range [now - Days, now] in now's location.
func (tf TimeframeSpec) RangeEndingAt(now time.Time) DateRange {
	return DateRange{
		Start: now.AddDate(0, 0, -tf.Days).Format(DateLayout),
		End:   now.Format(DateLayout),
	}
}

// DateRange holds start/end dates as entered or derived. Ordering is not enforced.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsComplete reports whether both bounds are set.
func (r DateRange) IsComplete() bool {
	return r.Start != "" && r.End != ""
}
