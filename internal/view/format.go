package view

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// NA is shown for any value that is missing or not a number.
const NA = "N/A"

const clockLayout = "3:04:05 pm"

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Fixed formats v with exactly places decimals.
func Fixed(v float64, places int32) string {
	if !finite(v) {
		return NA
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Rupees formats v as a two-decimal rupee amount.
func Rupees(v float64) string {
	if !finite(v) {
		return NA
	}
	return "₹" + Fixed(v, 2)
}

// Number prints v in its shortest form, the way it arrived from the backend.
func Number(v float64) string {
	if !finite(v) {
		return NA
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Grouped prints v with thousands separators.
func Grouped(v float64) string {
	if !finite(v) {
		return NA
	}
	if v == math.Trunc(v) && math.Abs(v) < 1<<62 {
		return humanize.Comma(int64(v))
	}
	// round to three places first; CommafWithDigits only truncates
	rounded, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return humanize.CommafWithDigits(rounded, 3)
}

// Clock formats t as a local wall-clock time, e.g. "3:04:05 pm".
func Clock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(clockLayout)
}

// OrNA returns the string or N/A when it is null or empty.
func OrNA(s null.String) string {
	if !s.Valid || s.String == "" {
		return NA
	}
	return s.String
}

// NumberOrNA prints a nullable number, N/A when null. Zero is shown.
func NumberOrNA(f null.Float) string {
	if !f.Valid {
		return NA
	}
	return Number(f.Float64)
}

// truthy mirrors the fundamentals display rule where zero counts as missing.
func truthy(f null.Float) bool {
	return f.Valid && f.Float64 != 0 && finite(f.Float64)
}
