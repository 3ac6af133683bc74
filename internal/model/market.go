package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// RawPriceSeries is the chartData block of a /stock-data response.
// Numeric columns are left loosely typed so coercion happens in one place.
type RawPriceSeries struct {
	Dates  []string      `json:"dates"`
	Open   []interface{} `json:"open"`
	High   []interface{} `json:"high"`
	Low    []interface{} `json:"low"`
	Close  []interface{} `json:"close"`
	Volume []interface{} `json:"volume"`
}

// Len returns the number of dates, which drives the zip.
func (s *RawPriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// PricePoint is one bar after coercion. Invalid numbers are NaN, an invalid date is the zero time.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PricingRow is one row of the tabular history, latest first.
type PricingRow struct {
	Date          null.String `json:"Date"`
	Open          null.Float  `json:"Open"`
	High          null.Float  `json:"High"`
	Low           null.Float  `json:"Low"`
	Close         null.Float  `json:"Close"`
	AdjClose      null.Float  `json:"Adj Close"`
	Volume        null.Float  `json:"Volume"`
	PercentChange null.Float  `json:"% Change"`
}

// Fundamentals is the optional company profile returned with price history.
type Fundamentals struct {
	Sector        null.String `json:"sector"`
	Industry      null.String `json:"industry"`
	MarketCap     null.Float  `json:"marketCap"`
	TrailingPE    null.Float  `json:"trailingPE"`
	ForwardPE     null.Float  `json:"forwardPE"`
	EPS           null.Float  `json:"epsTrailingTwelveMonths"`
	DividendYield null.Float  `json:"dividendYield"`
	Beta          null.Float  `json:"beta"`
}

// PriceHistory is the full /stock-data payload.
type PriceHistory struct {
	ChartData    *RawPriceSeries `json:"chartData"`
	Pricing      []PricingRow    `json:"pricing"`
	Fundamentals *Fundamentals   `json:"fundamentals"`
}

// LiveQuote is the latest polled price, stamped with the local receipt time.
type LiveQuote struct {
	Symbol     string    `json:"symbol"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}
