package dashboard

import (
	"StockDashboard/internal/chart"
	"StockDashboard/internal/model"
)

// State is everything the dashboard renders. Snapshots are copies; slices are
// replaced wholesale and never mutated in place.
type State struct {
	Symbol    string
	Timeframe model.TimeframeSpec
	Range     model.DateRange

	Chart        chart.Output
	Summary      chart.Summary
	Pricing      []model.PricingRow
	Fundamentals *model.Fundamentals
	Loading      bool
	Error        string

	Prediction *model.PredictionResult
	Predicting bool

	Live      *model.LiveQuote
	LiveError string
}

// EventKind identifies which part of the state changed.
type EventKind string

const (
	EventParams  EventKind = "params"
	EventLoad    EventKind = "load"
	EventPredict EventKind = "predict"
	EventLive    EventKind = "live"
)

// Event is delivered to subscribers after a state change.
// Pending is set when a load or predict has just started.
type Event struct {
	Kind       EventKind
	Symbol     string
	Pending    bool
	Error      string
	Live       *model.LiveQuote
	Prediction *model.PredictionResult
}
