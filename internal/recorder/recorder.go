package recorder

import "time"

// LoadEvent records one price-history load.
type LoadEvent struct {
	Symbol    string    `db:"symbol"`
	Timeframe string    `db:"timeframe"`
	Start     string    `db:"start_date"`
	End       string    `db:"end_date"`
	Points    int       `db:"points"`
	Error     string    `db:"error"`
	At        time.Time `db:"-"`
}

// PredictionEvent records one prediction attempt.
type PredictionEvent struct {
	Symbol         string    `db:"symbol"`
	Direction      string    `db:"direction"`
	Suggestion     string    `db:"suggestion"`
	LivePrice      float64   `db:"live_price"`
	PredictedPrice float64   `db:"predicted_price"`
	Confidence     float64   `db:"confidence"`
	Error          string    `db:"error"`
	At             time.Time `db:"-"`
}

// QuoteEvent records one live price observation.
type QuoteEvent struct {
	Symbol string    `db:"symbol"`
	Price  float64   `db:"price"`
	At     time.Time `db:"-"`
}

// Recorder is an append-only journal of dashboard activity.
type Recorder interface {
	RecordLoad(evt *LoadEvent) error
	RecordPrediction(evt *PredictionEvent) error
	RecordQuote(evt *QuoteEvent) error
	Close() error
}
