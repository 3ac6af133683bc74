package model

// Direction is the predicted move.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// PredictionResult is either an error message or a full prediction.
type PredictionResult struct {
	Error          string    `json:"error,omitempty"`
	Symbol         string    `json:"symbol,omitempty"`
	Direction      Direction `json:"direction,omitempty"`
	Suggestion     string    `json:"suggestion,omitempty"`
	LivePrice      float64   `json:"live_price,omitempty"`
	PredictedPrice float64   `json:"predicted_price,omitempty"`
	Confidence     float64   `json:"confidence,omitempty"` // 0~100
}

// Failed reports whether the result carries an error instead of a prediction.
func (p *PredictionResult) Failed() bool {
	return p != nil && p.Error != ""
}
