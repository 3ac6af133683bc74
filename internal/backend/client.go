// Package backend talks to the pricing and prediction service.
package backend

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"StockDashboard/internal/model"
)

// Client defines the backend operations the dashboard depends on.
type Client interface {
	FetchPriceHistory(ctx context.Context, symbol, start, end string) (*model.PriceHistory, error)
	FetchPrediction(ctx context.Context, symbol string) (*model.PredictionResult, error)
	FetchLiveQuote(ctx context.Context, symbol string) (*model.LiveQuote, error)
	Name() string
}

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnreachable       = errors.New("backend unreachable")
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError describes a failed backend call. StatusCode is 0 when no response arrived.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string // backend-provided, may be empty
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Cause lets errors.Cause walk through an APIError.
func (e *APIError) Cause() error { return e.Err }

// Message returns the backend-provided message carried by err, or fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
