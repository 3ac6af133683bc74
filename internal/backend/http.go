package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"StockDashboard/internal/model"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 30 * time.Second

// Config configures HTTPClient.
type Config struct {
	BaseURL string
	Timeout time.Duration // 0 disables the timeout
	Proxy   string
}

// HTTPClient implements Client over the backend's REST API.
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

// NewHTTPClient creates a client with optional proxy support.
func NewHTTPClient(cfg Config) *HTTPClient {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPClient{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		Now: time.Now,
	}
}

func (c *HTTPClient) Name() string { return "http" }

func (c *HTTPClient) FetchPriceHistory(ctx context.Context, symbol, start, end string) (*model.PriceHistory, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "symbol is required")
	}
	var out model.PriceHistory
	params := url.Values{"symbol": {symbol}, "start": {start}, "end": {end}}
	if err := c.get(ctx, "/stock-data", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchPrediction(ctx context.Context, symbol string) (*model.PredictionResult, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "symbol is required")
	}
	var out model.PredictionResult
	if err := c.get(ctx, "/predict", url.Values{"symbol": {symbol}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) FetchLiveQuote(ctx context.Context, symbol string) (*model.LiveQuote, error) {
	if symbol == "" {
		return nil, errors.Wrap(ErrInvalidRequest, "symbol is required")
	}
	var out struct {
		Symbol string   `json:"symbol"`
		Price  *float64 `json:"price"`
	}
	if err := c.get(ctx, "/live-price", url.Values{"symbol": {symbol}}, &out); err != nil {
		return nil, err
	}
	if out.Price == nil {
		return nil, &APIError{Endpoint: "/live-price", StatusCode: http.StatusOK, Err: errors.Wrap(ErrMalformedResponse, "price missing")}
	}
	if out.Symbol == "" {
		out.Symbol = symbol
	}
	return &model.LiveQuote{Symbol: out.Symbol, Price: *out.Price, ObservedAt: c.Now()}, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	u := c.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: errors.Wrap(ErrInvalidRequest, err.Error())}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return &APIError{Endpoint: endpoint, Err: errors.Wrapf(ErrUnreachable, "get %s: %v", endpoint, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: errors.Wrap(ErrMalformedResponse, err.Error())}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    e.Error,
			Err:        errors.Errorf("status %d", resp.StatusCode),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: errors.Wrap(ErrMalformedResponse, err.Error())}
	}
	return nil
}
