package backend

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	labels []string
	value  float64
}

type fakeCounter struct {
	mu     *sync.Mutex
	obs    *[]observation
	labels []string
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{mu: &sync.Mutex{}, obs: &[]observation{}}
}

func (c *fakeCounter) With(labelValues ...string) metrics.Counter {
	return &fakeCounter{mu: c.mu, obs: c.obs, labels: append(append([]string{}, c.labels...), labelValues...)}
}

func (c *fakeCounter) Add(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.obs = append(*c.obs, observation{labels: c.labels, value: delta})
}

type fakeHistogram struct {
	mu     *sync.Mutex
	obs    *[]observation
	labels []string
}

func newFakeHistogram() *fakeHistogram {
	return &fakeHistogram{mu: &sync.Mutex{}, obs: &[]observation{}}
}

func (h *fakeHistogram) With(labelValues ...string) metrics.Histogram {
	return &fakeHistogram{mu: h.mu, obs: h.obs, labels: append(append([]string{}, h.labels...), labelValues...)}
}

func (h *fakeHistogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	*h.obs = append(*h.obs, observation{labels: h.labels, value: value})
}

func TestInstrumentingMiddleware(t *testing.T) {
	count := newFakeCounter()
	duration := newFakeHistogram()
	c := NewInstrumentingMiddleware(count, duration, &MockClient{Price: 100})

	_, err := c.FetchLiveQuote(context.Background(), "NIFTY")
	require.NoError(t, err)
	_, err = c.FetchLiveQuote(context.Background(), "")
	require.Error(t, err)

	require.Len(t, *count.obs, 2)
	assert.Equal(t, []string{"method", "FetchLiveQuote", "error", "false"}, (*count.obs)[0].labels)
	assert.Equal(t, []string{"method", "FetchLiveQuote", "error", "true"}, (*count.obs)[1].labels)
	assert.Equal(t, 1.0, (*count.obs)[0].value)
	assert.Len(t, *duration.obs, 2)
	assert.Equal(t, "mock", c.Name())
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogfmtLogger(&buf)
	c := NewLoggingMiddleware(logger, &MockClient{Err: errors.New("boom")})

	_, err := c.FetchPriceHistory(context.Background(), "NIFTY", "2024-06-05", "2024-06-10")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "method=FetchPriceHistory")
	assert.Contains(t, out, "symbol=NIFTY")
	assert.Contains(t, out, "points=0")
	assert.Contains(t, out, "err=boom")

	buf.Reset()
	c = NewLoggingMiddleware(logger, &MockClient{Price: 100})
	_, err = c.FetchPrediction(context.Background(), "NIFTY")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "method=FetchPrediction")
}

func TestMockClient_GeneratesHistory(t *testing.T) {
	m := &MockClient{Price: 200}
	h, err := m.FetchPriceHistory(context.Background(), "NIFTY", "2024-06-05", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 6, h.ChartData.Len())
	require.Len(t, h.Pricing, 6)
	assert.Equal(t, "2024-06-10 00:00:00", h.Pricing[0].Date.String)
	require.NotNil(t, h.Fundamentals)

	h, err = m.FetchPriceHistory(context.Background(), "NIFTY", "2024-06-10", "2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, 0, h.ChartData.Len())
}
