package dashboard

import (
	"context"

	"github.com/go-kit/kit/log/level"

	"StockDashboard/internal/backend"
	"StockDashboard/internal/recorder"
)

// restartPollLocked tears down the running poll and, for a non-empty symbol,
// registers a new one. It returns the immediate first fetch, to be run by the
// caller after releasing the lock. c.mu must be held.
func (c *Controller) restartPollLocked(symbol string) (first func()) {
	c.stopPollLocked()
	if symbol == "" {
		return nil
	}

	c.pollGen++
	gen := c.pollGen
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCancel = cancel

	fetch := func() { c.pollOnce(ctx, gen, symbol) }
	c.pollStop = c.opts.Ticker.Every(c.opts.PollInterval, "live:"+symbol, fetch)
	return fetch
}

func (c *Controller) stopPollLocked() {
	if c.pollStop != nil {
		c.pollStop()
		c.pollStop = nil
	}
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

// pollOnce fetches one quote and applies it unless the poll was replaced or a
// newer fetch of the same poll already landed.
func (c *Controller) pollOnce(ctx context.Context, gen uint64, symbol string) {
	c.mu.Lock()
	if gen != c.pollGen || ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	c.liveSeq++
	seq := c.liveSeq
	c.mu.Unlock()

	quote, err := c.client.FetchLiveQuote(ctx, symbol)

	c.mu.Lock()
	if gen != c.pollGen || ctx.Err() != nil || seq < c.liveApplied {
		c.mu.Unlock()
		return
	}
	c.liveApplied = seq
	var evt Event
	if err != nil {
		c.state.LiveError = backend.Message(err, LiveFallback)
		evt = Event{Kind: EventLive, Symbol: symbol, Error: c.state.LiveError}
	} else {
		c.state.Live = quote
		c.state.LiveError = ""
		q := *quote
		evt = Event{Kind: EventLive, Symbol: symbol, Live: &q}
	}
	c.mu.Unlock()

	if err != nil {
		_ = level.Warn(c.opts.Logger).Log("msg", "live quote failed", "symbol", symbol, "err", err)
	} else if rerr := c.opts.Recorder.RecordQuote(&recorder.QuoteEvent{Symbol: symbol, Price: quote.Price, At: quote.ObservedAt}); rerr != nil {
		_ = level.Error(c.opts.Logger).Log("msg", "record quote", "err", rerr)
	}
	c.emit(evt)
}
