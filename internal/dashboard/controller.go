// Package dashboard owns the dashboard state and drives the load, predict and
// live-quote flows against the backend.
package dashboard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"StockDashboard/internal/backend"
	"StockDashboard/internal/chart"
	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"
	"StockDashboard/internal/scheduler"
)

// User-facing messages used when the backend gives no reason.
const (
	LoadFallback    = "Failed to fetch stock data from server."
	PredictFallback = "Prediction failed. Try again later."
	LiveFallback    = "Unable to fetch live price."
)

const (
	DefaultSymbol       = "NIFTY"
	DefaultPollInterval = 7 * time.Second
)

// Ticker runs fn repeatedly until cancel is called.
type Ticker interface {
	Every(interval time.Duration, name string, fn func()) (cancel func())
}

// Options configures a Controller. Zero values get defaults.
type Options struct {
	DefaultSymbol string
	PollInterval  time.Duration
	Location      *time.Location
	Now           func() time.Time
	Ticker        Ticker
	Recorder      recorder.Recorder
	Logger        log.Logger
}

// Controller owns the dashboard state. All methods are safe for concurrent use.
type Controller struct {
	client backend.Client
	opts   Options
	owned  *scheduler.Scheduler

	mu    sync.Mutex
	state State

	loadSeq    uint64
	predictSeq uint64

	pollGen     uint64
	liveSeq     uint64
	liveApplied uint64
	pollStop    func()
	pollCancel  context.CancelFunc

	subs    map[int]func(Event)
	nextSub int
	closed  bool
}

// New creates a controller. Call Initialize to set defaults and start polling.
func New(client backend.Client, opts Options) *Controller {
	if opts.DefaultSymbol == "" {
		opts.DefaultSymbol = DefaultSymbol
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Recorder == nil {
		opts.Recorder = recorder.NewNoopRecorder()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	c := &Controller{
		client: client,
		subs:   make(map[int]func(Event)),
	}
	if opts.Ticker == nil {
		c.owned = scheduler.New(opts.Logger)
		c.owned.Start()
		opts.Ticker = c.owned
	}
	c.opts = opts
	return c
}

// Initialize selects the default symbol and timeframe, derives the date range
// from the current time and starts the live poll.
func (c *Controller) Initialize() {
	tf := model.DefaultTimeframe()
	c.mu.Lock()
	c.state.Timeframe = tf
	c.state.Range = tf.RangeEndingAt(c.now())
	c.mu.Unlock()

	c.SetSymbol(c.opts.DefaultSymbol)
}

func (c *Controller) now() time.Time {
	return c.opts.Now().In(c.opts.Location)
}

// Location returns the zone used for dates and clock times.
func (c *Controller) Location() *time.Location { return c.opts.Location }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if s.Live != nil {
		live := *s.Live
		s.Live = &live
	}
	return s
}

// NormalizeSymbol trims and upper-cases user input.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// SetSymbol changes the selected symbol. A changed symbol cancels the running
// live poll and starts a new one; an empty symbol leaves polling stopped.
func (c *Controller) SetSymbol(symbol string) {
	sym := NormalizeSymbol(symbol)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if sym == c.state.Symbol && c.pollStop != nil {
		c.mu.Unlock()
		return
	}
	c.state.Symbol = sym
	c.state.Live = nil
	c.state.LiveError = ""
	start := c.restartPollLocked(sym)
	c.mu.Unlock()

	_ = level.Info(c.opts.Logger).Log("msg", "symbol selected", "symbol", sym)
	c.emit(Event{Kind: EventParams, Symbol: sym})
	if start != nil {
		go start()
	}
}

// SetDates stores the free-text date inputs verbatim.
func (c *Controller) SetDates(start, end string) {
	c.mu.Lock()
	c.state.Range = model.DateRange{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	sym := c.state.Symbol
	c.mu.Unlock()

	c.emit(Event{Kind: EventParams, Symbol: sym})
}

// ApplyTimeframe selects tf and recomputes the range ending today. It does not load.
func (c *Controller) ApplyTimeframe(tf model.TimeframeSpec) {
	c.mu.Lock()
	c.state.Timeframe = tf
	c.state.Range = tf.RangeEndingAt(c.now())
	sym := c.state.Symbol
	c.mu.Unlock()

	c.emit(Event{Kind: EventParams, Symbol: sym})
}

// Load fetches price history for the current parameters. It is a no-op unless
// symbol, start and end are all set. Responses superseded by a later Load are dropped.
func (c *Controller) Load(ctx context.Context) {
	if run := c.beginLoad(ctx); run != nil {
		run()
	}
}

// LoadAsync marks the load pending before returning and fetches in the
// background, so a snapshot taken right after it already shows Loading.
func (c *Controller) LoadAsync(ctx context.Context) {
	if run := c.beginLoad(ctx); run != nil {
		go run()
	}
}

// beginLoad applies the guard and the pending state. It returns the fetch, or
// nil when the guard rejects the request.
func (c *Controller) beginLoad(ctx context.Context) (run func()) {
	c.mu.Lock()
	sym, rng, tf := c.state.Symbol, c.state.Range, c.state.Timeframe
	if sym == "" || !rng.IsComplete() {
		c.mu.Unlock()
		return nil
	}
	c.loadSeq++
	seq := c.loadSeq
	c.state.Loading = true
	c.state.Error = ""
	c.mu.Unlock()

	c.emit(Event{Kind: EventLoad, Symbol: sym, Pending: true})
	return func() { c.finishLoad(ctx, seq, sym, rng, tf) }
}

func (c *Controller) finishLoad(ctx context.Context, seq uint64, sym string, rng model.DateRange, tf model.TimeframeSpec) {
	hist, err := c.client.FetchPriceHistory(ctx, sym, rng.Start, rng.End)

	var (
		out     chart.Output
		summary chart.Summary
	)
	if err == nil {
		out = chart.Transform(hist.ChartData)
		summary = chart.Summarize(chart.Points(hist.ChartData))
	}

	c.mu.Lock()
	if seq != c.loadSeq {
		c.mu.Unlock()
		_ = level.Debug(c.opts.Logger).Log("msg", "discarding superseded load", "symbol", sym, "seq", seq)
		return
	}
	c.state.Loading = false
	var msg string
	if err != nil {
		msg = backend.Message(err, LoadFallback)
		c.state.Chart = chart.Output{}
		c.state.Summary = chart.Summary{}
		c.state.Pricing = nil
		c.state.Fundamentals = nil
		c.state.Error = msg
	} else {
		c.state.Chart = out
		c.state.Summary = summary
		c.state.Pricing = hist.Pricing
		c.state.Fundamentals = hist.Fundamentals
	}
	c.mu.Unlock()

	evt := &recorder.LoadEvent{Symbol: sym, Timeframe: tf.Label, Start: rng.Start, End: rng.End, Error: msg, At: c.opts.Now()}
	if err != nil {
		_ = level.Warn(c.opts.Logger).Log("msg", "load failed", "symbol", sym, "err", err)
	} else {
		evt.Points = hist.ChartData.Len()
	}
	if rerr := c.opts.Recorder.RecordLoad(evt); rerr != nil {
		_ = level.Error(c.opts.Logger).Log("msg", "record load", "err", rerr)
	}
	c.emit(Event{Kind: EventLoad, Symbol: sym, Error: msg})
}

// Predict requests a prediction for the current symbol. The prior prediction is
// cleared while the request is pending; failures are stored as an error result.
func (c *Controller) Predict(ctx context.Context) {
	if run := c.beginPredict(ctx); run != nil {
		run()
	}
}

// PredictAsync marks the prediction pending before returning and fetches in the background.
func (c *Controller) PredictAsync(ctx context.Context) {
	if run := c.beginPredict(ctx); run != nil {
		go run()
	}
}

func (c *Controller) beginPredict(ctx context.Context) (run func()) {
	c.mu.Lock()
	sym := c.state.Symbol
	if sym == "" {
		c.mu.Unlock()
		return nil
	}
	c.predictSeq++
	seq := c.predictSeq
	c.state.Predicting = true
	c.state.Prediction = nil
	c.mu.Unlock()

	c.emit(Event{Kind: EventPredict, Symbol: sym, Pending: true})
	return func() { c.finishPredict(ctx, seq, sym) }
}

func (c *Controller) finishPredict(ctx context.Context, seq uint64, sym string) {
	res, err := c.client.FetchPrediction(ctx, sym)
	if err != nil {
		_ = level.Warn(c.opts.Logger).Log("msg", "predict failed", "symbol", sym, "err", err)
		res = &model.PredictionResult{Error: backend.Message(err, PredictFallback)}
	}

	c.mu.Lock()
	if seq != c.predictSeq {
		c.mu.Unlock()
		_ = level.Debug(c.opts.Logger).Log("msg", "discarding superseded prediction", "symbol", sym, "seq", seq)
		return
	}
	c.state.Predicting = false
	c.state.Prediction = res
	c.mu.Unlock()

	if rerr := c.opts.Recorder.RecordPrediction(&recorder.PredictionEvent{
		Symbol:         sym,
		Direction:      string(res.Direction),
		Suggestion:     res.Suggestion,
		LivePrice:      res.LivePrice,
		PredictedPrice: res.PredictedPrice,
		Confidence:     res.Confidence,
		Error:          res.Error,
		At:             c.opts.Now(),
	}); rerr != nil {
		_ = level.Error(c.opts.Logger).Log("msg", "record prediction", "err", rerr)
	}
	c.emit(Event{Kind: EventPredict, Symbol: sym, Prediction: res, Error: res.Error})
}

// Subscribe registers fn for state-change events. Events are delivered
// synchronously, outside the state lock, on the goroutine that caused them.
func (c *Controller) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Controller) emit(evt Event) {
	c.mu.Lock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}

// Close stops the live poll. The controller ignores further symbol changes.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopPollLocked()
	c.mu.Unlock()

	if c.owned != nil {
		c.owned.Stop()
	}
}
