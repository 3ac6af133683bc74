// Package web serves the dashboard page, its form actions and a JSON and
// websocket API over the dashboard controller.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/model"
	"StockDashboard/internal/recorder"
	"StockDashboard/internal/view"
)

//go:embed templates
var content embed.FS

// Dashboard is the controller surface the server drives.
type Dashboard interface {
	Snapshot() dashboard.State
	SetSymbol(symbol string)
	SetDates(start, end string)
	ApplyTimeframe(tf model.TimeframeSpec)
	Load(ctx context.Context)
	LoadAsync(ctx context.Context)
	Predict(ctx context.Context)
	PredictAsync(ctx context.Context)
	Location() *time.Location
	Subscribe(fn func(dashboard.Event)) (unsubscribe func())
}

// Journal reads back recorded activity.
type Journal interface {
	RecentQuotes(symbol string, limit int) ([]recorder.QuoteEvent, error)
	Counts() (map[string]int, error)
}

// Options configures a Server. Nil metrics are discarded. /api/journal is only
// served when Journal is set.
type Options struct {
	Logger         log.Logger
	RequestCount   metrics.Counter
	RequestLatency metrics.Histogram
	Journal        Journal
}

const journalQuoteLimit = 50

// Message is pushed to websocket clients after every state change.
type Message struct {
	Type    string    `json:"type"`
	Symbol  string    `json:"symbol,omitempty"`
	Pending bool      `json:"pending,omitempty"`
	Error   string    `json:"error,omitempty"`
	Page    view.Page `json:"page"`
}

// Server is the dashboard HTTP server.
type Server struct {
	dash        Dashboard
	router      *mux.Router
	hub         *Hub
	tmpl        *template.Template
	validate    *validator.Validate
	logger      log.Logger
	journal     Journal
	unsubscribe func()
}

// NewServer builds the router and subscribes to dashboard events.
func NewServer(dash Dashboard, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.RequestCount == nil {
		opts.RequestCount = discard.NewCounter()
	}
	if opts.RequestLatency == nil {
		opts.RequestLatency = discard.NewHistogram()
	}
	tmpl, err := template.ParseFS(content, "templates/index.html")
	if err != nil {
		return nil, err
	}
	s := &Server{
		dash:     dash,
		router:   mux.NewRouter(),
		hub:      NewHub(opts.Logger),
		tmpl:     tmpl,
		validate: newValidator(),
		logger:   opts.Logger,
		journal:  opts.Journal,
	}
	s.routes(opts)
	s.unsubscribe = dash.Subscribe(s.broadcast)
	return s, nil
}

func (s *Server) routes(opts Options) {
	r := s.router
	r.Use(instrument(opts.Logger, opts.RequestCount, opts.RequestLatency))

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/symbol", s.handleSymbol).Methods(http.MethodPost)
	r.HandleFunc("/dates", s.handleDates).Methods(http.MethodPost)
	r.HandleFunc("/timeframe", s.handleTimeframe).Methods(http.MethodPost)
	r.HandleFunc("/load", s.handleLoad).Methods(http.MethodPost)
	r.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/timeframes", s.handleTimeframes).Methods(http.MethodGet)
	api.HandleFunc("/load", s.handleAPILoad).Methods(http.MethodPost)
	api.HandleFunc("/predict", s.handleAPIPredict).Methods(http.MethodPost)
	if s.journal != nil {
		api.HandleFunc("/journal", s.handleJournal).Methods(http.MethodGet)
	}

	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(s.router)
}

// Hub exposes the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Close unsubscribes from the dashboard and disconnects websocket clients.
func (s *Server) Close() {
	s.unsubscribe()
	s.hub.Close()
}

func (s *Server) page() view.Page {
	return view.Build(s.dash.Snapshot(), s.dash.Location())
}

func (s *Server) broadcast(evt dashboard.Event) {
	s.hub.Broadcast(Message{
		Type:    string(evt.Kind),
		Symbol:  evt.Symbol,
		Pending: evt.Pending,
		Error:   evt.Error,
		Page:    s.page(),
	})
}

type indexData struct {
	Page view.Page
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, indexData{Page: s.page()}); err != nil {
		_ = level.Error(s.logger).Log("msg", "render index", "request_id", RequestID(r.Context()), "err", err)
	}
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	var f symbolForm
	if !s.bindForm(w, r, &f) {
		return
	}
	s.dash.SetSymbol(f.Symbol)
	redirectHome(w, r)
}

func (s *Server) handleDates(w http.ResponseWriter, r *http.Request) {
	var f datesForm
	if !s.bindForm(w, r, &f) {
		return
	}
	s.dash.SetDates(f.Start, f.End)
	redirectHome(w, r)
}

func (s *Server) handleTimeframe(w http.ResponseWriter, r *http.Request) {
	var f timeframeForm
	if !s.bindForm(w, r, &f) {
		return
	}
	tf, _ := model.TimeframeByLabel(f.Label)
	s.dash.ApplyTimeframe(tf)
	redirectHome(w, r)
}

// handleLoad marks the load pending and redirects at once; the page shows the
// pending state and websocket clients are told when it finishes.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	s.dash.LoadAsync(context.WithoutCancel(r.Context()))
	redirectHome(w, r)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	s.dash.PredictAsync(context.WithoutCancel(r.Context()))
	redirectHome(w, r)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.page())
}

func (s *Server) handleTimeframes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, model.Timeframes())
}

// handleAPILoad waits for the load. The load outlives a client disconnect.
func (s *Server) handleAPILoad(w http.ResponseWriter, r *http.Request) {
	s.dash.Load(context.WithoutCancel(r.Context()))
	respondWithJSON(w, http.StatusOK, s.page())
}

func (s *Server) handleAPIPredict(w http.ResponseWriter, r *http.Request) {
	s.dash.Predict(context.WithoutCancel(r.Context()))
	respondWithJSON(w, http.StatusOK, s.page())
}

type journalQuote struct {
	Price float64   `json:"price"`
	At    time.Time `json:"at"`
}

type journalResponse struct {
	Symbol string         `json:"symbol"`
	Counts map[string]int `json:"counts"`
	Quotes []journalQuote `json:"quotes"`
}

// handleJournal returns the table counts and the latest recorded quotes for
// the selected symbol.
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	sym := s.dash.Snapshot().Symbol
	counts, err := s.journal.Counts()
	if err != nil {
		_ = level.Error(s.logger).Log("msg", "journal counts", "request_id", RequestID(r.Context()), "err", err)
		respondWithError(w, http.StatusInternalServerError, "journal unavailable")
		return
	}
	resp := journalResponse{Symbol: sym, Counts: counts, Quotes: []journalQuote{}}
	if sym != "" {
		quotes, err := s.journal.RecentQuotes(sym, journalQuoteLimit)
		if err != nil {
			_ = level.Error(s.logger).Log("msg", "journal quotes", "request_id", RequestID(r.Context()), "symbol", sym, "err", err)
			respondWithError(w, http.StatusInternalServerError, "journal unavailable")
			return
		}
		for _, q := range quotes {
			resp.Quotes = append(resp.Quotes, journalQuote{Price: q.Price, At: q.At})
		}
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.Serve(w, r, Message{Type: "state", Page: s.page()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "dashboard"})
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"marshal response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// wantsJSON reports whether the caller asked for a JSON error body.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
