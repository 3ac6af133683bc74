package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"

	"StockDashboard/internal/backend"
	"StockDashboard/internal/config"
	"StockDashboard/internal/dashboard"
	"StockDashboard/internal/notifier"
	"StockDashboard/internal/recorder"
	"StockDashboard/internal/scheduler"
	"StockDashboard/internal/stream"
	"StockDashboard/internal/web"
)

var (
	serviceVersion = "dev"
	methodError    = []string{"method", "error"}
	methodRoute    = []string{"method", "route"}
)

func main() {
	printVersion := flag.Bool("version", false, "print version and exit")
	mock := flag.Bool("mock", false, "serve synthetic data instead of calling the backend")
	flag.Parse()

	if *printVersion {
		fmt.Println(serviceVersion)
		os.Exit(0)
	}

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	_ = level.Info(logger).Log("msg", "StockDashboard starting", "version", serviceVersion)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		_ = level.Error(logger).Log("msg", "load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		_ = level.Error(logger).Log("msg", "config validation", "err", err)
		os.Exit(1)
	}
	logger = level.NewFilter(logger, levelOption(cfg.Log.Level))

	loc, err := cfg.Location()
	if err != nil {
		_ = level.Error(logger).Log("msg", "resolve timezone", "err", err)
		os.Exit(1)
	}

	// Backend client
	var client backend.Client
	if *mock || cfg.Backend.Mock {
		client = &backend.MockClient{Price: 22000}
	} else {
		client = backend.NewHTTPClient(backend.Config{
			BaseURL: cfg.Backend.BaseURL,
			Timeout: cfg.Backend.Timeout,
			Proxy:   cfg.Proxy,
		})
	}
	_ = level.Info(logger).Log("msg", "backend client ready", "client", client.Name(), "base_url", cfg.Backend.BaseURL)

	client = backend.NewLoggingMiddleware(log.With(logger, "component", "backend"), client)
	client = backend.NewInstrumentingMiddleware(
		kitprometheus.NewCounterFrom(prometheus.CounterOpts{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
			Name:      "request_count",
			Help:      "Number of backend requests.",
		}, methodError),
		kitprometheus.NewHistogramFrom(prometheus.HistogramOpts{
			Namespace: cfg.Metrics.Namespace,
			Subsystem: cfg.Metrics.Subsystem,
			Name:      "request_duration_seconds",
			Help:      "Backend request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, methodError),
		client,
	)

	// Recorder
	var (
		rec    recorder.Recorder = recorder.NewNoopRecorder()
		sqlite *recorder.SQLiteRecorder
	)
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.With(logger, "component", "recorder"))
		if err != nil {
			_ = level.Warn(logger).Log("msg", "init sqlite recorder failed, using noop", "err", err)
		} else {
			rec, sqlite = sr, sr
		}
	}
	defer rec.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduler drives both the live poll and the cron jobs.
	sched := scheduler.New(log.With(logger, "component", "scheduler"))

	ctrl := dashboard.New(client, dashboard.Options{
		DefaultSymbol: cfg.Dashboard.DefaultSymbol,
		PollInterval:  cfg.Dashboard.PollInterval,
		Location:      loc,
		Ticker:        sched,
		Recorder:      rec,
		Logger:        log.With(logger, "component", "dashboard"),
	})

	if sqlite != nil && cfg.Schedule.PruneCron != "" {
		if err := sched.AddFunc(cfg.Schedule.PruneCron, "prune", pruneJob(sqlite, cfg.Schedule.Retention, logger)); err != nil {
			_ = level.Error(logger).Log("msg", "register prune task", "err", err)
			os.Exit(1)
		}
	}

	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log.With(logger, "component", "telegram"))
		cmds := &notifier.Commands{Dashboard: ctrl}
		alerter := notifier.NewPredictionAlerter(tn, logger)
		ctrl.Subscribe(func(evt dashboard.Event) {
			if evt.Kind == dashboard.EventPredict && !evt.Pending {
				go alerter.OnEvent(evt)
			}
		})
		if cfg.Schedule.SummaryCron != "" {
			err := sched.AddFunc(cfg.Schedule.SummaryCron, "summary", func() {
				if err := tn.SendWithRetry(ctx, cmds.Summary(ctx), 3); err != nil {
					_ = level.Error(logger).Log("msg", "send summary", "err", err)
				}
			})
			if err != nil {
				_ = level.Error(logger).Log("msg", "register summary task", "err", err)
				os.Exit(1)
			}
		}
		go tn.StartPolling(ctx, cmds.Handle)
		_ = level.Info(logger).Log("msg", "telegram polling started")
	}

	if cfg.Redis.Addr != "" {
		pub, err := stream.NewRedisPublisher(ctx, cfg.Redis.Addr, cfg.Redis.Stream, logger)
		if err != nil {
			_ = level.Warn(logger).Log("msg", "redis publisher disabled", "err", err)
		} else {
			defer pub.Close()
			ctrl.Subscribe(func(evt dashboard.Event) {
				if evt.Kind != dashboard.EventLive || evt.Live == nil {
					return
				}
				if err := pub.Publish(ctx, evt.Live); err != nil {
					_ = level.Warn(logger).Log("msg", "publish quote", "symbol", evt.Symbol, "err", err)
				}
			})
		}
	}

	sched.Start()
	defer sched.Stop()

	ctrl.Initialize()
	defer ctrl.Close()

	httpCount := kitprometheus.NewCounterFrom(prometheus.CounterOpts{
		Namespace: cfg.Metrics.Namespace,
		Subsystem: "http",
		Name:      "request_count",
		Help:      "Number of HTTP requests served.",
	}, methodRoute)
	httpLatency := kitprometheus.NewSummaryFrom(prometheus.SummaryOpts{
		Namespace: cfg.Metrics.Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
	}, methodRoute)
	webOpts := web.Options{
		Logger:         log.With(logger, "component", "web"),
		RequestCount:   httpCount,
		RequestLatency: httpLatency,
	}
	if sqlite != nil {
		webOpts.Journal = sqlite
	}
	srv, err := web.NewServer(ctrl, webOpts)
	if err != nil {
		_ = level.Error(logger).Log("msg", "init web server", "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		_ = level.Info(logger).Log("msg", "starting http server", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = level.Error(logger).Log("msg", "server run failure", "err", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		_ = level.Info(logger).Log("msg", "received signal, stopping", "signal", sig)
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		_ = level.Error(logger).Log("msg", "server shutdown failure", "err", err)
	}
	_ = level.Info(logger).Log("msg", "goodbye")
}

func levelOption(name string) level.Option {
	switch name {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

func pruneJob(r *recorder.SQLiteRecorder, retention time.Duration, logger log.Logger) func() {
	return func() {
		cutoff := time.Now().Add(-retention)
		n, err := r.Prune(cutoff)
		if err != nil {
			_ = level.Error(logger).Log("msg", "prune journal", "err", err)
			return
		}
		_ = level.Info(logger).Log("msg", "journal pruned", "rows", n, "before", cutoff.Format(time.RFC3339))
	}
}
