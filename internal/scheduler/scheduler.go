// Package scheduler runs recurring jobs on top of robfig/cron.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/robfig/cron/v3"
)

// Scheduler manages cron-spec jobs and fixed-interval repeating tasks.
type Scheduler struct {
	cron   *cron.Cron
	logger log.Logger

	mu      sync.Mutex
	running bool
}

// New creates a stopped scheduler. Overlapping runs of the same job are skipped.
func New(logger log.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// AddFunc registers fn under a six-field cron spec.
func (s *Scheduler) AddFunc(spec, name string, fn func()) error {
	if _, err := s.cron.AddFunc(spec, s.named(name, fn)); err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	_ = level.Info(s.logger).Log("msg", "task registered", "task", name, "spec", spec)
	return nil
}

// Every runs fn every interval until the returned cancel func is called.
// Intervals are rounded down to whole seconds, minimum one second.
// The first run happens one interval from now.
func (s *Scheduler) Every(interval time.Duration, name string, fn func()) (cancel func()) {
	id := s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.named(name, fn)))
	_ = level.Debug(s.logger).Log("msg", "repeating task started", "task", name, "interval", interval, "entry", id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.cron.Remove(id)
			_ = level.Debug(s.logger).Log("msg", "repeating task cancelled", "task", name, "entry", id)
		})
	}
}

// Len returns the number of registered entries.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	_ = level.Info(s.logger).Log("msg", "scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	_ = level.Info(s.logger).Log("msg", "scheduler stopped")
}

func (s *Scheduler) named(name string, fn func()) func() {
	return func() {
		_ = level.Debug(s.logger).Log("msg", "running task", "task", name)
		fn()
	}
}

// cronLogger adapts a go-kit logger to cron.Logger.
type cronLogger struct {
	logger log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	_ = level.Debug(l.logger).Log(append([]interface{}{"msg", msg}, keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	_ = level.Error(l.logger).Log(append([]interface{}{"msg", msg, "err", err}, keysAndValues...)...)
}
