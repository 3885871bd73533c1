// Package polling keeps a long-running process in sync with the upstream
// standards by re-running a sync on a fixed interval.
package polling

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// SyncFunc runs one sync. *syncer.Manager's Sync method satisfies it.
type SyncFunc func(ctx context.Context) error

// Config holds everything Run needs.
type Config struct {
	Interval time.Duration // required, > 0
	Sync     SyncFunc      // required
	Log      Logger        // optional; nil = no logging

	// SkipInitial leaves out the run that otherwise happens immediately.
	SkipInitial bool

	// Skip reports errors that should not count as failures, such as a sync
	// already started by someone else. Nil = every error is a failure.
	Skip func(error) bool
}

// Status holds the outcome of the last cycle.
type Status struct {
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Skipped   bool          `json:"skipped"`
	Err       string        `json:"error,omitempty"`
	Runs      int           `json:"runs"`
}

// Poller runs Config.Sync every Config.Interval until its context ends.
type Poller struct {
	cfg Config
	log Logger

	mu     sync.RWMutex
	status Status
}

func New(cfg Config) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("polling: Interval must be positive")
	}
	if cfg.Sync == nil {
		return nil, errors.New("polling: Sync is required")
	}
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	return &Poller{cfg: cfg, log: log}, nil
}

// Status returns a snapshot of the last cycle.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Run blocks until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.log.Infof("Starting background sync (interval: %s)", p.cfg.Interval)

	if !p.cfg.SkipInitial {
		p.cycle(ctx)
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Debugf("Background sync stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

func (p *Poller) cycle(ctx context.Context) {
	start := time.Now()
	err := p.cfg.Sync(ctx)

	st := Status{StartedAt: start, Duration: time.Since(start)}
	switch {
	case err == nil:
		st.Success = true
	case p.cfg.Skip != nil && p.cfg.Skip(err):
		st.Skipped = true
		p.log.Debugf("Background sync skipped: %v", err)
	default:
		st.Err = err.Error()
		p.log.Warnf("Background sync failed: %v", err)
	}

	p.mu.Lock()
	st.Runs = p.status.Runs + 1
	p.status = st
	p.mu.Unlock()
}
