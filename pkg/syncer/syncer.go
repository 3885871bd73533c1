// Package syncer replaces the active standards set with the upstream dataset
// and keeps the last successful sync in durable storage.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/storage"
	"github.com/protek/protek/pkg/whttp"
)

// ErrSyncInProgress is returned by Sync while another Sync is running.
var ErrSyncInProgress = errors.New("sync already in progress")

// Logger abstracts logging so callers can use logrus or anything else with
// the same printf-style methods.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// KV is the durable key/value store the last sync is kept in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ChangeLog receives the per-sync difference between record sets.
type ChangeLog interface {
	LogChanges(ctx context.Context, changes []storage.Change) error
}

// Locker serializes syncs across processes sharing one database.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

// Config holds everything a Manager needs. Store is required.
type Config struct {
	Store     *standards.Store
	Bundled   []standards.Standard // names define newCount
	KV        KV                   // optional; nil = nothing is persisted
	ChangeLog ChangeLog            // optional
	Locker    Locker               // optional
	Client    *retryablehttp.Client
	URL       string
	Timeout   time.Duration // defaults to config.DefaultSyncTimeout if <= 0
	RetryMax  int
	Now       func() time.Time
	Log       Logger // optional; nil = no logging
}

// State is what callers poll instead of catching errors.
type State struct {
	SyncedAt *time.Time `json:"syncedAt"`
	NewCount int        `json:"newCount"`
	Syncing  bool       `json:"syncing"`
	Err      string     `json:"error,omitempty"`
}

// Persisted is the durable form of a successful sync.
type Persisted struct {
	Data     []standards.Standard `json:"data"`
	SyncedAt string               `json:"syncedAt"`
	NewCount int                  `json:"newCount"`
}

// isoMillis matches the ISO-8601 form with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type Manager struct {
	cfg     Config
	log     Logger
	client  *retryablehttp.Client
	bundled map[string]struct{}

	syncing atomic.Bool

	mu    sync.Mutex
	state State
}

// New builds a Manager and restores the last persisted sync, if any.
func New(ctx context.Context, cfg Config) (*Manager, error) {
	if cfg.Store == nil {
		return nil, errors.New("syncer: Store is required")
	}
	if cfg.URL == "" {
		cfg.URL = config.DefaultSourceURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultSyncTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	m := &Manager{
		cfg:     cfg,
		log:     cfg.Log,
		client:  cfg.Client,
		bundled: standards.Names(cfg.Bundled),
	}
	if m.log == nil {
		m.log = nopLogger{}
	}
	if m.client == nil {
		m.client = whttp.NewClient(cfg.RetryMax, 0, nil)
	}
	m.Restore(ctx)
	return m, nil
}

// State returns a copy of the current sync state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.state
	if st.SyncedAt != nil {
		t := *st.SyncedAt
		st.SyncedAt = &t
	}
	return st
}

// Restore loads the persisted sync into the Store. Any failure leaves the
// current records in place and is only logged at debug level.
func (m *Manager) Restore(ctx context.Context) {
	if m.cfg.KV == nil {
		return
	}
	raw, err := m.cfg.KV.Get(ctx, storage.SyncStateKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Debugf("Ignoring persisted sync: %v", err)
		}
		return
	}

	var p struct {
		Data     json.RawMessage `json:"data"`
		SyncedAt string          `json:"syncedAt"`
		NewCount int             `json:"newCount"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		m.log.Debugf("Ignoring persisted sync: %v", err)
		return
	}
	records, err := standards.Parse(p.Data)
	if err != nil {
		m.log.Debugf("Ignoring persisted sync: %v", err)
		return
	}
	syncedAt, err := time.Parse(time.RFC3339Nano, p.SyncedAt)
	if err != nil {
		m.log.Debugf("Ignoring persisted sync: bad syncedAt %q", p.SyncedAt)
		return
	}

	m.cfg.Store.Replace(records)
	m.mu.Lock()
	m.state.SyncedAt = &syncedAt
	m.state.NewCount = p.NewCount
	m.mu.Unlock()
	m.log.Debugf("Restored %d standards synced at %s", len(records), p.SyncedAt)
}

// Sync fetches the upstream dataset and, if it is valid, persists it and
// makes it the active record set. On failure nothing changes except
// State().Err, and the error is returned.
func (m *Manager) Sync(ctx context.Context) (err error) {
	if !m.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer m.syncing.Store(false)

	m.mu.Lock()
	m.state.Syncing = true
	m.state.Err = ""
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.state.Syncing = false
		if err != nil {
			m.state.Err = m.message(err)
		}
		m.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	if m.cfg.Locker != nil {
		if err := m.cfg.Locker.Lock(ctx); err != nil {
			return err
		}
		defer func() {
			if uerr := m.cfg.Locker.Unlock(); uerr != nil {
				m.log.Warnf("Could not release sync lock: %v", uerr)
			}
		}()
	}

	m.log.Infof("Fetching standards from %s", m.cfg.URL)
	res, err := whttp.Get(ctx, m.client, m.cfg.URL)
	if err != nil {
		m.log.Errorf("Sync failed: %v", err)
		return fmt.Errorf("fetching standards: %w", err)
	}
	fetched, err := standards.Parse(res.Body)
	if err != nil {
		m.log.Errorf("Sync failed: %v", err)
		return err
	}

	newCount := 0
	for _, s := range fetched {
		if _, ok := m.bundled[s.Name]; !ok {
			newCount++
		}
	}
	now := m.cfg.Now()

	if m.cfg.KV != nil {
		payload, err := json.Marshal(Persisted{
			Data:     fetched,
			SyncedAt: now.UTC().Format(isoMillis),
			NewCount: newCount,
		})
		if err != nil {
			return fmt.Errorf("encoding sync state: %w", err)
		}
		if err := m.cfg.KV.Put(ctx, storage.SyncStateKey, payload); err != nil {
			m.log.Errorf("Could not persist sync: %v", err)
			return fmt.Errorf("persisting sync: %w", err)
		}
	}

	prev := m.cfg.Store.Records()
	m.cfg.Store.Replace(fetched)

	if changes := Diff(prev, fetched, now); len(changes) > 0 && m.cfg.ChangeLog != nil {
		if err := m.cfg.ChangeLog.LogChanges(ctx, changes); err != nil {
			m.log.Warnf("Could not record %d changes: %v", len(changes), err)
		}
	}

	m.mu.Lock()
	m.state.SyncedAt = &now
	m.state.NewCount = newCount
	m.mu.Unlock()
	m.log.Infof("Synced %d standards (%d not in the bundled set)", len(fetched), newCount)
	return nil
}

// message turns err into the short text shown to users.
func (m *Manager) message(err error) string {
	var se *whttp.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("HTTP %d", se.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("sync timed out after %s", m.cfg.Timeout)
	case errors.Is(err, context.Canceled):
		return "sync canceled"
	}
	return err.Error()
}
