package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/protek/protek/internal/utils"
	"github.com/protek/protek/pkg/config"
	"github.com/protek/protek/pkg/standards"
	"github.com/protek/protek/pkg/storage"
	"github.com/protek/protek/pkg/syncer"
)

// Syncer is the part of *syncer.Manager the server drives.
type Syncer interface {
	Sync(ctx context.Context) error
	State() syncer.State
}

// ChangeLister lists the per-sync change log.
type ChangeLister interface {
	ListRecentChanges(ctx context.Context, limit int) ([]storage.Change, error)
}

type Server struct {
	Store   *standards.Store
	Config  config.Config
	Syncer  Syncer       // optional
	Changes ChangeLister // optional
	Now     func() time.Time
}

func New(store *standards.Store, cfg config.Config, s Syncer, changes ChangeLister) *Server {
	return &Server{
		Store:   store,
		Config:  cfg,
		Syncer:  s,
		Changes: changes,
		Now:     time.Now,
	}
}

// Handler returns the JSON API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/standards", s.handleStandards)
	mux.HandleFunc("GET /api/facets", s.handleFacets)
	mux.HandleFunc("GET /api/config", s.handleConfig)
	mux.HandleFunc("GET /api/sync", s.handleSyncState)
	mux.HandleFunc("POST /api/sync", s.handleSync)
	mux.HandleFunc("GET /api/changes", s.handleChanges)

	return mux
}

// Start listens on addr and serves until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	utils.Log.Infof("Starting server on %s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve serves the API on ln. When ctx is done in-flight requests get a few
// seconds to finish before Serve returns.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	utils.Log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
