package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/viewdeps/internal/catalog"
	"github.com/roach88/viewdeps/internal/engine"
	"github.com/roach88/viewdeps/internal/store"
)

// DefaultDebounce is how long the watcher waits for a burst of file events
// to settle before reloading.
const DefaultDebounce = 100 * time.Millisecond

// Server is the search HTTP server.
type Server struct {
	addr     string
	source   catalog.Source
	holder   *catalog.Holder
	engine   *engine.Engine
	store    *store.Store
	gate     Gate
	ids      RequestIDGenerator
	logger   *slog.Logger
	watch    bool
	debounce time.Duration

	// mu keeps store and holder on the same catalog. Searches hold it for
	// reading; reloads for writing. Unused without a store.
	mu sync.RWMutex

	// reloadMu orders reloads so a slower, older load never publishes over
	// a newer one.
	reloadMu sync.Mutex
}

// Config holds configuration for the server.
type Config struct {
	Addr   string
	Source catalog.Source  // files read by Reload and watched with Watch
	Holder *catalog.Holder // required; holds the initial catalog
	Engine *engine.Engine  // default engine.New()

	// Store, when set, evaluates predicates on SQLite. NewServer loads the
	// current snapshot into it; the caller still owns and closes it.
	Store *store.Store

	Gate     Gate               // default AllowAll
	IDs      RequestIDGenerator // default UUIDv7Generator
	Logger   *slog.Logger       // default slog.Default()
	Watch    bool
	Debounce time.Duration // default DefaultDebounce
}

// NewServer creates a server. It fails only when Config.Store cannot be
// loaded.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Holder == nil {
		return nil, errors.New("server: holder is required")
	}

	s := &Server{
		addr:     cfg.Addr,
		source:   cfg.Source,
		holder:   cfg.Holder,
		engine:   cfg.Engine,
		store:    cfg.Store,
		gate:     cfg.Gate,
		ids:      cfg.IDs,
		logger:   cfg.Logger,
		watch:    cfg.Watch,
		debounce: cfg.Debounce,
	}
	if s.engine == nil {
		s.engine = engine.New()
	}
	if s.gate == nil {
		s.gate = AllowAll{}
	}
	if s.ids == nil {
		s.ids = UUIDv7Generator{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}

	if s.store != nil {
		if err := s.store.Load(ctx, s.holder.Snapshot()); err != nil {
			return nil, fmt.Errorf("load store: %w", err)
		}
	}

	return s, nil
}

// BackendName returns the evaluation backend in use.
func (s *Server) BackendName() string {
	if s.store != nil {
		return s.store.Name()
	}
	return engine.MemoryBackend{}.Name()
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		s.requestID,
		s.logRequests,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.requireGate)
		r.Get("/search", s.handleSearch)
		r.Get("/stats", s.handleStats)
		r.Post("/reload", s.handleReload)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln and blocks until ctx is cancelled. The
// listener is closed on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String(), "backend", s.BackendName(), "watch", s.watch)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Reload re-reads the catalog files and publishes the result. On error the
// current catalog stays in place.
func (s *Server) Reload(ctx context.Context) (*catalog.Generation, error) {
	if s.source.Dependencies == "" {
		return nil, errors.New("no catalog source configured")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.store == nil {
		gen, err := s.holder.Reload(s.source)
		if err != nil {
			return nil, err
		}
		s.logReload(gen)
		return gen, nil
	}

	snap, report, err := catalog.Load(s.source)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Load is transactional: on failure the store still mirrors the
	// published snapshot.
	if err := s.store.Load(ctx, snap); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	gen := s.holder.Publish(snap, *report)
	s.logReload(gen)
	return gen, nil
}

func (s *Server) logReload(gen *catalog.Generation) {
	st := gen.Snapshot.Stats()
	s.logger.Info("catalog reloaded",
		"generation", gen.Seq,
		"views", st.Views,
		"dependencies", st.Dependencies,
		"output_columns", st.OutputColumns,
		"code_entries", st.CodeEntries,
		"skipped_code", gen.Report.SkippedCode,
	)
}

// search runs query against one consistent catalog generation.
func (s *Server) search(ctx context.Context, query string) ([]engine.ResultRecord, *catalog.Generation, error) {
	if s.store == nil {
		gen := s.holder.Current()
		return s.engine.Search(query, gen.Snapshot), gen, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	gen := s.holder.Current()
	records, err := s.engine.SearchWith(ctx, s.store, query, gen.Snapshot)
	if err != nil {
		return nil, gen, err
	}
	return records, gen, nil
}

// explain reads query term by term against the published snapshot. With a
// store it holds the read lock so the snapshot is the one the store mirrors.
func (s *Server) explain(query string) (engine.Explanation, *catalog.Generation) {
	if s.store != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	gen := s.holder.Current()
	return s.engine.Explain(query, gen.Snapshot), gen
}
