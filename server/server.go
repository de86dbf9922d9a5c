// Package server exposes the search engine as a JSON HTTP API.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/montrey/shelf/catalog"
	"github.com/montrey/shelf/search"
)

// Loader builds a fresh engine, typically by re-reading the catalog.
type Loader func() (*search.Engine, error)

type Server struct {
	engine  atomic.Pointer[search.Engine]
	history *search.History
	db      *sql.DB
	logger  *slog.Logger
	router  *mux.Router

	reloadMu sync.Mutex
	load     Loader
}

// New creates a server around engine. db backs the bookmark endpoints and may
// be nil, in which case they are not registered.
func New(engine *search.Engine, history *search.History, db *sql.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		history: history,
		db:      db,
		logger:  logger,
	}
	s.engine.Store(engine)
	s.routes()
	return s
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", s.handleSearch).Methods("GET")
	api.HandleFunc("/suggest", s.handleSuggest).Methods("GET")
	api.HandleFunc("/facets", s.handleFacets).Methods("GET")
	api.HandleFunc("/products/{id}", s.handleProduct).Methods("GET")

	// Queries and bookmark names may contain slashes
	api.HandleFunc("/history", s.handleHistory).Methods("GET")
	api.HandleFunc("/history", s.handleClearHistory).Methods("DELETE")
	api.HandleFunc("/history/{query:.+}", s.handleRemoveHistory).Methods("DELETE")

	if s.db != nil {
		api.HandleFunc("/bookmarks", s.handleBookmarks).Methods("GET")
		api.HandleFunc("/bookmarks/{name:.+}", s.handleSaveBookmark).Methods("PUT")
		api.HandleFunc("/bookmarks/{name:.+}", s.handleDeleteBookmark).Methods("DELETE")
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, http.StatusNotFound, errors.New("not found"))
	})
	s.router = r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Engine returns the engine currently answering requests.
func (s *Server) Engine() *search.Engine {
	return s.engine.Load()
}

// SetLoader sets the function Reload uses to rebuild the engine.
func (s *Server) SetLoader(load Loader) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.load = load
}

// Reload rebuilds the engine and swaps it in. Requests already running keep
// the engine they started with. On failure the current engine stays.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.load == nil {
		return errors.New("no catalog loader configured")
	}
	engine, err := s.load()
	if err != nil {
		return fmt.Errorf("failed to reload catalog: %w", err)
	}
	s.engine.Store(engine)
	s.logger.Info("catalog reloaded", "products", engine.Len())
	return nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr, "products", s.Engine().Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.logger.Info("server exited")
	return nil
}

// NewLoader returns a Loader reading the catalog at path with opts.
func NewLoader(path string, opts search.Options) Loader {
	return func() (*search.Engine, error) {
		c, err := catalog.Load(path)
		if err != nil {
			return nil, err
		}
		return search.NewEngine(c, opts)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
