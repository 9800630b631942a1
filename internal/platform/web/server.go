// Package web serves the dungeon over HTTP: a JSON API for the core queries
// and a WebSocket stream of visible tiles for a moving camera.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
)

// Server exposes one shared dungeon. Regeneration publishes a new grid while
// in-flight queries finish on the snapshot they started with.
type Server struct {
	dungeon  *dungeon.Dungeon
	viewport dungeon.Viewport
	collider *dungeon.Collider
	logger   *log.Logger
	pongWait time.Duration
}

// NewServer creates a server over d. collider may be nil for the legacy
// linear scan.
func NewServer(d *dungeon.Dungeon, v dungeon.Viewport, collider *dungeon.Collider, logger *log.Logger) *Server {
	if collider == nil {
		collider = dungeon.NewCollider(d, dungeon.CollideLegacy, false)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		dungeon:  d,
		viewport: v,
		collider: collider,
		logger:   logger,
		pongWait: pongWait,
	}
}

// Routes configures all routes and returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dungeon", s.getDungeon)
		r.Post("/dungeon/regenerate", s.regenerate)
		r.Get("/visible", s.getVisible)
		r.Get("/collide", s.getCollide)
		r.Get("/tiles/{id}", s.getTile)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.serveWS)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("cannot encode JSON", "error", err)
	}
}

// respondError writes an error JSON response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
