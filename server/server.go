package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hopper/engine"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrUnknownGame = errors.New("unknown game")

// Server exposes game sessions over HTTP. Each session is played by one
// client; requests to the same session are serialized.
type Server struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
	options  []engine.Option // Applied to every new session
}

type entry struct {
	mu      sync.Mutex
	session *engine.Session
}

func New(options ...engine.Option) *Server {
	return &Server{
		sessions: make(map[uuid.UUID]*entry),
		options:  options,
	}
}

// Routes returns the router serving the game API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", s.createGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getGame)
			r.Delete("/", s.deleteGame)
			r.Post("/moves", s.postMove)
			r.Post("/step", s.postStep)
			r.Get("/board.svg", s.getBoard)
			r.Get("/pieces/{cell}/destinations", s.getDestinations)
		})
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info().Msgf("serving games on %s", addr)

	select {
	case <-ctx.Done():
		log.Info().Msgf("shutting down: %v", ctx.Err())
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed")
		return srv.Close()
	}
	return nil
}

func (s *Server) add(session *engine.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = &entry{session: session}
}

func (s *Server) lookup(r *http.Request) (*entry, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, chi.URLParam(r, "id"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	return e, nil
}

func (s *Server) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// requestLogger logs every request through zerolog
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("handled request")
		}()
		next.ServeHTTP(ww, r)
	})
}
