// Package server exposes collage sessions over HTTP.
//
// Each browser gets a session identified by a cookie. A session owns one
// board and one scale range; the embedded page drives it through a small
// JSON API and polls for new images while a fetch is loading.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/matzehuels/wikicollage/internal/config"
	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/controls"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

// CookieName holds the session ID.
const CookieName = "wikicollage_session"

const shutdownTimeout = 10 * time.Second

// BoardFactory returns the board for a session ID.
type BoardFactory func(id string) board.Board

// MemoryBoards gives every session its own in-process board.
func MemoryBoards() BoardFactory {
	return func(string) board.Board { return board.NewMemory() }
}

// Options configures a Server.
type Options struct {
	Config *config.Config
	Source pipeline.Source
	Boards BoardFactory
	Placer *collage.Placer
	Logger *log.Logger
}

// Server routes collage requests to per-visitor sessions.
type Server struct {
	cfg    *config.Config
	source pipeline.Source
	boards BoardFactory
	placer *collage.Placer
	logger *log.Logger

	mu       sync.Mutex
	sessions *cache.Cache
	router   chi.Router
}

// New creates a Server. Nil Config, Boards or Logger take defaults.
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.NewConfig()
	}
	if opts.Boards == nil {
		opts.Boards = MemoryBoards()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ttl := opts.Config.Server.SessionTTL.Duration
	s := &Server{
		cfg:      opts.Config,
		source:   opts.Source,
		boards:   opts.Boards,
		placer:   opts.Placer,
		logger:   opts.Logger,
		sessions: cache.New(ttl, 2*ttl),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/images", s.handleImages)
		r.Get("/images/{id}", s.handleImage)
		r.Post("/fetch", s.handleFetch)
		r.Post("/clear", s.handleClear)
		r.Put("/scale", s.handleScale)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down gracefully. Detached fetches are not waited for.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// session returns the caller's session, creating one and setting the cookie
// when the request carries none. A well-formed but unknown ID is adopted so
// shared boards survive a restart or a hop to another replica.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*controls.Session, error) {
	id := ""
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" {
		if v, ok := s.sessions.Get(id); ok {
			sess := v.(*controls.Session)
			s.sessions.SetDefault(id, sess)
			return sess, nil
		}
	} else {
		id = uuid.NewString()
	}

	opts := s.cfg.Session()
	opts.ID = id
	runner := pipeline.NewRunner(s.source, s.placer, s.logger.With("session", id[:8]))
	sess, err := controls.New(runner, s.boards(id), opts)
	if err != nil {
		return nil, err
	}
	s.sessions.SetDefault(id, sess)

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.Server.SessionTTL.Seconds()),
	})
	s.logger.Debug("session created", "session", id)
	return sess, nil
}

// SessionCount returns the number of live sessions.
func (s *Server) SessionCount() int { return s.sessions.ItemCount() }
