// Package devserver is a local stand-in for the learning site. It serves the
// pages and JSON endpoints the client talks to, with in-memory fixtures, so
// the TUI can be developed and tested without the real backend.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/colonyops/aula/internal/core/logging"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// Chapter is served by the download endpoint. When nil the lead
	// endpoint reports the file as missing.
	Chapter []byte
	// Now overrides the clock used for comment timestamps.
	Now func() time.Time
	// Profiler mounts net/http/pprof under /debug.
	Profiler bool
}

// Server serves the fixture site.
type Server struct {
	cfg        Config
	data       *data
	sessions   *sessions
	validate   *validator.Validate
	router     chi.Router
	logger     zerolog.Logger
	httpServer *http.Server

	mu     sync.Mutex
	toastN int
}

// New creates a server with fresh fixtures.
func New(cfg Config) *Server {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{
		cfg:      cfg,
		data:     newData(cfg.Now),
		sessions: newSessions(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logging.Component("devserver"),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.cfg.Profiler {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Get("/", s.handleHome)
	r.Get("/libro/", s.handleLanding)
	r.Post("/libro/", s.handleLead)
	r.Get("/download-chapter/", s.handleDownload)

	r.Route("/programas", func(r chi.Router) {
		r.Get("/", s.handlePrograms)
		r.Post("/{programID}/eliminar/", s.handleDeleteProgram)
		r.Get("/sesion/{lessonID}/", s.handleLesson)
		r.Post("/sesion/{lessonID}/comentar/", s.handleComment)
	})

	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// ListenAndServe serves on cfg.Addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("devserver listening")
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Str("chi_request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) nextToastID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toastN++
	return s.toastN
}
