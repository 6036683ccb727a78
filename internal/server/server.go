package server

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/dennischat/internal/chat"
	"github.com/ziadkadry99/dennischat/internal/i18n"
)

// requestTimeout bounds plain HTTP requests.
const requestTimeout = 60 * time.Second

// HealthMessage is reported by /health.
const HealthMessage = "DennisChat backend is running."

// Config holds server configuration.
type Config struct {
	Port int
	// SiteDir, when set, is served at the root (the page hosting the widget).
	SiteDir string
	// LangDir overrides the embedded language documents served under /lang.
	LangDir        string
	AllowAll       bool // allow all CORS origins
	AllowedOrigins []string
}

// Server is the chat backend: reply endpoints, language documents and an
// optional static site.
type Server struct {
	cfg        Config
	chat       *chat.Service
	log        zerolog.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a new server with all dependencies.
func New(cfg Config, svc *chat.Service, logger zerolog.Logger) (*Server, error) {
	s := &Server{
		cfg:  cfg,
		chat: svc,
		log:  logger.With().Str("component", "server").Logger(),
	}

	langFS := i18n.Locales()
	if cfg.LangDir != "" {
		if _, err := os.Stat(cfg.LangDir); err != nil {
			return nil, fmt.Errorf("language directory: %w", err)
		}
		langFS = os.DirFS(cfg.LangDir)
	}
	if cfg.SiteDir != "" {
		if _, err := os.Stat(cfg.SiteDir); err != nil {
			return nil, fmt.Errorf("site directory: %w", err)
		}
	}

	s.router = s.buildRouter(langFS)
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter(langFS fs.FS) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Cache-Control", "Pragma"},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if len(s.cfg.AllowedOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.AllowedOrigins
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// WebSocket sessions outlive any per-request timeout.
	if s.chat != nil {
		chat.RegisterWebSocket(r, s.chat)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		// Health checks
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"ok":true,"message":"` + HealthMessage + `"}`))
		})

		if s.chat != nil {
			chat.RegisterRoutes(r, s.chat)
		}

		// Language documents must never be cached, so edits show up on reload.
		r.Handle("/lang/*", noStore(http.StripPrefix("/lang/", http.FileServer(http.FS(langFS)))))

		if s.cfg.SiteDir != "" {
			r.Handle("/*", http.FileServer(http.Dir(s.cfg.SiteDir)))
		}
	})

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// ServerConfig returns the server configuration.
func (s *Server) ServerConfig() Config { return s.cfg }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("dennischat server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request through zerolog.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
