// Package api exposes the daemon's HTTP surface: video registration and
// upload targets, job control, job event streaming, caption retrieval, and a
// health summary.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reeldocs/internal/config"
	"reeldocs/internal/jobs"
	"reeldocs/internal/logging"
	"reeldocs/internal/store"
)

// ObjectSigner issues presigned object-store URLs for direct uploads and
// caption-adjacent reads.
type ObjectSigner interface {
	SignedUploadURL(ctx context.Context, path string, ttl time.Duration) (string, error)
	SignedReadURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// Server serves the HTTP API over a configured bind address.
type Server struct {
	store   *store.Store
	jobs    *jobs.Service
	objects ObjectSigner
	logger  *slog.Logger

	bind      string
	token     string
	signedTTL time.Duration

	listener net.Listener
	server   *http.Server
}

func NewServer(cfg *config.Config, st *store.Store, jobService *jobs.Service, objects ObjectSigner, logger *slog.Logger) *Server {
	return &Server{
		store:     st,
		jobs:      jobService,
		objects:   objects,
		logger:    logging.NewComponentLogger(logger, "api"),
		bind:      strings.TrimSpace(cfg.Paths.APIBind),
		token:     strings.TrimSpace(cfg.Paths.APIToken),
		signedTTL: time.Duration(cfg.Storage.SignedURLTTL) * time.Second,
	}
}

// Router builds the chi route tree. It is exported so tests can drive the
// handlers without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth)

		r.Get("/status", s.handleStatus)

		r.Post("/projects", s.handleCreateProject)
		r.Get("/projects/{id}", s.handleGetProject)
		r.Get("/projects/{id}/jobs", s.handleProjectJobs)

		r.Post("/videos", s.handleRegisterVideo)
		r.Post("/videos/upload-url", s.handleUploadURL)
		r.Get("/videos/{id}", s.handleGetVideo)
		r.Get("/videos/{id}/download-url", s.handleDownloadURL)
		r.Post("/videos/{id}/process", s.handleProcessVideo)
		r.Get("/videos/{id}/captions/{lang}", s.handleCaptions)

		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/events", s.handleJobEvents)
		r.Post("/jobs/{id}/retry", s.handleRetryJob)
	})

	return r
}

// Start begins serving in the background. An empty bind address disables the
// API entirely.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		s.logger.Info("api disabled, no bind address configured")
		return nil
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, letting in-flight requests finish briefly.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		s.server = nil
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// auth validates bearer tokens when one is configured; with no token the API
// is open, matching local single-user deployments.
func (s *Server) auth(next http.Handler) http.Handler {
	if s.token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimPrefix(header, "Bearer ") != s.token {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
