// Package httpapi exposes message enrichment and attachment previews over
// HTTP using a chi router.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/threadlight/internal/core/domain"
	"github.com/custodia-labs/threadlight/internal/core/ports/driving"
	"github.com/custodia-labs/threadlight/internal/logger"
)

// Ports holds the driving ports the HTTP server calls.
type Ports struct {
	Messages    driving.MessageService
	Attachments driving.AttachmentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Messages == nil {
		return errors.New("messages service is required")
	}
	if p.Attachments == nil {
		return errors.New("attachments service is required")
	}
	return nil
}

// Options tunes the HTTP server.
type Options struct {
	// CacheMaxAge is sent with thumbnails. Zero means one day.
	CacheMaxAge time.Duration

	// DefaultBound is the thumbnail size used when a request gives none.
	DefaultBound domain.Size

	// RequestTimeout bounds each request. Zero means 30 seconds.
	RequestTimeout time.Duration
}

// Server serves the HTTP API.
type Server struct {
	Router *chi.Mux
	srv    *http.Server
}

// New creates a Server with standard middleware and all routes registered.
func New(ports *Ports, opts Options) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ports: %w", err)
	}
	if opts.CacheMaxAge <= 0 {
		opts.CacheMaxAge = 24 * time.Hour
	}
	if !opts.DefaultBound.Valid() {
		opts.DefaultBound = domain.DefaultSettings().Thumbnail.Bound()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	h := newHandler(ports, opts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	routes(r, h)

	return &Server{Router: r}, nil
}

// routes registers the API under /api.
func routes(r chi.Router, h *handler) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/enrich", h.Enrich)
		r.Get("/messages/{id}", h.GetMessage)
		r.Get("/conversations/{id}/messages", h.ListConversation)

		r.Post("/attachments/metadata", h.MetadataBatch)
		r.Get("/attachments/{id}", h.GetAttachment)
		r.Get("/attachments/{id}/metadata", h.Metadata)
		r.Get("/attachments/{id}/thumbnail", h.Thumbnail)
	})
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.srv = &http.Server{
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown: %v", err)
		}
	}()

	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	logger.Info("HTTP server listening on %s", ln.Addr())
	return s.Serve(ctx, ln)
}
