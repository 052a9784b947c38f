// Package api exposes the HTTP interface for the linkdex service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tmacha/linkdex/internal/config"
	"github.com/tmacha/linkdex/internal/link"
	"github.com/tmacha/linkdex/internal/metrics"

	"go.uber.org/zap"
)

// LinkService is the coordinator surface consumed by the HTTP layer.
type LinkService interface {
	Submit(ctx context.Context, url string) (link.Link, error)
	Get(ctx context.Context, id string) (link.Link, error)
	List(ctx context.Context, filter link.ListFilter) ([]link.Link, error)
	Delete(ctx context.Context, id string) error
}

// Server wires HTTP handlers to the link coordinator.
type Server struct {
	router chi.Router
	links  LinkService
	cfg    config.Config
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(links LinkService, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		links:  links,
		cfg:    cfg,
		logger: logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(90 * time.Second))
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Route("/links", func(r chi.Router) {
			r.Post("/", s.submitLink)
			r.Get("/", s.listLinks)
			r.Route("/{link_id}", func(r chi.Router) {
				r.Get("/", s.getLink)
				r.Delete("/", s.deleteLink)
			})
		})
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type submitRequest struct {
	URL string `json:"url"`
}

// submitLink creates and processes a link. The response carries the settled
// record; processing failures are reported through the record's status, not
// as HTTP errors.
func (s *Server) submitLink(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	result, err := s.links.Submit(r.Context(), req.URL)
	if errors.Is(err, link.ErrInvalidURL) {
		s.writeError(w, http.StatusBadRequest, "invalid url")
		return
	}
	if err != nil {
		s.logger.Error("submit failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to process link")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) listLinks(w http.ResponseWriter, r *http.Request) {
	filter := link.ListFilter{
		Category: r.URL.Query().Get("category"),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := link.Status(raw)
		if !status.Valid() {
			s.writeError(w, http.StatusBadRequest, "unknown status")
			return
		}
		filter.Status = status
	}
	links, err := s.links.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("list failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch links")
		return
	}
	if links == nil {
		links = []link.Link{}
	}
	s.writeJSON(w, http.StatusOK, links)
}

func (s *Server) getLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "link_id")
	result, err := s.links.Get(r.Context(), id)
	if errors.Is(err, link.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "link not found")
		return
	}
	if err != nil {
		s.logger.Error("get failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to fetch link")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// deleteLink removes a record; deleting a missing id succeeds.
func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "link_id")
	if err := s.links.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to delete link")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
