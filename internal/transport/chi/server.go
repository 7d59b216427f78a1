package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/tindahan-cloud/prodsearch/internal/domain"
	domsearch "github.com/tindahan-cloud/prodsearch/internal/domain/search"
	searchuc "github.com/tindahan-cloud/prodsearch/internal/usecase/search"
)

// SearchService runs the query pipeline.
type SearchService interface {
	Search(ctx context.Context, req searchuc.Request) (domsearch.Response, error)
}

// Server is the HTTP API server.
type Server struct {
	search SearchService
	store  domain.HealthChecker
	logger *zap.Logger
}

// NewServer creates the API server.
func NewServer(search SearchService, store domain.HealthChecker, logger *zap.Logger) *Server {
	return &Server{search: search, store: store, logger: logger}
}

// Routes mounts the API routes on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// handleSearch handles POST /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	orgID, ok := OrgFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing organization context")
		return
	}

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query is required")
		return
	}

	entityType := domain.EntityType(req.EntityType)
	if req.EntityType == "" {
		entityType = domain.EntityTools
	}
	if !entityType.IsValid() {
		writeError(w, http.StatusBadRequest, "bad_request", "entity_type must be one of: tools, parts")
		return
	}

	// The enhanced pipeline is the default; legacy passthrough is opt-out.
	enhanced := true
	if req.Enhanced != nil {
		enhanced = *req.Enhanced
	}

	resp, err := s.search.Search(r.Context(), searchuc.Request{
		Query:      req.Query,
		EntityType: entityType,
		Limit:      req.Limit,
		Enhanced:   enhanced,
		Debug:      req.Debug,
		OrgID:      orgID,
		RequestID:  chiMiddleware.GetReqID(r.Context()),
	})
	if err != nil {
		s.handleSearchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responseToDTO(&resp))
}

// handleSearchError maps domain errors to stable statuses. Internal messages
// stay generic so embedding vectors and SQL never leak to the caller.
func (s *Server) handleSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing organization context")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrRewriteFailure):
		s.logger.Error("Query rewrite failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "query processing failed")
	default:
		s.logger.Error("Search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "search failed")
	}
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.HealthCheck(r.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
