// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	explorerSvc *application.ExplorerService
	detailSvc   *application.DetailService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	explorerSvc *application.ExplorerService,
	detailSvc *application.DetailService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		explorerSvc: explorerSvc,
		detailSvc:   detailSvc,
		logger:      logger,
	}
}

// RegisterAPIRoutes registers all JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/repositories", h.ListRepositories)
	mux.HandleFunc("POST /api/v1/repositories", h.AddRepository)
	mux.HandleFunc("GET /api/v1/repositories/{owner}/{repo}", h.GetRepository)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with all API routes registered and
// wrapped with the standard middleware chain.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// ListRepositories returns the repository list in insertion order.
func (h *Handler) ListRepositories(w http.ResponseWriter, _ *http.Request) {
	records := h.explorerSvc.Repositories()

	resp := make([]RepositoryResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, toRepositoryResponse(record))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddRepository looks up a repository and appends it to the list.
func (h *Handler) AddRepository(w http.ResponseWriter, r *http.Request) {
	var req AddRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.explorerSvc.Add(r.Context(), req.Repository)
	if err != nil {
		writeError(w, statusForAddError(err), application.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, toRepositoryResponse(record))
}

// GetRepository returns the detail view data of a repository straight from GitHub.
func (h *Handler) GetRepository(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")

	page, err := h.detailSvc.Get(r.Context(), fullName)
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) || errors.Is(err, driven.ErrInvalidRepositoryName) {
			writeError(w, http.StatusNotFound, "repository not found")
			return
		}
		h.logger.Error("failed to fetch repository detail", "repository", fullName, "error", err)
		writeError(w, http.StatusBadGateway, application.MsgLookupFailed)
		return
	}

	writeJSON(w, http.StatusOK, toRepositoryDetailResponse(page))
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		Repositories: len(h.explorerSvc.Repositories()),
		Time:         time.Now().UTC().Format(time.RFC3339),
	})
}

// statusForAddError maps the error kinds of ExplorerService.Add to HTTP statuses.
func statusForAddError(err error) int {
	switch {
	case errors.Is(err, application.ErrRepositoryNotProvided):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrPersistFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
