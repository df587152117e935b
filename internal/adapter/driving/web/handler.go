// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/githubexplorer/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/githubexplorer/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/githubexplorer/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

const appTitle = "GitHub Explorer"

// Handler is the web GUI driving adapter that serves HTML via templ components.
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

// Dashboard renders the search form and the repository list.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, application.SearchForm{})
}

// SubmitRepository handles a search form submission. On success it redirects
// back to the dashboard, which shows an empty field and the grown list. On
// failure it renders the dashboard with the message and the typed input.
func (h *Handler) SubmitRepository(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	form := h.explorerSvc.Submit(r.Context(), application.SearchForm{
		Input: r.PostFormValue("repository"),
	})

	if form.HasError() {
		h.renderDashboard(w, r, http.StatusUnprocessableEntity, form)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Repository renders the detail page addressed by the record's full name.
func (h *Handler) Repository(w http.ResponseWriter, r *http.Request) {
	fullName := r.PathValue("fullName")

	page, err := h.detailSvc.Get(r.Context(), fullName)
	if err != nil {
		if errors.Is(err, driven.ErrRepositoryNotFound) || errors.Is(err, driven.ErrInvalidRepositoryName) {
			h.render(w, r, http.StatusNotFound, appTitle, pages.ErrorPage(vm.ErrorPageViewModel{
				Title:   "Repository not found",
				Message: fullName,
			}))
			return
		}

		h.logger.Error("failed to load repository page", "repository", fullName, "error", err)
		h.render(w, r, http.StatusBadGateway, appTitle, pages.ErrorPage(vm.ErrorPageViewModel{
			Title:   fullName,
			Message: application.MsgLookupFailed,
		}))
		return
	}

	h.render(w, r, http.StatusOK, page.Detail.FullName+" · "+appTitle,
		pages.Repository(toRepositoryDetailViewModel(page)))
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, form application.SearchForm) {
	data := toDashboardViewModel(form, csrfToken(w, r), h.explorerSvc.Repositories())
	h.render(w, r, status, appTitle, pages.Dashboard(data))
}

// render writes the page inside the shared layout. Content-Type and status
// are set before the first byte so the component streams straight out.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.Layout(title, page).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}
