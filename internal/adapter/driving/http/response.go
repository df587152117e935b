package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// AddRepositoryRequest is the JSON body for the add repository endpoint.
type AddRepositoryRequest struct {
	Repository string `json:"repository"`
}

// OwnerResponse is the JSON representation of a repository owner.
type OwnerResponse struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// RepositoryResponse is the JSON representation of a list entry. Field names
// follow the GitHub API.
type RepositoryResponse struct {
	FullName    string        `json:"full_name"`
	Description string        `json:"description"`
	Owner       OwnerResponse `json:"owner"`
	DetailPath  string        `json:"detail_path"`
}

// IssueResponse is the JSON representation of an open issue.
type IssueResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"html_url"`
}

// RepositoryDetailResponse is the JSON representation of the detail view.
type RepositoryDetailResponse struct {
	RepositoryResponse

	HTMLURL       string          `json:"html_url"`
	Language      string          `json:"language"`
	DefaultBranch string          `json:"default_branch"`
	Stars         int             `json:"stargazers_count"`
	Forks         int             `json:"forks_count"`
	OpenIssues    int             `json:"open_issues_count"`
	Readme        string          `json:"readme"`
	Issues        []IssueResponse `json:"issues"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	Repositories int    `json:"repositories"`
	Time         string `json:"time"`
}

func toRepositoryResponse(r model.RepositoryRecord) RepositoryResponse {
	return RepositoryResponse{
		FullName:    r.FullName,
		Description: r.Description,
		Owner: OwnerResponse{
			Login:     r.Owner.Login,
			AvatarURL: r.Owner.AvatarURL,
		},
		DetailPath: r.DetailPath(),
	}
}

func toRepositoryDetailResponse(page *application.RepositoryPage) RepositoryDetailResponse {
	issues := make([]IssueResponse, 0, len(page.Issues))
	for _, issue := range page.Issues {
		issues = append(issues, IssueResponse{
			Number: issue.Number,
			Title:  issue.Title,
			Author: issue.Author,
			URL:    issue.URL,
		})
	}

	d := page.Detail
	return RepositoryDetailResponse{
		RepositoryResponse: toRepositoryResponse(d.RepositoryRecord),
		HTMLURL:            d.HTMLURL,
		Language:           d.Language,
		DefaultBranch:      d.DefaultBranch,
		Stars:              d.Stars,
		Forks:              d.Forks,
		OpenIssues:         d.OpenIssues,
		Readme:             d.Readme,
		Issues:             issues,
	}
}
