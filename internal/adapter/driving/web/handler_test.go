package web_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/githubexplorer/internal/adapter/driven/memory"
	"github.com/ericfisherdev/githubexplorer/internal/adapter/driving/web"
	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	repos     map[string]model.RepositoryRecord
	readme    string
	detailErr error
	calls     int
}

func (m *mockGitHubClient) FindRepository(_ context.Context, fullName string) (*model.RepositoryRecord, error) {
	m.calls++
	r, ok := m.repos[fullName]
	if !ok {
		return nil, driven.ErrRepositoryNotFound
	}
	return &r, nil
}

func (m *mockGitHubClient) FetchRepositoryDetail(_ context.Context, fullName string) (*model.RepositoryDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	r, ok := m.repos[fullName]
	if !ok {
		return nil, driven.ErrRepositoryNotFound
	}
	return &model.RepositoryDetail{
		RepositoryRecord: r,
		HTMLURL:          "https://github.com/" + fullName,
		Language:         "Go",
		DefaultBranch:    "main",
		Stars:            1234,
		Forks:            56,
		OpenIssues:       7,
	}, nil
}

func (m *mockGitHubClient) FetchOpenIssues(_ context.Context, _ string, _ int) ([]model.Issue, error) {
	return []model.Issue{{Number: 9, Title: "Crash <on> start", Author: "alice", URL: "https://github.com/o/r/issues/9"}}, nil
}

func (m *mockGitHubClient) FetchReadme(_ context.Context, _ string) (string, error) {
	return m.readme, nil
}

// --- Test helpers ---

const testToken = "test-csrf-token"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newClient() *mockGitHubClient {
	return &mockGitHubClient{
		repos: map[string]model.RepositoryRecord{
			"facebook/react": {
				FullName:    "facebook/react",
				Description: "A JS library",
				Owner:       model.RepositoryOwner{Login: "facebook", AvatarURL: "https://avatars.example.com/facebook"},
			},
			"golang/go": {
				FullName:    "golang/go",
				Description: "The Go programming language",
				Owner:       model.RepositoryOwner{Login: "golang", AvatarURL: "https://avatars.example.com/golang"},
			},
		},
		readme: "# Hello\n\n<script>alert(1)</script>",
	}
}

func setupMux(t *testing.T, client *mockGitHubClient, store driven.KeyValueStore) http.Handler {
	t.Helper()

	list, err := application.LoadRepositoryList(context.Background(), store, discardLogger())
	require.NoError(t, err)

	h := web.NewHandler(
		application.NewExplorerService(client, list, discardLogger()),
		application.NewDetailService(client, 30, discardLogger()),
		discardLogger(),
	)

	mux := http.NewServeMux()
	web.RegisterRoutes(mux, h)
	return mux
}

func get(mux http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func submit(mux http.Handler, repository, token string) *httptest.ResponseRecorder {
	form := url.Values{"repository": {repository}, "csrf_token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/repositories", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testToken})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestDashboard_EmptyList(t *testing.T) {
	mux := setupMux(t, newClient(), memory.NewKVStore())

	rec := get(mux, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "Explore GitHub repositories")
	assert.Contains(t, body, `name="repository"`)
	assert.NotContains(t, body, `class="repository"`)
	assert.NotContains(t, body, `role="alert"`)

	var csrfCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie, "dashboard must issue a csrf cookie")
	assert.Contains(t, body, `value="`+csrfCookie.Value+`"`)
}

func TestDashboard_RendersStoredListInOrder(t *testing.T) {
	store := memory.NewKVStore()
	require.NoError(t, store.Set(context.Background(), application.StorageKey, `[
		{"full_name":"golang/go","description":"The Go programming language","owner":{"login":"golang","avatar_url":"https://a/golang"}},
		{"full_name":"facebook/react","description":"A JS library","owner":{"login":"facebook","avatar_url":"https://a/facebook"}}
	]`))
	mux := setupMux(t, newClient(), store)

	body := get(mux, "/").Body.String()

	assert.Equal(t, 2, strings.Count(body, `class="repository"`))
	goIdx := strings.Index(body, `href="/repository/golang/go"`)
	reactIdx := strings.Index(body, `href="/repository/facebook/react"`)
	require.NotEqual(t, -1, goIdx)
	require.NotEqual(t, -1, reactIdx)
	assert.Less(t, goIdx, reactIdx)
	assert.Contains(t, body, `src="https://a/golang"`)
	assert.Contains(t, body, "A JS library")
}

func TestDashboard_RenderIsIdempotent(t *testing.T) {
	mux := setupMux(t, newClient(), memory.NewKVStore())
	require.Equal(t, http.StatusSeeOther, submit(mux, "golang/go", testToken).Code)
	require.Equal(t, http.StatusSeeOther, submit(mux, "facebook/react", testToken).Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testToken})
	first := httptest.NewRecorder()
	mux.ServeHTTP(first, req)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: testToken})
	second := httptest.NewRecorder()
	mux.ServeHTTP(second, req)

	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestSubmitRepository_SuccessRedirects(t *testing.T) {
	store := memory.NewKVStore()
	mux := setupMux(t, newClient(), store)

	rec := submit(mux, "facebook/react", testToken)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	raw, ok, err := store.Get(context.Background(), application.StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"full_name":"facebook/react"`)

	body := get(mux, "/").Body.String()
	assert.Contains(t, body, `href="/repository/facebook/react"`)
	assert.Contains(t, body, `name="repository" placeholder="Type the repository name (owner/name)" autocomplete="off" value=""`)
}

func TestSubmitRepository_EmptyShowsValidationError(t *testing.T) {
	client := newClient()
	mux := setupMux(t, client, memory.NewKVStore())

	rec := submit(mux, "", testToken)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, application.MsgRepositoryNotProvided)
	assert.Contains(t, body, `class="search has-error"`)
	assert.Equal(t, 0, client.calls)
}

func TestSubmitRepository_LookupFailureKeepsInput(t *testing.T) {
	store := memory.NewKVStore()
	mux := setupMux(t, newClient(), store)

	rec := submit(mux, "doesnotexist/repo", testToken)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, application.MsgLookupFailed)
	assert.Contains(t, body, `value="doesnotexist/repo"`)
	assert.NotContains(t, body, `class="repository"`)

	_, ok, err := store.Get(context.Background(), application.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "a failed lookup must not write the slot")
}

func TestSubmitRepository_EscapesInput(t *testing.T) {
	mux := setupMux(t, newClient(), memory.NewKVStore())

	rec := submit(mux, `"><script>x</script>`, testToken)

	body := rec.Body.String()
	assert.NotContains(t, body, "<script>x</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestSubmitRepository_RejectsBadCSRF(t *testing.T) {
	client := newClient()
	mux := setupMux(t, client, memory.NewKVStore())

	rec := submit(mux, "facebook/react", "wrong-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 0, client.calls)
}

func TestRepository_DetailPage(t *testing.T) {
	mux := setupMux(t, newClient(), memory.NewKVStore())

	rec := get(mux, "/repository/golang/go")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>golang/go</strong>")
	assert.Contains(t, body, "The Go programming language")
	assert.Contains(t, body, "<strong>1234</strong>")
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "Hello")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "#9 Crash &lt;on&gt; start")
	assert.Contains(t, body, `href="https://github.com/o/r/issues/9"`)
	assert.Contains(t, body, `href="/"`)
}

func TestRepository_NotFound(t *testing.T) {
	mux := setupMux(t, newClient(), memory.NewKVStore())

	rec := get(mux, "/repository/nobody/nothing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Repository not found")
}

func TestRepository_UpstreamFailure(t *testing.T) {
	client := newClient()
	client.detailErr = errors.New("connection reset by peer")
	mux := setupMux(t, client, memory.NewKVStore())

	rec := get(mux, "/repository/golang/go")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, application.MsgLookupFailed)
	assert.NotContains(t, body, "connection reset")
}

func TestStaticAssets(t *testing.T) {
	mux := setupMux(t, newClient(), memory.NewKVStore())

	rec := get(mux, "/static/style.css")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".repositories")
}
