package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/githubexplorer/internal/adapter/driven/memory"
	httphandler "github.com/ericfisherdev/githubexplorer/internal/adapter/driving/http"
	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	repos   map[string]model.RepositoryRecord
	findErr error
	calls   int
}

func (m *mockGitHubClient) FindRepository(_ context.Context, fullName string) (*model.RepositoryRecord, error) {
	m.calls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	r, ok := m.repos[fullName]
	if !ok {
		return nil, driven.ErrRepositoryNotFound
	}
	return &r, nil
}

func (m *mockGitHubClient) FetchRepositoryDetail(_ context.Context, fullName string) (*model.RepositoryDetail, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	r, ok := m.repos[fullName]
	if !ok {
		return nil, driven.ErrRepositoryNotFound
	}
	return &model.RepositoryDetail{RepositoryRecord: r, Stars: 42, Language: "Go"}, nil
}

func (m *mockGitHubClient) FetchOpenIssues(_ context.Context, _ string, _ int) ([]model.Issue, error) {
	return []model.Issue{{Number: 1, Title: "First issue", Author: "alice", URL: "https://github.com/o/r/issues/1"}}, nil
}

func (m *mockGitHubClient) FetchReadme(_ context.Context, _ string) (string, error) {
	return "# Readme", nil
}

// failingStore rejects every write.
type failingStore struct{ *memory.KVStore }

func (failingStore) Set(_ context.Context, _, _ string) error {
	return errors.New("read-only")
}

// --- Test helpers ---

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
	}
}

func setupMuxWithStore(t *testing.T, client *mockGitHubClient, store driven.KeyValueStore) http.Handler {
	t.Helper()

	list, err := application.LoadRepositoryList(context.Background(), store, discardLogger())
	require.NoError(t, err)

	explorerSvc := application.NewExplorerService(client, list, discardLogger())
	detailSvc := application.NewDetailService(client, 30, discardLogger())
	h := httphandler.NewHandler(explorerSvc, detailSvc, discardLogger())

	return httphandler.NewServeMux(h, discardLogger())
}

func setupMux(t *testing.T, client *mockGitHubClient) http.Handler {
	t.Helper()
	return setupMuxWithStore(t, client, memory.NewKVStore())
}

func postRepository(t *testing.T, mux http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/repositories", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

// --- Tests ---

func TestListRepositories_Empty(t *testing.T) {
	mux := setupMux(t, newClient())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repositories", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAddRepository_Success(t *testing.T) {
	mux := setupMux(t, newClient())

	rec := postRepository(t, mux, `{"repository":"facebook/react"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{
		"full_name": "facebook/react",
		"description": "A JS library",
		"owner": {"login": "facebook", "avatar_url": "https://avatars.example.com/facebook"},
		"detail_path": "/repository/facebook/react"
	}`, rec.Body.String())
}

func TestAddRepository_ListKeepsInsertionOrder(t *testing.T) {
	mux := setupMux(t, newClient())

	for _, name := range []string{"golang/go", "facebook/react", "golang/go"} {
		rec := postRepository(t, mux, `{"repository":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repositories", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp []httphandler.RepositoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)
	assert.Equal(t, "golang/go", resp[0].FullName)
	assert.Equal(t, "facebook/react", resp[1].FullName)
	assert.Equal(t, "golang/go", resp[2].FullName)
}

func TestAddRepository_Blank(t *testing.T) {
	client := newClient()
	mux := setupMux(t, client)

	rec := postRepository(t, mux, `{"repository":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, application.MsgRepositoryNotProvided, decodeError(t, rec))
	assert.Equal(t, 0, client.calls)
}

func TestAddRepository_NotFound(t *testing.T) {
	mux := setupMux(t, newClient())

	rec := postRepository(t, mux, `{"repository":"doesnotexist/repo"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, application.MsgLookupFailed, decodeError(t, rec))
}

func TestAddRepository_InvalidBody(t *testing.T) {
	mux := setupMux(t, newClient())

	rec := postRepository(t, mux, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec))
}

func TestAddRepository_PersistFailure(t *testing.T) {
	mux := setupMuxWithStore(t, newClient(), failingStore{memory.NewKVStore()})

	rec := postRepository(t, mux, `{"repository":"facebook/react"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, application.MsgPersistFailed, decodeError(t, rec))
}

func TestGetRepository(t *testing.T) {
	mux := setupMux(t, newClient())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repositories/golang/go", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.RepositoryDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "golang/go", resp.FullName)
	assert.Equal(t, 42, resp.Stars)
	assert.Equal(t, "Go", resp.Language)
	assert.Equal(t, "# Readme", resp.Readme)
	require.Len(t, resp.Issues, 1)
	assert.Equal(t, "First issue", resp.Issues[0].Title)
}

func TestGetRepository_NotFound(t *testing.T) {
	mux := setupMux(t, newClient())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repositories/nobody/nothing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRepository_UpstreamFailure(t *testing.T) {
	client := newClient()
	client.findErr = errors.New("connection reset")
	mux := setupMux(t, client)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/repositories/golang/go", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestHealth(t *testing.T) {
	mux := setupMux(t, newClient())
	require.Equal(t, http.StatusCreated, postRepository(t, mux, `{"repository":"golang/go"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Repositories)
	assert.NotEmpty(t, resp.Time)
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	mux := setupMux(t, newClient())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(httphandler.RequestIDHeader), 36)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(httphandler.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(httphandler.RequestIDHeader))
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler := httphandler.ApplyMiddleware(mux, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec))
}

func TestRequestID_StoredInContext(t *testing.T) {
	var seenHeader, seenCtx string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /id", func(_ http.ResponseWriter, r *http.Request) {
		seenHeader = r.Header.Get(httphandler.RequestIDHeader)
		seenCtx = httphandler.RequestIDFromContext(r.Context())
	})
	handler := httphandler.ApplyMiddleware(mux, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, seenHeader, "incoming headers must not be modified")
	assert.Len(t, seenCtx, 36)
	assert.Equal(t, rec.Header().Get(httphandler.RequestIDHeader), seenCtx)
	assert.Empty(t, req.Header.Get(httphandler.RequestIDHeader))
	assert.Empty(t, httphandler.RequestIDFromContext(context.Background()))
}

func TestRecoveryMiddleware_AfterResponseStarted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /partial", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte("partial"))
		panic("boom")
	})
	handler := httphandler.ApplyMiddleware(mux, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/partial", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestMiddleware_ResponseControllerReachesFlusher(t *testing.T) {
	var flushErr error
	mux := http.NewServeMux()
	mux.HandleFunc("GET /stream", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("chunk"))
		flushErr = http.NewResponseController(w).Flush()
	})
	handler := httphandler.ApplyMiddleware(mux, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/stream", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NoError(t, flushErr)
	assert.True(t, rec.Flushed)
}
