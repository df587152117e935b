package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
)

// --- Mock implementations ---

type mockGitHubClient struct {
	mu    sync.Mutex
	calls []string

	findRepository func(ctx context.Context, fullName string) (*model.RepositoryRecord, error)
	fetchDetail    func(ctx context.Context, fullName string) (*model.RepositoryDetail, error)
	fetchIssues    func(ctx context.Context, fullName string, limit int) ([]model.Issue, error)
	fetchReadme    func(ctx context.Context, fullName string) (string, error)
}

func (m *mockGitHubClient) FindRepository(ctx context.Context, fullName string) (*model.RepositoryRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fullName)
	m.mu.Unlock()

	return m.findRepository(ctx, fullName)
}

func (m *mockGitHubClient) FetchRepositoryDetail(ctx context.Context, fullName string) (*model.RepositoryDetail, error) {
	return m.fetchDetail(ctx, fullName)
}

func (m *mockGitHubClient) FetchOpenIssues(ctx context.Context, fullName string, limit int) ([]model.Issue, error) {
	if m.fetchIssues == nil {
		return []model.Issue{}, nil
	}
	return m.fetchIssues(ctx, fullName, limit)
}

func (m *mockGitHubClient) FetchReadme(ctx context.Context, fullName string) (string, error) {
	if m.fetchReadme == nil {
		return "", nil
	}
	return m.fetchReadme(ctx, fullName)
}

func (m *mockGitHubClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// fakeStore is an in-memory KeyValueStore that can be told to fail.
type fakeStore struct {
	mu     sync.Mutex
	slots  map[string]string
	sets   int
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{slots: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.slots[key]
	return v, ok, nil
}

func (f *fakeStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setErr != nil {
		return f.setErr
	}
	f.sets++
	f.slots[key] = value
	return nil
}

func (f *fakeStore) slot(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.slots[key]
	return v, ok
}

var errNotFound = errors.New("GET /repos/doesnotexist/repo: 404 Not Found")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func reactRecord() model.RepositoryRecord {
	return model.RepositoryRecord{
		FullName:    "facebook/react",
		Description: "A JS library",
		Owner: model.RepositoryOwner{
			Login:     "facebook",
			AvatarURL: "https://avatars.example.com/u/69631",
		},
	}
}

// recordFor builds a record whose owner is derived from fullName.
func recordFor(fullName string) *model.RepositoryRecord {
	owner, _, _ := strings.Cut(fullName, "/")
	return &model.RepositoryRecord{
		FullName: fullName,
		Owner:    model.RepositoryOwner{Login: owner, AvatarURL: "https://avatars.example.com/" + owner},
	}
}

// echoClient returns a client that finds every identifier it is asked for.
func echoClient() *mockGitHubClient {
	return &mockGitHubClient{
		findRepository: func(_ context.Context, fullName string) (*model.RepositoryRecord, error) {
			return recordFor(fullName), nil
		},
	}
}
