package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
)

// Sentinel errors returned by GitHubClient implementations.
var (
	// ErrRepositoryNotFound indicates GitHub answered 404 for the repository.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrInvalidRepositoryName indicates the identifier is not "owner/name"
	// shaped. No request is made for such identifiers.
	ErrInvalidRepositoryName = errors.New("invalid repository name")
)

// GitHubClient defines the driven port for reading repository metadata from GitHub.
type GitHubClient interface {
	// FindRepository reads /repos/{fullName} and maps it to a record.
	FindRepository(ctx context.Context, fullName string) (*model.RepositoryRecord, error)

	// FetchRepositoryDetail reads /repos/{fullName} with the fields the
	// detail view needs. Readme is left empty; see FetchReadme.
	FetchRepositoryDetail(ctx context.Context, fullName string) (*model.RepositoryDetail, error)

	// FetchOpenIssues returns at most limit open issues, pull requests excluded.
	FetchOpenIssues(ctx context.Context, fullName string, limit int) ([]model.Issue, error)

	// FetchReadme returns the decoded README markdown.
	// Returns ("", nil) if the repository has no README.
	FetchReadme(ctx context.Context, fullName string) (string, error)
}
