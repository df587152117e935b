package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// RepositoryPage is everything the detail view of one repository shows.
type RepositoryPage struct {
	Detail model.RepositoryDetail
	Issues []model.Issue
}

// DetailService assembles the detail view of a repository from the GitHub API.
// It reads nothing from, and writes nothing to, the repository list.
type DetailService struct {
	client      driven.GitHubClient
	issuesLimit int
	logger      *slog.Logger
}

// NewDetailService creates a DetailService. issuesLimit caps the number of
// open issues fetched for a page.
func NewDetailService(client driven.GitHubClient, issuesLimit int, logger *slog.Logger) *DetailService {
	return &DetailService{
		client:      client,
		issuesLimit: issuesLimit,
		logger:      logger,
	}
}

// Get fetches the repository, its README and its open issues. The repository
// itself is required; README and issue failures are logged and degrade to
// empty values.
func (s *DetailService) Get(ctx context.Context, fullName string) (*RepositoryPage, error) {
	detail, err := s.client.FetchRepositoryDetail(ctx, fullName)
	if err != nil {
		return nil, fmt.Errorf("repository detail %s: %w", fullName, err)
	}

	page := &RepositoryPage{
		Detail: *detail,
		Issues: []model.Issue{},
	}

	readme, err := s.client.FetchReadme(ctx, fullName)
	if err != nil {
		s.logger.Warn("failed to fetch readme", "repository", fullName, "error", err)
	} else {
		page.Detail.Readme = readme
	}

	issues, err := s.client.FetchOpenIssues(ctx, fullName, s.issuesLimit)
	if err != nil {
		s.logger.Warn("failed to fetch issues", "repository", fullName, "error", err)
	} else if issues != nil {
		page.Issues = issues
	}

	return page, nil
}
