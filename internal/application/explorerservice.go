package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// SearchForm is the state of the search form between two submissions: the
// text typed by the user and the message shown under the field.
type SearchForm struct {
	Input string
	Error string
}

// HasError reports whether the form carries a message to show.
func (f SearchForm) HasError() bool {
	return f.Error != ""
}

// ExplorerService validates submitted identifiers, looks them up on GitHub and
// appends each repository found to the persisted RepositoryList.
type ExplorerService struct {
	client driven.GitHubClient
	list   *RepositoryList
	logger *slog.Logger
}

// NewExplorerService creates an ExplorerService with the required dependencies.
func NewExplorerService(client driven.GitHubClient, list *RepositoryList, logger *slog.Logger) *ExplorerService {
	return &ExplorerService{
		client: client,
		list:   list,
		logger: logger,
	}
}

// Repositories returns the current list in insertion order.
func (s *ExplorerService) Repositories() []model.RepositoryRecord {
	return s.list.All()
}

// Submit applies one form submission and returns the next form state.
// The previous message is always dropped first. A successful submission
// clears the input; a failed one keeps it so the user can correct it.
func (s *ExplorerService) Submit(ctx context.Context, form SearchForm) SearchForm {
	form.Error = ""

	if _, err := s.Add(ctx, form.Input); err != nil {
		form.Error = UserMessage(err)
		return form
	}

	return SearchForm{}
}

// Add looks up identifier and appends the result to the list.
//
// Errors:
//   - ErrRepositoryNotProvided when identifier is blank; no request is made.
//   - *LookupError (matches ErrLookupFailed) for any lookup failure.
//   - ErrPersistFailed when the list could not be saved.
//
// On any error the list is unchanged.
func (s *ExplorerService) Add(ctx context.Context, identifier string) (model.RepositoryRecord, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.RepositoryRecord{}, ErrRepositoryNotProvided
	}

	record, err := s.client.FindRepository(ctx, identifier)
	if err == nil && record == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		lookupErr := &LookupError{Identifier: identifier, Err: err}
		s.logger.Info("repository lookup failed",
			"repository", identifier,
			"not_found", errors.Is(err, driven.ErrRepositoryNotFound),
			"error", err,
		)
		return model.RepositoryRecord{}, lookupErr
	}

	if err := s.list.Append(ctx, *record); err != nil {
		s.logger.Error("failed to persist repository list",
			"repository", record.FullName,
			"error", err,
		)
		return model.RepositoryRecord{}, err
	}

	s.logger.Info("repository added", "repository", record.FullName, "count", s.list.Len())

	return *record, nil
}
