// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client, PAT auth when token is non-empty)
//
// apiURL overrides the REST base URL (GitHub Enterprise); empty means api.github.com.
// timeout bounds every request made through the client; zero disables it.
func NewClient(token, apiURL string, timeout time.Duration) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = timeout

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	if apiURL != "" {
		u, err := parseBaseURL(apiURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = u
	}

	return &Client{gh: client}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// FindRepository reads /repos/{owner}/{name} and maps the response to a record.
// A 404 is reported as driven.ErrRepositoryNotFound.
func (c *Client) FindRepository(ctx context.Context, fullName string) (*model.RepositoryRecord, error) {
	repo, err := c.getRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}

	record := mapRepositoryRecord(repo)
	return &record, nil
}

// FetchRepositoryDetail reads /repos/{owner}/{name} with the fields shown on
// the detail view. Readme is not fetched here.
func (c *Client) FetchRepositoryDetail(ctx context.Context, fullName string) (*model.RepositoryDetail, error) {
	repo, err := c.getRepository(ctx, fullName)
	if err != nil {
		return nil, err
	}

	return &model.RepositoryDetail{
		RepositoryRecord: mapRepositoryRecord(repo),
		HTMLURL:          repo.GetHTMLURL(),
		Language:         repo.GetLanguage(),
		DefaultBranch:    repo.GetDefaultBranch(),
		Stars:            repo.GetStargazersCount(),
		Forks:            repo.GetForksCount(),
		OpenIssues:       repo.GetOpenIssuesCount(),
	}, nil
}

// FetchOpenIssues returns the first page of open issues, at most limit of them.
// The issues endpoint also lists pull requests; those are skipped.
func (c *Client) FetchOpenIssues(ctx context.Context, fullName string, limit int) ([]model.Issue, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListByRepoOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: limit},
	}

	issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
	if err != nil {
		return nil, fmt.Errorf("listing issues for %s: %w", fullName, mapNotFound(resp, err))
	}

	logRateLimit(resp, fullName+"/issues", len(issues))

	result := make([]model.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		result = append(result, mapIssue(issue))
	}

	return result, nil
}

// FetchReadme returns the decoded README of the repository's default branch.
// Returns ("", nil) when GitHub reports no README (404).
func (c *Client) FetchReadme(ctx context.Context, fullName string) (string, error) {
	owner, repo, err := splitRepo(fullName)
	if err != nil {
		return "", err
	}

	content, resp, err := c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("fetching readme for %s: %w", fullName, err)
	}

	logRateLimit(resp, fullName+"/readme", 1)

	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decoding readme for %s: %w", fullName, err)
	}

	return text, nil
}

func (c *Client) getRepository(ctx context.Context, fullName string) (*gh.Repository, error) {
	owner, name, err := splitRepo(fullName)
	if err != nil {
		return nil, err
	}

	repo, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s: %w", fullName, mapNotFound(resp, err))
	}

	logRateLimit(resp, fullName, 1)

	return repo, nil
}

// mapRepositoryRecord converts a go-github Repository to a domain RepositoryRecord.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapRepositoryRecord(repo *gh.Repository) model.RepositoryRecord {
	return model.RepositoryRecord{
		FullName:    repo.GetFullName(),
		Description: repo.GetDescription(),
		Owner: model.RepositoryOwner{
			Login:     repo.GetOwner().GetLogin(),
			AvatarURL: repo.GetOwner().GetAvatarURL(),
		},
	}
}

// mapIssue converts a go-github Issue to a domain Issue.
func mapIssue(issue *gh.Issue) model.Issue {
	return model.Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		Author: issue.GetUser().GetLogin(),
		URL:    issue.GetHTMLURL(),
	}
}

// mapNotFound replaces a 404 error with driven.ErrRepositoryNotFound, keeping
// the original error text.
func mapNotFound(resp *gh.Response, err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil && errResp.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", driven.ErrRepositoryNotFound, errResp.Message)
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", driven.ErrRepositoryNotFound, err)
	}
	return err
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// parseBaseURL parses a REST base URL and guarantees the trailing slash
// go-github requires.
func parseBaseURL(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	return u, nil
}

// splitRepo splits an "owner/repo" string into its two components. Anything
// else, including extra path segments and dot segments, is rejected so the
// identifier can never address a different endpoint.
func splitRepo(fullName string) (string, string, error) {
	owner, repo, ok := strings.Cut(fullName, "/")
	if !ok || !validSegment(owner) || !validSegment(repo) || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w %q: expected owner/repo", driven.ErrInvalidRepositoryName, fullName)
	}
	return owner, repo, nil
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "?#\\ ")
}
