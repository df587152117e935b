// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// SearchFormViewModel holds the state of the search form.
type SearchFormViewModel struct {
	Input     string
	Error     string
	CSRFToken string
}

// RepositoryCardViewModel holds presentation-ready data for one list entry.
type RepositoryCardViewModel struct {
	FullName    string
	Description string
	OwnerLogin  string
	AvatarURL   string
	DetailPath  string
}

// DashboardViewModel holds all data needed to render the dashboard page.
type DashboardViewModel struct {
	Form         SearchFormViewModel
	Repositories []RepositoryCardViewModel
}

// IssueViewModel holds presentation-ready data for one open issue.
type IssueViewModel struct {
	Number int
	Title  string
	Author string
	URL    string
}

// RepositoryDetailViewModel holds presentation-ready data for the detail page.
type RepositoryDetailViewModel struct {
	RepositoryCardViewModel

	HTMLURL       string
	Language      string
	DefaultBranch string
	Stars         int
	Forks         int
	OpenIssues    int
	ReadmeHTML    string
	Issues        []IssueViewModel
}

// ErrorPageViewModel holds the message shown when a page cannot be rendered.
type ErrorPageViewModel struct {
	Title   string
	Message string
}
