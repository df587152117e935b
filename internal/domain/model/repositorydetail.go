package model

// RepositoryDetail holds everything the detail view shows about a repository.
// Readme is raw markdown and is empty when the repository has none.
type RepositoryDetail struct {
	RepositoryRecord

	HTMLURL       string
	Language      string
	DefaultBranch string
	Stars         int
	Forks         int
	OpenIssues    int
	Readme        string
}

// Issue is an open issue listed on the detail view.
type Issue struct {
	Number int
	Title  string
	Author string
	URL    string
}
