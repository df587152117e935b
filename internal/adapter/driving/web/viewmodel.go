package web

import (
	vm "github.com/ericfisherdev/githubexplorer/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/githubexplorer/internal/application"
	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
)

// toDashboardViewModel converts the form state and the repository list into
// the dashboard view model. Cards keep the list order.
func toDashboardViewModel(form application.SearchForm, csrf string, records []model.RepositoryRecord) vm.DashboardViewModel {
	cards := make([]vm.RepositoryCardViewModel, 0, len(records))
	for _, r := range records {
		cards = append(cards, toRepositoryCardViewModel(r))
	}

	return vm.DashboardViewModel{
		Form: vm.SearchFormViewModel{
			Input:     form.Input,
			Error:     form.Error,
			CSRFToken: csrf,
		},
		Repositories: cards,
	}
}

// toRepositoryCardViewModel converts a single domain RepositoryRecord to a card.
func toRepositoryCardViewModel(r model.RepositoryRecord) vm.RepositoryCardViewModel {
	return vm.RepositoryCardViewModel{
		FullName:    r.FullName,
		Description: r.Description,
		OwnerLogin:  r.Owner.Login,
		AvatarURL:   r.Owner.AvatarURL,
		DetailPath:  r.DetailPath(),
	}
}

// toRepositoryDetailViewModel converts a repository page into its view model.
// The README is rendered to sanitized HTML here.
func toRepositoryDetailViewModel(page *application.RepositoryPage) vm.RepositoryDetailViewModel {
	issues := make([]vm.IssueViewModel, 0, len(page.Issues))
	for _, issue := range page.Issues {
		issues = append(issues, vm.IssueViewModel{
			Number: issue.Number,
			Title:  issue.Title,
			Author: issue.Author,
			URL:    issue.URL,
		})
	}

	d := page.Detail
	return vm.RepositoryDetailViewModel{
		RepositoryCardViewModel: toRepositoryCardViewModel(d.RepositoryRecord),
		HTMLURL:                 d.HTMLURL,
		Language:                d.Language,
		DefaultBranch:           d.DefaultBranch,
		Stars:                   d.Stars,
		Forks:                   d.Forks,
		OpenIssues:              d.OpenIssues,
		ReadmeHTML:              RenderReadme(d.Readme, d.HTMLURL, d.DefaultBranch),
		Issues:                  issues,
	}
}
