package model

// RepositoryOwner is the account a repository belongs to.
type RepositoryOwner struct {
	Login     string
	AvatarURL string
}

// RepositoryRecord is one repository found by a lookup and kept in the
// explorer list. FullName ("owner/name") is the display key and the path
// segment of the detail view; it is not unique within the list.
type RepositoryRecord struct {
	FullName    string
	Description string
	Owner       RepositoryOwner
}

// DetailPath returns the navigation path of the record's detail view.
func (r RepositoryRecord) DetailPath() string {
	return "/repository/" + r.FullName
}
