package entities

import "fmt"

// UpdateRequestKey uniquely identifies one requested version bump. Two
// requests with the same key are the same update, regardless of which scan
// produced them.
type UpdateRequestKey struct {
	ProjectID      string
	DependencyName string
	ToVersion      string
}

// UpdateRequest describes a single dependency bump to be published against
// one repository.
type UpdateRequest struct {
	Repository     Repository
	FilePath       string // Manifest path inside the repository
	DependencyName string
	FromVersion    string
	ToVersion      string
}

// ProjectID returns the "org/name" path identifying the repository.
func (r UpdateRequest) ProjectID() string {
	return r.Repository.Organization + "/" + r.Repository.Name
}

// Key returns the ledger key for this request.
func (r UpdateRequest) Key() UpdateRequestKey {
	return UpdateRequestKey{
		ProjectID:      r.ProjectID(),
		DependencyName: r.DependencyName,
		ToVersion:      r.ToVersion,
	}
}

// Summary returns the one-line description used as commit message and
// merge request title.
func (r UpdateRequest) Summary() string {
	return fmt.Sprintf("Bumps `%s` from `%s` to `%s`", r.DependencyName, r.FromVersion, r.ToVersion)
}

// BranchName returns the working branch name for this bump.
func (r UpdateRequest) BranchName() string {
	return fmt.Sprintf("chore/bump-%s-%s", r.DependencyName, r.ToVersion)
}

// UpdateAttempt is the ledger record of a published update.
type UpdateAttempt struct {
	ProjectID        string `json:"project_id"`
	DependencyName   string `json:"dependency_name"`
	ToVersion        string `json:"to_version"`
	ChangeRequestURL string `json:"change_request_url"`
}

// Key returns the ledger key this attempt is stored under.
func (a UpdateAttempt) Key() UpdateRequestKey {
	return UpdateRequestKey{
		ProjectID:      a.ProjectID,
		DependencyName: a.DependencyName,
		ToVersion:      a.ToVersion,
	}
}
