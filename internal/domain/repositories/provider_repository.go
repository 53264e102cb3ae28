package repositories

import (
	"context"

	"github.com/rios0rios0/depbump/internal/domain/entities"
)

// ProviderRepository abstracts a Git hosting service (GitHub, GitLab)
// providing repository discovery, file access, and the three publish
// operations the update flow needs as separate steps: branch, commit,
// change request.
type ProviderRepository interface {
	// Name returns the provider identifier (e.g. "github").
	Name() string

	// DiscoverRepositories lists all repositories of an organization or group.
	DiscoverRepositories(ctx context.Context, org string) ([]entities.Repository, error)

	// ListFiles returns the files on the default branch whose path ends
	// with the given pattern. An empty pattern lists everything.
	ListFiles(ctx context.Context, repo entities.Repository, pattern string) ([]entities.File, error)

	// GetFileContent returns the content of a file at the given branch.
	GetFileContent(ctx context.Context, repo entities.Repository, branch, path string) (string, error)

	// CreateBranch creates a new branch pointing at the head of fromBranch.
	CreateBranch(ctx context.Context, repo entities.Repository, fromBranch, newBranch string) error

	// CommitChanges commits the given file changes to an existing branch.
	CommitChanges(
		ctx context.Context,
		repo entities.Repository,
		branch, message string,
		changes []entities.FileChange,
	) error

	// CreatePullRequest opens a change request and returns its address.
	CreatePullRequest(
		ctx context.Context,
		repo entities.Repository,
		input entities.PullRequestInput,
	) (*entities.PullRequest, error)
}
