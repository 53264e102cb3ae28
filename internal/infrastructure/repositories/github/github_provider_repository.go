package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v66/github"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

const (
	providerName = "github"
	perPage      = 100
	blobMode     = "100644"
	blobType     = "blob"
)

// GitHubProviderRepository implements repositories.ProviderRepository for GitHub.
type GitHubProviderRepository struct {
	token  string
	client *gh.Client
}

// NewProviderRepository creates a new GitHub provider with the given token.
func NewProviderRepository(token string) repositories.ProviderRepository {
	client := gh.NewClient(nil).WithAuthToken(token)
	return &GitHubProviderRepository{
		token:  token,
		client: client,
	}
}

func (p *GitHubProviderRepository) Name() string { return providerName }

// DiscoverRepositories lists all repositories in a GitHub
// organization or user account.
func (p *GitHubProviderRepository) DiscoverRepositories(
	ctx context.Context,
	org string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByOrgOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		repos, resp, err := p.client.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			// Fall back to listing user repos if org listing fails
			return p.discoverUserRepos(ctx, org)
		}

		for _, r := range repos {
			allRepos = append(allRepos, toRepository(r, org))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func (p *GitHubProviderRepository) discoverUserRepos(
	ctx context.Context,
	user string,
) ([]entities.Repository, error) {
	var allRepos []entities.Repository
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
		Type:        "owner",
	}

	for {
		repos, resp, err := p.client.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for %q: %w", user, err)
		}

		for _, r := range repos {
			allRepos = append(allRepos, toRepository(r, user))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

func toRepository(r *gh.Repository, org string) entities.Repository {
	defaultBranch := "main"
	if r.DefaultBranch != nil {
		defaultBranch = *r.DefaultBranch
	}
	return entities.Repository{
		ID:            strconv.FormatInt(r.GetID(), 10),
		Name:          r.GetName(),
		Organization:  org,
		DefaultBranch: "refs/heads/" + defaultBranch,
		RemoteURL:     r.GetCloneURL(),
		SSHURL:        r.GetSSHURL(),
		ProviderName:  providerName,
	}
}

func (p *GitHubProviderRepository) ListFiles(
	ctx context.Context,
	repo entities.Repository,
	pattern string,
) ([]entities.File, error) {
	tree, _, err := p.client.Git.GetTree(
		ctx, repo.Organization, repo.Name,
		strings.TrimPrefix(repo.DefaultBranch, "refs/heads/"),
		true, // recursive
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get repo tree: %w", err)
	}

	var files []entities.File
	for _, entry := range tree.Entries {
		if pattern != "" && !strings.HasSuffix(entry.GetPath(), pattern) {
			continue
		}
		files = append(files, entities.File{
			Path:     entry.GetPath(),
			ObjectID: entry.GetSHA(),
			IsDir:    entry.GetType() == "tree",
		})
	}

	return files, nil
}

func (p *GitHubProviderRepository) GetFileContent(
	ctx context.Context,
	repo entities.Repository,
	branch, path string,
) (string, error) {
	fileContent, _, _, err := p.client.Repositories.GetContents(
		ctx, repo.Organization, repo.Name, path,
		&gh.RepositoryContentGetOptions{
			Ref: strings.TrimPrefix(branch, "refs/heads/"),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get file %q: %w", path, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("path %q is a directory, not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode file content: %w", err)
	}

	return content, nil
}

func (p *GitHubProviderRepository) CreateBranch(
	ctx context.Context,
	repo entities.Repository,
	fromBranch, newBranch string,
) error {
	owner := repo.Organization
	repoName := repo.Name

	baseBranch := strings.TrimPrefix(fromBranch, "refs/heads/")
	baseRef, _, err := p.client.Git.GetRef(
		ctx, owner, repoName, "refs/heads/"+baseBranch,
	)
	if err != nil {
		return fmt.Errorf("failed to get base branch ref: %w", err)
	}

	branchRef := "refs/heads/" + newBranch
	_, _, err = p.client.Git.CreateRef(
		ctx, owner, repoName,
		&gh.Reference{
			Ref:    &branchRef,
			Object: &gh.GitObject{SHA: baseRef.Object.SHA},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}

	return nil
}

func (p *GitHubProviderRepository) CommitChanges(
	ctx context.Context,
	repo entities.Repository,
	branch, message string,
	changes []entities.FileChange,
) error {
	owner := repo.Organization
	repoName := repo.Name

	// Resolve the head of the target branch
	headRef, _, err := p.client.Git.GetRef(
		ctx, owner, repoName, "refs/heads/"+strings.TrimPrefix(branch, "refs/heads/"),
	)
	if err != nil {
		return fmt.Errorf("failed to get branch ref: %w", err)
	}
	headSHA := headRef.Object.GetSHA()

	headCommit, _, err := p.client.Git.GetCommit(ctx, owner, repoName, headSHA)
	if err != nil {
		return fmt.Errorf("failed to get head commit: %w", err)
	}

	// Build a new tree on top of the head tree
	var entries []*gh.TreeEntry
	for _, change := range changes {
		content := change.Content
		path := strings.TrimPrefix(change.Path, "/")
		mode := blobMode
		entryType := blobType
		entries = append(entries, &gh.TreeEntry{
			Path:    &path,
			Mode:    &mode,
			Type:    &entryType,
			Content: &content,
		})
	}

	newTree, _, err := p.client.Git.CreateTree(
		ctx, owner, repoName, headCommit.Tree.GetSHA(), entries,
	)
	if err != nil {
		return fmt.Errorf("failed to create tree: %w", err)
	}

	newCommit, _, err := p.client.Git.CreateCommit(
		ctx, owner, repoName,
		&gh.Commit{
			Message: &message,
			Tree:    newTree,
			Parents: []*gh.Commit{{SHA: &headSHA}},
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}

	// Advance the branch to the new commit
	headRef.Object = &gh.GitObject{SHA: newCommit.SHA}
	_, _, err = p.client.Git.UpdateRef(ctx, owner, repoName, headRef, false)
	if err != nil {
		return fmt.Errorf("failed to update branch ref: %w", err)
	}

	return nil
}

func (p *GitHubProviderRepository) CreatePullRequest(
	ctx context.Context,
	repo entities.Repository,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	owner := repo.Organization
	repoName := repo.Name

	sourceBranch := strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	targetBranch := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	maintainerCanModify := true
	pr, _, err := p.client.PullRequests.Create(
		ctx, owner, repoName,
		&gh.NewPullRequest{
			Title:               &input.Title,
			Head:                &sourceBranch,
			Base:                &targetBranch,
			Body:                &input.Description,
			MaintainerCanModify: &maintainerCanModify,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}
