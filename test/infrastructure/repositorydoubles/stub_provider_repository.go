//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations — no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

// BranchCall records one CreateBranch invocation.
type BranchCall struct {
	FromBranch string
	NewBranch  string
}

// CommitCall records one CommitChanges invocation.
type CommitCall struct {
	Branch  string
	Message string
	Changes []entities.FileChange
}

// SpyProviderRepository implements repositories.ProviderRepository as a configurable spy.
type SpyProviderRepository struct {
	// --- identity ---
	ProviderName string

	// --- DiscoverRepositories ---
	Repositories   []entities.Repository
	DiscoverErr    error
	DiscoveredOrgs []string

	// --- ListFiles ---
	Files       []entities.File
	ListFileErr error

	// --- GetFileContent ---
	FileContents   map[string]string
	FileContentErr error
	ReadPaths      []string

	// --- CreateBranch ---
	CreateBranchErr error
	BranchCalls     []BranchCall

	// --- CommitChanges ---
	CommitErr   error
	CommitCalls []CommitCall

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput
}

var _ repositories.ProviderRepository = (*SpyProviderRepository)(nil)

func (p *SpyProviderRepository) Name() string {
	if p.ProviderName == "" {
		return "spy"
	}
	return p.ProviderName
}

func (p *SpyProviderRepository) DiscoverRepositories(
	_ context.Context, org string,
) ([]entities.Repository, error) {
	p.DiscoveredOrgs = append(p.DiscoveredOrgs, org)
	return p.Repositories, p.DiscoverErr
}

func (p *SpyProviderRepository) ListFiles(
	_ context.Context, _ entities.Repository, pattern string,
) ([]entities.File, error) {
	if p.ListFileErr != nil {
		return nil, p.ListFileErr
	}

	var matching []entities.File
	for _, file := range p.Files {
		if pattern == "" || strings.HasSuffix(file.Path, pattern) {
			matching = append(matching, file)
		}
	}
	return matching, nil
}

func (p *SpyProviderRepository) GetFileContent(
	_ context.Context, _ entities.Repository, _, path string,
) (string, error) {
	p.ReadPaths = append(p.ReadPaths, path)
	if p.FileContents != nil {
		if content, ok := p.FileContents[path]; ok {
			return content, nil
		}
	}
	if p.FileContentErr != nil {
		return "", p.FileContentErr
	}
	return "", fmt.Errorf("file not found: %s", path)
}

func (p *SpyProviderRepository) CreateBranch(
	_ context.Context, _ entities.Repository, fromBranch, newBranch string,
) error {
	p.BranchCalls = append(p.BranchCalls, BranchCall{FromBranch: fromBranch, NewBranch: newBranch})
	return p.CreateBranchErr
}

func (p *SpyProviderRepository) CommitChanges(
	_ context.Context, _ entities.Repository, branch, message string, changes []entities.FileChange,
) error {
	p.CommitCalls = append(p.CommitCalls, CommitCall{
		Branch:  branch,
		Message: message,
		Changes: changes,
	})
	return p.CommitErr
}

func (p *SpyProviderRepository) CreatePullRequest(
	_ context.Context, _ entities.Repository, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &entities.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   "https://example.com/pr/1",
	}, nil
}
