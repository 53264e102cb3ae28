package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

const changelogPath = "CHANGELOG.md"

// Update is the interface for publishing a single version bump.
type Update interface {
	Execute(
		ctx context.Context,
		provider repositories.ProviderRepository,
		gateways Gateways,
		request entities.UpdateRequest,
		opts UpdateOptions,
	) (*entities.PullRequest, error)
}

// Gateways bundles the side-effect collaborators of one update execution.
// Tickets may be nil when notifications are not configured.
type Gateways struct {
	Attempts repositories.AttemptRepository
	Tickets  repositories.TicketRepository
}

// UpdateOptions holds runtime options for a single update.
type UpdateOptions struct {
	Changelog bool   // Also record the bump in CHANGELOG.md
	Integrity string // New lock integrity value, when the caller knows it
}

// UpdateCommand publishes one dependency bump: checks the ledger, mutates
// the manifest, pushes a branch with one commit, opens a change request,
// records the attempt, and notifies the ticketing system.
//
// The flow is non-transactional and at-least-once: a failure after a side
// effect leaves that side effect in place (an orphaned branch or change
// request is surfaced in the error, never reverted), and the only duplicate
// guard is the ledger pre-check.
type UpdateCommand struct{}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand() *UpdateCommand {
	return &UpdateCommand{}
}

// Execute runs the publish flow for one update request. Every step's failure
// is terminal for this execution; there is no retry or rollback.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	provider repositories.ProviderRepository,
	gateways Gateways,
	request entities.UpdateRequest,
	opts UpdateOptions,
) (*entities.PullRequest, error) {
	kind, err := entities.ManifestKindForPath(request.FilePath)
	if err != nil {
		return nil, err
	}

	if checkErr := it.ensureNotRequested(ctx, gateways.Attempts, request); checkErr != nil {
		return nil, checkErr
	}

	changes, err := it.mutateManifest(ctx, provider, kind, request, opts)
	if err != nil {
		return nil, err
	}

	if opts.Changelog {
		changes = it.appendChangelogChange(ctx, provider, request, changes)
	}

	pullRequest, err := it.publish(ctx, provider, request, changes)
	if err != nil {
		return nil, err
	}

	attempt := entities.UpdateAttempt{
		ProjectID:        request.ProjectID(),
		DependencyName:   request.DependencyName,
		ToVersion:        request.ToVersion,
		ChangeRequestURL: pullRequest.URL,
	}
	if saveErr := gateways.Attempts.Save(ctx, attempt); saveErr != nil {
		return pullRequest, entities.NewGatewayError(entities.StageLedgerSave, fmt.Errorf(
			"change request %s is live but was not recorded: %w", pullRequest.URL, saveErr,
		))
	}

	if gateways.Tickets != nil {
		if notifyErr := gateways.Tickets.NotifyUpdate(ctx, request, pullRequest.URL); notifyErr != nil {
			return pullRequest, entities.NewGatewayError(entities.StageNotify, notifyErr)
		}
	}

	logger.Infof(
		"[%s] Published %s (%s)",
		provider.Name(), request.Summary(), pullRequest.URL,
	)
	return pullRequest, nil
}

// ensureNotRequested fails with AlreadyRequested when the ledger already
// holds an attempt for this key, before any side effect happens.
func (it *UpdateCommand) ensureNotRequested(
	ctx context.Context,
	attempts repositories.AttemptRepository,
	request entities.UpdateRequest,
) error {
	exists, err := attempts.Exists(ctx, request.Key())
	if err != nil {
		return entities.NewGatewayError(entities.StageLedgerCheck, err)
	}
	if exists {
		return fmt.Errorf(
			"%w: %s in %s",
			entities.ErrAlreadyRequested, request.Summary(), request.ProjectID(),
		)
	}
	return nil
}

// mutateManifest fetches the manifest file(s) from the project branch and
// rewrites the dependency pin. Mutator failures propagate verbatim.
func (it *UpdateCommand) mutateManifest(
	ctx context.Context,
	provider repositories.ProviderRepository,
	kind entities.ManifestKind,
	request entities.UpdateRequest,
	opts UpdateOptions,
) ([]entities.FileChange, error) {
	branch := request.Repository.DefaultBranch

	content, err := provider.GetFileContent(ctx, request.Repository, branch, request.FilePath)
	if err != nil {
		return nil, entities.NewGatewayError(entities.StageManifestRead, err)
	}

	input := entities.MutationInput{
		Path:           request.FilePath,
		Content:        content,
		DependencyName: request.DependencyName,
		FromVersion:    request.FromVersion,
		ToVersion:      request.ToVersion,
		Integrity:      opts.Integrity,
	}

	if kind == entities.ManifestLockPair {
		input.LockPath = entities.LockPathFor(request.FilePath)
		lockContent, lockErr := provider.GetFileContent(ctx, request.Repository, branch, input.LockPath)
		if lockErr != nil {
			return nil, entities.NewGatewayError(entities.StageManifestRead, lockErr)
		}
		input.LockContent = lockContent
	}

	return entities.MutateManifest(kind, input)
}

// appendChangelogChange adds a CHANGELOG.md edit to the commit when the file
// exists and has an Unreleased section. A missing or unusable changelog is
// not an error.
func (it *UpdateCommand) appendChangelogChange(
	ctx context.Context,
	provider repositories.ProviderRepository,
	request entities.UpdateRequest,
	changes []entities.FileChange,
) []entities.FileChange {
	content, err := provider.GetFileContent(
		ctx, request.Repository, request.Repository.DefaultBranch, changelogPath,
	)
	if err != nil {
		logger.Debugf("No changelog in %s: %v", request.ProjectID(), err)
		return changes
	}

	entry := fmt.Sprintf(
		"- changed `%s` from `%s` to `%s`",
		request.DependencyName, request.FromVersion, request.ToVersion,
	)
	updated := entities.InsertChangelogEntry(content, entry)
	if updated == content {
		return changes
	}

	return append(changes, entities.FileChange{
		Path:       changelogPath,
		Content:    updated,
		ChangeType: "edit",
	})
}

// publish creates the branch, commits the changes, and opens the change
// request. Failures are tagged with the stage reached, so operators know
// which orphaned artifacts to clean up.
func (it *UpdateCommand) publish(
	ctx context.Context,
	provider repositories.ProviderRepository,
	request entities.UpdateRequest,
	changes []entities.FileChange,
) (*entities.PullRequest, error) {
	targetBranch := request.Repository.DefaultBranch
	branchName := request.BranchName()
	summary := request.Summary()

	if err := provider.CreateBranch(ctx, request.Repository, targetBranch, branchName); err != nil {
		return nil, entities.NewGatewayError(entities.StageBranch, err)
	}

	if err := provider.CommitChanges(ctx, request.Repository, branchName, summary, changes); err != nil {
		return nil, entities.NewGatewayError(entities.StageCommit, fmt.Errorf(
			"branch %q was created but not committed to: %w", branchName, err,
		))
	}

	pullRequest, err := provider.CreatePullRequest(ctx, request.Repository, entities.PullRequestInput{
		SourceBranch: "refs/heads/" + branchName,
		TargetBranch: ensureRefPrefix(targetBranch),
		Title:        summary,
		Description:  summary + ".",
	})
	if err != nil {
		return nil, entities.NewGatewayError(entities.StageMergeRequest, fmt.Errorf(
			"branch %q exists without a change request: %w", branchName, err,
		))
	}

	return pullRequest, nil
}

// ensureRefPrefix normalizes a branch name to its full ref form.
func ensureRefPrefix(branch string) string {
	if strings.HasPrefix(branch, "refs/heads/") {
		return branch
	}
	return "refs/heads/" + branch
}
