package commands

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"sync/atomic"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/depbump/internal/infrastructure/repositories"
)

// manifestNames are the manifest files a scan looks for in each repository,
// at any depth.
var manifestNames = []string{"requirements.txt", "pyproject.toml"}

// Scan is the interface for the scan command (batch mode).
type Scan interface {
	Execute(ctx context.Context, settings *entities.Settings, opts ScanOptions) error
}

// ScanOptions holds runtime options for a single scan.
type ScanOptions struct {
	DryRun       bool
	Verbose      bool
	ProviderName string // If set, only process this provider (CLI override)
	OrgOverride  string // If set, only process this org (CLI override)
}

// ScanCommand walks every configured provider and organization, collects
// outdated or vulnerable dependencies from each repository's manifests, and
// hands each eligible bump to the update flow. Repositories are processed
// concurrently with a bounded worker pool; each handed-off update stays
// strictly sequential.
type ScanCommand struct {
	providerRegistry *infraRepos.ProviderRegistry
	index            repositories.PackageIndexRepository
	advisories       repositories.AdvisoryRepository
	ledgerFactory    repositories.AttemptLedgerFactory
	ticketFactory    repositories.TicketGatewayFactory
	update           Update
}

// NewScanCommand creates a new ScanCommand with its collaborators.
func NewScanCommand(
	providerRegistry *infraRepos.ProviderRegistry,
	index repositories.PackageIndexRepository,
	advisories repositories.AdvisoryRepository,
	ledgerFactory repositories.AttemptLedgerFactory,
	ticketFactory repositories.TicketGatewayFactory,
	update Update,
) *ScanCommand {
	return &ScanCommand{
		providerRegistry: providerRegistry,
		index:            index,
		advisories:       advisories,
		ledgerFactory:    ledgerFactory,
		ticketFactory:    ticketFactory,
		update:           update,
	}
}

// Execute runs the full scan cycle using the provided configuration.
func (it *ScanCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	scanOpts ScanOptions,
) error {
	if scanOpts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	gateways, err := it.openGateways(settings)
	if err != nil {
		return err
	}
	if closer, ok := gateways.Attempts.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	var totalRepos, totalPublished, totalErrors atomic.Int64

	for _, provCfg := range settings.Providers {
		// Skip if CLI filter is set and doesn't match
		if scanOpts.ProviderName != "" && provCfg.Type != scanOpts.ProviderName {
			continue
		}

		provider, getErr := it.providerRegistry.Get(provCfg.Type, provCfg.Token)
		if getErr != nil {
			logger.Errorf("Failed to initialize provider %q: %v", provCfg.Type, getErr)
			totalErrors.Add(1)
			continue
		}

		logger.Infof("Processing provider: %s", provider.Name())

		for _, org := range provCfg.Organizations {
			// Skip if CLI filter is set and doesn't match
			if scanOpts.OrgOverride != "" && org != scanOpts.OrgOverride {
				continue
			}

			logger.Infof("Discovering repositories in %q...", org)

			repos, discoverErr := provider.DiscoverRepositories(ctx, org)
			if discoverErr != nil {
				logger.Errorf("Failed to discover repos in %q: %v", org, discoverErr)
				totalErrors.Add(1)
				continue
			}

			logger.Infof("Found %d repositories in %q", len(repos), org)

			group, groupCtx := errgroup.WithContext(ctx)
			group.SetLimit(settings.Scan.Limit())

			for _, repo := range repos {
				group.Go(func() error {
					totalRepos.Add(1)
					published, errs := it.processRepository(
						groupCtx, provider, repo, settings, gateways, scanOpts,
					)
					totalPublished.Add(int64(published))
					totalErrors.Add(int64(errs))
					return nil
				})
			}

			_ = group.Wait() // workers report errors through the counters
		}
	}

	logger.Infof(
		"Scan complete: %d repos processed, %d updates published, %d errors",
		totalRepos.Load(), totalPublished.Load(), totalErrors.Load(),
	)
	return nil
}

// openGateways builds the shared ledger and ticketing collaborators for this
// run. Ticketing stays nil when not configured.
func (it *ScanCommand) openGateways(settings *entities.Settings) (Gateways, error) {
	attempts, err := it.ledgerFactory(settings.Ledger)
	if err != nil {
		return Gateways{}, err
	}

	gateways := Gateways{Attempts: attempts}
	if settings.Ticketing.Enabled() {
		tickets, ticketErr := it.ticketFactory(settings.Ticketing)
		if ticketErr != nil {
			return Gateways{}, ticketErr
		}
		gateways.Tickets = tickets
	}
	return gateways, nil
}

// processRepository scans all manifests of a single repository and publishes
// the eligible bumps. It returns how many updates were published and how
// many errors occurred.
func (it *ScanCommand) processRepository(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	settings *entities.Settings,
	gateways Gateways,
	scanOpts ScanOptions,
) (int, int) {
	published := 0
	errorCount := 0

	for _, manifestName := range manifestNames {
		files, err := provider.ListFiles(ctx, repo, manifestName)
		if err != nil {
			logger.Errorf(
				"Failed to list %q in %s/%s: %v",
				manifestName, repo.Organization, repo.Name, err,
			)
			errorCount++
			continue
		}

		for _, file := range files {
			if path.Base(file.Path) != manifestName {
				continue
			}
			gotPublished, gotErrors := it.processManifest(
				ctx, provider, repo, file.Path, settings, gateways, scanOpts,
			)
			published += gotPublished
			errorCount += gotErrors
		}
	}

	return published, errorCount
}

// processManifest collects candidates from one manifest file and publishes
// the eligible ones.
func (it *ScanCommand) processManifest(
	ctx context.Context,
	provider repositories.ProviderRepository,
	repo entities.Repository,
	filePath string,
	settings *entities.Settings,
	gateways Gateways,
	scanOpts ScanOptions,
) (int, int) {
	content, err := provider.GetFileContent(ctx, repo, repo.DefaultBranch, filePath)
	if err != nil {
		logger.Errorf(
			"Failed to read %q in %s/%s: %v",
			filePath, repo.Organization, repo.Name, err,
		)
		return 0, 1
	}

	candidates := it.collectCandidates(ctx, filePath, content)
	if len(candidates) == 0 {
		return 0, 0
	}

	projectID := repo.Organization + "/" + repo.Name
	keys := make([]entities.UpdateRequestKey, 0, len(candidates))
	for _, candidate := range candidates {
		keys = append(keys, entities.UpdateRequestKey{
			ProjectID:      projectID,
			DependencyName: candidate.Name,
			ToVersion:      candidate.LatestVersion,
		})
	}

	existing, existErr := gateways.Attempts.ExistAny(ctx, keys)
	if existErr != nil {
		logger.Errorf("Ledger lookup failed for %s: %v", projectID, existErr)
		return 0, 1
	}

	published := 0
	errorCount := 0
	for _, eligibility := range entities.CanUpdate(candidates, existing, filePath) {
		candidate := eligibility.Candidate
		if !eligibility.Eligible || !entities.ShouldUpdate(candidate) {
			logger.Debugf(
				"[%s] Skipping %s %s in %s",
				provider.Name(), candidate.Name, candidate.CurrentVersion, projectID,
			)
			continue
		}

		request := entities.UpdateRequest{
			Repository:     repo,
			FilePath:       filePath,
			DependencyName: candidate.Name,
			FromVersion:    entities.Unhole(candidate.CurrentVersion),
			ToVersion:      candidate.LatestVersion,
		}

		if scanOpts.DryRun {
			logger.Infof("[dry-run] Would publish: %s in %s", request.Summary(), projectID)
			continue
		}

		ok, failed := it.publishUpdate(ctx, provider, gateways, request, settings)
		published += ok
		errorCount += failed
	}

	return published, errorCount
}

// collectCandidates parses the manifest pins and enriches each with the
// latest index version and known advisories.
func (it *ScanCommand) collectCandidates(
	ctx context.Context,
	filePath, content string,
) []entities.DependencyCandidate {
	var pins []entities.RequirementPin
	if strings.HasSuffix(filePath, ".toml") {
		pins = entities.ParseDescriptorPins(content)
	} else {
		pins = entities.ParseRequirements(content)
	}

	candidates := make([]entities.DependencyCandidate, 0, len(pins))
	for _, pin := range pins {
		latest, err := it.index.LatestVersion(ctx, pin.Name)
		if err != nil {
			logger.Debugf("Index lookup failed for %q: %v", pin.Name, err)
			continue
		}

		vulnerabilities, advErr := it.advisories.Vulnerabilities(
			ctx, pin.Name, entities.Unhole(pin.Specifier),
		)
		if advErr != nil {
			logger.Warnf("Advisory lookup failed for %q: %v", pin.Name, advErr)
		}

		candidates = append(candidates, entities.DependencyCandidate{
			Name:            pin.Name,
			CurrentVersion:  pin.Specifier,
			LatestVersion:   latest,
			Vulnerabilities: vulnerabilities,
		})
	}
	return candidates
}

// publishUpdate hands one bump to the update flow and folds its outcome into
// (published, errors) deltas. A notification failure still counts as
// published: the change request is live.
func (it *ScanCommand) publishUpdate(
	ctx context.Context,
	provider repositories.ProviderRepository,
	gateways Gateways,
	request entities.UpdateRequest,
	settings *entities.Settings,
) (int, int) {
	opts := UpdateOptions{Changelog: settings.Scan.Changelog}

	_, err := it.update.Execute(ctx, provider, gateways, request, opts)
	if err == nil {
		return 1, 0
	}

	if errors.Is(err, entities.ErrAlreadyRequested) {
		logger.Infof("Skipping %s: %v", request.Summary(), err)
		return 0, 0
	}

	var gatewayErr *entities.GatewayError
	if errors.As(err, &gatewayErr) && gatewayErr.Stage == entities.StageNotify {
		logger.Warnf("Published %s but notification failed: %v", request.Summary(), err)
		return 1, 0
	}

	logger.Errorf("Failed to publish %s in %s: %v", request.Summary(), request.ProjectID(), err)
	return 0, 1
}
