package controllers

import (
	"context"
	"io"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depbump/internal/domain/commands"
	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/depbump/internal/infrastructure/repositories"
)

// UpdateController handles the "update" subcommand: publish a single version
// bump without scanning.
type UpdateController struct {
	providerRegistry *infraRepos.ProviderRegistry
	ledgerFactory    repositories.AttemptLedgerFactory
	ticketFactory    repositories.TicketGatewayFactory
	command          commands.Update
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(
	providerRegistry *infraRepos.ProviderRegistry,
	ledgerFactory repositories.AttemptLedgerFactory,
	ticketFactory repositories.TicketGatewayFactory,
	command commands.Update,
) *UpdateController {
	return &UpdateController{
		providerRegistry: providerRegistry,
		ledgerFactory:    ledgerFactory,
		ticketFactory:    ticketFactory,
		command:          command,
	}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update",
		Short: "Publish a single dependency bump",
		Long: `Publish one dependency version bump against a repository:
mutate the manifest, push a branch with the change, open a change
request, and record the attempt in the ledger.

The manifest is addressed by its path; requirements.txt files are
rewritten line by line, pyproject.toml files together with their
poetry.lock.`,
	}
}

// Execute publishes the bump described by the flags.
func (it *UpdateController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	providerName, _ := cmd.Flags().GetString("provider")
	token, _ := cmd.Flags().GetString("token")
	project, _ := cmd.Flags().GetString("project")
	repoID, _ := cmd.Flags().GetString("repo-id")
	branch, _ := cmd.Flags().GetString("branch")
	filePath, _ := cmd.Flags().GetString("file")
	dependency, _ := cmd.Flags().GetString("dependency")
	fromVersion, _ := cmd.Flags().GetString("from")
	toVersion, _ := cmd.Flags().GetString("to")
	integrity, _ := cmd.Flags().GetString("integrity")
	changelog, _ := cmd.Flags().GetBool("changelog")

	org, name, ok := strings.Cut(project, "/")
	if !ok {
		logger.Errorf("--project must be in the form org/name, got %q", project)
		return
	}

	settings := it.loadSettings(cmd)
	if token == "" {
		token = providerToken(settings, providerName)
	}

	provider, err := it.providerRegistry.Get(providerName, token)
	if err != nil {
		logger.Errorf("Failed to initialize provider %q: %v", providerName, err)
		return
	}

	gateways, err := it.openGateways(settings)
	if err != nil {
		logger.Errorf("Failed to open gateways: %v", err)
		return
	}
	if closer, isCloser := gateways.Attempts.(io.Closer); isCloser {
		defer func() { _ = closer.Close() }()
	}

	request := entities.UpdateRequest{
		Repository: entities.Repository{
			ID:            repoID,
			Name:          name,
			Organization:  org,
			DefaultBranch: branch,
			ProviderName:  providerName,
		},
		FilePath:       filePath,
		DependencyName: dependency,
		FromVersion:    fromVersion,
		ToVersion:      toVersion,
	}

	pullRequest, execErr := it.command.Execute(ctx, provider, gateways, request, commands.UpdateOptions{
		Changelog: changelog,
		Integrity: integrity,
	})
	if execErr != nil {
		if pullRequest != nil {
			logger.Warnf("Published %s but: %v", pullRequest.URL, execErr)
			return
		}
		logger.Errorf("Update failed: %v", execErr)
		return
	}

	logger.Infof("Created change request #%d: %s (%s)", pullRequest.ID, pullRequest.Title, pullRequest.URL)
}

// loadSettings loads the config file when one is present. The update
// subcommand works without one; ledger and ticketing then fall back to
// their defaults.
func (it *UpdateController) loadSettings(cmd *cobra.Command) *entities.Settings {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			return &entities.Settings{}
		}
		cfgPath = found
	}

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		logger.Warnf("Ignoring config file %q: %v", cfgPath, err)
		return &entities.Settings{}
	}
	return settings
}

// openGateways builds the ledger and ticketing collaborators from settings.
func (it *UpdateController) openGateways(settings *entities.Settings) (commands.Gateways, error) {
	attempts, err := it.ledgerFactory(settings.Ledger)
	if err != nil {
		return commands.Gateways{}, err
	}

	gateways := commands.Gateways{Attempts: attempts}
	if settings.Ticketing.Enabled() {
		tickets, ticketErr := it.ticketFactory(settings.Ticketing)
		if ticketErr != nil {
			return commands.Gateways{}, ticketErr
		}
		gateways.Tickets = tickets
	}
	return gateways, nil
}

// providerToken looks up the configured token for a provider type.
func providerToken(settings *entities.Settings, providerType string) string {
	for _, provCfg := range settings.Providers {
		if provCfg.Type == providerType {
			return provCfg.Token
		}
	}
	return ""
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "github", "Git provider hosting the repository (github, gitlab)")
	cmd.Flags().String("project", "", "Repository in the form org/name")
	cmd.Flags().String("repo-id", "", "Provider-specific repository identifier, when known")
	cmd.Flags().String("branch", "main", "Branch holding the manifest")
	cmd.Flags().String("file", "requirements.txt", "Manifest path inside the repository")
	cmd.Flags().String("dependency", "", "Dependency name to bump")
	cmd.Flags().String("from", "", "Version currently pinned")
	cmd.Flags().String("to", "", "Version to bump to")
	cmd.Flags().String("integrity", "", "New lock integrity value (lock-pair manifests)")
	cmd.Flags().Bool("changelog", false, "Also record the bump in CHANGELOG.md")
}
