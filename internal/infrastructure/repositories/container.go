package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/depbump/internal/domain/repositories"
	boltRepo "github.com/rios0rios0/depbump/internal/infrastructure/repositories/bolt"
	ghRepo "github.com/rios0rios0/depbump/internal/infrastructure/repositories/github"
	glRepo "github.com/rios0rios0/depbump/internal/infrastructure/repositories/gitlab"
	jiraRepo "github.com/rios0rios0/depbump/internal/infrastructure/repositories/jira"
	osvRepo "github.com/rios0rios0/depbump/internal/infrastructure/repositories/osv"
	pypiRepo "github.com/rios0rios0/depbump/internal/infrastructure/repositories/pypi"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register provider registry with all provider factories
	if err := container.Provide(func() *ProviderRegistry {
		reg := NewProviderRegistry()
		reg.Register("github", ghRepo.NewProviderRepository)
		reg.Register("gitlab", glRepo.NewProviderRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register scan data sources
	if err := container.Provide(pypiRepo.NewPackageIndexRepository); err != nil {
		return err
	}
	if err := container.Provide(osvRepo.NewAdvisoryRepository); err != nil {
		return err
	}

	// Ledger and ticketing need runtime configuration, so they are provided
	// as factories and opened by the commands once settings are loaded.
	if err := container.Provide(func() domainRepos.AttemptLedgerFactory {
		return boltRepo.NewAttemptRepository
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.TicketGatewayFactory {
		return jiraRepo.NewTicketRepository
	}); err != nil {
		return err
	}

	return nil
}
