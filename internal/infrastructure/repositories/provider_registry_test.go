//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainRepos "github.com/rios0rios0/depbump/internal/domain/repositories"
	"github.com/rios0rios0/depbump/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/depbump/test/infrastructure/repositorydoubles"
)

func TestProviderRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should return a configured instance from a registered factory", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()
		var receivedToken string
		registry.Register("github", func(token string) domainRepos.ProviderRepository {
			receivedToken = token
			return &doubles.SpyProviderRepository{ProviderName: "github"}
		})

		// when
		provider, err := registry.Get("github", "ghp_token")

		// then
		require.NoError(t, err)
		assert.Equal(t, "github", provider.Name())
		assert.Equal(t, "ghp_token", receivedToken)
	})

	t.Run("should fail for an unregistered provider type", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()

		// when
		provider, err := registry.Get("bitbucket", "token")

		// then
		require.Error(t, err)
		assert.Nil(t, provider)
		assert.Contains(t, err.Error(), "unknown provider type")
	})

	t.Run("should list every registered provider name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := repositories.NewProviderRegistry()
		registry.Register("github", func(_ string) domainRepos.ProviderRepository { return nil })
		registry.Register("gitlab", func(_ string) domainRepos.ProviderRepository { return nil })

		// when
		names := registry.Names()

		// then
		assert.ElementsMatch(t, []string{"github", "gitlab"}, names)
	})
}
