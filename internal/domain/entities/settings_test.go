package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depbump/internal/domain/entities"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveToken(t *testing.T) {
	t.Run("should return empty string for empty input", func(t *testing.T) {
		t.Parallel()

		// given
		raw := ""

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should return inline token unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "ghp_abc123xyz"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "ghp_abc123xyz", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_TOKEN_RESOLVE", "my-secret-token")
		raw := "${TEST_TOKEN_RESOLVE}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "my-secret-token", result)
	})

	t.Run("should expand env var embedded in string", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_PARTIAL_TOKEN", "secret")
		raw := "prefix-${TEST_PARTIAL_TOKEN}-suffix"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "prefix-secret-suffix", result)
	})

	t.Run("should return empty for unset env var", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "${DEFINITELY_NOT_SET_VAR_12345}"

		// when
		result := entities.ResolveToken(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should read token from file when path exists", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		tokenFile := filepath.Join(tmpDir, "token.key")
		err := os.WriteFile(tokenFile, []byte("  file-based-token  \n"), 0o600)
		require.NoError(t, err)

		// when
		result := entities.ResolveToken(tokenFile)

		// then
		assert.Equal(t, "file-based-token", result)
	})
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	t.Run("should fail when no providers configured", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one provider")
	})

	t.Run("should fail when provider type is empty", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{Type: "", Token: "tok", Organizations: []string{"org"}},
			},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type is required")
	})

	t.Run("should fail when provider token is empty", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{Type: "github", Token: "", Organizations: []string{"org"}},
			},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "token is required")
	})

	t.Run("should fail when organizations list is empty", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{Type: "github", Token: "tok", Organizations: []string{}},
			},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "organizations must have at least one entry")
	})

	t.Run("should fail when ticketing url is set without a project key", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{Type: "github", Token: "tok", Organizations: []string{"org"}},
			},
			Ticketing: entities.TicketingConfig{
				URL:   "https://example.atlassian.net",
				Token: "jira-token",
			},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ticketing.project_key is required")
	})

	t.Run("should fail when ticketing url is set without a token", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{Type: "github", Token: "tok", Organizations: []string{"org"}},
			},
			Ticketing: entities.TicketingConfig{
				URL:        "https://example.atlassian.net",
				ProjectKey: "DEP",
			},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ticketing.token is required")
	})

	t.Run("should pass with valid configuration", func(t *testing.T) {
		t.Parallel()

		// given
		settings := &entities.Settings{
			Providers: []entities.ProviderConfig{
				{
					Type:          "github",
					Token:         "ghp_token",
					Organizations: []string{"my-org"},
				},
				{
					Type:          "gitlab",
					Token:         "glpat_token",
					Organizations: []string{"group1"},
				},
			},
		}

		// when
		err := entities.ValidateSettings(settings)

		// then
		require.NoError(t, err)
	})
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestNewSettings(t *testing.T) {
	t.Run("should load a valid config file", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depbump.yaml")
		content := `
providers:
  - type: github
    token: "ghp_test_token"
    organizations:
      - "test-org"
ticketing:
  url: "https://example.atlassian.net"
  username: "bot@example.com"
  token: "jira-token"
  project_key: "DEP"
ledger:
  path: "/var/lib/depbump/ledger.db"
scan:
  concurrency: 8
  changelog: true
`
		err := os.WriteFile(cfgFile, []byte(content), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.NoError(t, err)
		assert.Len(t, settings.Providers, 1)
		assert.Equal(t, "github", settings.Providers[0].Type)
		assert.Equal(t, "ghp_test_token", settings.Providers[0].Token)
		assert.Equal(t, []string{"test-org"}, settings.Providers[0].Organizations)
		assert.True(t, settings.Ticketing.Enabled())
		assert.Equal(t, "DEP", settings.Ticketing.ProjectKey)
		assert.Equal(t, "/var/lib/depbump/ledger.db", settings.Ledger.StorePath())
		assert.Equal(t, 8, settings.Scan.Limit())
		assert.True(t, settings.Scan.Changelog)
	})

	t.Run("should expand env vars in tokens during load", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_LOAD_TOKEN", "expanded-token-value")
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depbump.yaml")
		content := `
providers:
  - type: github
    token: "${TEST_LOAD_TOKEN}"
    organizations:
      - "org"
`
		err := os.WriteFile(cfgFile, []byte(content), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.NoError(t, err)
		assert.Equal(t, "expanded-token-value", settings.Providers[0].Token)
	})

	t.Run("should apply defaults for ledger path and scan concurrency", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "depbump.yaml")
		content := `
providers:
  - type: gitlab
    token: "glpat_token"
    organizations:
      - "group"
`
		err := os.WriteFile(cfgFile, []byte(content), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.NoError(t, err)
		assert.Equal(t, ".depbump.db", settings.Ledger.StorePath())
		assert.Equal(t, 4, settings.Scan.Limit())
		assert.False(t, settings.Ticketing.Enabled())
	})

	t.Run("should fail for nonexistent config file", func(t *testing.T) {
		t.Parallel()

		// given
		path := "/tmp/nonexistent_depbump_config_xyz.yaml"

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should fail for invalid YAML", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "bad.yaml")
		err := os.WriteFile(cfgFile, []byte("{{{{invalid yaml"), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("should fail validation when providers missing", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgFile := filepath.Join(tmpDir, "empty.yaml")
		err := os.WriteFile(cfgFile, []byte("scan: {}"), 0o600)
		require.NoError(t, err)

		// when
		settings, err := entities.NewSettings(cfgFile)

		// then
		require.Error(t, err)
		assert.Nil(t, settings)
		assert.Contains(t, err.Error(), "at least one provider")
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Run("should return error when no config file exists", func(t *testing.T) {
		// given
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)

		// when
		path, err := entities.FindConfigFile()

		// then
		require.Error(t, err)
		assert.Empty(t, path)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("should find depbump.yaml in current directory", func(t *testing.T) {
		// given
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)

		cfgFile := filepath.Join(tmpDir, "depbump.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("providers: []"), 0o600))

		// when
		path, err := entities.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, "depbump.yaml", path)
	})

	t.Run("should find .depbump.yaml in current directory", func(t *testing.T) {
		// given
		tmpDir := t.TempDir()
		t.Chdir(tmpDir)

		cfgFile := filepath.Join(tmpDir, ".depbump.yaml")
		require.NoError(t, os.WriteFile(cfgFile, []byte("providers: []"), 0o600))

		// when
		path, err := entities.FindConfigFile()

		// then
		require.NoError(t, err)
		assert.Equal(t, ".depbump.yaml", path)
	})
}
