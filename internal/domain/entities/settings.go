package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultScanConcurrency = 4

// Settings is the top-level configuration for depbump.
type Settings struct {
	Providers []ProviderConfig `yaml:"providers"`
	Ticketing TicketingConfig  `yaml:"ticketing"`
	Ledger    LedgerConfig     `yaml:"ledger"`
	Scan      ScanConfig       `yaml:"scan"`
}

// ProviderConfig describes a single Git hosting provider instance.
type ProviderConfig struct {
	Type          string   `yaml:"type"`          // "github", "gitlab"
	Token         string   `yaml:"token"`         // Inline, ${ENV_VAR}, or file path
	Organizations []string `yaml:"organizations"` // Org names or groups
}

// TicketingConfig holds the connection details for the ticketing system that
// gets notified about published change requests. Leaving the URL empty
// disables notifications.
type TicketingConfig struct {
	URL        string `yaml:"url"`
	Username   string `yaml:"username"`
	Token      string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	ProjectKey string `yaml:"project_key"`
	IssueType  string `yaml:"issue_type"`
}

// Enabled reports whether ticket notifications are configured.
func (c TicketingConfig) Enabled() bool {
	return c.URL != ""
}

// LedgerConfig locates the local attempt ledger database.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// StorePath returns the ledger database path, defaulting next to the
// working directory.
func (c LedgerConfig) StorePath() string {
	if c.Path == "" {
		return ".depbump.db"
	}
	return c.Path
}

// ScanConfig tunes the repository scan.
type ScanConfig struct {
	Concurrency int  `yaml:"concurrency"`
	Changelog   bool `yaml:"changelog"` // Also record bumps in CHANGELOG.md
}

// Limit returns the scan worker limit, defaulting when unset.
func (c ScanConfig) Limit() int {
	if c.Concurrency <= 0 {
		return defaultScanConcurrency
	}
	return c.Concurrency
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	// Resolve tokens (env vars and file paths)
	for i := range settings.Providers {
		settings.Providers[i].Token = resolveToken(settings.Providers[i].Token)
	}
	settings.Ticketing.Token = resolveToken(settings.Ticketing.Token)

	if validateErr := validate(&settings); validateErr != nil {
		return nil, validateErr
	}

	return &settings, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".depbump.yaml",
		".depbump.yml",
		"depbump.yaml",
		"depbump.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	// Expand ${ENV_VAR} references
	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	// If the resolved value is a path to an existing file, read the token from it
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(settings *Settings) error {
	if len(settings.Providers) == 0 {
		return errors.New("at least one provider must be configured")
	}

	for i, p := range settings.Providers {
		if p.Type == "" {
			return fmt.Errorf("providers[%d].type is required", i)
		}
		if p.Token == "" {
			return fmt.Errorf(
				"providers[%d].token is required (set inline, via ${ENV_VAR}, or as file path)",
				i,
			)
		}
		if len(p.Organizations) == 0 {
			return fmt.Errorf(
				"providers[%d].organizations must have at least one entry",
				i,
			)
		}
	}

	if settings.Ticketing.Enabled() {
		if settings.Ticketing.ProjectKey == "" {
			return errors.New("ticketing.project_key is required when ticketing.url is set")
		}
		if settings.Ticketing.Token == "" {
			return errors.New("ticketing.token is required when ticketing.url is set")
		}
	}

	return nil
}
