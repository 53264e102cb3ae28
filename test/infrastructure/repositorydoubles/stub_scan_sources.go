//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

// SpyPackageIndexRepository implements repositories.PackageIndexRepository
// as a configurable spy.
type SpyPackageIndexRepository struct {
	LatestVersions map[string]string
	LookupErr      error
	LookedUp       []string
}

var _ repositories.PackageIndexRepository = (*SpyPackageIndexRepository)(nil)

func (s *SpyPackageIndexRepository) LatestVersion(
	_ context.Context, name string,
) (string, error) {
	s.LookedUp = append(s.LookedUp, name)
	if s.LookupErr != nil {
		return "", s.LookupErr
	}
	if version, ok := s.LatestVersions[name]; ok {
		return version, nil
	}
	return "", fmt.Errorf("package not indexed: %s", name)
}

// SpyAdvisoryRepository implements repositories.AdvisoryRepository as a
// configurable spy.
type SpyAdvisoryRepository struct {
	Advisories map[string][]string // keyed by package name
	LookupErr  error
	LookedUp   []string
}

var _ repositories.AdvisoryRepository = (*SpyAdvisoryRepository)(nil)

func (s *SpyAdvisoryRepository) Vulnerabilities(
	_ context.Context, name, _ string,
) ([]string, error) {
	s.LookedUp = append(s.LookedUp, name)
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	return s.Advisories[name], nil
}
