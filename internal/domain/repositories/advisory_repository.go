package repositories

import "context"

// AdvisoryRepository abstracts the vulnerability database a scan consults
// for known advisories against a pinned version.
type AdvisoryRepository interface {
	// Vulnerabilities returns the advisory IDs affecting the given version
	// of a package. An empty version yields no advisories.
	Vulnerabilities(ctx context.Context, name, version string) ([]string, error)
}
