//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depbump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// CandidateBuilder helps create test dependency candidates with a fluent interface.
type CandidateBuilder struct {
	*testkit.BaseBuilder
	name            string
	currentVersion  string
	latestVersion   string
	vulnerabilities []string
}

// NewCandidateBuilder creates a new candidate builder with sensible defaults.
func NewCandidateBuilder() *CandidateBuilder {
	return &CandidateBuilder{
		BaseBuilder:    testkit.NewBaseBuilder(),
		name:           "flask",
		currentVersion: "1.0.0",
		latestVersion:  "2.0.0",
	}
}

// WithName sets the dependency name.
func (b *CandidateBuilder) WithName(name string) *CandidateBuilder {
	b.name = name
	return b
}

// WithCurrentVersion sets the current version expression.
func (b *CandidateBuilder) WithCurrentVersion(version string) *CandidateBuilder {
	b.currentVersion = version
	return b
}

// WithLatestVersion sets the latest version.
func (b *CandidateBuilder) WithLatestVersion(version string) *CandidateBuilder {
	b.latestVersion = version
	return b
}

// WithVulnerabilities sets the advisory IDs.
func (b *CandidateBuilder) WithVulnerabilities(ids ...string) *CandidateBuilder {
	b.vulnerabilities = ids
	return b
}

// Build creates the candidate (satisfies testkit.Builder interface).
func (b *CandidateBuilder) Build() interface{} {
	return b.BuildCandidate()
}

// BuildCandidate creates the candidate with a concrete return type.
func (b *CandidateBuilder) BuildCandidate() entities.DependencyCandidate {
	return entities.DependencyCandidate{
		Name:            b.name,
		CurrentVersion:  b.currentVersion,
		LatestVersion:   b.latestVersion,
		Vulnerabilities: b.vulnerabilities,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *CandidateBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "flask"
	b.currentVersion = "1.0.0"
	b.latestVersion = "2.0.0"
	b.vulnerabilities = nil
	return b
}

// Clone creates a deep copy of the CandidateBuilder.
func (b *CandidateBuilder) Clone() testkit.Builder {
	vulnerabilities := make([]string, len(b.vulnerabilities))
	copy(vulnerabilities, b.vulnerabilities)
	return &CandidateBuilder{
		BaseBuilder:     b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:            b.name,
		currentVersion:  b.currentVersion,
		latestVersion:   b.latestVersion,
		vulnerabilities: vulnerabilities,
	}
}
