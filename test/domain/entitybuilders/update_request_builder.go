//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/depbump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// UpdateRequestBuilder helps create test update requests with a fluent interface.
type UpdateRequestBuilder struct {
	*testkit.BaseBuilder
	repository     entities.Repository
	filePath       string
	dependencyName string
	fromVersion    string
	toVersion      string
}

// NewUpdateRequestBuilder creates a new request builder with sensible defaults.
func NewUpdateRequestBuilder() *UpdateRequestBuilder {
	return &UpdateRequestBuilder{
		BaseBuilder:    testkit.NewBaseBuilder(),
		repository:     defaultRepository(),
		filePath:       "requirements.txt",
		dependencyName: "flask",
		fromVersion:    "1.0.0",
		toVersion:      "1.2.0",
	}
}

func defaultRepository() entities.Repository {
	return entities.Repository{
		ID:            "42",
		Name:          "api",
		Organization:  "acme",
		DefaultBranch: "refs/heads/main",
		ProviderName:  "github",
	}
}

// WithRepository sets the target repository.
func (b *UpdateRequestBuilder) WithRepository(repo entities.Repository) *UpdateRequestBuilder {
	b.repository = repo
	return b
}

// WithFilePath sets the manifest path.
func (b *UpdateRequestBuilder) WithFilePath(path string) *UpdateRequestBuilder {
	b.filePath = path
	return b
}

// WithDependencyName sets the dependency name.
func (b *UpdateRequestBuilder) WithDependencyName(name string) *UpdateRequestBuilder {
	b.dependencyName = name
	return b
}

// WithFromVersion sets the version being replaced.
func (b *UpdateRequestBuilder) WithFromVersion(version string) *UpdateRequestBuilder {
	b.fromVersion = version
	return b
}

// WithToVersion sets the target version.
func (b *UpdateRequestBuilder) WithToVersion(version string) *UpdateRequestBuilder {
	b.toVersion = version
	return b
}

// Build creates the request (satisfies testkit.Builder interface).
func (b *UpdateRequestBuilder) Build() interface{} {
	return b.BuildRequest()
}

// BuildRequest creates the request with a concrete return type.
func (b *UpdateRequestBuilder) BuildRequest() entities.UpdateRequest {
	return entities.UpdateRequest{
		Repository:     b.repository,
		FilePath:       b.filePath,
		DependencyName: b.dependencyName,
		FromVersion:    b.fromVersion,
		ToVersion:      b.toVersion,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *UpdateRequestBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.repository = defaultRepository()
	b.filePath = "requirements.txt"
	b.dependencyName = "flask"
	b.fromVersion = "1.0.0"
	b.toVersion = "1.2.0"
	return b
}

// Clone creates a deep copy of the UpdateRequestBuilder.
func (b *UpdateRequestBuilder) Clone() testkit.Builder {
	return &UpdateRequestBuilder{
		BaseBuilder:    b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		repository:     b.repository,
		filePath:       b.filePath,
		dependencyName: b.dependencyName,
		fromVersion:    b.fromVersion,
		toVersion:      b.toVersion,
	}
}
