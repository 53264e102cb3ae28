//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depbump/internal/domain/entities"
)

func TestInsertChangelogEntry(t *testing.T) {
	t.Parallel()

	t.Run("should append after the last bullet of an existing Changed subsection", func(t *testing.T) {
		// given
		content := `# Changelog

## [Unreleased]

### Changed

- changed ` + "`requests`" + ` from ` + "`2.30.0`" + ` to ` + "`2.31.0`" + `

## [1.0.0] - 2024-01-01

### Added

- initial release
`

		// when
		updated := entities.InsertChangelogEntry(content, "- changed `flask` from `1.0.0` to `1.2.0`")

		// then
		expected := `# Changelog

## [Unreleased]

### Changed

- changed ` + "`requests`" + ` from ` + "`2.30.0`" + ` to ` + "`2.31.0`" + `
- changed ` + "`flask`" + ` from ` + "`1.0.0`" + ` to ` + "`1.2.0`" + `

## [1.0.0] - 2024-01-01

### Added

- initial release
`
		assert.Equal(t, expected, updated)
	})

	t.Run("should create the Changed subsection when it is missing", func(t *testing.T) {
		// given
		content := `# Changelog

## [Unreleased]

## [1.0.0] - 2024-01-01
`

		// when
		updated := entities.InsertChangelogEntry(content, "- changed `flask` from `1.0.0` to `1.2.0`")

		// then
		expected := `# Changelog

## [Unreleased]

### Changed

- changed ` + "`flask`" + ` from ` + "`1.0.0`" + ` to ` + "`1.2.0`" + `

## [1.0.0] - 2024-01-01
`
		assert.Equal(t, expected, updated)
	})

	t.Run("should not touch a Changed subsection belonging to a released version", func(t *testing.T) {
		// given
		content := `# Changelog

## [Unreleased]

## [1.0.0] - 2024-01-01

### Changed

- old change
`

		// when
		updated := entities.InsertChangelogEntry(content, "- new change")

		// then
		assert.Contains(t, updated, "## [Unreleased]\n\n### Changed\n\n- new change")
		assert.Contains(t, updated, "## [1.0.0] - 2024-01-01\n\n### Changed\n\n- old change")
	})

	t.Run("should leave the content alone when there is no Unreleased section", func(t *testing.T) {
		// given
		content := "# Changelog\n\n## [1.0.0] - 2024-01-01\n"

		// when
		updated := entities.InsertChangelogEntry(content, "- new change")

		// then
		assert.Equal(t, content, updated)
	})

	t.Run("should leave the content alone for an empty entry", func(t *testing.T) {
		// given
		content := "# Changelog\n\n## [Unreleased]\n"

		// when / then
		assert.Equal(t, content, entities.InsertChangelogEntry(content, ""))
	})
}
