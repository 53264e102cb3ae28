//go:build unit

package entities_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depbump/internal/domain/entities"
)

const exampleDescriptor = `[tool.poetry]
name = "demo"

[tool.poetry.dependencies]
python = "^3.11"
flask = "^1.2.0"
requests = { version = "2.31.0", extras = ["socks"] }

[tool.poetry.group.dev.dependencies]
pytest = "~7.4.0"
`

const exampleLock = `[[package]]
name = "flask"
version = "1.2.0"

[[package]]
name = "requests"
version = "2.31.0"

[package.files]
hash = "sha256:aaaa"
`

func TestUpdateLockPair(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite both documents preserving the caret operator", func(t *testing.T) {
		// given / when
		descriptor, lock, err := entities.UpdateLockPair(
			exampleDescriptor, exampleLock, "flask", "1.2.0", "1.3.0", "")

		// then
		require.NoError(t, err)
		assert.Contains(t, descriptor, `flask = "^1.3.0"`)
		assert.NotContains(t, descriptor, "1.2.0")
		assert.Contains(t, lock, `version = "1.3.0"`)
		assert.Contains(t, lock, `version = "2.31.0"`, "other packages stay untouched")
	})

	t.Run("should rewrite every lock block resolving the dependency", func(t *testing.T) {
		// given
		lock := `[[package]]
name = "flask"
version = "1.2.0"

[[package]]
name = "flask"
version = "1.2.0"
`

		// when
		_, updated, err := entities.UpdateLockPair(
			exampleDescriptor, lock, "flask", "1.2.0", "1.3.0", "")

		// then
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(updated, `version = "1.3.0"`))
	})

	t.Run("should replace the integrity value when one is supplied", func(t *testing.T) {
		// given
		lock := `[[package]]
name = "requests"
version = "2.31.0"
hash = "sha256:old"
`

		// when
		_, updated, err := entities.UpdateLockPair(
			exampleDescriptor, lock, "requests", "2.31.0", "2.32.0", "sha256:new")

		// then
		require.NoError(t, err)
		assert.Contains(t, updated, `hash = "sha256:new"`)
		assert.NotContains(t, updated, "sha256:old")
	})

	t.Run("should fail when the descriptor has no constraint for the dependency", func(t *testing.T) {
		// given / when
		_, _, err := entities.UpdateLockPair(
			exampleDescriptor, exampleLock, "django", "4.2.0", "5.0.0", "")

		// then
		require.ErrorIs(t, err, entities.ErrDependencyNotFound)
	})

	t.Run("should fail when the lock has no block for the dependency", func(t *testing.T) {
		// given
		lock := `[[package]]
name = "requests"
version = "2.31.0"
`

		// when
		_, _, err := entities.UpdateLockPair(
			exampleDescriptor, lock, "flask", "1.2.0", "1.3.0", "")

		// then
		require.ErrorIs(t, err, entities.ErrLockInconsistency)
	})

	t.Run("should fail when the lock resolves a different version", func(t *testing.T) {
		// given
		lock := `[[package]]
name = "flask"
version = "1.1.0"
`

		// when
		_, _, err := entities.UpdateLockPair(
			exampleDescriptor, lock, "flask", "1.2.0", "1.3.0", "")

		// then
		require.ErrorIs(t, err, entities.ErrLockInconsistency)
	})

	t.Run("should fail when descriptor and lock disagree on the pinned version", func(t *testing.T) {
		// given
		lock := `[[package]]
name = "flask"
version = "1.9.9"
`

		// when
		_, _, err := entities.UpdateLockPair(
			exampleDescriptor, lock, "flask", "1.9.9", "2.0.0", "")

		// then
		require.ErrorIs(t, err, entities.ErrLockInconsistency)
	})
}

func TestParseDescriptorPins(t *testing.T) {
	t.Parallel()

	t.Run("should collect pins from every dependency table except the interpreter", func(t *testing.T) {
		// given / when
		pins := entities.ParseDescriptorPins(exampleDescriptor)

		// then
		require.Len(t, pins, 3)
		byName := make(map[string]string, len(pins))
		for _, pin := range pins {
			byName[pin.Name] = pin.Specifier
		}
		assert.Equal(t, "^1.2.0", byName["flask"])
		assert.Equal(t, "2.31.0", byName["requests"])
		assert.Equal(t, "~7.4.0", byName["pytest"])
		assert.NotContains(t, byName, "python")
	})

	t.Run("should return nothing for an unparsable document", func(t *testing.T) {
		// given / when
		pins := entities.ParseDescriptorPins("not = toml [")

		// then
		assert.Empty(t, pins)
	})
}
