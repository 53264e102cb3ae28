//go:build unit

package bolt_test

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/infrastructure/repositories/bolt"
)

func TestBoltAttemptRepository(t *testing.T) {
	t.Parallel()

	key := entities.UpdateRequestKey{
		ProjectID:      "acme/api",
		DependencyName: "flask",
		ToVersion:      "1.2.0",
	}
	attempt := entities.UpdateAttempt{
		ProjectID:        "acme/api",
		DependencyName:   "flask",
		ToVersion:        "1.2.0",
		ChangeRequestURL: "https://example.com/pr/1",
	}

	t.Run("should report a key only after its attempt was saved", func(t *testing.T) {
		t.Parallel()

		// given
		repo, err := bolt.NewAttemptRepository(entities.LedgerConfig{
			Path: filepath.Join(t.TempDir(), "ledger.db"),
		})
		require.NoError(t, err)
		defer func() { _ = repo.(io.Closer).Close() }()

		// when
		before, beforeErr := repo.Exists(context.Background(), key)
		saveErr := repo.Save(context.Background(), attempt)
		after, afterErr := repo.Exists(context.Background(), key)

		// then
		require.NoError(t, beforeErr)
		assert.False(t, before)
		require.NoError(t, saveErr)
		require.NoError(t, afterErr)
		assert.True(t, after)
	})

	t.Run("should return only the recorded subset of probed keys", func(t *testing.T) {
		t.Parallel()

		// given
		repo, err := bolt.NewAttemptRepository(entities.LedgerConfig{
			Path: filepath.Join(t.TempDir(), "ledger.db"),
		})
		require.NoError(t, err)
		defer func() { _ = repo.(io.Closer).Close() }()

		require.NoError(t, repo.Save(context.Background(), attempt))
		unknown := entities.UpdateRequestKey{
			ProjectID:      "acme/api",
			DependencyName: "requests",
			ToVersion:      "2.31.0",
		}

		// when
		existing, existErr := repo.ExistAny(
			context.Background(), []entities.UpdateRequestKey{key, unknown},
		)

		// then
		require.NoError(t, existErr)
		assert.Equal(t, []entities.UpdateRequestKey{key}, existing)
	})

	t.Run("should distinguish keys differing only in target version", func(t *testing.T) {
		t.Parallel()

		// given
		repo, err := bolt.NewAttemptRepository(entities.LedgerConfig{
			Path: filepath.Join(t.TempDir(), "ledger.db"),
		})
		require.NoError(t, err)
		defer func() { _ = repo.(io.Closer).Close() }()

		require.NoError(t, repo.Save(context.Background(), attempt))
		other := key
		other.ToVersion = "1.3.0"

		// when
		exists, existsErr := repo.Exists(context.Background(), other)

		// then
		require.NoError(t, existsErr)
		assert.False(t, exists)
	})

	t.Run("should overwrite an attempt saved under the same key", func(t *testing.T) {
		t.Parallel()

		// given
		repo, err := bolt.NewAttemptRepository(entities.LedgerConfig{
			Path: filepath.Join(t.TempDir(), "ledger.db"),
		})
		require.NoError(t, err)
		defer func() { _ = repo.(io.Closer).Close() }()

		require.NoError(t, repo.Save(context.Background(), attempt))
		replay := attempt
		replay.ChangeRequestURL = "https://example.com/pr/2"

		// when
		saveErr := repo.Save(context.Background(), replay)
		exists, existsErr := repo.Exists(context.Background(), key)

		// then
		require.NoError(t, saveErr)
		require.NoError(t, existsErr)
		assert.True(t, exists)
	})

	t.Run("should fail to open a ledger in a missing directory", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "missing", "ledger.db")

		// when
		repo, err := bolt.NewAttemptRepository(entities.LedgerConfig{Path: path})

		// then
		require.Error(t, err)
		assert.Nil(t, repo)
	})
}
