//go:build unit

package osv_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depbump/internal/infrastructure/repositories/osv"
)

func TestOSVAdvisoryRepository_Vulnerabilities(t *testing.T) {
	t.Parallel()

	t.Run("should return the advisory identifiers for a pinned version", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/query", r.URL.Path)

			var query map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
			assert.Equal(t, "1.0.0", query["version"])
			assert.Equal(t,
				map[string]any{"name": "flask", "ecosystem": "PyPI"},
				query["package"])

			_, _ = w.Write([]byte(`{"vulns": [{"id": "GHSA-aaaa"}, {"id": "GHSA-bbbb"}]}`))
		}))
		defer server.Close()
		repo := osv.NewAdvisoryRepositoryWithBaseURL(server.URL)

		// when
		ids, err := repo.Vulnerabilities(context.Background(), "flask", "1.0.0")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"GHSA-aaaa", "GHSA-bbbb"}, ids)
	})

	t.Run("should return nothing for a clean package", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()
		repo := osv.NewAdvisoryRepositoryWithBaseURL(server.URL)

		// when
		ids, err := repo.Vulnerabilities(context.Background(), "flask", "1.0.0")

		// then
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("should skip the query entirely for an empty version", func(t *testing.T) {
		t.Parallel()

		// given
		requested := false
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			requested = true
		}))
		defer server.Close()
		repo := osv.NewAdvisoryRepositoryWithBaseURL(server.URL)

		// when
		ids, err := repo.Vulnerabilities(context.Background(), "flask", "")

		// then
		require.NoError(t, err)
		assert.Nil(t, ids)
		assert.False(t, requested)
	})

	t.Run("should fail on a non-200 status", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()
		repo := osv.NewAdvisoryRepositoryWithBaseURL(server.URL)

		// when
		ids, err := repo.Vulnerabilities(context.Background(), "flask", "1.0.0")

		// then
		require.Error(t, err)
		assert.Nil(t, ids)
		assert.Contains(t, err.Error(), "unexpected status code")
	})
}
