//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

// SpyAttemptRepository implements repositories.AttemptRepository as a configurable spy.
type SpyAttemptRepository struct {
	// --- Exists ---
	ExistsResult bool
	ExistsErr    error
	ExistsCalls  []entities.UpdateRequestKey

	// --- ExistAny ---
	ExistAnyResult []entities.UpdateRequestKey
	ExistAnyErr    error
	ExistAnyCalls  [][]entities.UpdateRequestKey

	// --- Save ---
	SaveErr       error
	SavedAttempts []entities.UpdateAttempt
}

var _ repositories.AttemptRepository = (*SpyAttemptRepository)(nil)

func (s *SpyAttemptRepository) Exists(
	_ context.Context, key entities.UpdateRequestKey,
) (bool, error) {
	s.ExistsCalls = append(s.ExistsCalls, key)
	return s.ExistsResult, s.ExistsErr
}

func (s *SpyAttemptRepository) ExistAny(
	_ context.Context, keys []entities.UpdateRequestKey,
) ([]entities.UpdateRequestKey, error) {
	s.ExistAnyCalls = append(s.ExistAnyCalls, keys)
	return s.ExistAnyResult, s.ExistAnyErr
}

func (s *SpyAttemptRepository) Save(
	_ context.Context, attempt entities.UpdateAttempt,
) error {
	s.SavedAttempts = append(s.SavedAttempts, attempt)
	return s.SaveErr
}
