package repositories

import (
	"context"

	"github.com/rios0rios0/depbump/internal/domain/entities"
)

// AttemptRepository is the ledger of published updates. It is the only
// duplicate guard in the update flow: existence is checked before any side
// effect, and the attempt is recorded right after the change request becomes
// visible. Two concurrent first-time executions for the same key can both
// pass the check; that race is accepted.
type AttemptRepository interface {
	// Exists reports whether an attempt was already recorded for the key.
	Exists(ctx context.Context, key entities.UpdateRequestKey) (bool, error)

	// ExistAny returns the subset of keys that already have an attempt.
	// Used to pre-filter scan candidates in one round trip.
	ExistAny(ctx context.Context, keys []entities.UpdateRequestKey) ([]entities.UpdateRequestKey, error)

	// Save records an attempt. It writes unconditionally; callers decide
	// when to check for duplicates.
	Save(ctx context.Context, attempt entities.UpdateAttempt) error
}

// AttemptLedgerFactory opens an attempt ledger for the configured store.
// The returned repository may also implement io.Closer.
type AttemptLedgerFactory func(cfg entities.LedgerConfig) (AttemptRepository, error)
