package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rios0rios0/depbump/internal/domain/entities"
	"github.com/rios0rios0/depbump/internal/domain/repositories"
)

const openTimeout = 5 * time.Second

var attemptsBucket = []byte("attempts")

// BoltAttemptRepository implements repositories.AttemptRepository on a local
// bbolt database. Keys are the request key fields joined with a NUL byte;
// values are the JSON-encoded attempts.
type BoltAttemptRepository struct {
	db *bolt.DB
}

// NewAttemptRepository opens (or creates) the ledger database at the
// configured path. The returned repository must be closed after use.
func NewAttemptRepository(cfg entities.LedgerConfig) (repositories.AttemptRepository, error) {
	db, err := bolt.Open(cfg.StorePath(), 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %q: %w", cfg.StorePath(), err)
	}

	updateErr := db.Update(func(tx *bolt.Tx) error {
		_, bucketErr := tx.CreateBucketIfNotExists(attemptsBucket)
		return bucketErr
	})
	if updateErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize ledger: %w", updateErr)
	}

	return &BoltAttemptRepository{db: db}, nil
}

// Exists reports whether an attempt was already recorded for the key.
func (r *BoltAttemptRepository) Exists(
	_ context.Context,
	key entities.UpdateRequestKey,
) (bool, error) {
	var found bool
	err := r.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(attemptsBucket).Get(ledgerKey(key)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read ledger: %w", err)
	}
	return found, nil
}

// ExistAny returns the subset of keys that already have an attempt.
func (r *BoltAttemptRepository) ExistAny(
	_ context.Context,
	keys []entities.UpdateRequestKey,
) ([]entities.UpdateRequestKey, error) {
	var existing []entities.UpdateRequestKey
	err := r.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(attemptsBucket)
		for _, key := range keys {
			if bucket.Get(ledgerKey(key)) != nil {
				existing = append(existing, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return existing, nil
}

// Save records an attempt, overwriting any previous record under the same key.
func (r *BoltAttemptRepository) Save(
	_ context.Context,
	attempt entities.UpdateAttempt,
) error {
	value, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to encode attempt: %w", err)
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(attemptsBucket).Put(ledgerKey(attempt.Key()), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// Close releases the underlying database file.
func (r *BoltAttemptRepository) Close() error {
	return r.db.Close()
}

// ledgerKey serializes a request key. NUL never appears in project paths,
// dependency names, or versions, so the encoding is unambiguous.
func ledgerKey(key entities.UpdateRequestKey) []byte {
	return []byte(key.ProjectID + "\x00" + key.DependencyName + "\x00" + key.ToVersion)
}
