package auth

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when no API key matches a lookup.
var ErrKeyNotFound = errors.New("api key not found")

// APIKey is a long-lived credential record. Key holds a one-way hash of the
// issued secret; the plaintext is shown once at issue time and never stored.
// At most one live key exists per owner: reissue replaces.
type APIKey struct {
	ID        string
	Owner     string
	Key       string
	CreatedAt time.Time
	LastUsed  *time.Time
}

// KeyRepository is the storage port for API key records.
type KeyRepository interface {
	// GetByHash fetches a key record by the exact hash of its secret, or
	// ErrKeyNotFound.
	GetByHash(ctx context.Context, hash string) (*APIKey, error)

	// Upsert stores the key, replacing any existing key held by the same
	// owner.
	Upsert(ctx context.Context, key *APIKey) error

	// StampLastUsed records that the key was consulted.
	StampLastUsed(ctx context.Context, id string, at time.Time) error
}
