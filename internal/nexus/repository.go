package nexus

import (
	"context"
	"time"
)

// Repository is the storage port for nexus records. The conditional-write
// primitives (Create, SetStatusIf) close the read-then-write races that a
// plain get/put interface would leave open: duplicate-key rejection and the
// lazy expiry flip both ride on them.
type Repository interface {
	// Create stores a new record if no live record holds the same code,
	// returning ErrCodeTaken otherwise.
	Create(ctx context.Context, n *Nexus) error

	// GetByCode fetches a record by its short code, or ErrNotFound.
	GetByCode(ctx context.Context, code string) (*Nexus, error)

	// Save replaces the record stored under code, or returns ErrNotFound.
	// The replacement may carry a different short code (a rename); if the new
	// code is already held by another live record, Save returns ErrCodeTaken.
	Save(ctx context.Context, code string, n *Nexus) error

	// SetStatusIf transitions the record's status from one state to another
	// only if it still holds the expected state. A lost race is not an error.
	SetStatusIf(ctx context.Context, code string, from, to Status) error

	// SetLastVisited stamps the last successful resolution instant.
	SetLastVisited(ctx context.Context, code string, at time.Time) error

	// Delete removes a record, or returns ErrNotFound.
	Delete(ctx context.Context, code string) error
}
