package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/nexus/internal/auth"
)

// APIKeyPostgresStore is a PostgreSQL implementation of auth.KeyRepository.
type APIKeyPostgresStore struct {
	pool *pgxpool.Pool
}

// NewAPIKeyPostgresStore creates a PostgreSQL-backed API key store.
func NewAPIKeyPostgresStore(pool *pgxpool.Pool) *APIKeyPostgresStore {
	return &APIKeyPostgresStore{pool: pool}
}

func (p *APIKeyPostgresStore) GetByHash(ctx context.Context, hash string) (*auth.APIKey, error) {
	query := `
		SELECT id, owner, key_hash, created_at, last_used
		FROM api_keys
		WHERE key_hash = $1
	`

	var key auth.APIKey

	err := p.pool.QueryRow(ctx, query, hash).Scan(
		&key.ID,
		&key.Owner,
		&key.Key,
		&key.CreatedAt,
		&key.LastUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrKeyNotFound
		}

		return nil, err
	}

	return &key, nil
}

func (p *APIKeyPostgresStore) Upsert(ctx context.Context, key *auth.APIKey) error {
	// One live key per owner: the owner unique constraint turns a reissue
	// into a replace.
	query := `
		INSERT INTO api_keys (id, owner, key_hash, created_at, last_used)
		VALUES ($1, $2, $3, $4, NULL)
		ON CONFLICT (owner) DO UPDATE
		SET id = EXCLUDED.id, key_hash = EXCLUDED.key_hash,
		    created_at = EXCLUDED.created_at, last_used = NULL
	`

	_, err := p.pool.Exec(ctx, query, key.ID, key.Owner, key.Key, key.CreatedAt)

	return err
}

func (p *APIKeyPostgresStore) StampLastUsed(ctx context.Context, id string, at time.Time) error {
	tag, err := p.pool.Exec(ctx, `UPDATE api_keys SET last_used = $1 WHERE id = $2`, at, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return auth.ErrKeyNotFound
	}

	return nil
}

// Compile-time check.
var _ auth.KeyRepository = (*APIKeyPostgresStore)(nil)
