package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/nexus/internal/nexus"
)

const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of nexus.Repository.
//
// The expiry union is flattened into nullable columns: expiry_value_seconds/
// expiry_value_nanos for the dynamic duration, expiry_start/expiry_end for
// the static window. Only the columns of the variant named by expiry_type are
// non-null.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed nexus store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, n *nexus.Nexus) error {
	query := `
		INSERT INTO nexuses (
			code, owner, destination, status, expiry_type,
			expiry_value_seconds, expiry_value_nanos, expiry_start, expiry_end,
			password_hash, created_at, updated_at, last_visited
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO NOTHING
	`

	args := recordArgs(n)

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nexus.ErrCodeTaken
	}

	return nil
}

func (p *PostgresStore) GetByCode(ctx context.Context, code string) (*nexus.Nexus, error) {
	query := `
		SELECT code, owner, destination, status, expiry_type,
		       expiry_value_seconds, expiry_value_nanos, expiry_start, expiry_end,
		       password_hash, created_at, updated_at, last_visited
		FROM nexuses
		WHERE code = $1
	`

	row := p.pool.QueryRow(ctx, query, code)

	n, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nexus.ErrNotFound
		}

		return nil, err
	}

	return n, nil
}

func (p *PostgresStore) Save(ctx context.Context, code string, n *nexus.Nexus) error {
	query := `
		UPDATE nexuses
		SET code = $1, owner = $2, destination = $3, status = $4,
		    expiry_type = $5, expiry_value_seconds = $6, expiry_value_nanos = $7,
		    expiry_start = $8, expiry_end = $9, password_hash = $10,
		    created_at = $11, updated_at = $12, last_visited = $13
		WHERE code = $14
	`

	args := append(recordArgs(n), code)

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nexus.ErrCodeTaken
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return nexus.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) SetStatusIf(ctx context.Context, code string, from, to nexus.Status) error {
	// The status predicate makes this a conditional write: a concurrent
	// transition away from the expected state leaves the row untouched,
	// which is not an error.
	query := `UPDATE nexuses SET status = $1 WHERE code = $2 AND status = $3`

	_, err := p.pool.Exec(ctx, query, string(to), code, string(from))

	return err
}

func (p *PostgresStore) SetLastVisited(ctx context.Context, code string, at time.Time) error {
	query := `UPDATE nexuses SET last_visited = $1 WHERE code = $2`

	tag, err := p.pool.Exec(ctx, query, at, code)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nexus.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, code string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM nexuses WHERE code = $1`, code)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return nexus.ErrNotFound
	}

	return nil
}

func recordArgs(n *nexus.Nexus) []any {
	var valueSeconds *int64

	var valueNanos *int32

	if n.Expiry.Value != nil {
		valueSeconds = &n.Expiry.Value.Seconds
		valueNanos = &n.Expiry.Value.Nanoseconds
	}

	return []any{
		n.Shortened,
		n.Owner,
		n.Destination,
		string(n.Status),
		string(n.Expiry.Type),
		valueSeconds,
		valueNanos,
		instantArg(n.Expiry.Start),
		instantArg(n.Expiry.End),
		n.Password,
		n.CreatedAt,
		n.UpdatedAt,
		n.LastVisited,
	}
}

func instantArg(t *nexus.Timestamp) *time.Time {
	if t == nil {
		return nil
	}

	at := t.Time()

	return &at
}

func scanRecord(row pgx.Row) (*nexus.Nexus, error) {
	var (
		n            nexus.Nexus
		status       string
		expiryType   string
		valueSeconds *int64
		valueNanos   *int32
		start, end   *time.Time
	)

	err := row.Scan(
		&n.Shortened,
		&n.Owner,
		&n.Destination,
		&status,
		&expiryType,
		&valueSeconds,
		&valueNanos,
		&start,
		&end,
		&n.Password,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.LastVisited,
	)
	if err != nil {
		return nil, err
	}

	n.Status = nexus.Status(status)
	n.Expiry = scanExpiry(nexus.ExpiryType(expiryType), valueSeconds, valueNanos, start, end)

	return &n, nil
}

func scanExpiry(t nexus.ExpiryType, valueSeconds *int64, valueNanos *int32, start, end *time.Time) nexus.Expiry {
	switch t {
	case nexus.ExpiryDynamic:
		value := nexus.Timestamp{}
		if valueSeconds != nil {
			value.Seconds = *valueSeconds
		}

		if valueNanos != nil {
			value.Nanoseconds = *valueNanos
		}

		return nexus.DynamicExpiry(value)

	case nexus.ExpiryStatic:
		var s, e nexus.Timestamp
		if start != nil {
			s = nexus.TimestampOf(*start)
		}

		if end != nil {
			e = nexus.TimestampOf(*end)
		}

		return nexus.StaticExpiry(s, e)

	default:
		return nexus.EndlessExpiry()
	}
}

// Compile-time check.
var _ nexus.Repository = (*PostgresStore)(nil)
