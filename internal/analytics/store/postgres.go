package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/nexus/internal/analytics"
)

// Postgres persists analytics events into append-only tables.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveNexusCreated(ctx context.Context, event *analytics.NexusCreatedEvent) error {
	query := `
		INSERT INTO nexus_created_events (code, owned, protected, expiry_type, created_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.Owned,
		event.Protected,
		event.ExpiryType,
		event.CreatedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *Postgres) SaveNexusVisited(ctx context.Context, event *analytics.NexusVisitedEvent) error {
	query := `
		INSERT INTO nexus_visited_events (code, visited_at, client_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.VisitedAt,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
	)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Postgres)(nil)
