package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/nexus/internal/nexus"
)

// RedisCacheStore wraps a nexus.Repository with Redis caching for reads.
// Mutations write through to the underlying store and invalidate the cached
// entry; conditional writes (the lazy status flip) only invalidate, since the
// outcome of the condition is not visible here.
type RedisCacheStore struct {
	store  nexus.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore creates a Redis-cached repository decorator.
func NewRedisCacheStore(store nexus.Repository, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "nexus:",
		ttl:    ttl,
	}
}

type cachedRecord struct {
	Owner       *string          `json:"owner,omitempty"`
	Destination string           `json:"destination"`
	Shortened   string           `json:"shortened"`
	Status      nexus.Status     `json:"status"`
	Expiry      nexus.Expiry     `json:"expiry"`
	Password    *string          `json:"password,omitempty"`
	CreatedAt   nexus.Timestamp  `json:"createdAt"`
	UpdatedAt   *nexus.Timestamp `json:"updatedAt,omitempty"`
	LastVisited *nexus.Timestamp `json:"lastVisited,omitempty"`
}

func (r *RedisCacheStore) Create(ctx context.Context, n *nexus.Nexus) error {
	if err := r.store.Create(ctx, n); err != nil {
		return err
	}

	r.cache(ctx, n)

	return nil
}

func (r *RedisCacheStore) GetByCode(ctx context.Context, code string) (*nexus.Nexus, error) {
	if n, err := r.getFromCache(ctx, code); err == nil {
		return n, nil
	}

	n, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, n)

	return n, nil
}

func (r *RedisCacheStore) Save(ctx context.Context, code string, n *nexus.Nexus) error {
	if err := r.store.Save(ctx, code, n); err != nil {
		return err
	}

	if n.Shortened != code {
		_ = r.client.Del(ctx, r.prefix+code).Err()
	}

	r.cache(ctx, n)

	return nil
}

func (r *RedisCacheStore) SetStatusIf(ctx context.Context, code string, from, to nexus.Status) error {
	if err := r.store.SetStatusIf(ctx, code, from, to); err != nil {
		return err
	}

	_ = r.client.Del(ctx, r.prefix+code).Err()

	return nil
}

func (r *RedisCacheStore) SetLastVisited(ctx context.Context, code string, at time.Time) error {
	if err := r.store.SetLastVisited(ctx, code, at); err != nil {
		return err
	}

	_ = r.client.Del(ctx, r.prefix+code).Err()

	return nil
}

func (r *RedisCacheStore) Delete(ctx context.Context, code string) error {
	if err := r.store.Delete(ctx, code); err != nil {
		return err
	}

	_ = r.client.Del(ctx, r.prefix+code).Err()

	return nil
}

func (r *RedisCacheStore) getFromCache(ctx context.Context, code string) (*nexus.Nexus, error) {
	raw, err := r.client.Get(ctx, r.prefix+code).Bytes()
	if err != nil {
		return nil, err
	}

	var c cachedRecord
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}

	n := &nexus.Nexus{
		Owner:       c.Owner,
		Destination: c.Destination,
		Shortened:   c.Shortened,
		Status:      c.Status,
		Expiry:      c.Expiry,
		Password:    c.Password,
		CreatedAt:   c.CreatedAt.Time(),
	}

	if c.UpdatedAt != nil {
		at := c.UpdatedAt.Time()
		n.UpdatedAt = &at
	}

	if c.LastVisited != nil {
		at := c.LastVisited.Time()
		n.LastVisited = &at
	}

	return n, nil
}

func (r *RedisCacheStore) cache(ctx context.Context, n *nexus.Nexus) {
	c := cachedRecord{
		Owner:       n.Owner,
		Destination: n.Destination,
		Shortened:   n.Shortened,
		Status:      n.Status,
		Expiry:      n.Expiry,
		Password:    n.Password,
		CreatedAt:   nexus.TimestampOf(n.CreatedAt),
	}

	if n.UpdatedAt != nil {
		at := nexus.TimestampOf(*n.UpdatedAt)
		c.UpdatedAt = &at
	}

	if n.LastVisited != nil {
		at := nexus.TimestampOf(*n.LastVisited)
		c.LastVisited = &at
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return
	}

	_ = r.client.Set(ctx, r.prefix+n.Shortened, raw, r.ttl).Err()
}

// Compile-time check.
var _ nexus.Repository = (*RedisCacheStore)(nil)
