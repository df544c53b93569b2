package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/nexus/internal/auth"
)

// APIKeyMemoryStore is an in-memory implementation of auth.KeyRepository.
type APIKeyMemoryStore struct {
	mu   sync.RWMutex
	keys map[string]*auth.APIKey // id -> key
}

// NewAPIKeyMemoryStore creates an empty in-memory API key store.
func NewAPIKeyMemoryStore() *APIKeyMemoryStore {
	return &APIKeyMemoryStore{
		keys: make(map[string]*auth.APIKey),
	}
}

func (m *APIKeyMemoryStore) GetByHash(_ context.Context, hash string) (*auth.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, k := range m.keys {
		if k.Key == hash {
			c := *k

			return &c, nil
		}
	}

	return nil, auth.ErrKeyNotFound
}

func (m *APIKeyMemoryStore) Upsert(_ context.Context, key *auth.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// One live key per owner: reissue replaces.
	for id, k := range m.keys {
		if k.Owner == key.Owner {
			delete(m.keys, id)
		}
	}

	c := *key
	m.keys[key.ID] = &c

	return nil
}

func (m *APIKeyMemoryStore) StampLastUsed(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k, ok := m.keys[id]
	if !ok {
		return auth.ErrKeyNotFound
	}

	k.LastUsed = &at

	return nil
}

// Compile-time check.
var _ auth.KeyRepository = (*APIKeyMemoryStore)(nil)
