package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/nexus/internal/nexus"
)

// MemoryStore is an in-memory implementation of nexus.Repository, keyed by
// short code. Used in tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*nexus.Nexus
}

// NewMemoryStore creates an empty in-memory nexus store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*nexus.Nexus),
	}
}

func (m *MemoryStore) Create(_ context.Context, n *nexus.Nexus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.records[n.Shortened]; taken {
		return nexus.ErrCodeTaken
	}

	m.records[n.Shortened] = clone(n)

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code string) (*nexus.Nexus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.records[code]
	if !ok {
		return nil, nexus.ErrNotFound
	}

	return clone(n), nil
}

func (m *MemoryStore) Save(_ context.Context, code string, n *nexus.Nexus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[code]; !ok {
		return nexus.ErrNotFound
	}

	if n.Shortened != code {
		if _, taken := m.records[n.Shortened]; taken {
			return nexus.ErrCodeTaken
		}

		delete(m.records, code)
	}

	m.records[n.Shortened] = clone(n)

	return nil
}

func (m *MemoryStore) SetStatusIf(_ context.Context, code string, from, to nexus.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.records[code]
	if !ok {
		return nexus.ErrNotFound
	}

	// A lost race (status already moved on) is not an error.
	if n.Status == from {
		n.Status = to
	}

	return nil
}

func (m *MemoryStore) SetLastVisited(_ context.Context, code string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.records[code]
	if !ok {
		return nexus.ErrNotFound
	}

	n.LastVisited = &at

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[code]; !ok {
		return nexus.ErrNotFound
	}

	delete(m.records, code)

	return nil
}

func clone(n *nexus.Nexus) *nexus.Nexus {
	c := *n

	return &c
}

// Compile-time check.
var _ nexus.Repository = (*MemoryStore)(nil)
