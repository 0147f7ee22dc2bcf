package store

import (
	"context"
	"sync"

	"github.com/subletter/subletter/internal/model"
)

// Memory is an in-process store backed by a map. Suitable for
// development and tests; records do not survive a restart.
type Memory struct {
	mu   sync.RWMutex
	subs map[string]model.Subscriber
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		subs: make(map[string]model.Subscriber),
	}
}

// Lookup returns the record for email, if present.
func (m *Memory) Lookup(ctx context.Context, email string) (model.Subscriber, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[email]
	if !ok {
		return model.Subscriber{}, false, nil
	}
	return sub.Clone(), true, nil
}

// Insert creates a record for email. The existence check and the write
// happen under one write lock, so the conditional insert is atomic.
func (m *Memory) Insert(ctx context.Context, email string, metadata map[string]string) (model.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[email]; ok {
		return model.Subscriber{}, ErrExists
	}

	sub := newSubscriber(email, metadata)
	m.subs[email] = sub
	return sub.Clone(), nil
}

// Ping always succeeds; the memory backend has no remote dependency.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// Len reports the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}
