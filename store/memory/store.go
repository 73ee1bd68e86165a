// Package memory provides an in-memory store implementation, suitable for
// tests and ephemeral ledgers.
package memory

import (
	"context"
	"sync"

	"github.com/xraph/tokenledger/book"
	"github.com/xraph/tokenledger/store"
)

// Store is an in-memory implementation of store.Store. The snapshot is
// deep-copied on both save and load so callers can never alias the stored
// state.
type Store struct {
	mu    sync.RWMutex
	state *book.State
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{}
}

// LoadState returns a copy of the persisted snapshot.
func (s *Store) LoadState(ctx context.Context) (*book.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state == nil {
		return nil, store.ErrStateNotFound
	}
	return s.state.Clone(), nil
}

// SaveState replaces the persisted snapshot.
func (s *Store) SaveState(ctx context.Context, state *book.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	return nil
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(ctx context.Context) error { return nil }

// Ping is a no-op for the in-memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close clears the snapshot.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = nil
	return nil
}

var _ store.Store = (*Store)(nil)
