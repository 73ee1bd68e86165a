// Package store defines the persistence interface for TokenLedger state.
// Implementations live in the memory, sqlite, postgres, and mongo
// subpackages.
package store

import (
	"context"
	"errors"

	"github.com/xraph/tokenledger/book"
)

// ErrStateNotFound is returned by LoadState when no ledger state has been
// persisted yet. The ledger treats it as the signal to run genesis.
var ErrStateNotFound = errors.New("tokenledger: state not found")

// Store persists the ledger's root state object. Every write replaces the
// full snapshot atomically; there are no partial state writes.
type Store interface {
	// LoadState retrieves the persisted ledger state, or ErrStateNotFound
	// when nothing has been saved yet.
	LoadState(ctx context.Context) (*book.State, error)

	// SaveState atomically replaces the persisted snapshot.
	SaveState(ctx context.Context, state *book.State) error

	// Migrate runs any schema migrations needed by the backend.
	Migrate(ctx context.Context) error

	// Ping checks connectivity to the backend.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
