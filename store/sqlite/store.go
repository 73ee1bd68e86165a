// Package sqlite provides a SQLite store implementation backed by Grove ORM.
package sqlite

import (
	"context"
	"fmt"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/tokenledger/book"
	ledgerstore "github.com/xraph/tokenledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM. SaveState
// rewrites the account and allowance tables and upserts the meta rows; the
// meta table is never cleared, so an interrupted save can not make a
// populated store look uninitialized.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("tokenledger/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("tokenledger/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== State Store ====================

// LoadState rebuilds the ledger state from the persisted tables.
func (s *Store) LoadState(ctx context.Context) (*book.State, error) {
	var metaRows []metaModel
	if err := s.sdb.NewSelect(&metaRows).Scan(ctx); err != nil {
		return nil, err
	}
	meta := make(map[string]string, len(metaRows))
	for _, row := range metaRows {
		meta[row.Key] = row.Value
	}
	if _, ok := meta[metaTotalSupply]; !ok {
		return nil, ledgerstore.ErrStateNotFound
	}

	var accounts []accountModel
	if err := s.sdb.NewSelect(&accounts).Scan(ctx); err != nil {
		return nil, err
	}

	var allowances []allowanceModel
	if err := s.sdb.NewSelect(&allowances).Scan(ctx); err != nil {
		return nil, err
	}

	return fromModels(accounts, allowances, meta)
}

// SaveState replaces the persisted snapshot.
func (s *Store) SaveState(ctx context.Context, state *book.State) error {
	accounts, allowances, meta := toModels(state)

	if _, err := s.sdb.NewDelete((*accountModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(accounts) > 0 {
		if _, err := s.sdb.NewInsert(&accounts).Exec(ctx); err != nil {
			return err
		}
	}

	if _, err := s.sdb.NewDelete((*allowanceModel)(nil)).Where("1 = 1").Exec(ctx); err != nil {
		return err
	}
	if len(allowances) > 0 {
		if _, err := s.sdb.NewInsert(&allowances).Exec(ctx); err != nil {
			return err
		}
	}

	// Meta rows are upserted, never deleted: the total_supply row is the
	// initialized marker, and it must survive a crash mid-save.
	if _, err := s.sdb.NewInsert(&meta).
		OnConflict("(key) DO UPDATE SET value = EXCLUDED.value").
		Exec(ctx); err != nil {
		return err
	}
	return nil
}
