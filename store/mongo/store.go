// Package mongo provides a MongoDB store implementation backed by Grove ORM.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/tokenledger/book"
	ledgerstore "github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/types"
)

// stateDocID keys the single snapshot document.
const stateDocID = "state"

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM. The whole
// snapshot lives in one document, so every save is a single atomic upsert.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate is a no-op: the snapshot is a single document keyed by a constant
// id, so no secondary indexes are needed.
func (s *Store) Migrate(ctx context.Context) error {
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

// stateModel is the snapshot document. Amounts are stored as base-10 text
// so the full unsigned range, including the unlimited sentinel, survives
// the round trip.
type stateModel struct {
	grove.BaseModel `grove:"collection:tokenledger_state"`

	ID          string                       `bson:"_id"`
	Owner       string                       `bson:"owner"`
	TotalSupply string                       `bson:"total_supply"`
	Balances    map[string]string            `bson:"balances"`
	Allowances  map[string]map[string]string `bson:"allowances"`
	CreatedAt   time.Time                    `bson:"created_at"`
	UpdatedAt   time.Time                    `bson:"updated_at"`
}

func toStateModel(state *book.State) *stateModel {
	balances := make(map[string]string, len(state.Balances))
	for addr, balance := range state.Balances {
		balances[addr] = balance.Base10()
	}

	allowances := make(map[string]map[string]string, len(state.Allowances))
	for owner, spenders := range state.Allowances {
		inner := make(map[string]string, len(spenders))
		for spender, amount := range spenders {
			inner[spender] = amount.Base10()
		}
		allowances[owner] = inner
	}

	return &stateModel{
		ID:          stateDocID,
		Owner:       state.Owner,
		TotalSupply: state.TotalSupply.Base10(),
		Balances:    balances,
		Allowances:  allowances,
		CreatedAt:   state.CreatedAt,
		UpdatedAt:   state.UpdatedAt,
	}
}

func fromStateModel(m *stateModel) (*book.State, error) {
	state := book.NewState()
	state.Owner = m.Owner
	state.CreatedAt = m.CreatedAt
	state.UpdatedAt = m.UpdatedAt

	supply, err := types.ParseAmount(m.TotalSupply)
	if err != nil {
		return nil, fmt.Errorf("tokenledger/mongo: parse total supply: %w", err)
	}
	state.TotalSupply = supply

	for addr, raw := range m.Balances {
		balance, err := types.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("tokenledger/mongo: parse balance for %s: %w", addr, err)
		}
		state.Balances[addr] = balance
	}

	for owner, spenders := range m.Allowances {
		inner := make(map[string]types.Amount, len(spenders))
		for spender, raw := range spenders {
			amount, err := types.ParseAmount(raw)
			if err != nil {
				return nil, fmt.Errorf("tokenledger/mongo: parse allowance for %s/%s: %w", owner, spender, err)
			}
			inner[spender] = amount
		}
		state.Allowances[owner] = inner
	}

	return state, nil
}

// LoadState retrieves the snapshot document.
func (s *Store) LoadState(ctx context.Context) (*book.State, error) {
	var m stateModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": stateDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, ledgerstore.ErrStateNotFound
		}
		return nil, fmt.Errorf("tokenledger/mongo: load state: %w", err)
	}
	return fromStateModel(&m)
}

// SaveState upserts the snapshot document.
func (s *Store) SaveState(ctx context.Context, state *book.State) error {
	m := toStateModel(state)

	_, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": stateDocID}).
		SetUpdate(bson.M{"$set": bson.M{
			"_id":          m.ID,
			"owner":        m.Owner,
			"total_supply": m.TotalSupply,
			"balances":     m.Balances,
			"allowances":   m.Allowances,
			"created_at":   m.CreatedAt,
			"updated_at":   m.UpdatedAt,
		}}).
		Upsert().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tokenledger/mongo: save state: %w", err)
	}
	return nil
}

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
