package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/tokenledger/book"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/types"
)

func TestLoadStateEmpty(t *testing.T) {
	s := New()

	_, err := s.LoadState(context.Background())
	if !errors.Is(err, store.ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice, bob := id.NewAccountID(), id.NewAccountID()
	state := book.NewState()
	state.Owner = alice.String()
	state.TotalSupply = types.Tokens(100)
	state.Balances[alice.String()] = types.Tokens(60)
	state.Balances[bob.String()] = types.Tokens(40)
	state.Allowances[alice.String()] = map[string]types.Amount{
		bob.String(): types.Unlimited,
	}

	if err := s.SaveState(ctx, state); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Owner != state.Owner {
		t.Errorf("owner: got %q, want %q", loaded.Owner, state.Owner)
	}
	if loaded.TotalSupply != state.TotalSupply {
		t.Errorf("supply: got %s, want %s", loaded.TotalSupply, state.TotalSupply)
	}
	if got := loaded.Balances[bob.String()]; got != types.Tokens(40) {
		t.Errorf("bob: got %s", got)
	}
	if got := loaded.Allowances[alice.String()][bob.String()]; !got.IsUnlimited() {
		t.Errorf("allowance: got %s, want unlimited", got)
	}
}

func TestSaveLoadDoNotAlias(t *testing.T) {
	s := New()
	ctx := context.Background()

	alice := id.NewAccountID()
	state := book.NewState()
	state.Owner = alice.String()
	state.TotalSupply = types.Tokens(10)
	state.Balances[alice.String()] = types.Tokens(10)

	if err := s.SaveState(ctx, state); err != nil {
		t.Fatal(err)
	}

	// Mutating the saved state must not leak into the store.
	state.Balances[alice.String()] = types.Tokens(999)

	loaded, err := s.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Balances[alice.String()]; got != types.Tokens(10) {
		t.Errorf("store aliased caller state: got %s", got)
	}

	// And mutating a loaded copy must not change the store either.
	loaded.Balances[alice.String()] = types.Tokens(777)
	again, err := s.LoadState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := again.Balances[alice.String()]; got != types.Tokens(10) {
		t.Errorf("store aliased loaded state: got %s", got)
	}
}

func TestClose(t *testing.T) {
	s := New()
	ctx := context.Background()

	state := book.NewState()
	state.Owner = id.NewAccountID().String()
	if err := s.SaveState(ctx, state); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadState(ctx); !errors.Is(err, store.ErrStateNotFound) {
		t.Errorf("expected ErrStateNotFound after close, got %v", err)
	}
}
