package tokenledger_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	tokenledger "github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/store/memory"
)

// TestDocumentationExamples verifies that all examples in the documentation compile
func TestDocumentationExamples(t *testing.T) {
	// Test Quick Start example from the package docs
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use PostgreSQL in production)
		store := memory.New()

		// Create ledger; the deployer becomes owner and receives the
		// initial supply at genesis
		deployer := tokenledger.NewAccountID()
		l := tokenledger.New(store, deployer,
			tokenledger.WithLogger(slog.Default()),
			tokenledger.WithTokenInfo("Ember", "EMBR"),
			tokenledger.WithMaxSupply(tokenledger.Tokens(1_000_000)),
			tokenledger.WithInitialSupply(tokenledger.Tokens(500_000)),
			tokenledger.WithHookTimeout(5*time.Second),
		)

		// Start the engine
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Move some tokens around
		alice, bob := tokenledger.NewAccountID(), tokenledger.NewAccountID()
		if err := l.Transfer(ctx, deployer, alice, tokenledger.Tokens(100)); err != nil {
			t.Fatal(err)
		}

		// Delegation: alice approves bob, bob spends on her behalf
		if err := l.Approve(ctx, alice, bob, tokenledger.Tokens(50)); err != nil {
			t.Fatal(err)
		}
		if err := l.TransferFrom(ctx, bob, alice, bob, tokenledger.Tokens(30)); err != nil {
			t.Fatal(err)
		}

		balance, err := l.BalanceOf(ctx, bob)
		if err != nil {
			t.Fatal(err)
		}
		if balance != tokenledger.Tokens(30) {
			t.Errorf("bob: got %s", balance)
		}
	})

	t.Run("TokenMetadata", func(t *testing.T) {
		l := tokenledger.New(memory.New(), tokenledger.NewAccountID())

		if l.Name() != "Ember" || l.Symbol() != "EMBR" {
			t.Errorf("defaults: got %q/%q", l.Name(), l.Symbol())
		}
		if l.Decimals() != tokenledger.Decimals {
			t.Errorf("decimals: got %d", l.Decimals())
		}
		if l.MaxSupply() != tokenledger.Tokens(1_000_000) {
			t.Errorf("max supply: got %s", l.MaxSupply())
		}
	})
}
