// Package tokenledger provides an embeddable fixed-cap fungible token
// ledger for Go applications.
//
// TokenLedger is designed as a library, not a service. Import it directly
// into your Go application and back it with the store of your choice. It
// provides:
//
//   - A balance table with supply-capped issuance and destruction
//   - Allowance-based delegated transfers with race-safe approvals
//   - An owner-gated administrative layer (issuance, ownership transfer)
//   - Recovery of misdirected foreign assets and native funds
//   - A hook surface for observing committed ledger effects
//   - Memory, SQLite, Postgres, and MongoDB persistence backends
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/xraph/tokenledger"
//	    "github.com/xraph/tokenledger/store/postgres"
//	)
//
//	// Initialize store
//	store, err := postgres.New(databaseURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create ledger; the deployer becomes owner and receives the
//	// initial supply at genesis
//	deployer := tokenledger.NewAccountID()
//	l := tokenledger.New(store, deployer,
//	    tokenledger.WithTokenInfo("Ember", "EMBR"),
//	    tokenledger.WithMaxSupply(tokenledger.Tokens(1_000_000)),
//	    tokenledger.WithInitialSupply(tokenledger.Tokens(500_000)),
//	)
//
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Balances move through direct and delegated transfers:
//
//	err := l.Transfer(ctx, alice, bob, tokenledger.Tokens(100))
//
//	// Delegation: alice approves bob, bob spends on her behalf
//	err = l.Approve(ctx, alice, bob, tokenledger.Tokens(50))
//	err = l.TransferFrom(ctx, bob, alice, carol, tokenledger.Tokens(30))
//
// A nonzero allowance must be reset to zero before it can be replaced with
// a different nonzero value; IncreaseAllowance and DecreaseAllowance adjust
// it atomically without a reset. Approving Unlimited grants an allowance
// that is never decremented.
//
// The owner can issue new units up to the permanent supply cap, and can
// never renounce ownership:
//
//	err := l.Issue(ctx, owner, treasury, tokenledger.Tokens(10_000))
//	err = l.RenounceOwnership(ctx, owner) // always ErrOperationDisabled
//
// # Amounts
//
// All amounts use integer arithmetic over minimal units with 9 display
// decimals: Tokens(1) equals 1_000_000_000 minimal units. There is no
// floating point anywhere in the ledger.
//
// # TypeID
//
// Participants and assets use TypeID for globally unique, type-safe
// identifiers:
//
//	acct_01h2xcejqtf2nbrexx3vqjhp41   // Account ID
//	asset_01h455vb4pex5vsknk084sn02q  // Asset ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package tokenledger
