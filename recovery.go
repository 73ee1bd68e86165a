package tokenledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// ForeignAsset is a handle to another token whose units were mistakenly
// sent to this ledger. The owner can sweep them out through
// RecoverForeignAsset.
type ForeignAsset interface {
	// AssetID identifies the asset, used to reject recovery of the ledger's
	// own token.
	AssetID() id.AssetID

	// Transfer moves amount of the foreign asset to the recipient.
	Transfer(ctx context.Context, to id.AccountID, amount types.Amount) error
}

// NativeVault is the custodian for native platform funds sent to the
// ledger address. It is deliberately separate from the token book: native
// funds are not token units and never touch balances or supply.
type NativeVault interface {
	// Balance returns the native funds currently held.
	Balance(ctx context.Context) (types.Amount, error)

	// Deposit records an incoming native payment.
	Deposit(ctx context.Context, amount types.Amount) error

	// Withdraw sends amount of native funds to the recipient.
	Withdraw(ctx context.Context, to id.AccountID, amount types.Amount) error
}

// ──────────────────────────────────────────────────
// Recovery operations (owner only)
// ──────────────────────────────────────────────────

// RecoverForeignAsset sweeps amount of a foreign asset out of the ledger to
// the current owner. Recovering the ledger's own token is forbidden:
// balances in the book belong to their holders and are not the owner's to
// sweep.
func (l *Ledger) RecoverForeignAsset(ctx context.Context, caller id.AccountID, asset ForeignAsset, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	if err := l.gate.RequireOwner(caller); err != nil {
		return err
	}
	if asset.AssetID().Equal(l.assetID) {
		return ErrSelfRecovery
	}

	owner := l.gate.Owner()
	if err := asset.Transfer(ctx, owner, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrExternalTransfer, err)
	}

	l.hooks.EmitRecovery(ctx, asset.AssetID(), owner, amount)
	l.logger.Info("foreign asset recovered",
		"asset", asset.AssetID().String(),
		"to", owner.String(),
		"amount", amount.String(),
	)
	return nil
}

// RecoverNativeFunds sweeps the full native balance held by the vault to
// the current owner. A zero balance is a no-op, not an error.
func (l *Ledger) RecoverNativeFunds(ctx context.Context, caller id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	if err := l.gate.RequireOwner(caller); err != nil {
		return err
	}

	balance, err := l.vault.Balance(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalTransfer, err)
	}
	if balance.IsZero() {
		return nil
	}

	owner := l.gate.Owner()
	if err := l.vault.Withdraw(ctx, owner, balance); err != nil {
		return fmt.Errorf("%w: %v", ErrExternalTransfer, err)
	}

	l.hooks.EmitRecovery(ctx, l.assetID, owner, balance)
	l.logger.Info("native funds recovered",
		"to", owner.String(),
		"amount", balance.String(),
	)
	return nil
}

// AcceptNativeDeposit records an incoming native payment into the vault.
func (l *Ledger) AcceptNativeDeposit(ctx context.Context, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	return l.vault.Deposit(ctx, amount)
}

// NativeBalance returns the native funds currently held by the vault.
func (l *Ledger) NativeBalance(ctx context.Context) (types.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return 0, ErrNotStarted
	}
	return l.vault.Balance(ctx)
}

// ──────────────────────────────────────────────────
// In-memory vault
// ──────────────────────────────────────────────────

// MemoryVault is the default NativeVault: an in-process balance with no
// external settlement. Withdrawals simply reduce the held balance.
type MemoryVault struct {
	mu      sync.Mutex
	balance types.Amount
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

// Balance returns the held native balance.
func (v *MemoryVault) Balance(ctx context.Context) (types.Amount, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance, nil
}

// Deposit adds amount to the held balance.
func (v *MemoryVault) Deposit(ctx context.Context, amount types.Amount) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	next, ok := v.balance.CheckedAdd(amount)
	if !ok {
		return ErrAmountOverflow
	}
	v.balance = next
	return nil
}

// Withdraw removes amount from the held balance.
func (v *MemoryVault) Withdraw(ctx context.Context, to id.AccountID, amount types.Amount) error {
	if to.IsNil() {
		return ErrInvalidAddress
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	next, ok := v.balance.CheckedSub(amount)
	if !ok {
		return ErrInsufficientBalance
	}
	v.balance = next
	return nil
}
