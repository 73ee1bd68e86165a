// Package hook provides the notification surface of TokenLedger. External
// collaborators register hooks to observe committed ledger effects: balance
// transfers, approvals, ownership changes, and recovery sweeps.
//
// The set of hook kinds is closed and enumerated below; there is no
// open-ended dynamic dispatch. Hooks observe effects after commit — a hook
// failure is logged and can never undo or fail the operation it observed.
package hook

import (
	"context"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Hook is the base interface that all hooks must implement.
type Hook interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts, after state is loaded or genesis
// has run.
type OnInit interface {
	Hook
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the ledger is shutting down.
type OnShutdown interface {
	Hook
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Ledger effect hooks
// ──────────────────────────────────────────────────

// OnTransfer is called after a committed balance move. The null identity as
// from signals issuance; as to it signals destruction.
type OnTransfer interface {
	Hook
	OnTransfer(ctx context.Context, from, to id.AccountID, amount types.Amount) error
}

// OnApproval is called after a committed allowance write with the new
// absolute allowance value.
type OnApproval interface {
	Hook
	OnApproval(ctx context.Context, owner, spender id.AccountID, amount types.Amount) error
}

// OnOwnershipTransferred is called after the privileged role moves to a new
// identity.
type OnOwnershipTransferred interface {
	Hook
	OnOwnershipTransferred(ctx context.Context, previous, next id.AccountID) error
}

// OnRecovery is called after the owner sweeps a misdirected external asset.
type OnRecovery interface {
	Hook
	OnRecovery(ctx context.Context, asset id.AssetID, to id.AccountID, amount types.Amount) error
}
