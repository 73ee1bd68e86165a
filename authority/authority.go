// Package authority implements the access-control gate of TokenLedger: a
// single privileged owner identity and the guarded transitions that mutate
// it.
//
// The gate deliberately has no transition to a null owner — renouncing
// ownership is permanently disabled so the ledger can never become
// unmanageable.
package authority

import (
	"errors"

	"github.com/xraph/tokenledger/id"
)

// Sentinel errors raised by the access-control gate.
var (
	// ErrUnauthorized is returned when a caller other than the current owner
	// invokes a privileged operation.
	ErrUnauthorized = errors.New("tokenledger: unauthorized")

	// ErrOperationDisabled is returned by RenounceOwnership: there is no
	// transition to a null owner.
	ErrOperationDisabled = errors.New("tokenledger: operation disabled")

	// ErrInvalidOwner is returned when the null identity is proposed as the
	// new owner.
	ErrInvalidOwner = errors.New("tokenledger: invalid owner")
)

// Gate guards privileged operations behind the current owner identity. The
// owner field is mutated only through the transitions below; there is no
// package-level state.
type Gate struct {
	owner id.AccountID
}

// NewGate creates a gate owned by the given identity. Initialization
// happens exactly once, at ledger construction.
func NewGate(owner id.AccountID) *Gate {
	return &Gate{owner: owner}
}

// Owner returns the current owner identity.
func (g *Gate) Owner() id.AccountID { return g.owner }

// RequireOwner fails with ErrUnauthorized unless caller is the current
// owner. Every privileged operation runs through this guard.
func (g *Gate) RequireOwner(caller id.AccountID) error {
	if caller.IsNil() || !caller.Equal(g.owner) {
		return ErrUnauthorized
	}
	return nil
}

// TransferOwnership moves the privileged role to newOwner. Only the current
// owner may call it, and the null identity is never a valid owner. It
// returns the previous owner for notification purposes.
func (g *Gate) TransferOwnership(caller, newOwner id.AccountID) (id.AccountID, error) {
	if err := g.RequireOwner(caller); err != nil {
		return id.Nil, err
	}
	if newOwner.IsNil() {
		return id.Nil, ErrInvalidOwner
	}

	previous := g.owner
	g.owner = newOwner
	return previous, nil
}

// RenounceOwnership always fails with ErrOperationDisabled after the owner
// guard. Leaving the ledger ownerless is a permanent policy exclusion, not
// a missing feature.
func (g *Gate) RenounceOwnership(caller id.AccountID) error {
	if err := g.RequireOwner(caller); err != nil {
		return err
	}
	return ErrOperationDisabled
}
