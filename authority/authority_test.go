package authority

import (
	"errors"
	"testing"

	"github.com/xraph/tokenledger/id"
)

func TestRequireOwner(t *testing.T) {
	owner := id.NewAccountID()
	stranger := id.NewAccountID()
	g := NewGate(owner)

	if err := g.RequireOwner(owner); err != nil {
		t.Errorf("owner rejected: %v", err)
	}
	if err := g.RequireOwner(stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := g.RequireOwner(id.Nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("null caller: expected ErrUnauthorized, got %v", err)
	}
}

func TestTransferOwnership(t *testing.T) {
	owner := id.NewAccountID()
	next := id.NewAccountID()
	g := NewGate(owner)

	previous, err := g.TransferOwnership(owner, next)
	if err != nil {
		t.Fatal(err)
	}
	if !previous.Equal(owner) {
		t.Errorf("previous: got %q, want %q", previous, owner)
	}
	if !g.Owner().Equal(next) {
		t.Errorf("owner: got %q, want %q", g.Owner(), next)
	}

	// The old owner lost all privileges with the transfer.
	if _, err := g.TransferOwnership(owner, owner); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTransferOwnershipGuards(t *testing.T) {
	owner := id.NewAccountID()
	stranger := id.NewAccountID()
	g := NewGate(owner)

	if _, err := g.TransferOwnership(stranger, stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := g.TransferOwnership(owner, id.Nil); !errors.Is(err, ErrInvalidOwner) {
		t.Errorf("expected ErrInvalidOwner, got %v", err)
	}
	if !g.Owner().Equal(owner) {
		t.Errorf("owner changed by failed transfer: %q", g.Owner())
	}
}

func TestRenounceOwnership(t *testing.T) {
	owner := id.NewAccountID()
	stranger := id.NewAccountID()
	g := NewGate(owner)

	// Non-owners hit the guard first.
	if err := g.RenounceOwnership(stranger); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	// The owner is refused too: renouncing is permanently disabled.
	if err := g.RenounceOwnership(owner); !errors.Is(err, ErrOperationDisabled) {
		t.Errorf("expected ErrOperationDisabled, got %v", err)
	}
	if !g.Owner().Equal(owner) {
		t.Errorf("owner changed by renounce: %q", g.Owner())
	}
}
