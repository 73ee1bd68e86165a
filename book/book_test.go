package book

import (
	"errors"
	"testing"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

func newTestBook(t *testing.T, maxSupply types.Amount) *Book {
	t.Helper()
	return New(NewState(), maxSupply)
}

func TestIssueAndBalance(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(100)); err != nil {
		t.Fatal(err)
	}
	if got := b.BalanceOf(alice); got != types.Tokens(100) {
		t.Errorf("balance: got %s, want %s", got, types.Tokens(100))
	}
	if got := b.TotalSupply(); got != types.Tokens(100) {
		t.Errorf("supply: got %s, want %s", got, types.Tokens(100))
	}
	if err := b.CheckInvariant(); err != nil {
		t.Error(err)
	}
}

func TestIssueSupplyCap(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(1000)); err != nil {
		t.Fatal(err)
	}

	// One more minimal unit must fail and leave state untouched.
	if err := b.Issue(alice, 1); !errors.Is(err, ErrSupplyCapExceeded) {
		t.Errorf("expected ErrSupplyCapExceeded, got %v", err)
	}
	if got := b.TotalSupply(); got != types.Tokens(1000) {
		t.Errorf("supply after failed issue: got %s", got)
	}
	if got := b.BalanceOf(alice); got != types.Tokens(1000) {
		t.Errorf("balance after failed issue: got %s", got)
	}
}

func TestIssueToNull(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	if err := b.Issue(id.Nil, types.Tokens(1)); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestMove(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob := id.NewAccountID(), id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(500)); err != nil {
		t.Fatal(err)
	}
	if err := b.Move(alice, bob, types.Tokens(200)); err != nil {
		t.Fatal(err)
	}

	if got := b.BalanceOf(alice); got != types.Tokens(300) {
		t.Errorf("alice: got %s", got)
	}
	if got := b.BalanceOf(bob); got != types.Tokens(200) {
		t.Errorf("bob: got %s", got)
	}
	if err := b.CheckInvariant(); err != nil {
		t.Error(err)
	}
}

func TestMoveInsufficientBalance(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob := id.NewAccountID(), id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(10)); err != nil {
		t.Fatal(err)
	}
	if err := b.Move(alice, bob, types.Tokens(11)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := b.BalanceOf(bob); got != 0 {
		t.Errorf("bob after failed move: got %s", got)
	}
}

func TestMoveNullIdentity(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Move(id.Nil, alice, 1); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("null from: expected ErrInvalidAddress, got %v", err)
	}
	if err := b.Move(alice, id.Nil, 1); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("null to: expected ErrInvalidAddress, got %v", err)
	}
}

func TestSelfTransfer(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(100)); err != nil {
		t.Fatal(err)
	}
	if err := b.Move(alice, alice, types.Tokens(40)); err != nil {
		t.Fatal(err)
	}
	if got := b.BalanceOf(alice); got != types.Tokens(100) {
		t.Errorf("self-transfer changed balance: got %s", got)
	}

	// Still bounded by the actual balance.
	if err := b.Move(alice, alice, types.Tokens(101)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestDestroy(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(100)); err != nil {
		t.Fatal(err)
	}
	if err := b.Destroy(alice, types.Tokens(30)); err != nil {
		t.Fatal(err)
	}

	if got := b.BalanceOf(alice); got != types.Tokens(70) {
		t.Errorf("balance: got %s", got)
	}
	if got := b.TotalSupply(); got != types.Tokens(70) {
		t.Errorf("supply: got %s", got)
	}

	// Destroyed headroom can be re-issued.
	if err := b.Issue(alice, types.Tokens(930)); err != nil {
		t.Errorf("re-issue into headroom: %v", err)
	}
	if err := b.CheckInvariant(); err != nil {
		t.Error(err)
	}
}

func TestDestroyInsufficient(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(10)); err != nil {
		t.Fatal(err)
	}
	if err := b.Destroy(alice, types.Tokens(11)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

// ──────────────────────────────────────────────────
// Allowances
// ──────────────────────────────────────────────────

func TestApprove(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob := id.NewAccountID(), id.NewAccountID()

	if err := b.Approve(alice, bob, types.Tokens(50)); err != nil {
		t.Fatal(err)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(50) {
		t.Errorf("allowance: got %s", got)
	}

	// Approving requires no balance: allowance and balance are independent.
	if got := b.BalanceOf(alice); got != 0 {
		t.Errorf("approve touched balance: got %s", got)
	}
}

func TestApproveNonzeroToNonzero(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob := id.NewAccountID(), id.NewAccountID()

	if err := b.Approve(alice, bob, types.Tokens(50)); err != nil {
		t.Fatal(err)
	}

	// Direct nonzero -> nonzero replacement is refused.
	if err := b.Approve(alice, bob, types.Tokens(20)); !errors.Is(err, ErrUnsafeApproval) {
		t.Errorf("expected ErrUnsafeApproval, got %v", err)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(50) {
		t.Errorf("allowance after refused approve: got %s", got)
	}

	// Reset to zero, then set the new value.
	if err := b.Approve(alice, bob, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.Approve(alice, bob, types.Tokens(20)); err != nil {
		t.Fatal(err)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(20) {
		t.Errorf("allowance after reset cycle: got %s", got)
	}
}

func TestIncreaseDecreaseAllowance(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob := id.NewAccountID(), id.NewAccountID()

	next, err := b.IncreaseAllowance(alice, bob, types.Tokens(30))
	if err != nil || next != types.Tokens(30) {
		t.Fatalf("increase: got (%s, %v)", next, err)
	}

	// Adjusting a nonzero allowance needs no zero reset.
	next, err = b.IncreaseAllowance(alice, bob, types.Tokens(20))
	if err != nil || next != types.Tokens(50) {
		t.Fatalf("second increase: got (%s, %v)", next, err)
	}

	next, err = b.DecreaseAllowance(alice, bob, types.Tokens(10))
	if err != nil || next != types.Tokens(40) {
		t.Fatalf("decrease: got (%s, %v)", next, err)
	}

	// Decreasing past the current allowance fails, never clamps.
	if _, err := b.DecreaseAllowance(alice, bob, types.Tokens(41)); !errors.Is(err, ErrAllowanceUnderflow) {
		t.Errorf("expected ErrAllowanceUnderflow, got %v", err)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(40) {
		t.Errorf("allowance after failed decrease: got %s", got)
	}
}

func TestMoveFrom(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob, carol := id.NewAccountID(), id.NewAccountID(), id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(200)); err != nil {
		t.Fatal(err)
	}
	if err := b.Approve(alice, bob, types.Tokens(50)); err != nil {
		t.Fatal(err)
	}

	remaining, changed, err := b.MoveFrom(bob, alice, carol, types.Tokens(30))
	if err != nil {
		t.Fatal(err)
	}
	if !changed || remaining != types.Tokens(20) {
		t.Errorf("got remaining %s changed %v", remaining, changed)
	}
	if got := b.BalanceOf(alice); got != types.Tokens(170) {
		t.Errorf("alice: got %s", got)
	}
	if got := b.BalanceOf(carol); got != types.Tokens(30) {
		t.Errorf("carol: got %s", got)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(20) {
		t.Errorf("allowance: got %s", got)
	}
}

func TestMoveFromInsufficientAllowance(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob, carol := id.NewAccountID(), id.NewAccountID(), id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(200)); err != nil {
		t.Fatal(err)
	}
	if err := b.Approve(alice, bob, types.Tokens(10)); err != nil {
		t.Fatal(err)
	}

	_, _, err := b.MoveFrom(bob, alice, carol, types.Tokens(11))
	if !errors.Is(err, ErrInsufficientAllowance) {
		t.Errorf("expected ErrInsufficientAllowance, got %v", err)
	}

	// No partial effect.
	if got := b.Allowance(alice, bob); got != types.Tokens(10) {
		t.Errorf("allowance: got %s", got)
	}
	if got := b.BalanceOf(carol); got != 0 {
		t.Errorf("carol: got %s", got)
	}
}

func TestMoveFromInsufficientBalance(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob, carol := id.NewAccountID(), id.NewAccountID(), id.NewAccountID()

	// Allowance larger than balance: the balance check must still fire and
	// the allowance must survive untouched.
	if err := b.Issue(alice, types.Tokens(5)); err != nil {
		t.Fatal(err)
	}
	if err := b.Approve(alice, bob, types.Tokens(100)); err != nil {
		t.Fatal(err)
	}

	_, _, err := b.MoveFrom(bob, alice, carol, types.Tokens(50))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(100) {
		t.Errorf("allowance consumed by failed move: got %s", got)
	}
}

func TestMoveFromUnlimited(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob, carol := id.NewAccountID(), id.NewAccountID(), id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(200)); err != nil {
		t.Fatal(err)
	}
	if err := b.Approve(alice, bob, types.Unlimited); err != nil {
		t.Fatal(err)
	}

	remaining, changed, err := b.MoveFrom(bob, alice, carol, types.Tokens(150))
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("unlimited allowance must not be decremented")
	}
	if !remaining.IsUnlimited() {
		t.Errorf("remaining: got %s, want unlimited", remaining)
	}
	if got := b.Allowance(alice, bob); !got.IsUnlimited() {
		t.Errorf("stored allowance: got %s, want unlimited", got)
	}

	// Balance still bounds the transfer.
	_, _, err = b.MoveFrom(bob, alice, carol, types.Tokens(51))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice, bob := id.NewAccountID(), id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(100)); err != nil {
		t.Fatal(err)
	}
	if err := b.Approve(alice, bob, types.Tokens(10)); err != nil {
		t.Fatal(err)
	}

	checkpoint := b.Checkpoint()
	if err := b.Move(alice, bob, types.Tokens(40)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.IncreaseAllowance(alice, bob, types.Tokens(5)); err != nil {
		t.Fatal(err)
	}

	b.Restore(checkpoint)
	if got := b.BalanceOf(alice); got != types.Tokens(100) {
		t.Errorf("alice after restore: got %s", got)
	}
	if got := b.BalanceOf(bob); got != 0 {
		t.Errorf("bob after restore: got %s", got)
	}
	if got := b.Allowance(alice, bob); got != types.Tokens(10) {
		t.Errorf("allowance after restore: got %s", got)
	}
}

func BenchmarkMove(b *testing.B) {
	bk := New(NewState(), types.Tokens(1_000_000))
	alice, bob := id.NewAccountID(), id.NewAccountID()
	if err := bk.Issue(alice, types.Tokens(1_000_000)); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bk.Move(alice, bob, 1)
	}
}

func TestCheckInvariantDetectsDrift(t *testing.T) {
	b := newTestBook(t, types.Tokens(1000))
	alice := id.NewAccountID()

	if err := b.Issue(alice, types.Tokens(100)); err != nil {
		t.Fatal(err)
	}

	// Corrupt the state behind the book's back.
	b.State().Balances[alice.String()] = types.Tokens(101)
	if err := b.CheckInvariant(); err == nil {
		t.Error("expected invariant violation")
	}
}
