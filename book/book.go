// Package book implements the bookkeeping core of TokenLedger: the balance
// table, the total supply, and the allowance matrix, together with the
// checked mutation primitives that every public operation is built from.
//
// Every primitive validates its inputs completely before touching state, so
// a failed call always leaves the book byte-identical to its pre-call state.
// The book itself performs no locking and emits no notifications — the
// ledger façade owns serialization and the hook surface.
package book

import (
	"errors"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Sentinel errors raised by the bookkeeping core.
var (
	// ErrInvalidAddress is returned when the null identity is used where a
	// participant is required.
	ErrInvalidAddress = errors.New("tokenledger: invalid address")

	// ErrInsufficientBalance is returned when a debit exceeds the holder's
	// balance.
	ErrInsufficientBalance = errors.New("tokenledger: insufficient balance")

	// ErrInsufficientAllowance is returned when a delegated transfer exceeds
	// the spender's remaining allowance.
	ErrInsufficientAllowance = errors.New("tokenledger: insufficient allowance")

	// ErrAllowanceUnderflow is returned when an allowance decrease exceeds
	// the current allowance.
	ErrAllowanceUnderflow = errors.New("tokenledger: allowance underflow")

	// ErrSupplyCapExceeded is returned when issuance would push the total
	// supply past the maximum supply.
	ErrSupplyCapExceeded = errors.New("tokenledger: supply cap exceeded")

	// ErrAmountOverflow is returned when an addition would wrap the amount
	// type or land on the reserved unlimited sentinel.
	ErrAmountOverflow = errors.New("tokenledger: amount overflow")

	// ErrUnsafeApproval is returned when a nonzero allowance is re-approved
	// to another nonzero value directly. Adjust nonzero allowances through
	// IncreaseAllowance / DecreaseAllowance instead.
	ErrUnsafeApproval = errors.New("tokenledger: unsafe approval change")
)

// State is the root state object of the ledger: owner identity, total
// supply, balance table, and allowance matrix. Maps are keyed by the string
// form of participant IDs; absent entries mean zero. Stores persist State
// verbatim.
type State struct {
	types.Entity

	Owner       string                             `json:"owner"`
	TotalSupply types.Amount                       `json:"total_supply"`
	Balances    map[string]types.Amount            `json:"balances"`
	Allowances  map[string]map[string]types.Amount `json:"allowances"`
}

// NewState returns an empty State with initialized maps.
func NewState() *State {
	return &State{
		Entity:     types.NewEntity(),
		Balances:   make(map[string]types.Amount),
		Allowances: make(map[string]map[string]types.Amount),
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{
		Entity:      s.Entity,
		Owner:       s.Owner,
		TotalSupply: s.TotalSupply,
		Balances:    make(map[string]types.Amount, len(s.Balances)),
		Allowances:  make(map[string]map[string]types.Amount, len(s.Allowances)),
	}
	for k, v := range s.Balances {
		c.Balances[k] = v
	}
	for owner, spenders := range s.Allowances {
		inner := make(map[string]types.Amount, len(spenders))
		for spender, amt := range spenders {
			inner[spender] = amt
		}
		c.Allowances[owner] = inner
	}
	return c
}

// Book applies mutation primitives to a State under a fixed supply cap.
type Book struct {
	state     *State
	maxSupply types.Amount
}

// New creates a Book over the given state. maxSupply bounds the total
// supply for the life of the book.
func New(state *State, maxSupply types.Amount) *Book {
	if state.Balances == nil {
		state.Balances = make(map[string]types.Amount)
	}
	if state.Allowances == nil {
		state.Allowances = make(map[string]map[string]types.Amount)
	}
	return &Book{state: state, maxSupply: maxSupply}
}

// State returns the underlying root state object.
func (b *Book) State() *State { return b.state }

// Checkpoint returns a deep copy of the current state, suitable for
// restoring after a failed persistence attempt.
func (b *Book) Checkpoint() *State { return b.state.Clone() }

// Restore replaces the book's state with a previously taken checkpoint.
func (b *Book) Restore(s *State) { b.state = s }

// ──────────────────────────────────────────────────
// Reads
// ──────────────────────────────────────────────────

// BalanceOf returns the balance of an account; zero for unknown accounts.
func (b *Book) BalanceOf(acct id.AccountID) types.Amount {
	return b.state.Balances[acct.String()]
}

// TotalSupply returns the current total supply.
func (b *Book) TotalSupply() types.Amount { return b.state.TotalSupply }

// MaxSupply returns the supply cap.
func (b *Book) MaxSupply() types.Amount { return b.maxSupply }

// Allowance returns the remaining amount spender may move out of owner's
// balance; zero when no approval exists.
func (b *Book) Allowance(owner, spender id.AccountID) types.Amount {
	return b.state.Allowances[owner.String()][spender.String()]
}

// ──────────────────────────────────────────────────
// Balance mutations
// ──────────────────────────────────────────────────

// Move transfers amount from one account to another. It fails without
// effect if either party is the null identity, the source balance is
// insufficient, or the destination credit would overflow.
func (b *Book) Move(from, to id.AccountID, amount types.Amount) error {
	if from.IsNil() || to.IsNil() {
		return ErrInvalidAddress
	}

	fromKey, toKey := from.String(), to.String()
	debited, ok := b.state.Balances[fromKey].CheckedSub(amount)
	if !ok {
		return ErrInsufficientBalance
	}
	credited, ok := b.state.Balances[toKey].CheckedAdd(amount)
	if !ok {
		return ErrAmountOverflow
	}

	// Self-transfer: debit and credit cancel out.
	if fromKey == toKey {
		return nil
	}

	b.state.Balances[fromKey] = debited
	b.state.Balances[toKey] = credited
	b.state.Touch()
	return nil
}

// Issue creates amount new units and credits them to the recipient. The
// resulting total supply must not exceed the cap.
func (b *Book) Issue(to id.AccountID, amount types.Amount) error {
	if to.IsNil() {
		return ErrInvalidAddress
	}

	supply, ok := b.state.TotalSupply.CheckedAdd(amount)
	if !ok || supply > b.maxSupply {
		return ErrSupplyCapExceeded
	}
	credited, ok := b.state.Balances[to.String()].CheckedAdd(amount)
	if !ok {
		return ErrAmountOverflow
	}

	b.state.TotalSupply = supply
	b.state.Balances[to.String()] = credited
	b.state.Touch()
	return nil
}

// Destroy removes amount units from the holder's balance and the total
// supply.
func (b *Book) Destroy(holder id.AccountID, amount types.Amount) error {
	if holder.IsNil() {
		return ErrInvalidAddress
	}

	debited, ok := b.state.Balances[holder.String()].CheckedSub(amount)
	if !ok {
		return ErrInsufficientBalance
	}
	// Cannot underflow: the supply invariant guarantees supply >= any balance.
	supply, ok := b.state.TotalSupply.CheckedSub(amount)
	if !ok {
		return ErrInsufficientBalance
	}

	b.state.Balances[holder.String()] = debited
	b.state.TotalSupply = supply
	b.state.Touch()
	return nil
}

// ──────────────────────────────────────────────────
// Allowance mutations
// ──────────────────────────────────────────────────

// setAllowance is the single primitive through which every allowance write
// flows.
func (b *Book) setAllowance(owner, spender id.AccountID, amount types.Amount) error {
	if owner.IsNil() || spender.IsNil() {
		return ErrInvalidAddress
	}

	ownerKey := owner.String()
	spenders := b.state.Allowances[ownerKey]
	if spenders == nil {
		spenders = make(map[string]types.Amount)
		b.state.Allowances[ownerKey] = spenders
	}
	spenders[spender.String()] = amount
	b.state.Touch()
	return nil
}

// Approve sets the allowance of spender over owner's balance. A nonzero
// allowance may only be replaced by zero: changing nonzero to nonzero
// directly would let a front-running spender consume both the old and the
// new amount, so it fails with ErrUnsafeApproval.
func (b *Book) Approve(owner, spender id.AccountID, amount types.Amount) error {
	if owner.IsNil() || spender.IsNil() {
		return ErrInvalidAddress
	}
	current := b.Allowance(owner, spender)
	if !current.IsZero() && !amount.IsZero() {
		return ErrUnsafeApproval
	}
	return b.setAllowance(owner, spender, amount)
}

// IncreaseAllowance atomically adds delta to the current allowance and
// returns the new absolute value.
func (b *Book) IncreaseAllowance(owner, spender id.AccountID, delta types.Amount) (types.Amount, error) {
	if owner.IsNil() || spender.IsNil() {
		return 0, ErrInvalidAddress
	}
	next, ok := b.Allowance(owner, spender).CheckedAdd(delta)
	if !ok {
		return 0, ErrAmountOverflow
	}
	if err := b.setAllowance(owner, spender, next); err != nil {
		return 0, err
	}
	return next, nil
}

// DecreaseAllowance atomically subtracts delta from the current allowance
// and returns the new absolute value.
func (b *Book) DecreaseAllowance(owner, spender id.AccountID, delta types.Amount) (types.Amount, error) {
	if owner.IsNil() || spender.IsNil() {
		return 0, ErrInvalidAddress
	}
	next, ok := b.Allowance(owner, spender).CheckedSub(delta)
	if !ok {
		return 0, ErrAllowanceUnderflow
	}
	if err := b.setAllowance(owner, spender, next); err != nil {
		return 0, err
	}
	return next, nil
}

// MoveFrom performs a delegated transfer: spender moves amount from owner's
// balance to the recipient, consuming allowance unless it is the unlimited
// sentinel. All checks run before any mutation, so the allowance decrement
// and the balance move commit together or not at all.
//
// The returned allowance is the post-call value; changed reports whether it
// was decremented (false for the unlimited sentinel).
func (b *Book) MoveFrom(spender, owner, to id.AccountID, amount types.Amount) (allowance types.Amount, changed bool, err error) {
	if spender.IsNil() || owner.IsNil() || to.IsNil() {
		return 0, false, ErrInvalidAddress
	}

	current := b.Allowance(owner, spender)
	remaining := current
	if !current.IsUnlimited() {
		var ok bool
		remaining, ok = current.CheckedSub(amount)
		if !ok {
			return 0, false, ErrInsufficientAllowance
		}
	}

	if _, ok := b.state.Balances[owner.String()].CheckedSub(amount); !ok {
		return 0, false, ErrInsufficientBalance
	}

	if !current.IsUnlimited() {
		if err := b.setAllowance(owner, spender, remaining); err != nil {
			return 0, false, err
		}
		changed = true
	}
	if err := b.Move(owner, to, amount); err != nil {
		// Restore the allowance so the failed call has no effect. The only
		// reachable failure here is a credit overflow on the recipient.
		if changed {
			_ = b.setAllowance(owner, spender, current)
		}
		return 0, false, err
	}
	return remaining, changed, nil
}

// CheckInvariant verifies that the sum of all balances equals the total
// supply and does not exceed the cap. It is used by tests and store
// round-trip validation.
func (b *Book) CheckInvariant() error {
	balances := make([]types.Amount, 0, len(b.state.Balances))
	for _, v := range b.state.Balances {
		balances = append(balances, v)
	}
	sum, ok := types.Sum(balances...)
	if !ok || sum != b.state.TotalSupply || sum > b.maxSupply {
		return ErrSupplyCapExceeded
	}
	return nil
}
