package tokenledger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tokenledger/authority"
	"github.com/xraph/tokenledger/book"
	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/store"
	"github.com/xraph/tokenledger/types"
)

// Default token parameters, used unless overridden by options.
const (
	DefaultName   = "Ember"
	DefaultSymbol = "EMBR"
)

// Ledger is the main token engine. It serializes all mutations behind a
// single mutex, applies them to the in-memory book, persists the resulting
// snapshot, and only then notifies hooks. A failed persist rolls the book
// back to its pre-call checkpoint, so observers never see effects that were
// not durably committed.
type Ledger struct {
	store  store.Store
	hooks  *hook.Registry
	logger *slog.Logger

	mu      sync.Mutex
	book    *book.Book
	gate    *authority.Gate
	vault   NativeVault
	started bool

	// Configuration
	name          string
	symbol        string
	assetID       id.AssetID
	deployer      id.AccountID
	maxSupply     types.Amount
	initialSupply types.Amount
}

// New creates a new Ledger instance. The deployer becomes the initial owner
// and receives the initial supply when genesis runs at Start.
func New(s store.Store, deployer id.AccountID, opts ...Option) *Ledger {
	l := &Ledger{
		store:         s,
		hooks:         hook.NewRegistry(),
		logger:        slog.Default(),
		name:          DefaultName,
		symbol:        DefaultSymbol,
		assetID:       id.NewAssetID(),
		deployer:      deployer,
		maxSupply:     types.Tokens(1_000_000),
		initialSupply: types.Tokens(500_000),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.vault == nil {
		l.vault = NewMemoryVault()
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.hooks.WithLogger(logger)
	}
}

// WithHook registers a hook.
func WithHook(h hook.Hook) Option {
	return func(l *Ledger) {
		_ = l.hooks.Register(h) //nolint:errcheck // best-effort hook registration during init
	}
}

// WithTokenInfo sets the token's display name and symbol.
func WithTokenInfo(name, symbol string) Option {
	return func(l *Ledger) {
		l.name = name
		l.symbol = symbol
	}
}

// WithMaxSupply sets the permanent supply cap.
func WithMaxSupply(cap types.Amount) Option {
	return func(l *Ledger) {
		l.maxSupply = cap
	}
}

// WithInitialSupply sets the amount issued to the deployer at genesis.
func WithInitialSupply(amount types.Amount) Option {
	return func(l *Ledger) {
		l.initialSupply = amount
	}
}

// WithNativeVault sets the custodian for native funds sent to the ledger.
func WithNativeVault(v NativeVault) Option {
	return func(l *Ledger) {
		l.vault = v
	}
}

// WithAssetID sets the ledger's own asset identity, used to reject
// self-recovery.
func WithAssetID(asset id.AssetID) Option {
	return func(l *Ledger) {
		l.assetID = asset
	}
}

// WithHookTimeout sets the per-hook call timeout.
func WithHookTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		l.hooks.WithCallTimeout(d)
	}
}

// ──────────────────────────────────────────────────
// Lifecycle
// ──────────────────────────────────────────────────

// Start migrates the store, loads persisted state, and runs genesis exactly
// once if no state exists yet: the deployer becomes owner and receives the
// initial supply.
func (l *Ledger) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.started {
		return ErrAlreadyStarted
	}
	if l.deployer.IsNil() {
		return ErrInvalidOwner
	}
	if l.initialSupply > l.maxSupply {
		return ErrSupplyCapExceeded
	}

	// Migrate database
	if err := l.store.Migrate(ctx); err != nil {
		return err
	}

	state, err := l.store.LoadState(ctx)
	genesis := false
	switch {
	case err == nil:
		// Resuming from a persisted snapshot.
	case errors.Is(err, store.ErrStateNotFound):
		state = book.NewState()
		state.Owner = l.deployer.String()
		genesis = true
	default:
		return err
	}

	l.book = book.New(state, l.maxSupply)

	owner, err := id.ParseAccountID(state.Owner)
	if err != nil {
		return err
	}
	l.gate = authority.NewGate(owner)

	if genesis {
		if err := l.book.Issue(l.deployer, l.initialSupply); err != nil {
			return err
		}
		if err := l.store.SaveState(ctx, l.book.State()); err != nil {
			return err
		}
	}

	l.started = true

	// Initialize hooks
	l.hooks.EmitInit(ctx, l)
	if genesis {
		l.hooks.EmitTransfer(ctx, id.Nil, l.deployer, l.initialSupply)
	}

	l.logger.Info("ledger started",
		"name", l.name,
		"symbol", l.symbol,
		"genesis", genesis,
		"total_supply", l.book.TotalSupply().String(),
		"max_supply", l.maxSupply.String(),
		"owner", l.gate.Owner().String(),
	)

	return nil
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	l.mu.Lock()
	l.started = false
	l.mu.Unlock()

	ctx := context.Background()
	l.hooks.EmitShutdown(ctx)

	return l.store.Close()
}

// ──────────────────────────────────────────────────
// Token metadata
// ──────────────────────────────────────────────────

// Name returns the token's display name.
func (l *Ledger) Name() string { return l.name }

// Symbol returns the token's ticker symbol.
func (l *Ledger) Symbol() string { return l.symbol }

// Decimals returns the number of display decimals.
func (l *Ledger) Decimals() uint8 { return types.Decimals }

// AssetID returns the ledger's own asset identity.
func (l *Ledger) AssetID() id.AssetID { return l.assetID }

// ──────────────────────────────────────────────────
// Queries
// ──────────────────────────────────────────────────

// TotalSupply returns the number of units currently in circulation.
func (l *Ledger) TotalSupply(ctx context.Context) (types.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return 0, ErrNotStarted
	}
	return l.book.TotalSupply(), nil
}

// MaxSupply returns the permanent supply cap.
func (l *Ledger) MaxSupply() types.Amount { return l.maxSupply }

// BalanceOf returns the balance of an account; zero for unknown accounts.
func (l *Ledger) BalanceOf(ctx context.Context, acct id.AccountID) (types.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return 0, ErrNotStarted
	}
	if acct.IsNil() {
		return 0, ErrInvalidAddress
	}
	return l.book.BalanceOf(acct), nil
}

// Allowance returns the remaining amount spender may move out of owner's
// balance.
func (l *Ledger) Allowance(ctx context.Context, owner, spender id.AccountID) (types.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return 0, ErrNotStarted
	}
	if owner.IsNil() || spender.IsNil() {
		return 0, ErrInvalidAddress
	}
	return l.book.Allowance(owner, spender), nil
}

// Owner returns the current privileged identity.
func (l *Ledger) Owner(ctx context.Context) (id.AccountID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return id.Nil, ErrNotStarted
	}
	return l.gate.Owner(), nil
}

// ──────────────────────────────────────────────────
// Transfers
// ──────────────────────────────────────────────────

// Transfer moves amount from the caller's balance to the recipient.
func (l *Ledger) Transfer(ctx context.Context, caller, to id.AccountID, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}

	checkpoint := l.book.Checkpoint()
	if err := l.book.Move(caller, to, amount); err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitTransfer(ctx, caller, to, amount)
	return nil
}

// TransferFrom moves amount from owner's balance to the recipient using the
// caller's allowance. An unlimited allowance is never decremented.
func (l *Ledger) TransferFrom(ctx context.Context, caller, owner, to id.AccountID, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}

	checkpoint := l.book.Checkpoint()
	remaining, changed, err := l.book.MoveFrom(caller, owner, to, amount)
	if err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitTransfer(ctx, owner, to, amount)
	if changed {
		l.hooks.EmitApproval(ctx, owner, caller, remaining)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Allowances
// ──────────────────────────────────────────────────

// Approve sets the caller's allowance for spender. A nonzero allowance must
// be reset to zero before it can be set to a different nonzero value; use
// IncreaseAllowance / DecreaseAllowance to adjust without resetting.
// Approving types.Unlimited grants an allowance that is never decremented.
func (l *Ledger) Approve(ctx context.Context, caller, spender id.AccountID, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}

	checkpoint := l.book.Checkpoint()
	if err := l.book.Approve(caller, spender, amount); err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitApproval(ctx, caller, spender, amount)
	return nil
}

// IncreaseAllowance atomically raises the caller's allowance for spender by
// delta.
func (l *Ledger) IncreaseAllowance(ctx context.Context, caller, spender id.AccountID, delta types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}

	checkpoint := l.book.Checkpoint()
	next, err := l.book.IncreaseAllowance(caller, spender, delta)
	if err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitApproval(ctx, caller, spender, next)
	return nil
}

// DecreaseAllowance atomically lowers the caller's allowance for spender by
// delta. It fails with ErrAllowanceUnderflow if delta exceeds the current
// allowance.
func (l *Ledger) DecreaseAllowance(ctx context.Context, caller, spender id.AccountID, delta types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}

	checkpoint := l.book.Checkpoint()
	next, err := l.book.DecreaseAllowance(caller, spender, delta)
	if err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitApproval(ctx, caller, spender, next)
	return nil
}

// ──────────────────────────────────────────────────
// Supply management (owner only)
// ──────────────────────────────────────────────────

// Issue creates amount new units and credits them to the recipient. Only the
// owner may issue, and the total supply can never exceed the cap.
func (l *Ledger) Issue(ctx context.Context, caller, to id.AccountID, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	if err := l.gate.RequireOwner(caller); err != nil {
		return err
	}

	checkpoint := l.book.Checkpoint()
	if err := l.book.Issue(to, amount); err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitTransfer(ctx, id.Nil, to, amount)
	return nil
}

// Destroy removes amount units from the holder's balance, shrinking the
// total supply. Only the owner may destroy.
func (l *Ledger) Destroy(ctx context.Context, caller, holder id.AccountID, amount types.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	if err := l.gate.RequireOwner(caller); err != nil {
		return err
	}

	checkpoint := l.book.Checkpoint()
	if err := l.book.Destroy(holder, amount); err != nil {
		return err
	}
	if err := l.store.SaveState(ctx, l.book.State()); err != nil {
		l.book.Restore(checkpoint)
		return err
	}

	l.hooks.EmitTransfer(ctx, holder, id.Nil, amount)
	return nil
}

// ──────────────────────────────────────────────────
// Ownership
// ──────────────────────────────────────────────────

// TransferOwnership moves the privileged role to newOwner. Only the current
// owner may call it.
func (l *Ledger) TransferOwnership(ctx context.Context, caller, newOwner id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}

	previous, err := l.gate.TransferOwnership(caller, newOwner)
	if err != nil {
		return err
	}

	state := l.book.State()
	prevOwner := state.Owner
	state.Owner = newOwner.String()
	state.Touch()

	if err := l.store.SaveState(ctx, state); err != nil {
		state.Owner = prevOwner
		l.gate = authority.NewGate(previous)
		return err
	}

	l.hooks.EmitOwnershipTransferred(ctx, previous, newOwner)
	return nil
}

// RenounceOwnership always fails with ErrOperationDisabled: the ledger can
// never become ownerless.
func (l *Ledger) RenounceOwnership(ctx context.Context, caller id.AccountID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		return ErrNotStarted
	}
	return l.gate.RenounceOwnership(caller)
}
