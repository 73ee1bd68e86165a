package extension

import (
	"time"

	tokenledger "github.com/xraph/tokenledger"
	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/store"
)

// Option configures the TokenLedger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithDeployer sets the deployer account programmatically, overriding the
// config file value.
func WithDeployer(deployer id.AccountID) Option {
	return func(e *Extension) {
		e.deployer = deployer
	}
}

// WithLedgerOption passes a tokenledger.Option through to the underlying engine.
func WithLedgerOption(opt tokenledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithHook registers a ledger hook.
func WithHook(h hook.Hook) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, tokenledger.WithHook(h))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableStart prevents the ledger from starting during extension start.
func WithDisableStart() Option {
	return func(e *Extension) { e.config.DisableStart = true }
}

// WithTokenInfo sets the token's display name and symbol.
func WithTokenInfo(name, symbol string) Option {
	return func(e *Extension) {
		e.config.Name = name
		e.config.Symbol = symbol
	}
}

// WithMaxSupply sets the permanent supply cap in whole tokens.
func WithMaxSupply(tokens uint64) Option {
	return func(e *Extension) { e.config.MaxSupply = tokens }
}

// WithInitialSupply sets the genesis issuance in whole tokens.
func WithInitialSupply(tokens uint64) Option {
	return func(e *Extension) { e.config.InitialSupply = tokens }
}

// WithHookTimeout bounds each hook call.
func WithHookTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.HookTimeout = d }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
