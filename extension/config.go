package extension

import "time"

// Config holds the TokenLedger extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.tokenledger" or "tokenledger" keys).
type Config struct {
	// DisableStart prevents the ledger from starting (migration and genesis)
	// during extension start. The application must call Start itself.
	DisableStart bool `json:"disable_start" mapstructure:"disable_start" yaml:"disable_start"`

	// Name is the token's display name (default: "Ember").
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Symbol is the token's ticker symbol (default: "EMBR").
	Symbol string `json:"symbol" mapstructure:"symbol" yaml:"symbol"`

	// MaxSupply is the permanent supply cap in whole tokens (default: 1000000).
	MaxSupply uint64 `json:"max_supply" mapstructure:"max_supply" yaml:"max_supply"`

	// InitialSupply is the amount issued to the deployer at genesis, in whole
	// tokens (default: 500000).
	InitialSupply uint64 `json:"initial_supply" mapstructure:"initial_supply" yaml:"initial_supply"`

	// Deployer is the account that becomes owner and receives the initial
	// supply at genesis. Required unless set programmatically.
	Deployer string `json:"deployer" mapstructure:"deployer" yaml:"deployer"`

	// HookTimeout bounds each hook call (default: 5s).
	HookTimeout time.Duration `json:"hook_timeout" mapstructure:"hook_timeout" yaml:"hook_timeout"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name:          "Ember",
		Symbol:        "EMBR",
		MaxSupply:     1_000_000,
		InitialSupply: 500_000,
		HookTimeout:   5 * time.Second,
	}
}
