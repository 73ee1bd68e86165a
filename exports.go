package tokenledger

import (
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Re-export common types for convenience so users don't have to import the
// types and id packages.

// Amount is re-exported from the types package.
type Amount = types.Amount

// Entity is re-exported from the types package.
type Entity = types.Entity

// AccountID is re-exported from the id package.
type AccountID = id.AccountID

// AssetID is re-exported from the id package.
type AssetID = id.AssetID

// Re-export amount constructors and constants
const (
	Decimals  = types.Decimals
	Unit      = types.Unit
	Unlimited = types.Unlimited
)

var (
	Tokens      = types.Tokens
	ParseAmount = types.ParseAmount
	Sum         = types.Sum
)

// Re-export identity constructors
var (
	NewAccountID   = id.NewAccountID
	NewAssetID     = id.NewAssetID
	ParseAccountID = id.ParseAccountID
	ParseAssetID   = id.ParseAssetID
)
