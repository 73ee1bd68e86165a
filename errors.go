package tokenledger

import (
	"errors"

	"github.com/xraph/tokenledger/authority"
	"github.com/xraph/tokenledger/book"
	"github.com/xraph/tokenledger/store"
)

// Core-rule sentinels are declared in the packages that raise them and
// re-exported here so callers only need the root import to classify
// failures.
var (
	// Validation errors
	ErrInvalidAddress = book.ErrInvalidAddress
	ErrInvalidOwner   = authority.ErrInvalidOwner
	ErrSelfRecovery   = errors.New("tokenledger: cannot recover the ledger's own token")

	// Resource errors
	ErrInsufficientBalance   = book.ErrInsufficientBalance
	ErrInsufficientAllowance = book.ErrInsufficientAllowance
	ErrAllowanceUnderflow    = book.ErrAllowanceUnderflow
	ErrSupplyCapExceeded     = book.ErrSupplyCapExceeded
	ErrAmountOverflow        = book.ErrAmountOverflow

	// Protocol errors
	ErrUnsafeApproval = book.ErrUnsafeApproval

	// Authorization errors
	ErrUnauthorized = authority.ErrUnauthorized

	// Policy errors
	ErrOperationDisabled = authority.ErrOperationDisabled

	// Integration errors
	ErrExternalTransfer = errors.New("tokenledger: external asset transfer failed")

	// Lifecycle errors
	ErrStateNotFound  = store.ErrStateNotFound
	ErrNotStarted     = errors.New("tokenledger: ledger not started")
	ErrAlreadyStarted = errors.New("tokenledger: ledger already started")
)

// IsValidation returns true if the error rejects an identity or argument.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidOwner) ||
		errors.Is(err, ErrSelfRecovery)
}

// IsResource returns true if the error is a balance, allowance, or supply
// limit violation.
func IsResource(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrInsufficientAllowance) ||
		errors.Is(err, ErrAllowanceUnderflow) ||
		errors.Is(err, ErrSupplyCapExceeded) ||
		errors.Is(err, ErrAmountOverflow)
}

// IsAuthorization returns true if the error is an owner-guard rejection.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrOperationDisabled)
}
