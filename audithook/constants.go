package audithook

// Action constants for audit events.
const (
	// Transfer actions
	ActionTransfer = "token.transfer"
	ActionIssued   = "token.issued"
	ActionBurned   = "token.burned"

	// Allowance actions
	ActionApproval = "token.approval"

	// Ownership actions
	ActionOwnershipTransferred = "ownership.transferred"

	// Recovery actions
	ActionAssetRecovered = "recovery.asset_recovered"
)

// Resource constants for audit events.
const (
	ResourceAccount   = "account"
	ResourceAllowance = "allowance"
	ResourceOwnership = "ownership"
	ResourceAsset     = "asset"
)

// Category constants for audit events.
const (
	CategoryToken    = "token"
	CategoryAccess   = "access"
	CategoryRecovery = "recovery"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
