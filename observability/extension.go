// Package observability provides a metrics extension for TokenLedger that
// records ledger effect counts through a caller-supplied MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ hook.Hook                   = (*MetricsExtension)(nil)
	_ hook.OnInit                 = (*MetricsExtension)(nil)
	_ hook.OnTransfer             = (*MetricsExtension)(nil)
	_ hook.OnApproval             = (*MetricsExtension)(nil)
	_ hook.OnOwnershipTransferred = (*MetricsExtension)(nil)
	_ hook.OnRecovery             = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records ledger effect metrics.
// Register it as a ledger hook to automatically track token activity.
type MetricsExtension struct {
	factory MetricFactory

	// Transfer metrics
	Transfers      Counter
	TransferVolume Histogram
	Issued         Counter
	Burned         Counter

	// Allowance metrics
	Approvals          Counter
	UnlimitedApprovals Counter

	// Ownership metrics
	OwnershipTransfers Counter

	// Recovery metrics
	Recoveries Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		// Transfer metrics
		Transfers:      factory.Counter("tokenledger.transfers"),
		TransferVolume: factory.Histogram("tokenledger.transfer.volume"),
		Issued:         factory.Counter("tokenledger.issued"),
		Burned:         factory.Counter("tokenledger.burned"),

		// Allowance metrics
		Approvals:          factory.Counter("tokenledger.approvals"),
		UnlimitedApprovals: factory.Counter("tokenledger.approvals.unlimited"),

		// Ownership metrics
		OwnershipTransfers: factory.Counter("tokenledger.ownership.transfers"),

		// Recovery metrics
		Recoveries: factory.Counter("tokenledger.recoveries"),
	}
}

// Name implements hook.Hook.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements hook.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	// No initialization needed
	return nil
}

// ──────────────────────────────────────────────────
// Ledger effect hooks
// ──────────────────────────────────────────────────

// OnTransfer implements hook.OnTransfer. Issuance and destruction arrive
// with the null identity as from or to.
func (m *MetricsExtension) OnTransfer(_ context.Context, from, to id.AccountID, amount types.Amount) error {
	switch {
	case from.IsNil():
		m.Issued.Inc()
	case to.IsNil():
		m.Burned.Inc()
	default:
		m.Transfers.Inc()
	}
	m.TransferVolume.Observe(float64(amount))
	return nil
}

// OnApproval implements hook.OnApproval.
func (m *MetricsExtension) OnApproval(_ context.Context, _, _ id.AccountID, amount types.Amount) error {
	m.Approvals.Inc()
	if amount.IsUnlimited() {
		m.UnlimitedApprovals.Inc()
	}
	return nil
}

// OnOwnershipTransferred implements hook.OnOwnershipTransferred.
func (m *MetricsExtension) OnOwnershipTransferred(_ context.Context, _, _ id.AccountID) error {
	m.OwnershipTransfers.Inc()
	return nil
}

// OnRecovery implements hook.OnRecovery.
func (m *MetricsExtension) OnRecovery(_ context.Context, _ id.AssetID, _ id.AccountID, _ types.Amount) error {
	m.Recoveries.Inc()
	return nil
}
