// Package audithook bridges ledger effects to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/tokenledger/hook"
	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// Compile-time interface checks.
var (
	_ hook.Hook                   = (*Extension)(nil)
	_ hook.OnTransfer             = (*Extension)(nil)
	_ hook.OnApproval             = (*Extension)(nil)
	_ hook.OnOwnershipTransferred = (*Extension)(nil)
	_ hook.OnRecovery             = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audithook package does not import Chronicle directly — callers inject
// the concrete *chronicle.Chronicle at wiring time.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// It mirrors chronicle/audit.Event but avoids a module dependency.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger effects to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements hook.Hook.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Ledger effect hooks
// ──────────────────────────────────────────────────

// OnTransfer implements hook.OnTransfer. Issuance and destruction arrive
// with the null identity as from or to.
func (e *Extension) OnTransfer(ctx context.Context, from, to id.AccountID, amount types.Amount) error {
	action := ActionTransfer
	switch {
	case from.IsNil():
		action = ActionIssued
	case to.IsNil():
		action = ActionBurned
	}
	return e.record(ctx, action, SeverityInfo,
		ResourceAccount, to.String(), CategoryToken,
		"from", from.String(),
		"to", to.String(),
		"amount", amount.Base10(),
	)
}

// OnApproval implements hook.OnApproval.
func (e *Extension) OnApproval(ctx context.Context, owner, spender id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionApproval, SeverityInfo,
		ResourceAllowance, owner.String(), CategoryToken,
		"owner", owner.String(),
		"spender", spender.String(),
		"amount", amount.Base10(),
		"unlimited", amount.IsUnlimited(),
	)
}

// OnOwnershipTransferred implements hook.OnOwnershipTransferred.
func (e *Extension) OnOwnershipTransferred(ctx context.Context, previous, next id.AccountID) error {
	return e.record(ctx, ActionOwnershipTransferred, SeverityWarning,
		ResourceOwnership, next.String(), CategoryAccess,
		"previous", previous.String(),
		"next", next.String(),
	)
}

// OnRecovery implements hook.OnRecovery.
func (e *Extension) OnRecovery(ctx context.Context, asset id.AssetID, to id.AccountID, amount types.Amount) error {
	return e.record(ctx, ActionAssetRecovered, SeverityWarning,
		ResourceAsset, asset.String(), CategoryRecovery,
		"asset", asset.String(),
		"to", to.String(),
		"amount", amount.Base10(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    OutcomeSuccess,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audithook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
