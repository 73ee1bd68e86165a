package hook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/tokenledger/id"
	"github.com/xraph/tokenledger/types"
)

// DefaultCallTimeout bounds how long a single hook may run. Hooks must
// never block the ledger pipeline.
const DefaultCallTimeout = 5 * time.Second

// Registry manages all registered hooks and provides efficient dispatch.
// It uses type-cached discovery so emission never type-switches per call.
type Registry struct {
	mu     sync.RWMutex
	hooks  []Hook
	logger *slog.Logger

	callTimeout time.Duration

	// Type-cached hook lists for efficient dispatch
	onInit                 []OnInit
	onShutdown             []OnShutdown
	onTransfer             []OnTransfer
	onApproval             []OnApproval
	onOwnershipTransferred []OnOwnershipTransferred
	onRecovery             []OnRecovery
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:      slog.Default(),
		callTimeout: DefaultCallTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithCallTimeout sets the per-hook call timeout.
func (r *Registry) WithCallTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.callTimeout = d
	}
	return r
}

// Register adds a hook to the registry and caches its interfaces.
func (r *Registry) Register(h Hook) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check for duplicate
	for _, existing := range r.hooks {
		if existing.Name() == h.Name() {
			return fmt.Errorf("hook: duplicate registration: %s", h.Name())
		}
	}

	r.hooks = append(r.hooks, h)

	// Type-switch to cache interfaces
	var kinds []string
	if v, ok := h.(OnInit); ok {
		r.onInit = append(r.onInit, v)
		kinds = append(kinds, "OnInit")
	}
	if v, ok := h.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
		kinds = append(kinds, "OnShutdown")
	}
	if v, ok := h.(OnTransfer); ok {
		r.onTransfer = append(r.onTransfer, v)
		kinds = append(kinds, "OnTransfer")
	}
	if v, ok := h.(OnApproval); ok {
		r.onApproval = append(r.onApproval, v)
		kinds = append(kinds, "OnApproval")
	}
	if v, ok := h.(OnOwnershipTransferred); ok {
		r.onOwnershipTransferred = append(r.onOwnershipTransferred, v)
		kinds = append(kinds, "OnOwnershipTransferred")
	}
	if v, ok := h.(OnRecovery); ok {
		r.onRecovery = append(r.onRecovery, v)
		kinds = append(kinds, "OnRecovery")
	}

	r.logger.Info("hook registered",
		"name", h.Name(),
		"kinds", kinds,
	)

	return nil
}

// Get returns a hook by name.
func (r *Registry) Get(name string) Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.hooks {
		if h.Name() == name {
			return h
		}
	}
	return nil
}

// List returns all registered hooks.
func (r *Registry) List() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Hook, len(r.hooks))
	copy(result, r.hooks)
	return result
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all hooks that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	r.mu.RLock()
	hooks := r.onInit
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnInit(ctx, ledger)
		}); err != nil {
			r.logger.Warn("hook OnInit failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitShutdown calls OnShutdown for all hooks that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	hooks := r.onShutdown
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnShutdown(ctx)
		}); err != nil {
			r.logger.Warn("hook OnShutdown failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitTransfer emits a committed balance move, including issuance and
// destruction signaled through the null identity.
func (r *Registry) EmitTransfer(ctx context.Context, from, to id.AccountID, amount types.Amount) {
	r.mu.RLock()
	hooks := r.onTransfer
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnTransfer(ctx, from, to, amount)
		}); err != nil {
			r.logger.Warn("hook OnTransfer failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitApproval emits a committed allowance write.
func (r *Registry) EmitApproval(ctx context.Context, owner, spender id.AccountID, amount types.Amount) {
	r.mu.RLock()
	hooks := r.onApproval
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnApproval(ctx, owner, spender, amount)
		}); err != nil {
			r.logger.Warn("hook OnApproval failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitOwnershipTransferred emits a committed ownership change.
func (r *Registry) EmitOwnershipTransferred(ctx context.Context, previous, next id.AccountID) {
	r.mu.RLock()
	hooks := r.onOwnershipTransferred
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnOwnershipTransferred(ctx, previous, next)
		}); err != nil {
			r.logger.Warn("hook OnOwnershipTransferred failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// EmitRecovery emits a committed recovery sweep of an external asset.
func (r *Registry) EmitRecovery(ctx context.Context, asset id.AssetID, to id.AccountID, amount types.Amount) {
	r.mu.RLock()
	hooks := r.onRecovery
	r.mu.RUnlock()

	for _, h := range hooks {
		if err := r.callWithTimeout(ctx, h.Name(), func() error {
			return h.OnRecovery(ctx, asset, to, amount)
		}); err != nil {
			r.logger.Warn("hook OnRecovery failed",
				"hook", h.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a hook function with a timeout.
func (r *Registry) callWithTimeout(ctx context.Context, hookName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.callTimeout):
		return fmt.Errorf("hook timeout: %s", hookName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
