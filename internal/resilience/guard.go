// Package resilience wraps every outbound network call with the offline
// short-circuit, the fixed operation deadline, and timeout
// classification, and monitors device connectivity for the lifetime of
// the process.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
)

// Hooks receive loading-state transitions. Start and Stop are paired
// exactly once per guarded call; Stop fires on every exit path.
type Hooks struct {
	Start func()
	Stop  func()
}

// Guard enforces the resilience policy around one logical operation.
type Guard struct {
	timeout time.Duration
	online  func() bool
	hooks   Hooks
	logger  *slog.Logger
}

// NewGuard builds a guard. online may be nil for contexts with no
// connectivity monitoring (tests); hooks fields may be nil.
func NewGuard(timeout time.Duration, online func() bool, hooks Hooks, logger *slog.Logger) *Guard {
	return &Guard{
		timeout: timeout,
		online:  online,
		hooks:   hooks,
		logger:  logger,
	}
}

// Do runs fn under the guard. If the device is offline the call is never
// attempted and the loading state never activates. Exactly one of
// success, classified error, or timeout is the outcome.
func (g *Guard) Do(ctx context.Context, resource string, fn func(context.Context) error) error {
	if g.online != nil && !g.online() {
		g.logger.Debug("Skipping network call while offline", "resource", resource)
		return apperror.Offline()
	}

	if g.hooks.Start != nil {
		g.hooks.Start()
	}
	stopped := false
	stop := func() {
		if stopped {
			return
		}
		stopped = true
		if g.hooks.Stop != nil {
			g.hooks.Stop()
		}
	}
	defer stop()

	opCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	err := fn(opCtx)
	stop()
	if err == nil {
		return nil
	}

	if errors.Is(opCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		g.logger.Warn("Operation timed out", "resource", resource, "timeout", g.timeout)
		return apperror.Timeout()
	}
	return err
}
