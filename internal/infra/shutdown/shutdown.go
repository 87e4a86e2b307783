package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yndnr/sigguard/internal/telemetry/logger"
)

// Hook is a cleanup step. It should return once ctx is done.
type Hook func(ctx context.Context) error

// Hooks runs registered cleanup steps once.
type Hooks struct {
	timeout time.Duration
	mu      sync.Mutex
	hooks   []Hook
	once    sync.Once
	err     error
	done    chan struct{}
}

// NewHooks creates a hook list whose Run is bounded by timeout.
func NewHooks(timeout time.Duration) *Hooks {
	return &Hooks{
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a hook. Hooks run in reverse order of registration.
func (h *Hooks) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Len returns the number of registered hooks.
func (h *Hooks) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hooks)
}

// Run executes the hooks, newest first, under the configured timeout.
// Every hook runs even if an earlier one fails; the errors are joined.
// Only the first call does any work; later calls return its result.
func (h *Hooks) Run(ctx context.Context) error {
	h.once.Do(func() {
		defer close(h.done)

		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]Hook, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		var errs []error
		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				errs = append(errs, fmt.Errorf("hook %d: %w", i, err))
			}
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown hooks: %w", err))
		}
		h.err = errors.Join(errs...)
	})
	<-h.done
	return h.err
}

// Done is closed once Run has finished.
func (h *Hooks) Done() <-chan struct{} {
	return h.done
}

// Func adapts Run to a zero-argument callback. The hooks run under ctx
// and the outcome is logged through the logger ctx carries.
func (h *Hooks) Func(ctx context.Context, reason string) func() {
	return func() {
		log := logger.L(ctx)
		start := time.Now()
		if err := h.Run(ctx); err != nil {
			log.Error("shutdown hooks failed", "reason", reason, "error", err, "elapsed", time.Since(start))
			return
		}
		log.Info("shutdown hooks completed", "reason", reason, "hooks", h.Len(), "elapsed", time.Since(start))
	}
}
