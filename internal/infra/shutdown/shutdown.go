package shutdown

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook releases one resource during shutdown.
type Hook func(context.Context) error

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	hooks   []Hook
	mu      sync.Mutex
	done    chan struct{}
}

// NewHandler creates a handler whose hooks share timeout.
func NewHandler(timeout time.Duration) *Handler {
	return &Handler{
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Wait blocks until SIGINT, SIGTERM or cancellation of ctx, then runs the
// hooks. Every hook runs even if an earlier one fails; the errors are joined.
func (h *Handler) Wait(ctx context.Context) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	stop()

	return h.Run()
}

// Run executes the hooks immediately.
func (h *Handler) Run() error {
	defer close(h.done)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
