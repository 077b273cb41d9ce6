package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/yndnr/dms-portal/internal/telemetry/logger"
)

// Hook releases one resource. It should return once ctx is done.
type Hook func(context.Context) error

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	hooks   []Hook
	mu      sync.Mutex
	done    chan struct{}
	trigger chan struct{}
	once    sync.Once
	signals []os.Signal
	logger  logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used to report shutdown progress.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithSignals replaces the signals that start shutdown.
func WithSignals(sig ...os.Signal) Option {
	return func(h *Handler) { h.signals = sig }
}

// NewHandler creates a new shutdown handler.
func NewHandler(timeout time.Duration, opts ...Option) *Handler {
	h := &Handler{
		timeout: timeout,
		hooks:   make([]Hook, 0),
		done:    make(chan struct{}),
		trigger: make(chan struct{}),
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Trigger starts shutdown as if a signal had arrived. Calls after the
// first are no-ops.
func (h *Handler) Trigger() {
	h.once.Do(func() { close(h.trigger) })
}

// Wait blocks until a signal arrives, Trigger is called, or ctx ends, and
// then runs the hooks. Every hook runs even if an earlier one fails; the
// failures are joined.
func (h *Handler) Wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.signals...)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		h.logger.Info("shutdown signal received", "signal", sig.String())
	case <-h.trigger:
		h.logger.Info("shutdown requested")
	case <-ctx.Done():
		h.logger.Info("shutdown on context end", "error", ctx.Err())
	}

	return h.run()
}

func (h *Handler) run() error {
	// The original ctx may already be done; hooks get a fresh deadline.
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			h.logger.Error("shutdown hook failed", "index", i, "error", err)
			errs = append(errs, err)
		}
	}

	close(h.done)
	h.logger.Info("shutdown complete")
	return errors.Join(errs...)
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
