package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func recordHooks(h *Handler, n int) (*[]int, *sync.Mutex) {
	order := make([]int, 0, n)
	var mu sync.Mutex
	for i := 1; i <= n; i++ {
		i := i
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}
	return &order, &mu
}

func waitAsync(h *Handler, ctx context.Context) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(ctx) }()
	return errCh
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if h.hooks == nil || h.done == nil || h.trigger == nil {
		t.Error("handler should be fully initialized")
	}
	if len(h.signals) != 2 {
		t.Errorf("signals = %v, want SIGINT and SIGTERM", h.signals)
	}

	select {
	case <-h.Done():
		t.Error("Done channel should not be closed initially")
	default:
	}
}

func TestHandler_Trigger_ReverseOrder(t *testing.T) {
	h := NewHandler(time.Second)
	order, mu := recordHooks(h, 3)

	errCh := waitAsync(h, context.Background())
	h.Trigger()
	h.Trigger()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*order) != 3 || (*order)[0] != 3 || (*order)[1] != 2 || (*order)[2] != 1 {
		t.Errorf("hooks called in order %v, want [3 2 1]", *order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Wait completes")
	}
}

func TestHandler_Wait_ContextCanceled(t *testing.T) {
	h := NewHandler(time.Second)
	order, mu := recordHooks(h, 1)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := waitAsync(h, ctx)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*order) != 1 {
		t.Errorf("hooks called = %d, want 1", len(*order))
	}
}

func TestHandler_Wait_HookDeadlineOutlivesContext(t *testing.T) {
	h := NewHandler(time.Second)

	var hookErr error
	h.OnShutdown(func(ctx context.Context) error {
		hookErr = ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if hookErr != nil {
		t.Errorf("hook context already done: %v", hookErr)
	}
}

func TestHandler_Wait_WithSignal(t *testing.T) {
	h := NewHandler(time.Second)
	order, mu := recordHooks(h, 2)

	errCh := waitAsync(h, context.Background())

	// Give Wait time to install the signal handler.
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Kill() error = %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not complete in time")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*order) != 2 {
		t.Errorf("hooks called = %d, want 2", len(*order))
	}
}

func TestHandler_Wait_HookErrorsJoined(t *testing.T) {
	h := NewHandler(time.Second)

	errA := errors.New("close http")
	errB := errors.New("close redis")
	ran := 0
	h.OnShutdown(func(context.Context) error { ran++; return errA })
	h.OnShutdown(func(context.Context) error { ran++; return nil })
	h.OnShutdown(func(context.Context) error { ran++; return errB })

	h.Trigger()
	err := h.Wait(context.Background())

	if ran != 3 {
		t.Errorf("hooks run = %d, want 3", ran)
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() error = %v, want both hook errors", err)
	}
}

func TestHandler_ConcurrentOnShutdown(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.OnShutdown(func(context.Context) error { return nil })
		}()
	}
	wg.Wait()

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hooks) != 10 {
		t.Errorf("hooks = %d, want 10", len(h.hooks))
	}
}
