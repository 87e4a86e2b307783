package shutdown

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yndnr/sigguard/internal/telemetry/logger"
)

func TestHooks_RunReverseOrder(t *testing.T) {
	h := NewHooks(5 * time.Second)

	var (
		mu    sync.Mutex
		order []int
	)
	for i := 1; i <= 3; i++ {
		i := i
		h.OnShutdown(func(ctx context.Context) error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[1] != 2 || order[2] != 1 {
		t.Errorf("hooks called in order %v, want [3 2 1]", order)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after Run")
	}
}

func TestHooks_RunJoinsErrors(t *testing.T) {
	h := NewHooks(5 * time.Second)
	errA := errors.New("flush failed")
	errB := errors.New("close failed")

	ran := 0
	h.OnShutdown(func(ctx context.Context) error { ran++; return errA })
	h.OnShutdown(func(ctx context.Context) error { ran++; return nil })
	h.OnShutdown(func(ctx context.Context) error { ran++; return errB })

	err := h.Run(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Run() error = %v, want both hook errors", err)
	}
	if ran != 3 {
		t.Errorf("ran %d hooks, want 3", ran)
	}
}

func TestHooks_RunOnce(t *testing.T) {
	h := NewHooks(time.Second)
	calls := 0
	h.OnShutdown(func(ctx context.Context) error { calls++; return nil })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Run(context.Background())
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}

func TestHooks_Timeout(t *testing.T) {
	h := NewHooks(20 * time.Millisecond)
	h.OnShutdown(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	err := h.Run(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want deadline exceeded", err)
	}
}

func TestHooks_Func(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(logger.Config{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logger.New() error = %v", err)
	}

	h := NewHooks(time.Second)
	h.OnShutdown(func(ctx context.Context) error { return errors.New("disk full") })

	var seen string
	h.OnShutdown(func(ctx context.Context) error {
		seen = logger.ProgramFromContext(ctx)
		return nil
	})

	ctx := logger.WithProgram(logger.WithLogger(context.Background(), log), "solver")
	h.Func(ctx, "SIGTERM")()

	out := buf.String()
	if !strings.Contains(out, "shutdown hooks failed") || !strings.Contains(out, "disk full") {
		t.Errorf("log output = %s", out)
	}
	if !strings.Contains(out, `"program":"solver"`) {
		t.Errorf("log output lacks the program attribute: %s", out)
	}
	if seen != "solver" {
		t.Errorf("hook context program = %q, want solver", seen)
	}
}
