package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoadLimiter_AcquireRelease(t *testing.T) {
	limiter := NewLoadLimiter(1, time.Second)

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if got := limiter.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}

	limiter.Release()
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
}

func TestLoadLimiter_BusyAfterWait(t *testing.T) {
	limiter := NewLoadLimiter(1, 50*time.Millisecond)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(context.Background())
	if !errors.Is(err, ErrLoadBusy) {
		t.Errorf("expected ErrLoadBusy, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("gave up too fast: %v", elapsed)
	}
}

func TestLoadLimiter_ContextCancellation(t *testing.T) {
	limiter := NewLoadLimiter(1, 5*time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- limiter.Acquire(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Acquire did not return after cancellation")
	}
}

func TestLoadLimiter_WaitForDrain(t *testing.T) {
	limiter := NewLoadLimiter(1, time.Second)

	if err := limiter.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("idle WaitForDrain: %v", err)
	}

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- limiter.WaitForDrain(context.Background())
	}()

	select {
	case <-done:
		t.Fatal("WaitForDrain returned while a load was active")
	case <-time.After(50 * time.Millisecond):
	}

	limiter.Release()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("WaitForDrain did not complete after release")
	}
}

func TestLoadLimiter_Defaults(t *testing.T) {
	limiter := NewLoadLimiter(0, 0)

	status := limiter.Status()
	if status.MaxConcurrent != 1 || status.Active != 0 {
		t.Errorf("Status() = %+v, want one idle slot", status)
	}
	if limiter.maxWait != DefaultLoadWait {
		t.Errorf("maxWait = %v, want %v", limiter.maxWait, DefaultLoadWait)
	}
}
