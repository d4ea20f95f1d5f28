package core

// load_limiter.go bounds how many catalog loads may run at once.
//
// Loads are serialized with a one-slot semaphore. A caller that cannot get
// the slot within maxWait fails with ErrLoadBusy instead of queueing forever
// behind a slow directory scan. WaitForDrain lets shutdown wait for an
// in-flight load to finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoadBusy is returned when another load holds the slot past the wait timeout.
var ErrLoadBusy = errors.New("load already in progress")

// DefaultLoadWait is how long a load waits for the slot before giving up.
const DefaultLoadWait = 30 * time.Second

// LoadLimiter controls concurrent catalog loads using a semaphore.
type LoadLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewLoadLimiter creates a limiter allowing maxConcurrent simultaneous loads.
// Non-positive arguments select one slot and DefaultLoadWait.
func NewLoadLimiter(maxConcurrent int, maxWait time.Duration) *LoadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	if maxWait <= 0 {
		maxWait = DefaultLoadWait
	}
	return &LoadLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire waits for a slot. It returns ErrLoadBusy when maxWait expires and
// ctx.Err() when ctx ends first. The caller must Release after success.
func (l *LoadLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrLoadBusy
	}
}

// Release frees a slot taken by Acquire.
func (l *LoadLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of loads currently holding a slot.
func (l *LoadLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until no load is active or ctx ends.
func (l *LoadLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.ActiveCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LoadLimiterStatus is a snapshot of the limiter for the health endpoint.
type LoadLimiterStatus struct {
	Active        int `json:"active"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *LoadLimiter) Status() LoadLimiterStatus {
	return LoadLimiterStatus{
		Active:        l.ActiveCount(),
		MaxConcurrent: cap(l.semaphore),
	}
}
