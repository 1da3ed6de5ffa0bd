package promotion

import (
	"context"
	"errors"
	"sync"
)

// ErrRunInProgress another promotion holds the guard
var ErrRunInProgress = errors.New("promotion run already in progress")

// Runner anything that performs a promotion run
type Runner interface {
	Run(ctx context.Context) (*Report, error)
}

// Exclusive lets one run through at a time; overlapping callers get ErrRunInProgress.
// Scheduled and manual runs share one instance.
type Exclusive struct {
	mu    sync.Mutex
	inner Runner
}

// NewExclusive wraps inner
func NewExclusive(inner Runner) *Exclusive {
	return &Exclusive{inner: inner}
}

// Run delegates when no other run is active
func (e *Exclusive) Run(ctx context.Context) (*Report, error) {
	if !e.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer e.mu.Unlock()
	return e.inner.Run(ctx)
}
