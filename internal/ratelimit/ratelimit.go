package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultLimit  = 60
	DefaultWindow = time.Minute
)

// Clock lets tests control time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Window is a fixed-window request counter. The counter and the window start
// are read and updated under one lock, so two callers can never both see a
// stale "under limit" state.
type Window struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	count  int
	start  time.Time
	clock  Clock
	sleep  func(ctx context.Context, d time.Duration) error
}

type Option func(*Window)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(w *Window) {
		w.clock = c
	}
}

// WithSleep replaces the wait used when the ceiling is reached.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Window) {
		w.sleep = fn
	}
}

// NewWindow allows limit calls per window. Non-positive values fall back to
// 60 per minute.
func NewWindow(limit int, window time.Duration, opts ...Option) *Window {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	w := &Window{
		limit:  limit,
		window: window,
		clock:  realClock{},
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.start = w.clock.Now()
	return w
}

// Acquire takes one slot, blocking until the current window elapses when the
// ceiling has been reached.
func (w *Window) Acquire(ctx context.Context) error {
	for {
		wait, ok := w.tryAcquire()
		if ok {
			return nil
		}
		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire reports how long to wait when no slot is free.
func (w *Window) tryAcquire() (time.Duration, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if now.Sub(w.start) >= w.window {
		w.count = 0
		w.start = now
	}
	if w.count < w.limit {
		w.count++
		return 0, true
	}
	return w.start.Add(w.window).Sub(now), false
}

// Remaining returns the free slots in the current window.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.clock.Now().Sub(w.start) >= w.window {
		return w.limit
	}
	return w.limit - w.count
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// WithRateLimit runs fn after acquiring a slot. A nil limiter means no limit.
func WithRateLimit(ctx context.Context, w *Window, fn func() error) error {
	if w != nil {
		if err := w.Acquire(ctx); err != nil {
			return err
		}
	}
	return fn()
}
