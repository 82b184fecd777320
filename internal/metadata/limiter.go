package metadata

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Limiter spaces requests against one provider. Each Acquire reserves the
// next slot, so concurrent callers are served one interval apart.
type Limiter struct {
	mu        sync.Mutex
	next      time.Time
	interval  time.Duration
	maxJitter time.Duration

	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
	jitter func(time.Duration) time.Duration
}

type LimiterOption func(*Limiter)

// WithClock replaces the wall clock and the sleep used while waiting.
func WithClock(now func() time.Time, sleep func(context.Context, time.Duration) error) LimiterOption {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
		if sleep != nil {
			l.sleep = sleep
		}
	}
}

func WithoutJitter() LimiterOption {
	return func(l *Limiter) {
		l.maxJitter = 0
	}
}

func NewLimiter(interval time.Duration, maxJitter time.Duration, opts ...LimiterOption) *Limiter {
	limiter := &Limiter{
		interval:  interval,
		maxJitter: maxJitter,
		now:       time.Now,
		sleep:     sleepContext,
		jitter:    randomJitter,
	}
	for _, opt := range opts {
		opt(limiter)
	}
	return limiter
}

func NewAniListLimiter(opts ...LimiterOption) *Limiter {
	return NewLimiter(2000*time.Millisecond, 500*time.Millisecond, opts...)
}

func NewMangaDexLimiter(opts ...LimiterOption) *Limiter {
	return NewLimiter(600*time.Millisecond, 300*time.Millisecond, opts...)
}

// Acquire blocks until the caller's slot opens or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	now := l.now()
	start := l.next
	if start.Before(now) {
		start = now
	}
	spacing := l.interval
	if l.maxJitter > 0 {
		spacing += l.jitter(l.maxJitter)
	}
	l.next = start.Add(spacing)
	l.mu.Unlock()

	if wait := start.Sub(now); wait > 0 {
		return l.sleep(ctx, wait)
	}
	return ctx.Err()
}

// Defer keeps the window closed for at least delay from now.
func (l *Limiter) Defer(delay time.Duration) {
	if delay <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if candidate := l.now().Add(delay); candidate.After(l.next) {
		l.next = candidate
	}
}

func randomJitter(max time.Duration) time.Duration {
	return time.Duration(rand.Int64N(int64(max)))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
