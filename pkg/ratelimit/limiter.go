// Package ratelimit spaces outbound calls to third-party APIs.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out at most one slot per interval. Callers own their
// limiter; there is no shared process-wide instance.
type Limiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// New creates a limiter that allows one call every interval.
func New(interval time.Duration) *Limiter {
	l := &Limiter{interval: interval}
	if interval > 0 {
		l.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return l
}

// Wait blocks until the caller's slot arrives or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return ctx.Err()
	}
	if err := l.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// rate refuses up front when the slot falls after the deadline.
		if _, ok := ctx.Deadline(); ok {
			return context.DeadlineExceeded
		}
		return err
	}
	return nil
}

// Interval returns the configured spacing between calls.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}
