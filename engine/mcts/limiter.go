package mcts

import (
	"context"
	"sync/atomic"
	"time"
)

type StopReason int

const (
	StopNone       StopReason = iota
	StopInterrupt             // Cancel was called
	StopMovetime              // time limit reached
	StopIterations            // every worker used its playout budget
)

func (sr StopReason) String() string {
	switch sr {
	case StopInterrupt:
		return "Interrupt"
	case StopMovetime:
		return "Movetime"
	case StopIterations:
		return "Iterations"
	}
	return "None"
}

// limiter decides when the workers of one search stop. It is shared by all
// workers of that search; Stop may be called from any goroutine.
type limiter struct {
	ctx      context.Context
	limits   Limits
	start    time.Time
	deadline time.Time
	stop     atomic.Bool
	timeout  atomic.Bool
}

func newLimiter(ctx context.Context, limits Limits) *limiter {
	l := &limiter{
		ctx:    ctx,
		limits: limits,
		start:  time.Now(),
	}
	if limits.Movetime > 0 {
		l.deadline = l.start.Add(limits.Movetime)
	}
	return l
}

// Stop reports whether the search was interrupted.
func (l *limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

// Ok reports whether a worker that has run n playouts may run another.
func (l *limiter) Ok(n int) bool {
	if l.Stop() {
		return false
	}
	if !l.deadline.IsZero() && time.Now().After(l.deadline) {
		l.timeout.Store(true)
		return false
	}
	return n < l.limits.Playouts()
}

func (l *limiter) Elapsed() time.Duration {
	return time.Since(l.start)
}

func (l *limiter) StopReason() StopReason {
	switch {
	case l.Stop():
		return StopInterrupt
	case l.timeout.Load():
		return StopMovetime
	}
	return StopIterations
}
