// Package wait implements deadline-bounded readiness gates. Every place the
// restore sequence has to block on a collaborator that signals readiness by
// state rather than by event goes through wait.For, so timeout behavior is
// defined in exactly one place.
package wait

import (
	"context"
	"time"
)

// Reasons reported on a failed wait.
const (
	ReasonTimeout   = "timeout"
	ReasonCancelled = "cancelled"
)

const defaultInterval = 100 * time.Millisecond

// Result is the outcome of a bounded wait. A wait never fails with an error;
// the caller decides whether a miss matters.
type Result struct {
	OK     bool
	Reason string
}

// For polls predicate at a fixed interval until it returns true or the
// deadline elapses. The predicate is checked once immediately, so an
// already-ready collaborator costs no delay. A non-positive interval falls
// back to 100ms.
func For(ctx context.Context, predicate func() bool, interval, deadline time.Duration) Result {
	if interval <= 0 {
		interval = defaultInterval
	}
	if predicate() {
		return Result{OK: true}
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{Reason: ReasonCancelled}
		case <-timer.C:
			return Result{Reason: ReasonTimeout}
		case <-ticker.C:
			if predicate() {
				return Result{OK: true}
			}
		}
	}
}

// ForSignal waits for one value on ch, the deadline, or context cancellation,
// whichever comes first. It is the event-backed counterpart of For, used when
// a collaborator does publish a notification and the deadline is only a
// safety net.
func ForSignal[T any](ctx context.Context, ch <-chan T, deadline time.Duration) Result {
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Result{Reason: ReasonCancelled}
	case <-timer.C:
		return Result{Reason: ReasonTimeout}
	case _, ok := <-ch:
		if !ok {
			return Result{Reason: ReasonCancelled}
		}
		return Result{OK: true}
	}
}
