package wait

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestFor_ImmediateSuccess(t *testing.T) {
	start := time.Now()
	res := For(context.Background(), func() bool { return true }, 50*time.Millisecond, time.Second)
	if !res.OK {
		t.Fatalf("For = %+v, want OK", res)
	}
	if elapsed := time.Since(start); elapsed > 30*time.Millisecond {
		t.Fatalf("immediate predicate took %v, want no polling delay", elapsed)
	}
}

func TestFor_SucceedsAfterPolls(t *testing.T) {
	var calls atomic.Int32
	res := For(context.Background(), func() bool {
		return calls.Add(1) >= 3
	}, 5*time.Millisecond, time.Second)
	if !res.OK {
		t.Fatalf("For = %+v, want OK", res)
	}
	if calls.Load() < 3 {
		t.Fatalf("predicate called %d times, want >= 3", calls.Load())
	}
}

func TestFor_Timeout(t *testing.T) {
	start := time.Now()
	res := For(context.Background(), func() bool { return false }, 5*time.Millisecond, 40*time.Millisecond)
	if res.OK {
		t.Fatal("For succeeded, want timeout")
	}
	if res.Reason != ReasonTimeout {
		t.Fatalf("Reason = %q, want %q", res.Reason, ReasonTimeout)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("timeout took %v, want bounded by deadline", elapsed)
	}
}

func TestFor_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	res := For(ctx, func() bool { return false }, 5*time.Millisecond, time.Minute)
	if res.OK || res.Reason != ReasonCancelled {
		t.Fatalf("For = %+v, want cancelled", res)
	}
}

func TestFor_DefaultsInterval(t *testing.T) {
	// Zero interval must not spin or panic; success comes from the immediate check.
	res := For(context.Background(), func() bool { return true }, 0, time.Second)
	if !res.OK {
		t.Fatalf("For = %+v, want OK", res)
	}
}

func TestForSignal_EventWins(t *testing.T) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	res := ForSignal(context.Background(), ch, time.Second)
	if !res.OK {
		t.Fatalf("ForSignal = %+v, want OK", res)
	}
}

func TestForSignal_DeadlineWins(t *testing.T) {
	ch := make(chan struct{})
	res := ForSignal(context.Background(), ch, 30*time.Millisecond)
	if res.OK || res.Reason != ReasonTimeout {
		t.Fatalf("ForSignal = %+v, want timeout", res)
	}
}

func TestForSignal_ClosedChannel(t *testing.T) {
	ch := make(chan int)
	close(ch)
	res := ForSignal(context.Background(), ch, time.Second)
	if res.OK || res.Reason != ReasonCancelled {
		t.Fatalf("ForSignal = %+v, want cancelled on closed channel", res)
	}
}
