package balancer

import (
	"context"
	"testing"
	"time"
)

func TestPickSingleCandidate(t *testing.T) {
	b := New(0)
	got, ok := b.Pick([]string{"a"})
	if !ok || got != "a" {
		t.Fatalf("Pick() = %q, %v, want a, true", got, ok)
	}
}

func TestPickEmptyCandidates(t *testing.T) {
	b := New(0)
	if _, ok := b.Pick(nil); ok {
		t.Fatal("Pick(nil) = true, want false")
	}
}

func TestPickPrefersLowerLatencyServer(t *testing.T) {
	b := New(0)
	b.Record(LoadSample{ServerID: "slow", Latency: 500 * time.Millisecond})
	b.Record(LoadSample{ServerID: "fast", Latency: 5 * time.Millisecond})

	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		got, ok := b.Pick([]string{"slow", "fast"})
		if !ok {
			t.Fatal("Pick() returned false")
		}
		counts[got]++
	}

	if counts["fast"] <= counts["slow"] {
		t.Fatalf("expected fast server picked more often, got counts = %+v", counts)
	}
}

func TestAcquireRespectsConcurrencyLimit(t *testing.T) {
	b := New(1)
	release1, err := b.Acquire(context.Background(), "srv")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := b.Acquire(ctx, "srv"); err == nil {
		t.Fatal("second Acquire() with concurrency=1 should block until timeout, got nil error")
	}

	release1()

	release2, err := b.Acquire(context.Background(), "srv")
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	release2()
}
