package ai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGate_CapsInFlightCalls(t *testing.T) {
	const budget = 3
	const callers = 20

	gate := NewGate(budget)

	var inFlight, peak atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = gate.Do(context.Background(), func() error {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > budget {
		t.Errorf("peak in-flight calls = %d, want <= %d", got, budget)
	}
}

func TestGate_PropagatesCallError(t *testing.T) {
	gate := NewGate(1)
	want := errors.New("boom")

	if err := gate.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Do() error = %v, want %v", err, want)
	}
}

func TestGate_CanceledWait(t *testing.T) {
	gate := NewGate(1)

	release := make(chan struct{})
	go func() {
		_ = gate.Do(context.Background(), func() error {
			<-release
			return nil
		})
	}()

	// Give the first caller time to take the only slot
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := gate.Do(ctx, func() error { return nil })
	close(release)

	if err == nil {
		t.Error("Do() with canceled wait returned nil error")
	}
}
