package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, d time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

// ============================================================================
// Scheduler Tests - Deterministic
// ============================================================================

// TestSchedulerCreation tests a new scheduler is stopped with no generation
func TestSchedulerCreation(t *testing.T) {
	s := NewScheduler(100*time.Millisecond, 16*time.Millisecond, nil)

	if s.Running() {
		t.Error("New scheduler should not be running")
	}
	if s.Generation() != 0 {
		t.Errorf("Initial generation = %d, want 0", s.Generation())
	}
}

// TestSchedulerStopIdempotent tests that Stop() can be called multiple times
func TestSchedulerStopIdempotent(t *testing.T) {
	s := NewScheduler(time.Hour, time.Hour, nil)

	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
	s.Wait()

	if s.Running() {
		t.Error("Scheduler running after Stop")
	}
}

// TestSchedulerRestartOpensNewGeneration tests Start while running replaces the generation
func TestSchedulerRestartOpensNewGeneration(t *testing.T) {
	s := NewScheduler(time.Hour, time.Hour, nil)

	g1 := s.Start()
	g2 := s.Start()
	if g2 != g1+1 {
		t.Errorf("Expected generation %d, got %d", g1+1, g2)
	}
	if !s.Running() {
		t.Error("Scheduler not running after restart")
	}

	s.Stop()
	s.Wait()
}

// ============================================================================
// Scheduler Tests - Real-Time Integration
// ============================================================================

// TestSchedulerTicking tests both clocks tick with the current generation
func TestSchedulerTicking(t *testing.T) {
	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	s := NewScheduler(5*time.Millisecond, 2*time.Millisecond, clock)

	var countdowns, frames atomic.Int64
	var badGen atomic.Bool
	var gen atomic.Uint64

	s.SetHandlers(
		func(g uint64) {
			if g != gen.Load() {
				badGen.Store(true)
			}
			countdowns.Add(1)
		},
		func(g uint64, now time.Time) {
			if !now.Equal(clock.Now()) {
				badGen.Store(true)
			}
			frames.Add(1)
		},
	)

	gen.Store(s.Generation() + 1)
	s.Start()

	ok := waitFor(t, 2*time.Second, func() bool {
		return countdowns.Load() >= 3 && frames.Load() >= 3
	})
	s.Stop()
	s.Wait()

	if !ok {
		t.Fatalf("Clocks did not tick: countdowns=%d frames=%d", countdowns.Load(), frames.Load())
	}
	if badGen.Load() {
		t.Error("Handler received an unexpected generation or timestamp")
	}

	// No ticks after Stop and Wait
	c, f := countdowns.Load(), frames.Load()
	time.Sleep(30 * time.Millisecond)
	if countdowns.Load() != c || frames.Load() != f {
		t.Error("Clocks ticked after Stop")
	}
}

// TestSchedulerStopFromHandler tests a tick handler can stop its own clocks
func TestSchedulerStopFromHandler(t *testing.T) {
	s := NewScheduler(2*time.Millisecond, time.Hour, nil)

	var ticks atomic.Int64
	s.SetHandlers(func(uint64) {
		ticks.Add(1)
		s.Stop()
	}, nil)

	s.Start()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop from handler deadlocked")
	}
	if ticks.Load() != 1 {
		t.Errorf("Expected exactly one tick, got %d", ticks.Load())
	}
	if s.Running() {
		t.Error("Scheduler running after handler stop")
	}
}
