package status

import (
	"sync"
	"testing"
)

func TestMetricMapReturnsCachedPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(EngineRuns)
	b := r.Ints.Get(EngineRuns)
	if a != b {
		t.Fatal("expected the same pointer for repeated Get")
	}
	a.Add(2)
	if b.Load() != 2 {
		t.Errorf("expected 2, got %d", b.Load())
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Ints.Get(EngineFrames).Add(1)
		}()
	}
	wg.Wait()

	if got := r.Ints.Get(EngineFrames).Load(); got != 32 {
		t.Errorf("expected 32 frames, got %d", got)
	}
	if r.Ints.Count() != 1 {
		t.Errorf("expected a single metric, got %d", r.Ints.Count())
	}
}

func TestRegistryLineIsSorted(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(EngineRuns).Store(3)
	r.Ints.Get(EngineFrames).Store(10)
	r.Floats.Get(EngineSpeed).Set(2.5)
	r.Strings.Get(SyncSeason).Store("7")

	want := "engine.frames=10 engine.runs=3 engine.speed=2.50 sync.season=7"
	if got := r.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
	if r.TotalCount() != 4 {
		t.Errorf("expected 4 metrics, got %d", r.TotalCount())
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value should be empty")
	}
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	s.Store(long)
	if got := s.Load(); got != long[:MaxStringLen] {
		t.Errorf("expected truncation, got %q", got)
	}
}
