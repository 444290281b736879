package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/stacker/core"
)

// Clocks is the start/stop surface the engine drives
// Start and Stop always act on the countdown and animation clocks together
type Clocks interface {
	// Start launches a new generation of both clocks, tearing down any previous one
	Start() uint64
	// Stop halts both clocks; it never blocks on the clock goroutines
	Stop()
	// Running reports whether a generation is active
	Running() bool
}

// Scheduler runs the fixed-interval countdown clock and the frame-synchronized animation clock
// Each Start opens a new generation; handlers receive the generation so stale ticks can be dropped
type Scheduler struct {
	countdownInterval time.Duration
	frameInterval     time.Duration
	clock             TimeProvider

	onCountdown func(gen uint64)
	onFrame     func(gen uint64, now time.Time)

	mu       sync.Mutex
	gen      uint64
	stopChan chan struct{}
	running  atomic.Bool
	wg       sync.WaitGroup
}

// NewScheduler creates a stopped scheduler
func NewScheduler(countdownInterval, frameInterval time.Duration, clock TimeProvider) *Scheduler {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	return &Scheduler{
		countdownInterval: countdownInterval,
		frameInterval:     frameInterval,
		clock:             clock,
	}
}

// SetHandlers wires the tick callbacks, must be called before Start
func (s *Scheduler) SetHandlers(onCountdown func(gen uint64), onFrame func(gen uint64, now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCountdown = onCountdown
	s.onFrame = onFrame
}

// Start begins a new clock generation and returns its id
// A running generation is stopped first so restarts never double-schedule
func (s *Scheduler) Start() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	s.stopChan = stop
	s.running.Store(true)

	onCountdown := s.onCountdown
	onFrame := s.onFrame

	s.wg.Add(2)
	core.Go(func() {
		defer s.wg.Done()
		s.countdownLoop(gen, stop, onCountdown)
	})
	core.Go(func() {
		defer s.wg.Done()
		s.frameLoop(gen, stop, onFrame)
	})

	return gen
}

// Stop halts both clocks of the current generation
// Safe to call from inside a tick handler and idempotent
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if s.stopChan != nil {
		close(s.stopChan)
		s.stopChan = nil
	}
	s.running.Store(false)
}

// Running reports whether a clock generation is active
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Generation returns the id of the latest generation
func (s *Scheduler) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Wait blocks until every clock goroutine has exited, call after Stop during teardown
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) countdownLoop(gen uint64, stop <-chan struct{}, fn func(uint64)) {
	ticker := time.NewTicker(s.countdownInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A stop may race with the tick, prefer the stop
			select {
			case <-stop:
				return
			default:
			}
			if fn != nil {
				fn(gen)
			}
		}
	}
}

func (s *Scheduler) frameLoop(gen uint64, stop <-chan struct{}, fn func(uint64, time.Time)) {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			if fn != nil {
				fn(gen, s.clock.Now())
			}
		}
	}
}
