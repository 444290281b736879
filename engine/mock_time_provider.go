package engine

import (
	"sync/atomic"
	"time"

	"github.com/lixenwraith/stacker/constant"
)

// MockTimeProvider is a hand-advanced clock for deterministic frame timing
// Safe for use from the test goroutine and clock goroutines at once
type MockTimeProvider struct {
	start   time.Time
	elapsed atomic.Int64 // Nanoseconds since start
}

// NewMockTimeProvider creates a mock clock reading start
func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{start: start}
}

// Now returns the mocked time
func (m *MockTimeProvider) Now() time.Time {
	return m.start.Add(time.Duration(m.elapsed.Load()))
}

// Advance moves the clock forward by d and returns the new reading
func (m *MockTimeProvider) Advance(d time.Duration) time.Time {
	return m.start.Add(time.Duration(m.elapsed.Add(int64(d))))
}

// Frames advances by n nominal animation frames
func (m *MockTimeProvider) Frames(n int) time.Time {
	return m.Advance(time.Duration(n) * constant.BaselineFrame)
}

// Elapsed returns the total advance since creation
func (m *MockTimeProvider) Elapsed() time.Duration {
	return time.Duration(m.elapsed.Load())
}
