package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

// Set stores val
func (f *AtomicFloat) Set(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Get loads the current value
func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// MaxStringLen bounds tag values, in runes, so the debug line stays on one row
const MaxStringLen = 32

// AtomicString is a short text tag such as the active season; the zero value reads ""
type AtomicString struct {
	v atomic.Pointer[string]
}

// Store sets the tag, truncated to MaxStringLen runes
func (s *AtomicString) Store(val string) {
	if r := []rune(val); len(r) > MaxStringLen {
		val = string(r[:MaxStringLen])
	}
	s.v.Store(&val)
}

// Load returns the tag
func (s *AtomicString) Load() string {
	p := s.v.Load()
	if p == nil {
		return ""
	}
	return *p
}
