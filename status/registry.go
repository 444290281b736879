package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metric keys shared by the engine, gateway and synchronizer
const (
	EngineFrames     = "engine.frames"
	EngineCountdowns = "engine.countdowns"
	EnginePlacements = "engine.placements"
	EnginePerfects   = "engine.perfects"
	EngineRuns       = "engine.runs"
	GatewayCommits   = "gateway.commits"
	GatewayFailures  = "gateway.failures"
	SyncRefreshes    = "sync.refreshes"
	SyncChanges      = "sync.changes"
	SyncSeason       = "sync.season"
	EngineSpeed      = "engine.speed"
)

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Line renders every metric as sorted key=value pairs for the debug status line
func (r *Registry) Line() string {
	var parts []string
	r.Ints.Range(func(key string, v *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", key, v.Load()))
	})
	r.Floats.Range(func(key string, v *AtomicFloat) {
		parts = append(parts, fmt.Sprintf("%s=%.2f", key, v.Get()))
	})
	r.Strings.Range(func(key string, v *AtomicString) {
		parts = append(parts, fmt.Sprintf("%s=%s", key, v.Load()))
	})
	return strings.Join(parts, " ")
}
