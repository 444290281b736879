package engine

import "sync"

// ManualClocks is a Clocks implementation that never ticks on its own
// Tests drive the engine through CountdownTick and AnimationFrame and inspect the start/stop history
type ManualClocks struct {
	mu      sync.Mutex
	gen     uint64
	running bool
	starts  int
	stops   int
}

// Start implements Clocks
func (c *ManualClocks) Start() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.stops++
	}
	c.gen++
	c.starts++
	c.running = true
	return c.gen
}

// Stop implements Clocks
func (c *ManualClocks) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.stops++
	}
	c.running = false
}

// Running implements Clocks
func (c *ManualClocks) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Counts returns how many generations were started and stopped
func (c *ManualClocks) Counts() (starts, stops int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts, c.stops
}
