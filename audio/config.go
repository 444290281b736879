package audio

import "github.com/lixenwraith/stacker/constant"

// Config holds audio output settings
type Config struct {
	Enabled    bool
	Volume     float64 // Master volume, 0.0-1.0
	SampleRate int
}

// DefaultConfig returns enabled audio at full volume
func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		Volume:     1.0,
		SampleRate: constant.AudioSampleRate,
	}
}

// clamp normalizes out-of-range values
func (c *Config) clamp() {
	if c.Volume < 0 {
		c.Volume = 0
	}
	if c.Volume > 1 {
		c.Volume = 1
	}
	if c.SampleRate <= 0 {
		c.SampleRate = constant.AudioSampleRate
	}
}
