package audio

import (
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/stacker/constant"
	"github.com/lixenwraith/stacker/core"
)

// Player plays game cues through one lazily acquired output device
// The device is opened on the first Play, suspended by Suspend and resumed by the next Play
type Player struct {
	cfg    Config
	rate   beep.SampleRate
	dev    device
	logger *log.Logger

	enabled atomic.Bool

	mu          sync.Mutex
	initialized bool
	suspended   bool
	initErr     error

	played [core.CueCount]atomic.Int64
}

// NewPlayer creates a player on the system speaker; nothing is opened until the first cue
func NewPlayer(cfg *Config, logger *log.Logger) *Player {
	return newPlayer(cfg, speakerDevice{}, logger)
}

func newPlayer(cfg *Config, dev device, logger *log.Logger) *Player {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	c.clamp()
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	p := &Player{
		cfg:    c,
		rate:   beep.SampleRate(c.SampleRate),
		dev:    dev,
		logger: logger,
	}
	p.enabled.Store(c.Enabled)
	return p
}

// Play queues one playback of cue and reports whether it reached the device
func (p *Player) Play(cue core.Cue) bool {
	if !p.enabled.Load() {
		return false
	}
	if cue < 0 || cue >= core.CueCount {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.acquireLocked(); err != nil {
		return false
	}

	s, err := cueStreamer(cue, p.cfg.Volume, p.rate)
	if err != nil {
		p.logger.Printf("audio: build %s: %v", cue, err)
		return false
	}
	p.dev.Play(s)
	p.played[cue].Add(1)
	return true
}

// acquireLocked opens or resumes the device
// An open failure disables audio for the life of the player
func (p *Player) acquireLocked() error {
	if p.initErr != nil {
		return p.initErr
	}
	if !p.initialized {
		if err := p.dev.Init(p.rate, p.rate.N(constant.AudioBufferDuration)); err != nil {
			p.initErr = err
			p.logger.Printf("audio: device unavailable, cues disabled: %v", err)
			return err
		}
		p.initialized = true
		return nil
	}
	if p.suspended {
		if err := p.dev.Resume(); err != nil {
			p.logger.Printf("audio: resume: %v", err)
			return err
		}
		p.suspended = false
	}
	return nil
}

// Suspend drops queued cues and releases the device until the next Play
// No-op when the device was never opened
func (p *Player) Suspend() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.suspended {
		return nil
	}
	p.dev.Clear()
	if err := p.dev.Suspend(); err != nil {
		return err
	}
	p.suspended = true
	return nil
}

// ToggleMute flips cue playback and returns the new muted state
func (p *Player) ToggleMute() bool {
	for {
		old := p.enabled.Load()
		if p.enabled.CompareAndSwap(old, !old) {
			return old
		}
	}
}

// IsMuted reports whether cues are dropped
func (p *Player) IsMuted() bool {
	return !p.enabled.Load()
}

// Played returns how many times cue reached the device
func (p *Player) Played(cue core.Cue) int64 {
	if cue < 0 || cue >= core.CueCount {
		return 0
	}
	return p.played[cue].Load()
}
