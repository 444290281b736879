package audio

import (
	"errors"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Sentinel errors
var ErrUnknownCue = errors.New("unknown cue")

// device is the output the player drives; the speaker in production, a recorder in tests
type device interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Clear()
	Suspend() error
	Resume() error
}

// speakerDevice forwards to the process-wide beep speaker
type speakerDevice struct{}

func (speakerDevice) Init(rate beep.SampleRate, bufferSize int) error {
	return speaker.Init(rate, bufferSize)
}

func (speakerDevice) Play(s beep.Streamer) {
	speaker.Play(s)
}

func (speakerDevice) Clear() {
	speaker.Clear()
}

func (speakerDevice) Suspend() error {
	return speaker.Suspend()
}

func (speakerDevice) Resume() error {
	return speaker.Resume()
}
