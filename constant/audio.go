package constant

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond
)

// Place Cue
const (
	PlaceCueFrequency = 440.0
	PlaceCueDuration  = 60 * time.Millisecond
	PlaceCueRelease   = 40 * time.Millisecond
)

// Perfect Cue
const (
	PerfectCueFundamental = 880.0
	PerfectCueOvertone    = 1760.0
	PerfectCueDuration    = 180 * time.Millisecond
	PerfectCueRelease     = 150 * time.Millisecond
)

// Combo Cue
const (
	ComboCueNote1     = 987.77  // B5
	ComboCueNote2     = 1318.51 // E6
	ComboCueNote1Time = 80 * time.Millisecond
	ComboCueNote2Time = 220 * time.Millisecond
	ComboCueRelease   = 120 * time.Millisecond
)

// Failure Cue
const (
	FailCueFrequency = 110.0
	FailCueDuration  = 400 * time.Millisecond
	FailCueRelease   = 300 * time.Millisecond
)

// AudioAttack is the shared attack ramp that removes clicks at cue onset
const AudioAttack = 5 * time.Millisecond
