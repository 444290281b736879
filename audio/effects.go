package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/stacker/constant"
	"github.com/lixenwraith/stacker/core"
)

// wave selects the raw oscillator shape
type wave int

const (
	waveSquare wave = iota
	waveSaw
)

// oscillator is a bounded square or saw tone; sine voices come from beep's generators
type oscillator struct {
	freq      float64
	phase     float64
	remaining int
	shape     wave
	step      float64
}

func newOscillator(freq float64, d time.Duration, shape wave, rate beep.SampleRate) *oscillator {
	return &oscillator{
		freq:      freq,
		remaining: rate.N(d),
		shape:     shape,
		step:      freq / float64(rate),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.remaining <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > o.remaining {
		n = o.remaining
	}
	for i := 0; i < n; i++ {
		var v float64
		switch o.shape {
		case waveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case waveSaw:
			v = 2*o.phase - 1
		}
		samples[i][0], samples[i][1] = v, v

		o.phase += o.step
		o.phase -= math.Floor(o.phase)
	}
	o.remaining -= n
	return n, true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release over a fixed length
type envelope struct {
	s       beep.Streamer
	pos     int
	total   int
	attack  int
	release int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		s:       beep.Take(rate.N(d), s),
		total:   rate.N(d),
		attack:  rate.N(attack),
		release: rate.N(release),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if e.attack > 0 && e.pos < e.attack {
			gain = float64(e.pos) / float64(e.attack)
		}
		if left := e.total - e.pos; e.release > 0 && left < e.release {
			gain = math.Min(gain, float64(left)/float64(e.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// gain wraps s in a log2 volume, silencing non-positive levels
func gain(s beep.Streamer, level float64) beep.Streamer {
	if level <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(level)}
}

// sine returns a bounded, shaped sine voice
func sine(freq float64, d, release time.Duration, rate beep.SampleRate) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return newEnvelope(tone, d, constant.AudioAttack, release, rate), nil
}

// placeCue is a short neutral blip
func placeCue(rate beep.SampleRate) (beep.Streamer, error) {
	return sine(constant.PlaceCueFrequency, constant.PlaceCueDuration, constant.PlaceCueRelease, rate)
}

// perfectCue is a bell: fundamental plus an octave overtone
func perfectCue(rate beep.SampleRate) (beep.Streamer, error) {
	fund, err := sine(constant.PerfectCueFundamental, constant.PerfectCueDuration, constant.PerfectCueRelease, rate)
	if err != nil {
		return nil, err
	}
	over, err := sine(constant.PerfectCueOvertone, constant.PerfectCueDuration, constant.PerfectCueRelease/2, rate)
	if err != nil {
		return nil, err
	}
	return beep.Mix(gain(fund, 0.7), gain(over, 0.3)), nil
}

// comboCue is a rising two-note chime
func comboCue(rate beep.SampleRate) (beep.Streamer, error) {
	n1 := newEnvelope(newOscillator(constant.ComboCueNote1, constant.ComboCueNote1Time, waveSquare, rate),
		constant.ComboCueNote1Time, constant.AudioAttack, constant.AudioAttack, rate)
	n2 := newEnvelope(newOscillator(constant.ComboCueNote2, constant.ComboCueNote2Time, waveSquare, rate),
		constant.ComboCueNote2Time, constant.AudioAttack, constant.ComboCueRelease, rate)
	return gain(beep.Seq(n1, n2), 0.4), nil
}

// failCue is a low saw buzz
func failCue(rate beep.SampleRate) (beep.Streamer, error) {
	buzz := newOscillator(constant.FailCueFrequency, constant.FailCueDuration, waveSaw, rate)
	return gain(newEnvelope(buzz, constant.FailCueDuration, constant.AudioAttack, constant.FailCueRelease, rate), 0.5), nil
}

// cueStreamer builds a fresh streamer for one playback of c at the given master volume
func cueStreamer(c core.Cue, volume float64, rate beep.SampleRate) (beep.Streamer, error) {
	var (
		s   beep.Streamer
		err error
	)
	switch c {
	case core.CuePlace:
		s, err = placeCue(rate)
	case core.CuePerfect:
		s, err = perfectCue(rate)
	case core.CueCombo:
		s, err = comboCue(rate)
	case core.CueFail:
		s, err = failCue(rate)
	default:
		return nil, ErrUnknownCue
	}
	if err != nil {
		return nil, err
	}
	return gain(s, volume), nil
}
