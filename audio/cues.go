// Package audio synthesizes the short sound cues of the desktop client:
// a chime for coin pickups, a crash for deaths and a rising arpeggio for
// finished levels. Cues are generated, no sample files are shipped.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Cue names one sound effect
type Cue int

const (
	CueCoin Cue = iota
	CueCrash
	CueLevelUp
)

func (c Cue) String() string {
	switch c {
	case CueCoin:
		return "coin"
	case CueCrash:
		return "crash"
	case CueLevelUp:
		return "level_up"
	}
	return "unknown"
}

// Cue timings
const (
	coinNoteDuration = 70 * time.Millisecond
	crashDuration    = 250 * time.Millisecond
	levelUpNote      = 90 * time.Millisecond

	attack  = 5 * time.Millisecond
	release = 40 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a streamer of one wave lasting duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with attack and release ramps over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; remaining < e.release {
			vol = math.Max(0, float64(remaining)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func note(freq float64, d time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewEnvelope(NewOscillator(freq, d, wave, rate), d, attack, release, rate)
}

// NewCue builds the streamer for a cue at the given volume (0..1)
func NewCue(c Cue, rate beep.SampleRate, vol float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueCoin:
		// B5 then E6
		s = beep.Seq(
			note(987.77, coinNoteDuration, WaveSquare, rate),
			note(1318.51, 2*coinNoteDuration, WaveSquare, rate),
		)
	case CueCrash:
		s = beep.Mix(
			newVolume(note(0, crashDuration, WaveNoise, rate), 0.7),
			newVolume(note(90, crashDuration, WaveSquare, rate), 0.3),
		)
	case CueLevelUp:
		// C5 E5 G5 C6
		s = beep.Seq(
			note(523.25, levelUpNote, WaveSine, rate),
			note(659.25, levelUpNote, WaveSine, rate),
			note(783.99, levelUpNote, WaveSine, rate),
			note(1046.50, 2*levelUpNote, WaveSine, rate),
		)
	default:
		s = beep.Silence(0)
	}
	return newVolume(s, vol)
}
