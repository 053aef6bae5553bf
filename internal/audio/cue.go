// Package audio plays short host-side cues for hits and the end of a game.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
)

type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
}

// Tone generates a fixed-length tone.
func Tone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), wave: wave, rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.position >= t.length {
		return 0, false
	}
	for i := range samples {
		if t.position >= t.length {
			return i, true
		}

		var v float64
		switch t.wave {
		case WaveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		default:
			v = math.Sin(2 * math.Pi * t.phase)
		}
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// fade ramps a stream in over attack samples and out over its last release
// samples.
type fade struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func Fade(s beep.Streamer, total, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &fade{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(total),
	}
}

func (f *fade) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if f.attack > 0 && f.position < f.attack {
			gain = float64(f.position) / float64(f.attack)
		}
		if left := f.total - f.position; f.release > 0 && left < f.release {
			gain = math.Max(0, float64(left)/float64(f.release))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.position++
	}
	return n, ok
}

func (f *fade) Err() error { return f.streamer.Err() }

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

const (
	hitLength   = 120 * time.Millisecond
	noteLength  = 200 * time.Millisecond
	cueVolume   = 0.5
	attackTime  = 5 * time.Millisecond
	releaseTime = 40 * time.Millisecond
)

// HitCue is a short square blip.
func HitCue(rate beep.SampleRate) beep.Streamer {
	t := Tone(880, hitLength, WaveSquare, rate)
	return withVolume(Fade(t, hitLength, attackTime, releaseTime, rate), cueVolume)
}

// GameOverCue is three descending notes.
func GameOverCue(rate beep.SampleRate) beep.Streamer {
	notes := make([]beep.Streamer, 0, 3)
	for _, freq := range []float64{660, 440, 220} {
		t := Tone(freq, noteLength, WaveSine, rate)
		notes = append(notes, Fade(t, noteLength, attackTime, releaseTime, rate))
	}
	return withVolume(beep.Seq(notes...), cueVolume)
}
