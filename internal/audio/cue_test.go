package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"

	"github.com/ugaemi/cubechase/internal/game"
)

const testRate = beep.SampleRate(8000)

// drain streams s to the end and returns the sample count and peak level.
func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestCueLengths(t *testing.T) {
	tests := []struct {
		name string
		cue  beep.Streamer
		want int
	}{
		{name: "tone", cue: Tone(440, 250*time.Millisecond, WaveSine, testRate), want: 2000},
		{name: "hit", cue: HitCue(testRate), want: testRate.N(hitLength)},
		{name: "game over", cue: GameOverCue(testRate), want: 3 * testRate.N(noteLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := drain(tt.cue)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCueLevels(t *testing.T) {
	tests := []struct {
		name string
		cue  beep.Streamer
		max  float64
	}{
		{name: "square tone", cue: Tone(440, 100*time.Millisecond, WaveSquare, testRate), max: 1},
		{name: "hit", cue: HitCue(testRate), max: cueVolume},
		{name: "game over", cue: GameOverCue(testRate), max: cueVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, peak := drain(tt.cue)
			assert.Greater(t, peak, 0.0)
			assert.LessOrEqual(t, peak, tt.max+1e-9)
		})
	}
}

func TestFade_EndsSilent(t *testing.T) {
	length := 100 * time.Millisecond
	s := Fade(Tone(1000, length, WaveSquare, testRate), length, 10*time.Millisecond, 10*time.Millisecond, testRate)

	buf := make([][2]float64, testRate.N(length))
	n, _ := s.Stream(buf)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, 0.0, buf[0][0])
	assert.InDelta(t, 0, buf[n-1][0], 1.0/float64(testRate.N(10*time.Millisecond))+1e-9)
}

func TestPlayer_Disabled(t *testing.T) {
	p := New(false)
	assert.False(t, p.Active())

	s := game.Snapshot{Health: 0, Status: game.StatusDeath, GameOver: true}
	assert.NotPanics(t, func() {
		p.Snapshot(s)
		p.Hit(s)
		p.GameOver(s)
		p.Close()
	})
}
