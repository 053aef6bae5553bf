package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ugaemi/cubechase/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Player mixes cues onto the host speaker. A Player that could not open
// the device stays silent.
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	active bool
}

// New opens the speaker when enabled. Failing to open it is logged and
// leaves the player silent.
func New(enabled bool) *Player {
	p := &Player{mixer: &beep.Mixer{}}
	if !enabled {
		return p
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		slog.Warn("audio unavailable, cues disabled", "error", err)
		return p
	}
	speaker.Play(p.mixer)
	p.active = true
	return p
}

// Active reports whether cues reach a device.
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

func (p *Player) Snapshot(game.Snapshot) {}

func (p *Player) Hit(game.Snapshot) {
	p.play(HitCue(sampleRate))
}

func (p *Player) GameOver(game.Snapshot) {
	p.play(GameOverCue(sampleRate))
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.active = false
	speaker.Close()
}
