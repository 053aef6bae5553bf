package game

import (
	"encoding/json"
	"sync"
	"time"
)

type Status int

const (
	StatusFine Status = iota
	StatusCaution
	StatusDanger
	StatusDeath
)

func (s Status) String() string {
	switch s {
	case StatusFine:
		return "fine"
	case StatusCaution:
		return "caution"
	case StatusDanger:
		return "danger"
	case StatusDeath:
		return "death"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Status as a string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes Status from a string.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "caution":
		*s = StatusCaution
	case "danger":
		*s = StatusDanger
	case "death":
		*s = StatusDeath
	default:
		*s = StatusFine
	}
	return nil
}

// StatusOf classifies a health value.
func StatusOf(health int) Status {
	switch {
	case health <= 0:
		return StatusDeath
	case health < DangerBelow:
		return StatusDanger
	case health < CautionBelow:
		return StatusCaution
	default:
		return StatusFine
	}
}

// Snapshot is a consistent view of the state taken under one lock.
type Snapshot struct {
	Health   int    `json:"health"`
	Status   Status `json:"status"`
	Paused   bool   `json:"paused"`
	GameOver bool   `json:"game_over"`
	Hits     int    `json:"hits"`
}

// State is the health record shared by the player task and every enemy.
// Each method is one atomic operation; nothing spans calls.
type State struct {
	health  int
	lastHit time.Time
	paused  bool
	hits    int

	now func() time.Time
	mu  sync.Mutex
}

// Option configures a State.
type Option func(*State)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// NewState creates a state at full health.
func NewState(opts ...Option) *State {
	s := &State{
		health: MaxHealth,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TogglePause flips the pause flag.
func (s *State) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
}

// IsPaused reports whether the game is paused.
func (s *State) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// ApplyDamage subtracts amount from health unless a hit cooldown is active.
// It returns the new health and true when the hit was accepted. Negative
// amounts are refused and leave the cooldown untouched.
// The cooldown is cleared only by Status or Snapshot, never here.
func (s *State) ApplyDamage(amount int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount < 0 || !s.lastHit.IsZero() {
		return s.health, false
	}
	s.lastHit = s.now()
	s.health -= amount
	if s.health < 0 {
		s.health = 0
	}
	s.hits++
	return s.health, true
}

// Status clears an expired hit cooldown and classifies the current health.
func (s *State) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return StatusOf(s.health)
}

// IsGameOver reports whether health reached zero.
func (s *State) IsGameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health == 0
}

// Snapshot behaves like Status and also returns the rest of the record.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return Snapshot{
		Health:   s.health,
		Status:   StatusOf(s.health),
		Paused:   s.paused,
		GameOver: s.health == 0,
		Hits:     s.hits,
	}
}

// expireLocked clears lastHit once the cooldown has fully elapsed.
// Caller must hold s.mu.
func (s *State) expireLocked() {
	if s.lastHit.IsZero() {
		return
	}
	if s.now().Sub(s.lastHit) > HitCooldown {
		s.lastHit = time.Time{}
	}
}
