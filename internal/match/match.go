// Package match runs the telemetry-driven main loop of one game.
package match

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/game"
)

type Outcome int

const (
	OutcomeAborted Outcome = iota
	OutcomeCaught
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaught:
		return "caught"
	default:
		return "aborted"
	}
}

// MarshalJSON serializes Outcome as a string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// ParseOutcome is the inverse of String. Unknown names read as aborted.
func ParseOutcome(s string) Outcome {
	if s == OutcomeCaught.String() {
		return OutcomeCaught
	}
	return OutcomeAborted
}

// Pursuer is one enemy driven by the loop.
type Pursuer interface {
	ID() int
	Init(ctx context.Context) error
	Update(ctx context.Context, player cube.Position) error
	Halt(ctx context.Context) error
}

// Observer receives state changes seen by the loop. Calls come from the
// loop goroutine and must not block.
type Observer interface {
	Snapshot(s game.Snapshot)
	Hit(s game.Snapshot)
	GameOver(s game.Snapshot)
}

// Result summarises a finished match.
type Result struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Enemies   int           `json:"enemies"`
	Outcome   Outcome       `json:"outcome"`
	Final     game.Snapshot `json:"final"`
}

// Match fans player telemetry out to every enemy and watches for game over.
type Match struct {
	ID string

	state     *game.State
	enemies   []Pursuer
	observers []Observer

	last      game.Snapshot
	published bool
	startedAt time.Time
	now       func() time.Time
}

// Option configures a Match.
type Option func(*Match)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Match) { m.now = now }
}

// WithObservers registers observers.
func WithObservers(obs ...Observer) Option {
	return func(m *Match) { m.observers = append(m.observers, obs...) }
}

// New creates a match. Enemies are updated in the given order every tick.
func New(state *game.State, enemies []Pursuer, opts ...Option) *Match {
	m := &Match{
		ID:      uuid.NewString(),
		state:   state,
		enemies: enemies,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init prepares every enemy cube.
func (m *Match) Init(ctx context.Context) error {
	for _, e := range m.enemies {
		if err := e.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run consumes player telemetry until the player dies, ctx is cancelled or
// the telemetry stream closes. An enemy error ends the match with that error.
func (m *Match) Run(ctx context.Context, telemetry <-chan cube.PositionEvent) (*Result, error) {
	m.startedAt = m.now()
	slog.Info("match started", "match", m.ID, "enemies", len(m.enemies))

	for {
		if m.state.IsGameOver() {
			return m.finish(ctx, OutcomeCaught), nil
		}

		select {
		case <-ctx.Done():
			return m.result(OutcomeAborted), nil
		case ev, ok := <-telemetry:
			if !ok {
				slog.Warn("telemetry closed", "match", m.ID)
				return m.result(OutcomeAborted), nil
			}
			if err := m.tick(ctx, ev); err != nil {
				return m.result(OutcomeAborted), err
			}
		}
	}
}

func (m *Match) tick(ctx context.Context, ev cube.PositionEvent) error {
	// Reading the snapshot also expires the hit cooldown.
	before := m.state.Snapshot()
	m.publish(before)

	if !ev.OK {
		slog.Warn("player is out of field", "match", m.ID)
		return nil
	}

	for _, e := range m.enemies {
		if err := e.Update(ctx, ev.Position); err != nil {
			return fmt.Errorf("match %s: %w", m.ID, err)
		}
	}

	after := m.state.Snapshot()
	if after.Health < before.Health {
		for _, o := range m.observers {
			o.Hit(after)
		}
	}
	m.publish(after)
	return nil
}

// publish forwards s to observers when it differs from the last one sent.
func (m *Match) publish(s game.Snapshot) {
	if m.published && s == m.last {
		return
	}
	m.last = s
	m.published = true
	for _, o := range m.observers {
		o.Snapshot(s)
	}
}

func (m *Match) finish(ctx context.Context, outcome Outcome) *Result {
	for _, e := range m.enemies {
		if err := e.Halt(ctx); err != nil {
			slog.Warn("failed to halt enemy", "enemy", e.ID(), "error", err)
		}
	}

	res := m.result(outcome)
	m.publish(res.Final)
	for _, o := range m.observers {
		o.GameOver(res.Final)
	}
	slog.Info("game over", "match", m.ID, "hits", res.Final.Hits, "duration", res.EndedAt.Sub(res.StartedAt))
	return res
}

func (m *Match) result(outcome Outcome) *Result {
	return &Result{
		ID:        m.ID,
		StartedAt: m.startedAt,
		EndedAt:   m.now(),
		Enemies:   len(m.enemies),
		Outcome:   outcome,
		Final:     m.state.Snapshot(),
	}
}
