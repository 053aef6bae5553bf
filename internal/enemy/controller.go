package enemy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/game"
)

// Controller owns one enemy cube. It applies the pause and rate gates in
// front of a Behavior and suppresses repeated motor commands.
type Controller struct {
	id       int
	unit     cube.Actuator
	state    *game.State
	behavior Behavior

	lastMotion cube.Motion
	lastTick   time.Time
	stopped    bool

	interval time.Duration
	now      func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithInterval overrides the minimum time between pursuit steps.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// NewController creates a controller. The rate gate starts at creation, so
// the first step runs one interval later.
func NewController(id int, unit cube.Actuator, state *game.State, behavior Behavior, opts ...Option) *Controller {
	c := &Controller{
		id:       id,
		unit:     unit,
		state:    state,
		behavior: behavior,
		interval: game.EnemyTickInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastTick = c.now()
	return c
}

// ID returns the enemy's diagnostic id.
func (c *Controller) ID() int {
	return c.id
}

// Init runs the behavior's setup on the cube.
func (c *Controller) Init(ctx context.Context) error {
	if err := c.behavior.Init(ctx, c.id, c.unit, c.state); err != nil {
		return fmt.Errorf("enemy %d: init: %w", c.id, err)
	}
	return nil
}

// Update runs one tick against the latest player fix.
func (c *Controller) Update(ctx context.Context, player cube.Position) error {
	if c.state.IsPaused() {
		if !c.stopped {
			if err := c.drive(ctx, cube.Stop); err != nil {
				return err
			}
			c.stopped = true
		}
		return nil
	}
	c.stopped = false

	now := c.now()
	if now.Sub(c.lastTick) < c.interval {
		return nil
	}
	c.lastTick = now

	self, ok, err := c.unit.Position(ctx)
	if err != nil {
		return fmt.Errorf("enemy %d: read position: %w", c.id, err)
	}
	if !ok {
		slog.Warn("enemy is out of field", "enemy", c.id)
		return nil
	}

	motion, err := c.behavior.Update(ctx, c.id, c.unit, c.state, player, self)
	if err != nil {
		return fmt.Errorf("enemy %d: %w", c.id, err)
	}
	if motion != c.lastMotion {
		return c.drive(ctx, motion)
	}
	return nil
}

// Halt stops the cube if it is moving.
func (c *Controller) Halt(ctx context.Context) error {
	if c.lastMotion == cube.Stop {
		return nil
	}
	return c.drive(ctx, cube.Stop)
}

func (c *Controller) drive(ctx context.Context, m cube.Motion) error {
	if err := c.unit.SetMotors(ctx, m); err != nil {
		return fmt.Errorf("enemy %d: set motors: %w", c.id, err)
	}
	c.lastMotion = m
	return nil
}
