package player

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/game"
	"github.com/ugaemi/cubechase/internal/input"
)

// PauseButton toggles the pause flag.
const PauseButton = input.ButtonStart

// Status colours.
var (
	ColorFine    = cube.Color{R: 0, G: 255, B: 0}
	ColorCaution = cube.Color{R: 255, G: 255, B: 0}
	ColorDanger  = cube.Color{R: 255, G: 0, B: 0}
)

// DeathBlink loops red/off once health is gone.
var DeathBlink = []cube.LightStep{
	{Color: ColorDanger, Duration: 200 * time.Millisecond},
	{Color: cube.Color{}, Duration: 200 * time.Millisecond},
}

// display is what the light is showing.
type display struct {
	color cube.Color
	blink bool
}

func displayFor(s game.Status) display {
	switch s {
	case game.StatusCaution:
		return display{color: ColorCaution}
	case game.StatusDanger:
		return display{color: ColorDanger}
	case game.StatusDeath:
		return display{blink: true}
	default:
		return display{color: ColorFine}
	}
}

// Controller owns the player's cube.
type Controller struct {
	unit  cube.Actuator
	state *game.State

	buttons    Buttons
	shown      display
	lit        bool
	lastMotion cube.Motion
}

// NewController creates a player controller.
func NewController(unit cube.Actuator, state *game.State) *Controller {
	return &Controller{
		unit:  unit,
		state: state,
	}
}

// Handle applies one input event and refreshes the cube.
func (c *Controller) Handle(ctx context.Context, ev input.Event) error {
	c.buttons.Update(ev)
	if ev.Kind == input.KindButtonPressed && ev.Button == PauseButton {
		c.state.TogglePause()
		slog.Info("pause toggled")
	}
	return c.Refresh(ctx)
}

// Refresh sends the status light and drive command if either changed.
func (c *Controller) Refresh(ctx context.Context) error {
	d := displayFor(c.state.Status())
	if !c.lit || d != c.shown {
		if err := c.show(ctx, d); err != nil {
			return err
		}
		c.shown = d
		c.lit = true
	}

	m := c.buttons.Drive()
	if c.state.IsPaused() {
		m = cube.Stop
	}
	if m != c.lastMotion {
		if err := c.unit.SetMotors(ctx, m); err != nil {
			return fmt.Errorf("player: set motors: %w", err)
		}
		c.lastMotion = m
	}
	return nil
}

func (c *Controller) show(ctx context.Context, d display) error {
	if d.blink {
		if err := c.unit.SetLightSequence(ctx, 0, DeathBlink); err != nil {
			return fmt.Errorf("player: set light sequence: %w", err)
		}
		return nil
	}
	if err := c.unit.SetLight(ctx, d.color); err != nil {
		return fmt.Errorf("player: set light: %w", err)
	}
	return nil
}

// Run handles events until the stream ends or ctx is cancelled, refreshing
// every interval in between so the light follows damage without input.
func (c *Controller) Run(ctx context.Context, events <-chan input.Event, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	if err := c.Refresh(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			slog.Debug("input event", "kind", ev.Kind, "button", ev.Button, "axis", ev.Axis, "value", ev.Value)
			if err := c.Handle(ctx, ev); err != nil {
				return err
			}
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				return err
			}
		}
	}
}
