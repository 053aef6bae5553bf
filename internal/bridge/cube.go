package bridge

import (
	"context"

	"github.com/ugaemi/cubechase/internal/cube"
)

// Cube is a cube.Actuator backed by the bridge connection.
type Cube struct {
	id     string
	client *Client
}

// ID returns the bridge id of the cube.
func (c *Cube) ID() string {
	return c.id
}

func (c *Cube) SetLight(ctx context.Context, col cube.Color) error {
	return c.client.send(ctx, Frame{Op: OpLight, Cube: c.id, R: col.R, G: col.G, B: col.B})
}

func (c *Cube) SetLightSequence(ctx context.Context, repeat int, steps []cube.LightStep) error {
	return c.client.send(ctx, Frame{Op: OpLightSequence, Cube: c.id, Repeat: repeat, Steps: toSteps(steps)})
}

func (c *Cube) SetMotors(ctx context.Context, m cube.Motion) error {
	return c.client.send(ctx, Frame{Op: OpMotor, Cube: c.id, Left: m.Left, Right: m.Right})
}

func (c *Cube) PlaySound(ctx context.Context, s cube.SoundEffect) error {
	return c.client.send(ctx, Frame{Op: OpSound, Cube: c.id, Sound: int(s)})
}

func (c *Cube) Position(_ context.Context) (cube.Position, bool, error) {
	return c.client.position(c.id)
}
