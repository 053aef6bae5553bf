package enemy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/game"
)

// PursuitColor is the light an enemy shows while chasing.
var PursuitColor = cube.Color{R: 0, G: 0, B: 255}

// Pursuit drives straight at the player, pivoting in place until the
// heading is within the deadband.
type Pursuit struct{}

// NewPursuit creates the direct pursuit strategy.
func NewPursuit() *Pursuit {
	return &Pursuit{}
}

func (p *Pursuit) Init(ctx context.Context, _ int, unit cube.Actuator, _ *game.State) error {
	return unit.SetLight(ctx, PursuitColor)
}

func (p *Pursuit) Update(ctx context.Context, id int, unit cube.Actuator, state *game.State, player, self cube.Position) (cube.Motion, error) {
	if game.InContact(self, player) {
		if remain, ok := state.ApplyDamage(game.ContactDamage); ok {
			if err := unit.PlaySound(ctx, cube.SoundEnter); err != nil {
				return cube.Stop, fmt.Errorf("play hit sound: %w", err)
			}
			slog.Info("player caught", "enemy", id, "damage", game.ContactDamage, "remain", remain)
		}
	}

	return game.Steer(self.Angle, game.Bearing(self, player)), nil
}
