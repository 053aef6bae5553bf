// Package enemy steers autonomous cubes toward the player.
package enemy

import (
	"context"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/game"
)

// Behavior is one enemy strategy. New strategies implement it; the
// Controller that gates and rate-limits them does not change.
type Behavior interface {
	// Init prepares the cube once before the match starts.
	Init(ctx context.Context, id int, unit cube.Actuator, state *game.State) error
	// Update runs one pursuit step and returns the desired wheel command.
	Update(ctx context.Context, id int, unit cube.Actuator, state *game.State, player, self cube.Position) (cube.Motion, error)
}
