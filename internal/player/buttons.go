// Package player drives the player's cube from controller input.
package player

import (
	"math"

	"github.com/ugaemi/cubechase/internal/cube"
	"github.com/ugaemi/cubechase/internal/input"
)

// Buttons is the decoded controller state.
type Buttons struct {
	X     float64
	Y     float64
	Boost float64 // one step per trigger held
}

// Update folds one input event into the state.
func (b *Buttons) Update(ev input.Event) {
	switch ev.Kind {
	case input.KindButtonPressed:
		if isBoost(ev.Button) {
			b.Boost++
		}
	case input.KindButtonReleased:
		if isBoost(ev.Button) {
			b.Boost--
		}
	case input.KindAxisChanged:
		switch ev.Axis {
		case input.AxisLeftStickX:
			b.X = ev.Value
		case input.AxisLeftStickY:
			b.Y = ev.Value
		}
	}
}

func isBoost(b input.Button) bool {
	return b == input.ButtonLeftTrigger2 || b == input.ButtonRightTrigger2
}

// Drive converts the stick and boost into wheel speeds. A mostly sideways
// stick spins in place; otherwise the stick blends forward speed and turn.
func (b Buttons) Drive() cube.Motion {
	w := b.Boost
	if math.Abs(b.X)/2 > math.Abs(b.Y) {
		t := b.X * (10 + w*10)
		return cube.Motion{Left: int(t), Right: int(-t)}
	}

	t := b.X * (80 - 20*w)
	f := b.Y * (40*w + 20)
	right := f * (100 - math.Abs(math.Max(t, 0))) / 100
	left := f * (100 - math.Abs(math.Min(t, 0))) / 100
	return cube.Motion{Left: int(left), Right: int(right)}
}
