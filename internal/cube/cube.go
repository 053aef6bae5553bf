package cube

import (
	"context"
	"time"
)

// Position is a fix reported by the mat tracker for one cube.
type Position struct {
	X     int `json:"x" msgpack:"x"`
	Y     int `json:"y" msgpack:"y"`
	Angle int `json:"angle" msgpack:"angle"` // degrees, [0, 360)
}

// PositionEvent is one telemetry sample. OK is false when the cube is off the mat.
type PositionEvent struct {
	Position Position
	OK       bool
	Time     time.Time
}

// Motion is a pair of signed wheel speeds.
type Motion struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Stop is the zero motion.
var Stop = Motion{}

// Color is an RGB value for the cube's indicator light.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Off reports whether the colour turns the light off.
func (c Color) Off() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// LightStep is one entry of a light sequence.
type LightStep struct {
	Color    Color
	Duration time.Duration
}

// SoundEffect identifies a preset sound stored on the cube.
type SoundEffect int

const (
	SoundEnter SoundEffect = iota
	SoundSelected
	SoundCancel
	SoundCursor
	SoundMatIn
	SoundMatOut
	SoundGet1
	SoundGet2
	SoundGet3
	SoundEffect1
	SoundEffect2
)

func (s SoundEffect) String() string {
	switch s {
	case SoundEnter:
		return "enter"
	case SoundSelected:
		return "selected"
	case SoundCancel:
		return "cancel"
	case SoundCursor:
		return "cursor"
	case SoundMatIn:
		return "mat_in"
	case SoundMatOut:
		return "mat_out"
	case SoundGet1:
		return "get1"
	case SoundGet2:
		return "get2"
	case SoundGet3:
		return "get3"
	case SoundEffect1:
		return "effect1"
	case SoundEffect2:
		return "effect2"
	default:
		return "unknown"
	}
}

// Actuator drives one physical cube and reads its position.
type Actuator interface {
	SetLight(ctx context.Context, c Color) error
	// SetLightSequence plays steps repeat times; repeat 0 loops forever.
	SetLightSequence(ctx context.Context, repeat int, steps []LightStep) error
	SetMotors(ctx context.Context, m Motion) error
	PlaySound(ctx context.Context, s SoundEffect) error
	// Position returns false when the cube is not on the mat.
	Position(ctx context.Context) (Position, bool, error)
}
