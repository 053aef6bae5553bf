// Package bridge talks to a cube bridge: a local process that owns the BLE
// links to the cubes and relays commands and mat positions over a websocket.
package bridge

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ugaemi/cubechase/internal/cube"
)

// Frame ops sent to the bridge.
const (
	OpMotor         = "motor"
	OpLight         = "light"
	OpLightSequence = "light_sequence"
	OpSound         = "sound"
)

// Frame ops received from the bridge.
const (
	OpPosition = "position"
	OpLost     = "lost"
	OpError    = "error"
)

// Step is one light sequence entry on the wire.
type Step struct {
	R      uint8 `msgpack:"r"`
	G      uint8 `msgpack:"g"`
	B      uint8 `msgpack:"b"`
	Millis int   `msgpack:"ms"`
}

// Frame is the single message shape exchanged with the bridge, one per
// binary websocket message, msgpack encoded.
type Frame struct {
	Op   string `msgpack:"op"`
	Cube string `msgpack:"cube"`

	Left  int `msgpack:"left,omitempty"`
	Right int `msgpack:"right,omitempty"`

	R      uint8  `msgpack:"r,omitempty"`
	G      uint8  `msgpack:"g,omitempty"`
	B      uint8  `msgpack:"b,omitempty"`
	Repeat int    `msgpack:"repeat,omitempty"`
	Steps  []Step `msgpack:"steps,omitempty"`

	Sound int `msgpack:"sound,omitempty"`

	X     int `msgpack:"x,omitempty"`
	Y     int `msgpack:"y,omitempty"`
	Angle int `msgpack:"angle,omitempty"`

	Error string `msgpack:"error,omitempty"`
}

// Encode marshals a frame.
func Encode(f Frame) ([]byte, error) {
	return msgpack.Marshal(&f)
}

// Decode unmarshals a frame.
func Decode(data []byte) (Frame, error) {
	var f Frame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}

func (f Frame) position() cube.Position {
	return cube.Position{X: f.X, Y: f.Y, Angle: f.Angle}
}

func toSteps(steps []cube.LightStep) []Step {
	out := make([]Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, Step{
			R:      s.Color.R,
			G:      s.Color.G,
			B:      s.Color.B,
			Millis: int(s.Duration / time.Millisecond),
		})
	}
	return out
}
