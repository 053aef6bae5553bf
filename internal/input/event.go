// Package input turns controller devices into a stream of button and axis events.
package input

import "time"

type Kind int

const (
	KindButtonPressed Kind = iota
	KindButtonReleased
	KindAxisChanged
)

func (k Kind) String() string {
	switch k {
	case KindButtonPressed:
		return "pressed"
	case KindButtonReleased:
		return "released"
	case KindAxisChanged:
		return "axis"
	default:
		return "unknown"
	}
}

type Button int

const (
	ButtonUnknown Button = iota
	ButtonLeftTrigger2
	ButtonRightTrigger2
	ButtonStart
	ButtonSelect
)

func (b Button) String() string {
	switch b {
	case ButtonLeftTrigger2:
		return "l2"
	case ButtonRightTrigger2:
		return "r2"
	case ButtonStart:
		return "start"
	case ButtonSelect:
		return "select"
	default:
		return "unknown"
	}
}

type Axis int

const (
	AxisUnknown Axis = iota
	AxisLeftStickX
	AxisLeftStickY
)

func (a Axis) String() string {
	switch a {
	case AxisLeftStickX:
		return "left_x"
	case AxisLeftStickY:
		return "left_y"
	default:
		return "unknown"
	}
}

// Event is one change reported by an input device.
type Event struct {
	Kind   Kind
	Button Button
	Axis   Axis
	Value  float64 // axis deflection in [-1, 1]
	Time   time.Time
}

// Pressed builds a button press event.
func Pressed(b Button) Event {
	return Event{Kind: KindButtonPressed, Button: b, Time: time.Now()}
}

// Released builds a button release event.
func Released(b Button) Event {
	return Event{Kind: KindButtonReleased, Button: b, Time: time.Now()}
}

// AxisMoved builds an axis change event.
func AxisMoved(a Axis, v float64) Event {
	return Event{Kind: KindAxisChanged, Axis: a, Value: v, Time: time.Now()}
}
