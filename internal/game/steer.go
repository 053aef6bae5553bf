package game

import (
	"math"

	"github.com/ugaemi/cubechase/internal/cube"
)

// SquaredDistance returns dx² + dy² between two fixes.
func SquaredDistance(a, b cube.Position) float64 {
	dx := math.Pow(math.Abs(float64(b.X-a.X)), 2)
	dy := math.Pow(math.Abs(float64(b.Y-a.Y)), 2)
	return dx + dy
}

// InContact reports whether two fixes are inside the contact radius.
func InContact(a, b cube.Position) bool {
	return SquaredDistance(a, b) < ContactRadiusSq
}

// Bearing returns the absolute angle in whole degrees from one fix to another.
// Axis-aligned targets divide by zero inside the arctangent; the resulting
// Inf is kept (a target due +X lands on a full turn) and NaN yields 0.
func Bearing(from, to cube.Position) int {
	x0, y0 := float64(from.X), float64(from.Y)
	x1, y1 := float64(to.X), float64(to.Y)

	xd := math.Abs(x1 - x0)
	yd := math.Abs(y1 - y0)

	var r float64
	switch {
	case x1 > x0 && y1 > y0:
		r = math.Atan(yd / xd)
	case !(x1 > x0) && y1 > y0:
		r = math.Atan(xd/yd) + math.Pi/2
	case !(x1 > x0) && !(y1 > y0):
		r = math.Atan(yd/xd) + math.Pi
	default:
		r = math.Atan(xd/yd) + math.Pi*3/2
	}
	return degrees(r)
}

// degrees truncates radians to whole degrees, saturating like a checked cast.
func degrees(r float64) int {
	d := r * (180 / math.Pi)
	switch {
	case math.IsNaN(d):
		return 0
	case d >= math.MaxInt32:
		return math.MaxInt32
	case d <= math.MinInt32:
		return math.MinInt32
	}
	return int(d)
}

// TurnRight reports whether turning clockwise from heading r0 is the shorter
// way to reach bearing r1.
func TurnRight(r0, r1 int) bool {
	if r0 < 180 {
		return r0 < r1 && r1 < r0+180
	}
	return r0 < r1 || r1 < (r0+180)%360
}

// Steer picks the wheel command for heading r0 and target bearing r1.
func Steer(r0, r1 int) cube.Motion {
	diff := r0 - r1
	if diff < 0 {
		diff = -diff
	}
	if diff > Deadband {
		if TurnRight(r0, r1) {
			return cube.Motion{Left: PivotSpeed, Right: -PivotSpeed}
		}
		return cube.Motion{Left: -PivotSpeed, Right: PivotSpeed}
	}
	return cube.Motion{Left: ChaseSpeed, Right: ChaseSpeed}
}
