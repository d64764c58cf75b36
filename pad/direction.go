package pad

import "math"

type sector struct {
	from, to float64
	dir      State
}

// Sectors are half-open [from, to) in radians, y pointing down. Angles not
// covered by any sector belong to the left direction, which straddles ±π.
var (
	fourWaySectors = []sector{
		{-math.Pi / 4, math.Pi / 4, DirRight},
		{math.Pi / 4, 3 * math.Pi / 4, DirBottom},
		{-3 * math.Pi / 4, -math.Pi / 4, DirTop},
	}
	eightWaySectors = []sector{
		{-math.Pi / 8, math.Pi / 8, DirRight},
		{math.Pi / 8, 3 * math.Pi / 8, DirBottom | DirRight},
		{3 * math.Pi / 8, 5 * math.Pi / 8, DirBottom},
		{5 * math.Pi / 8, 7 * math.Pi / 8, DirBottom | DirLeft},
		{-7 * math.Pi / 8, -5 * math.Pi / 8, DirTop | DirLeft},
		{-5 * math.Pi / 8, -3 * math.Pi / 8, DirTop},
		{-3 * math.Pi / 8, -math.Pi / 8, DirTop | DirRight},
	}
)

// DeadZone returns the centered radius of a pad of the given width inside
// which no direction is pressed.
func DeadZone(width int) float64 {
	return float64(width) / 4
}

// Classify maps an offset (dx, dy) from a pad center to a direction mask.
// Offsets closer than deadZone yield StateUp.
func Classify(dx, dy, deadZone float64, mode DirectionMode) State {
	if math.Hypot(dx, dy) < deadZone {
		return StateUp
	}
	angle := math.Atan2(dy, dx)
	sectors := eightWaySectors
	if mode == FourWay {
		sectors = fourWaySectors
	}
	for _, s := range sectors {
		if angle >= s.from && angle < s.to {
			return s.dir
		}
	}
	return DirLeft
}
