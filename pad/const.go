package pad

import "strconv"

// Component states. A Button is either StateUp or StateDown; a DirectionalPad
// combines up to two adjacent direction bits, StateUp meaning centered.
const (
	StateUp   State = 0
	StateDown State = 1

	DirLeft   State = 1 << 1
	DirTop    State = 1 << 2
	DirRight  State = 1 << 3
	DirBottom State = 1 << 4
)

// DirMask covers all four direction bits of a DirectionalPad state.
const DirMask = DirLeft | DirTop | DirRight | DirBottom

// State is the bitmask state of a component.
type State uint8

// Has reports whether all bits of b are set in s.
func (s State) Has(b State) bool { return s&b == b && b != 0 }

func (s State) String() string {
	if s == StateUp {
		return "up"
	}
	if s == StateDown {
		return "down"
	}
	out := ""
	for _, d := range directions {
		if s&d.bit != 0 {
			if out != "" {
				out += "+"
			}
			out += d.name
		}
	}
	return out
}

var directions = [4]struct {
	bit  State
	name string
}{
	{DirLeft, "left"},
	{DirTop, "top"},
	{DirRight, "right"},
	{DirBottom, "bottom"},
}

// Action is a pointer action as seen by a single component.
type Action uint8

const (
	ActionUp Action = iota
	ActionDown
	ActionMove
)

func (a Action) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionMove:
		return "move"
	default:
		return "unknown"
	}
}

// Kind selects the component variant.
type Kind uint8

const (
	KindButton Kind = iota
	KindDirectionalPad
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindDirectionalPad:
		return "dpad"
	default:
		return "unknown"
	}
}

// DirectionMode selects the sector table used by a DirectionalPad.
type DirectionMode uint8

const (
	EightWay DirectionMode = iota
	FourWay
)

func (m DirectionMode) String() string {
	if m == FourWay {
		return "4way"
	}
	return "8way"
}

// Android-compatible key codes used by the default key map.
const (
	KeyCodeDPadUp       = 19
	KeyCodeDPadDown     = 20
	KeyCodeDPadLeft     = 21
	KeyCodeDPadRight    = 22
	KeyCodeButtonA      = 96
	KeyCodeButtonB      = 97
	KeyCodeButtonC      = 98
	KeyCodeButtonX      = 99
	KeyCodeButtonY      = 100
	KeyCodeButtonZ      = 101
	KeyCodeButtonL1     = 102
	KeyCodeButtonR1     = 103
	KeyCodeButtonL2     = 104
	KeyCodeButtonR2     = 105
	KeyCodeButtonStart  = 108
	KeyCodeButtonSelect = 109
)

var keyCodeNames = map[int]string{
	KeyCodeDPadUp:       "DPAD_UP",
	KeyCodeDPadDown:     "DPAD_DOWN",
	KeyCodeDPadLeft:     "DPAD_LEFT",
	KeyCodeDPadRight:    "DPAD_RIGHT",
	KeyCodeButtonA:      "BUTTON_A",
	KeyCodeButtonB:      "BUTTON_B",
	KeyCodeButtonC:      "BUTTON_C",
	KeyCodeButtonX:      "BUTTON_X",
	KeyCodeButtonY:      "BUTTON_Y",
	KeyCodeButtonZ:      "BUTTON_Z",
	KeyCodeButtonL1:     "BUTTON_L1",
	KeyCodeButtonR1:     "BUTTON_R1",
	KeyCodeButtonL2:     "BUTTON_L2",
	KeyCodeButtonR2:     "BUTTON_R2",
	KeyCodeButtonStart:  "BUTTON_START",
	KeyCodeButtonSelect: "BUTTON_SELECT",
}

// KeyCodeName returns the Android name of code, or its number.
func KeyCodeName(code int) string {
	if n, ok := keyCodeNames[code]; ok {
		return n
	}
	return strconv.Itoa(code)
}
