package gamepad

import "github.com/aidoo/vpad/pad"

// ButtonSetter is the part of Link the Bridge drives.
type ButtonSetter interface {
	SetButton(mask uint8, pressed bool)
}

// DefaultBridgeCodes maps the default pad key codes to report buttons.
func DefaultBridgeCodes() map[int]uint8 {
	return map[int]uint8{
		pad.KeyCodeDPadUp:    ButtonUp,
		pad.KeyCodeDPadDown:  ButtonDown,
		pad.KeyCodeDPadLeft:  ButtonLeft,
		pad.KeyCodeDPadRight: ButtonRight,
		pad.KeyCodeButtonA:   ButtonA,
		pad.KeyCodeButtonB:   ButtonB,
	}
}

// Bridge is a pad.EventSink that turns key edges into report button changes.
// Codes without a mapping are ignored.
type Bridge struct {
	target ButtonSetter
	codes  map[int]uint8
}

// NewBridge uses DefaultBridgeCodes when codes is nil.
func NewBridge(target ButtonSetter, codes map[int]uint8) *Bridge {
	if codes == nil {
		codes = DefaultBridgeCodes()
	}
	return &Bridge{target: target, codes: codes}
}

func (b *Bridge) OnButtonEvent(action pad.Action, code int) {
	mask, ok := b.codes[code]
	if !ok {
		return
	}
	b.target.SetButton(mask, action == pad.ActionDown)
}

func (b *Bridge) OnAxisEvent(int, float32, float32) {}
