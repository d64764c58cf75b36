package gamepad

import "io"

// InputState is the logical button state carried by the input report.
type InputState struct {
	// Buttons is a bitfield of Button* masks.
	Buttons uint8
}

// Set presses or releases every button in mask and reports whether the
// state changed.
func (s *InputState) Set(mask uint8, pressed bool) bool {
	prev := s.Buttons
	if pressed {
		s.Buttons |= mask
	} else {
		s.Buttons &^= mask
	}
	s.Buttons &= ButtonMask
	return s.Buttons != prev
}

// Pressed reports whether every button in mask is held.
func (s InputState) Pressed(mask uint8) bool {
	return mask != 0 && s.Buttons&mask == mask
}

// BuildReport encodes the state into the 1-byte input report.
// Layout: bit0=up bit1=down bit2=left bit3=right bit4=A bit5=B, bits 6-7 zero.
func (s *InputState) BuildReport() []byte {
	return []byte{s.Buttons & ButtonMask}
}

// MarshalBinary encodes InputState to 1 byte.
func (s *InputState) MarshalBinary() ([]byte, error) {
	return s.BuildReport(), nil
}

// UnmarshalBinary decodes 1 byte into InputState.
func (s *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < InputReportSize {
		return io.ErrUnexpectedEOF
	}
	s.Buttons = data[0] & ButtonMask
	return nil
}

func (s InputState) String() string {
	names := [...]string{"up", "down", "left", "right", "a", "b"}
	out := ""
	for i, n := range names {
		if s.Buttons&(1<<i) == 0 {
			continue
		}
		if out != "" {
			out += "+"
		}
		out += n
	}
	if out == "" {
		return "none"
	}
	return out
}
