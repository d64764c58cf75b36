package gamepad

// Button bitmasks of the 1-byte gamepad input report.
const (
	ButtonUp    = 0x01
	ButtonDown  = 0x02
	ButtonLeft  = 0x04
	ButtonRight = 0x08
	ButtonA     = 0x10
	ButtonB     = 0x20
)

// ButtonMask covers every defined button bit; bits 6-7 are padding.
const ButtonMask = ButtonUp | ButtonDown | ButtonLeft | ButtonRight | ButtonA | ButtonB

const (
	// ReportID is the implicit id of the single input report.
	ReportID = 1
	// InputReportSize is the payload size of the input report in bytes.
	InputReportSize = 1
)

// Report types as used by GET_REPORT / SET_REPORT.
const (
	ReportTypeInput   = 1
	ReportTypeOutput  = 2
	ReportTypeFeature = 3
)

// Subclass values of the HID device SDP record.
const (
	SubclassNone     = 0x00
	SubclassKeyboard = 0x40
	SubclassMouse    = 0x80
	SubclassJoystick = 0x01
	SubclassGamepad  = 0x02
)
