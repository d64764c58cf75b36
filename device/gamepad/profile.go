package gamepad

import "fmt"

// Peer identifies a remote HID host.
type Peer struct {
	Address string
	Name    string
}

func (p Peer) String() string {
	if p.Name == "" {
		return p.Address
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Address)
}

// ConnectionState is the profile-level state of a peer connection.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AppSettings is the service record registered along with the descriptor.
type AppSettings struct {
	Name        string `help:"HID service name" default:"Android Gamepad" env:"VPAD_HID_NAME"`
	Description string `help:"HID service description" default:"Simple Bluetooth Gamepad" env:"VPAD_HID_DESCRIPTION"`
	Provider    string `help:"HID service provider" default:"Android" env:"VPAD_HID_PROVIDER"`
	Subclass    uint8  `help:"HID device subclass" default:"0" env:"VPAD_HID_SUBCLASS"`
}

// DefaultAppSettings returns the stock gamepad service record.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Name:        "Android Gamepad",
		Description: "Simple Bluetooth Gamepad",
		Provider:    "Android",
		Subclass:    SubclassNone,
	}
}

// Callback receives profile events. Profiles deliver them on their own
// goroutine, never the caller's UI goroutine, and may use a different
// goroutine for each call.
type Callback interface {
	OnAppStatusChanged(registered bool)
	OnConnectionStateChanged(peer Peer, state ConnectionState)
	OnGetReport(peer Peer, reportType, id uint8, bufferSize int)
	OnSetReport(peer Peer, reportType, id uint8, data []byte)
	OnInterruptData(peer Peer, id uint8, data []byte)
}

// Profile is the platform HID device profile.
//
// SendReport and ReplyReport are fire-and-forget: they must queue the data
// and return without waiting for the peer.
type Profile interface {
	RegisterApp(settings AppSettings, descriptor []byte, cb Callback) error
	UnregisterApp() error
	SendReport(peer Peer, id uint8, data []byte) error
	ReplyReport(peer Peer, reportType, id uint8, data []byte) error
}
