// Package gamepad implements the HID side of the virtual controller: the
// 1-byte gamepad input report and the Link state machine that registers
// the device with a HID profile and pushes report changes to the host.
package gamepad

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrAlreadyRegistered is returned by Register when the link is not disconnected.
var ErrAlreadyRegistered = errors.New("hid app already registered")

// LinkState is the registration/connection state of a Link.
type LinkState int

const (
	LinkDisconnected LinkState = iota
	LinkRegistering
	LinkRegistered
	LinkConnected
)

func (s LinkState) String() string {
	switch s {
	case LinkDisconnected:
		return "disconnected"
	case LinkRegistering:
		return "registering"
	case LinkRegistered:
		return "registered"
	case LinkConnected:
		return "connected"
	default:
		return fmt.Sprintf("link(%d)", int(s))
	}
}

// Link drives a gamepad over a HID Profile.
//
// SetButton is called from the input goroutine while profile callbacks
// arrive on other goroutines; every access to the report, the state and the
// peer goes through mu. The button state survives disconnects so a new peer
// starts from the current state.
type Link struct {
	profile  Profile
	settings AppSettings
	logger   *slog.Logger

	mu     sync.Mutex
	state  LinkState
	peer   Peer
	report ReportState
}

// NewLink returns a Link in the LinkDisconnected state.
func NewLink(profile Profile, settings AppSettings, logger *slog.Logger) *Link {
	if logger == nil {
		logger = slog.Default()
	}
	return &Link{
		profile:  profile,
		settings: settings,
		logger:   logger,
	}
}

// Register registers the gamepad descriptor with the profile. The link moves
// to LinkRegistered once the profile confirms through OnAppStatusChanged.
// On failure the link stays disconnected and Register may be retried.
func (l *Link) Register() error {
	l.mu.Lock()
	if l.state != LinkDisconnected {
		l.mu.Unlock()
		return ErrAlreadyRegistered
	}
	l.state = LinkRegistering
	l.mu.Unlock()

	if err := l.profile.RegisterApp(l.settings, DescriptorBytes, l); err != nil {
		l.mu.Lock()
		if l.state == LinkRegistering {
			l.state = LinkDisconnected
		}
		l.mu.Unlock()
		return fmt.Errorf("register hid app: %w", err)
	}
	l.logger.Debug("hid app registration requested", "name", l.settings.Name)
	return nil
}

// Disconnect unregisters the app. The link is LinkDisconnected afterwards
// whatever the profile answers.
func (l *Link) Disconnect() error {
	l.mu.Lock()
	prev := l.state
	l.state = LinkDisconnected
	l.peer = Peer{}
	l.mu.Unlock()

	if prev == LinkDisconnected {
		return nil
	}
	if err := l.profile.UnregisterApp(); err != nil {
		return fmt.Errorf("unregister hid app: %w", err)
	}
	l.logger.Info("hid app unregistered")
	return nil
}

// SetButton presses or releases the buttons in mask. While connected the new
// report is pushed immediately; otherwise the change is kept for the next
// connection.
func (l *Link) SetButton(mask uint8, pressed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.report.Set(mask, pressed)
	if l.state == LinkConnected {
		l.sendLocked()
	}
}

func (l *Link) PressUp() { l.SetButton(ButtonUp, true) }
func (l *Link) ReleaseUp() { l.SetButton(ButtonUp, false) }
func (l *Link) PressDown() { l.SetButton(ButtonDown, true) }
func (l *Link) ReleaseDown() { l.SetButton(ButtonDown, false) }
func (l *Link) PressLeft() { l.SetButton(ButtonLeft, true) }
func (l *Link) ReleaseLeft() { l.SetButton(ButtonLeft, false) }
func (l *Link) PressRight() { l.SetButton(ButtonRight, true) }
func (l *Link) ReleaseRight() { l.SetButton(ButtonRight, false) }
func (l *Link) PressA() { l.SetButton(ButtonA, true) }
func (l *Link) ReleaseA() { l.SetButton(ButtonA, false) }
func (l *Link) PressB() { l.SetButton(ButtonB, true) }
func (l *Link) ReleaseB() { l.SetButton(ButtonB, false) }

// State returns the current link state.
func (l *Link) State() LinkState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Report returns the current report byte.
func (l *Link) Report() uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.report.Report()
}

// Peer returns the connected host, if any.
func (l *Link) Peer() (Peer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.peer, l.state == LinkConnected
}

// sendLocked is only reachable while connected.
func (l *Link) sendLocked() {
	data, ok := l.report.Pending()
	if !ok {
		return
	}
	if err := l.profile.SendReport(l.peer, ReportID, data); err != nil {
		l.logger.Warn("failed to send report", "peer", l.peer.String(), "error", err)
		return
	}
	l.report.MarkSent(data)
}

// OnAppStatusChanged implements Callback.
func (l *Link) OnAppStatusChanged(registered bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !registered {
		if l.state != LinkDisconnected {
			l.logger.Info("hid app unregistered by profile")
		}
		l.state = LinkDisconnected
		l.peer = Peer{}
		return
	}
	if l.state != LinkRegistering {
		l.logger.Debug("ignoring stale registration", "state", l.state.String())
		return
	}
	l.state = LinkRegistered
	l.logger.Info("hid app registered", "name", l.settings.Name)
}

// OnConnectionStateChanged implements Callback.
func (l *Link) OnConnectionStateChanged(peer Peer, state ConnectionState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != LinkRegistered && l.state != LinkConnected {
		l.logger.Debug("ignoring connection change while unregistered", "peer", peer.String(), "state", state.String())
		return
	}
	if state == StateConnected {
		l.state = LinkConnected
		l.peer = peer
		l.logger.Info("hid host connected", "peer", peer.String())
		l.report.Reset()
		l.sendLocked()
		return
	}
	if l.state == LinkConnected {
		l.logger.Info("hid host disconnected", "peer", l.peer.String(), "state", state.String())
	}
	l.state = LinkRegistered
	l.peer = Peer{}
}

// OnGetReport implements Callback. Requests for other report ids or types
// get no reply.
func (l *Link) OnGetReport(peer Peer, reportType, id uint8, bufferSize int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != LinkConnected || reportType != ReportTypeInput || id != ReportID {
		l.logger.Debug("dropping get report", "peer", peer.String(), "type", reportType, "id", id)
		return
	}
	in := l.report.Input()
	data := in.BuildReport()
	if err := l.profile.ReplyReport(peer, reportType, id, data); err != nil {
		l.logger.Warn("failed to reply report", "peer", peer.String(), "error", err)
	}
}

// OnSetReport implements Callback. The gamepad has no output reports.
func (l *Link) OnSetReport(peer Peer, reportType, id uint8, data []byte) {
	l.logger.Debug("ignoring set report", "peer", peer.String(), "type", reportType, "id", id, "len", len(data))
}

// OnInterruptData implements Callback.
func (l *Link) OnInterruptData(peer Peer, id uint8, data []byte) {
	l.logger.Debug("ignoring interrupt data", "peer", peer.String(), "id", id, "len", len(data))
}
