package gamepad_test

import (
	"sync"

	"github.com/aidoo/vpad/device/gamepad"
)

type sentReport struct {
	Peer gamepad.Peer
	Type uint8
	ID   uint8
	Data []byte
}

// fakeProfile records every call. When autoConfirm is set, RegisterApp
// confirms registration synchronously.
type fakeProfile struct {
	mu          sync.Mutex
	autoConfirm bool
	registerErr error
	sendErr     error
	cb          gamepad.Callback
	descriptor  []byte
	settings    gamepad.AppSettings
	sent        []sentReport
	replies     []sentReport
	unregisters int
}

func (f *fakeProfile) RegisterApp(settings gamepad.AppSettings, descriptor []byte, cb gamepad.Callback) error {
	f.mu.Lock()
	if f.registerErr != nil {
		f.mu.Unlock()
		return f.registerErr
	}
	f.cb = cb
	f.descriptor = descriptor
	f.settings = settings
	confirm := f.autoConfirm
	f.mu.Unlock()
	if confirm {
		cb.OnAppStatusChanged(true)
	}
	return nil
}

func (f *fakeProfile) UnregisterApp() error {
	f.mu.Lock()
	f.unregisters++
	cb := f.cb
	f.mu.Unlock()
	if cb != nil {
		cb.OnAppStatusChanged(false)
	}
	return nil
}

func (f *fakeProfile) SendReport(peer gamepad.Peer, id uint8, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentReport{Peer: peer, ID: id, Data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeProfile) ReplyReport(peer gamepad.Peer, reportType, id uint8, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, sentReport{Peer: peer, Type: reportType, ID: id, Data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeProfile) sentBytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []byte
	for _, s := range f.sent {
		out = append(out, s.Data...)
	}
	return out
}

var host = gamepad.Peer{Address: "aa:bb:cc:dd:ee:ff", Name: "host"}

func connectedLink(f *fakeProfile) *gamepad.Link {
	f.autoConfirm = true
	l := gamepad.NewLink(f, gamepad.DefaultAppSettings(), nil)
	if err := l.Register(); err != nil {
		panic(err)
	}
	l.OnConnectionStateChanged(host, gamepad.StateConnected)
	return l
}
