// Package testing holds helpers shared by transport tests.
package testing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidoo/vpad/device/gamepad"
	"github.com/aidoo/vpad/internal/server/hidhost"
)

// StartHidHost starts a loopback HID host server with a registered gamepad
// link. Both are torn down with the test.
func StartHidHost(t *testing.T, cfg hidhost.ServerConfig) (*hidhost.Server, *gamepad.Link) {
	t.Helper()
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:0"
	}
	srv := hidhost.New(cfg, slog.Default(), nil)
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Close)

	link := gamepad.NewLink(srv, gamepad.DefaultAppSettings(), slog.Default())
	require.NoError(t, link.Register())
	WaitLinkState(t, link, gamepad.LinkRegistered)
	return srv, link
}

// WaitLinkState waits until link reaches state.
func WaitLinkState(t *testing.T, link *gamepad.Link, state gamepad.LinkState) {
	t.Helper()
	require.Eventually(t, func() bool { return link.State() == state },
		2*time.Second, 5*time.Millisecond, "link never reached %s (now %s)", state, link.State())
}
