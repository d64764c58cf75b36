//go:build windows

package main

import (
	"log/slog"
	"os"

	"github.com/aidoo/vpad/internal/util"
)

// A double-clicked vpad.exe has no arguments; start serving instead of
// printing usage into a console that closes immediately.
func init() {
	if !util.IsRunFromGUI() || len(os.Args) > 1 {
		return
	}
	slog.Info("Detected GUI startup, running 'serve'")
	os.Args = append(os.Args, "serve")
}
