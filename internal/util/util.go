//go:build !windows

package util

// IsRunFromGUI is always false outside windows.
func IsRunFromGUI() bool { return false }

// PauseIfGUI is a no-op outside windows.
func PauseIfGUI() {}
