//go:build windows

package util

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
)

// IsRunFromGUI reports whether vpad was started by double-click rather than
// from a shell: no console window, or Explorer as the parent process.
func IsRunFromGUI() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return true
	}
	parent := parentProcessName()
	slog.Debug("parent process", "name", parent)
	return strings.EqualFold(parent, "explorer.exe")
}

// PauseIfGUI keeps a double-clicked console open until a key is pressed so
// fatal errors stay readable.
func PauseIfGUI() {
	if !IsRunFromGUI() {
		return
	}
	fmt.Println("Press Enter to exit...")
	b := make([]byte, 1)
	_, _ = os.Stdin.Read(b)
}

func parentProcessName() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snapshot)

	type proc struct {
		parent uint32
		name   string
	}
	procs := map[uint32]proc{}

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		procs[pe.ProcessID] = proc{parent: pe.ParentProcessID, name: windows.UTF16ToString(pe.ExeFile[:])}
	}

	self, ok := procs[uint32(os.Getpid())]
	if !ok {
		return ""
	}
	return procs[self.parent].name
}
