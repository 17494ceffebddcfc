//go:build windows
// +build windows

package proc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procPostMessageW             = user32.NewProc("PostMessageW")

	kernel32                 = windows.NewLazySystemDLL("kernel32.dll")
	procProcessIdToSessionId = kernel32.NewProc("ProcessIdToSessionId")
)

const wmClose = 0x0010

// windowTable maps PIDs to the title of one of their visible top-level
// windows. Enumeration failures yield an empty table; window ownership is an
// inclusion hint, not a correctness requirement.
func windowTable() map[int32]string {
	table := make(map[int32]string)
	cb := windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1 // continue enumeration
		}
		var pid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid))) //nolint
		if pid == 0 {
			return 1
		}
		title := windowText(hwnd)
		if existing, ok := table[int32(pid)]; !ok || (existing == "" && title != "") {
			table[int32(pid)] = title
		}
		return 1
	})
	procEnumWindows.Call(cb, 0) //nolint
	return table
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

// sessionOf returns the interactive session of pid, or 0 when the query fails.
func sessionOf(pid uint32) uint32 {
	var sid uint32
	r, _, _ := procProcessIdToSessionId.Call(uintptr(pid), uintptr(unsafe.Pointer(&sid)))
	if r == 0 {
		return 0
	}
	return sid
}

// CurrentSession returns the interactive session of the calling process.
func CurrentSession() uint32 {
	return sessionOf(windows.GetCurrentProcessId())
}

// RequestClose posts WM_CLOSE to every visible top-level window owned by pid,
// asking the application to shut itself down. Compliance is not guaranteed.
func RequestClose(pid int32) error {
	posted := false
	cb := windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1
		}
		var owner uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&owner))) //nolint
		if int32(owner) != pid {
			return 1
		}
		r, _, _ := procPostMessageW.Call(hwnd, wmClose, 0, 0)
		if r != 0 {
			posted = true
		}
		return 1
	})
	procEnumWindows.Call(cb, 0) //nolint
	if !posted {
		return fmt.Errorf("no closable window found for PID=%d", pid)
	}
	return nil
}
