//go:build windows
// +build windows

package process

import (
	"os/exec"
	"strconv"

	"golang.org/x/sys/windows"
)

const STILL_ACTIVE = 259

// terminate forcibly ends the process using TerminateProcess.
func terminate(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h) //nolint
	err = windows.TerminateProcess(h, uint32(1))
	return err == nil
}

// terminateTree ends the process and its descendants through taskkill, which
// walks the child tree in the kernel and reaches helpers a direct
// TerminateProcess on the root does not.
func terminateTree(pid int) bool {
	taskkill, err := exec.LookPath("taskkill")
	if err != nil {
		return terminate(pid)
	}
	cmd := exec.Command(taskkill, "/T", "/F", "/PID", strconv.Itoa(pid))
	return cmd.Run() == nil
}

// isProcessRunning checks liveness using OpenProcess and GetExitCodeProcess.
func isProcessRunning(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h) //nolint
	var code uint32
	err = windows.GetExitCodeProcess(h, &code)
	if err != nil {
		return false
	}
	return code == STILL_ACTIVE
}
