//go:build linux || darwin || freebsd || openbsd || netbsd
// +build linux darwin freebsd openbsd netbsd

package process

import (
	"syscall"

	gops "github.com/shirou/gopsutil/v4/process"
)

// terminate sends SIGKILL to the process.
func terminate(pid int) bool {
	err := syscall.Kill(pid, syscall.SIGKILL)
	return err == nil
}

// terminateTree kills the process and all of its descendants, children first
// so the root cannot respawn helpers mid-walk.
func terminateTree(pid int) bool {
	pids := treePIDs(int32(pid))
	ok := false
	for i := len(pids) - 1; i >= 0; i-- {
		if syscall.Kill(int(pids[i]), syscall.SIGKILL) == nil {
			ok = true
		}
	}
	return ok
}

// treePIDs returns pid and all of its descendants, parents before children.
func treePIDs(pid int32) []int32 {
	var pids []int32
	var walk func(p int32)
	walk = func(p int32) {
		proc, err := gops.NewProcess(p)
		if err != nil {
			return // process gone
		}
		pids = append(pids, p)
		children, _ := proc.Children()
		for _, child := range children {
			walk(child.Pid)
		}
	}
	walk(pid)
	return pids
}

// isProcessRunning checks if a process exists using syscall.Kill(pid, 0).
func isProcessRunning(pid int) bool {
	err := syscall.Kill(pid, 0)
	// nil => process exists; EPERM => exists but not signallable, still counts.
	if err == nil {
		return true
	}
	if err == syscall.EPERM {
		return true
	}
	return false
}
