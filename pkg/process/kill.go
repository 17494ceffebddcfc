// Package process provides the termination primitives used by the closure
// pipeline: liveness checks, a direct kill, and a tree-wide forceful kill.
package process

import (
	"fmt"
	"time"
)

// defaultGrace is how long a kill is given to take effect before the caller
// should re-check liveness and escalate.
const defaultGrace = 200 * time.Millisecond

// IsRunning reports whether pid refers to a live process. A process that
// exists but cannot be signalled (permissions) counts as running.
func IsRunning(pid int) bool {
	if pid < 1 {
		return false
	}
	return isProcessRunning(pid)
}

// Terminate sends a direct kill to pid. It returns nil if the signal was
// delivered or the process is already gone; delivery does not guarantee exit,
// callers re-check liveness after a grace interval.
func Terminate(pid int) error {
	if pid < 1 {
		return fmt.Errorf("invalid PID: %d", pid)
	}
	if !isProcessRunning(pid) {
		return nil
	}
	if ok := terminate(pid); !ok {
		if !isProcessRunning(pid) {
			return nil
		}
		return fmt.Errorf("failed to terminate PID=%d (permissions or process does not exist)", pid)
	}
	return nil
}

// TerminateTree forcefully kills pid together with its descendant processes.
// Some processes survive a direct kill through helper children or driver-held
// handles; taking down the whole tree is the stronger second tier.
func TerminateTree(pid int) error {
	if pid < 1 {
		return fmt.Errorf("invalid PID: %d", pid)
	}
	if !isProcessRunning(pid) {
		return nil
	}
	if ok := terminateTree(pid); !ok {
		if !isProcessRunning(pid) {
			return nil
		}
		return fmt.Errorf("failed to terminate process tree of PID=%d", pid)
	}
	return nil
}

// WaitExit polls pid at a fixed cadence until it exits or the grace window
// elapses. It returns true if the process is confirmed gone.
func WaitExit(pid int, grace time.Duration) bool {
	if grace <= 0 {
		grace = defaultGrace
	}
	deadline := time.Now().Add(grace)
	for {
		if !isProcessRunning(pid) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(50 * time.Millisecond)
	}
}
