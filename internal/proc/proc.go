// Package proc models running processes and implements the protected-set and
// candidate-scan logic of the closure pipeline.
package proc

import (
	"fmt"
	"os"
	"strings"

	gops "github.com/shirou/gopsutil/v4/process"
)

// Record is a point-in-time snapshot of one OS process. Process identifiers
// are reused by the OS, so a Record is only trustworthy at the instant it was
// taken; liveness must be re-verified before any termination decision.
type Record struct {
	PID         int32
	Name        string // executable name, lowercase
	PPID        int32
	SessionID   uint32
	HasWindow   bool
	WindowTitle string
	RSS         uint64
}

// Snapshotter enumerates the running processes of the machine.
type Snapshotter interface {
	Snapshot() ([]Record, error)
}

// Tree answers parent/children queries about live processes.
type Tree interface {
	Parent(pid int32) (int32, error)
	Children(pid int32) ([]int32, error)
}

// Self returns the identifier of the calling process.
func Self() int32 {
	return int32(os.Getpid())
}

// System is the real Snapshotter/Tree backed by the OS process table.
type System struct{}

// Snapshot enumerates all running processes. Per-process query failures
// (process vanished mid-scan, permissions) skip that process; a failure to
// enumerate the table itself is fatal to the scan.
func (System) Snapshot() ([]Record, error) {
	procs, err := gops.Processes()
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	windows := windowTable()

	records := make([]Record, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		rec := Record{
			PID:  p.Pid,
			Name: strings.ToLower(name),
		}
		if ppid, err := p.Ppid(); err == nil {
			rec.PPID = ppid
		}
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			rec.RSS = mi.RSS
		}
		rec.SessionID = sessionOf(uint32(p.Pid))
		if w, ok := windows[p.Pid]; ok {
			rec.HasWindow = true
			rec.WindowTitle = w
		}
		records = append(records, rec)
	}
	return records, nil
}

// Parent returns the parent identifier of pid.
func (System) Parent(pid int32) (int32, error) {
	p, err := gops.NewProcess(pid)
	if err != nil {
		return 0, err
	}
	return p.Ppid()
}

// Children returns the direct children of pid.
func (System) Children(pid int32) ([]int32, error) {
	p, err := gops.NewProcess(pid)
	if err != nil {
		return nil, err
	}
	children, err := p.Children()
	if err != nil {
		return nil, err
	}
	pids := make([]int32, 0, len(children))
	for _, c := range children {
		pids = append(pids, c.Pid)
	}
	return pids, nil
}
