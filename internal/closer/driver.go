package closer

import (
	"github.com/winddown/winddown/internal/proc"
	"github.com/winddown/winddown/pkg/process"
)

// systemDriver is the real Driver backed by the OS.
type systemDriver struct{}

// SystemDriver returns the Driver used outside tests.
func SystemDriver() Driver {
	return systemDriver{}
}

func (systemDriver) Alive(pid int32) bool {
	return process.IsRunning(int(pid))
}

func (systemDriver) RequestClose(pid int32) error {
	return proc.RequestClose(pid)
}

func (systemDriver) Kill(pid int32) error {
	return process.Terminate(int(pid))
}

func (systemDriver) KillTree(pid int32) error {
	return process.TerminateTree(int(pid))
}
