//go:build windows
// +build windows

package power

import (
	"context"
	"fmt"
	"strings"
	"time"

	gops "github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/windows"

	"github.com/winddown/winddown/pkg/log"
	"github.com/winddown/winddown/pkg/process"
)

var (
	powrprof                    = windows.NewLazySystemDLL("powrprof.dll")
	procSetSuspendState         = powrprof.NewProc("SetSuspendState")
	kernel32                    = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")
)

const esContinuous = 0x80000000

// transitionDelay is how long to watch for a begun transition after a method
// reports success. Restart and shutdown end this process, so still being here
// afterwards means the method did not work.
const transitionDelay = 15 * time.Second

func methodsFor(action Action, force bool) []Method {
	switch action {
	case Sleep:
		return []Method{
			{
				Name:      "rundll32 SetSuspendState",
				Available: available("rundll32"),
				Invoke:    command("rundll32", "powrprof.dll,SetSuspendState", "0,1,0"),
				PostDelay: 10 * time.Second,
				// Resuming from sleep lands right back here, so still
				// running is not evidence of failure.
			},
			{
				Name:      "psshutdown suspend",
				Available: available("psshutdown"),
				Invoke:    command("psshutdown", "-d", "-t", "0", "-accepteula"),
				PostDelay: 10 * time.Second,
			},
		}
	case Restart:
		return []Method{
			{
				Name:      "shutdown /r",
				Available: available("shutdown"),
				Invoke:    command("shutdown", shutdownArgs("/r", force)...),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
			{
				Name:      "psshutdown restart",
				Available: available("psshutdown"),
				Invoke:    command("psshutdown", "-r", "-t", "0", "-accepteula"),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
		}
	case Shutdown:
		return []Method{
			{
				Name:      "shutdown /s",
				Available: available("shutdown"),
				Invoke:    command("shutdown", shutdownArgs("/s", force)...),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
			{
				Name:      "psshutdown shutdown",
				Available: available("psshutdown"),
				Invoke:    command("psshutdown", "-s", "-t", "0", "-accepteula"),
				PostDelay: transitionDelay,
				Succeeded: never,
			},
		}
	}
	return nil
}

func shutdownArgs(mode string, force bool) []string {
	args := []string{mode, "/t", "0"}
	if force {
		args = append(args, "/f")
	}
	return args
}

func lastResortFor(action Action) func(ctx context.Context) error {
	switch action {
	case Sleep:
		return suspendDirect
	case Restart:
		return restartAfterShellKill("/r")
	case Shutdown:
		return restartAfterShellKill("/s")
	}
	return nil
}

// suspendDirect clears any execution-state locks held on this thread and
// calls SetSuspendState directly, bypassing the command-line utilities.
func suspendDirect(_ context.Context) error {
	procSetThreadExecutionState.Call(uintptr(esContinuous)) //nolint
	r, _, err := procSetSuspendState.Call(0, 1, 0)
	if r == 0 {
		return fmt.Errorf("SetSuspendState: %w", err)
	}
	return nil
}

// restartAfterShellKill terminates the shell and reissues the shutdown
// command forced. A wedged explorer is the usual reason the regular methods
// silently fail to complete the transition.
func restartAfterShellKill(mode string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if pid := findByName("explorer.exe"); pid > 0 {
			if err := process.Terminate(int(pid)); err != nil {
				log.Warnw("failed to terminate shell", "pid", pid, "error", err)
			}
			process.WaitExit(int(pid), 2*time.Second)
		}
		return command("shutdown", mode, "/t", "0", "/f")(ctx)
	}
}

// findByName returns the PID of the first process with the given lowercase
// name, or 0 when none is found.
func findByName(name string) int32 {
	procs, err := gops.Processes()
	if err != nil {
		return 0
	}
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(n, name) {
			return p.Pid
		}
	}
	return 0
}
