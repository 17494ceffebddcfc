// Package power attempts sleep, restart, and shutdown transitions through an
// ordered list of fallback methods, each with its own precondition, bounded
// invocation, and success check.
package power

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/winddown/winddown/pkg/log"
)

// Action is the requested power transition.
type Action int

const (
	// Sleep suspends the machine.
	Sleep Action = iota
	// Restart reboots the machine.
	Restart
	// Shutdown powers the machine off.
	Shutdown
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Sleep:
		return "sleep"
	case Restart:
		return "restart"
	case Shutdown:
		return "shutdown"
	}
	return "unknown"
}

// ErrActionFailed means every fallback method for the requested transition
// was exhausted, including the last-resort recovery.
var ErrActionFailed = errors.New("power action failed")

// Method is one fallback for a power transition. Methods are tried in slice
// order; a missing precondition skips the method without counting as failure.
type Method struct {
	// Name identifies the method in logs.
	Name string
	// Available reports whether the method can run at all (required
	// executable present). Nil means always available.
	Available func() bool
	// Invoke performs the attempt under a bounded context.
	Invoke func(ctx context.Context) error
	// PostDelay is how long to wait after a successful invocation to observe
	// whether the transition actually began.
	PostDelay time.Duration
	// Succeeded judges the attempt after PostDelay. Nil means the invocation
	// result is trusted. The OS call reporting success is no guarantee the
	// transition happened (a wake lock can block it), hence the re-check.
	Succeeded func() bool
}

// defaultInvokeTimeout bounds each method invocation. A stuck power call must
// not hang a tool whose purpose is regaining control of the machine.
const defaultInvokeTimeout = 10 * time.Second

// Invoker walks the fallback methods of one action.
type Invoker struct {
	Action        Action
	Methods       []Method
	LastResort    func(ctx context.Context) error
	InvokeTimeout time.Duration
}

// New builds the invoker for action with the platform method list.
func New(action Action, force bool) *Invoker {
	return &Invoker{
		Action:        action,
		Methods:       methodsFor(action, force),
		LastResort:    lastResortFor(action),
		InvokeTimeout: defaultInvokeTimeout,
	}
}

// Run tries each method in priority order and stops at the first one judged
// successful. When every method is exhausted, the action's last-resort
// recovery runs before ErrActionFailed is reported.
func (inv *Invoker) Run(ctx context.Context) error {
	timeout := inv.InvokeTimeout
	if timeout <= 0 {
		timeout = defaultInvokeTimeout
	}

	for _, m := range inv.Methods {
		if m.Available != nil && !m.Available() {
			log.Debugw("power method unavailable, skipping", "action", inv.Action.String(), "method", m.Name)
			continue
		}

		log.Infow("attempting power method", "action", inv.Action.String(), "method", m.Name)
		ictx, cancel := context.WithTimeout(ctx, timeout)
		err := m.Invoke(ictx)
		cancel()
		if err != nil {
			log.Warnw("power method failed", "action", inv.Action.String(), "method", m.Name, "error", err)
			continue
		}

		if m.PostDelay > 0 {
			time.Sleep(m.PostDelay)
		}
		if m.Succeeded == nil || m.Succeeded() {
			log.Infow("power method succeeded", "action", inv.Action.String(), "method", m.Name)
			return nil
		}
		log.Warnw("power method reported success but no transition observed",
			"action", inv.Action.String(), "method", m.Name)
	}

	if inv.LastResort != nil {
		log.Warnw("all power methods exhausted, attempting last resort", "action", inv.Action.String())
		lctx, cancel := context.WithTimeout(ctx, timeout)
		err := inv.LastResort(lctx)
		cancel()
		if err == nil {
			return nil
		}
		log.Errorw("last resort failed", "action", inv.Action.String(), "error", err)
	}

	return fmt.Errorf("%s: %w", inv.Action.String(), ErrActionFailed)
}

// available returns a precondition that checks for an executable in PATH.
func available(name string) func() bool {
	return func() bool {
		_, err := exec.LookPath(name)
		return err == nil
	}
}

// command returns an Invoke that runs an executable with a bounded context.
func command(name string, args ...string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		path, err := exec.LookPath(name)
		if err != nil {
			return err
		}
		return exec.CommandContext(ctx, path, args...).Run()
	}
}

// never is a Succeeded check for transitions that end this process: if we are
// still around to evaluate it, the transition did not begin.
func never() bool { return false }
