// Package closer drives the closure pipeline: a cooperative close request for
// window-owning processes followed by bounded escalation for everything that
// refuses to exit.
package closer

import (
	"time"

	"github.com/winddown/winddown/internal/proc"
	"github.com/winddown/winddown/pkg/log"
)

// State is the final classification of one closure attempt.
type State int

const (
	// AlreadyExited means the process was gone before it had to be touched.
	AlreadyExited State = iota
	// ClosedGracefully means the process exited after the cooperative close request.
	ClosedGracefully
	// ClosedByKill means the first escalation tier (direct kill) ended it.
	ClosedByKill
	// ClosedByForceKill means the tree-wide forceful tier ended it.
	ClosedByForceKill
	// Failed means the process survived every tier.
	Failed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case AlreadyExited:
		return "already exited"
	case ClosedGracefully:
		return "closed gracefully"
	case ClosedByKill:
		return "closed by kill"
	case ClosedByForceKill:
		return "closed by force kill"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the per-process result of the pipeline.
type Outcome struct {
	PID   int32
	Name  string
	State State
	Err   error // last error observed for this process, informational only
}

// Result aggregates a whole run. FailedNames drives the proceed/abort decision;
// Outcomes keeps the full per-process report even when the run proceeds under
// force. The two levels are deliberately separate signals.
type Result struct {
	Outcomes    []Outcome
	FailedNames []string
}

// Succeeded reports whether every candidate ended in a closed or exited state.
func (r Result) Succeeded() bool {
	return len(r.FailedNames) == 0
}

// Driver abstracts the OS operations the pipeline needs, so the policy is
// testable without touching real processes.
type Driver interface {
	Alive(pid int32) bool
	RequestClose(pid int32) error
	Kill(pid int32) error
	KillTree(pid int32) error
}

// Options tunes the pipeline.
type Options struct {
	// Timeout is the shared graceful-close budget for the whole batch.
	Timeout time.Duration
	// Force skips the graceful phase entirely.
	Force bool
	// NoGraceful skips the graceful phase without implying force elsewhere.
	NoGraceful bool
	// Grace is how long each escalation tier waits before re-checking liveness.
	Grace time.Duration
	// Poll is the liveness polling cadence.
	Poll time.Duration
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Grace <= 0 {
		o.Grace = 200 * time.Millisecond
	}
	if o.Poll <= 0 {
		o.Poll = 250 * time.Millisecond
	}
}

// Closer runs the pipeline against a Driver.
type Closer struct {
	drv  Driver
	opts Options
}

// New creates a Closer.
func New(drv Driver, opts Options) *Closer {
	opts.defaults()
	return &Closer{drv: drv, opts: opts}
}

// Close runs the full pipeline over the candidates and returns the aggregate
// result. Per-process errors are recorded in the outcomes and never interrupt
// the batch.
func (c *Closer) Close(candidates []proc.Record) Result {
	var res Result
	if len(candidates) == 0 {
		log.Infow("no closable candidates found")
		return res
	}

	pending := candidates
	if !c.opts.Force && !c.opts.NoGraceful {
		var done []Outcome
		done, pending = c.graceful(candidates)
		res.Outcomes = append(res.Outcomes, done...)
	}

	for _, rec := range pending {
		out := c.Escalate(rec)
		log.Infow("closure outcome", "pid", out.PID, "name", out.Name, "state", out.State.String())
		res.Outcomes = append(res.Outcomes, out)
		if out.State == Failed {
			res.FailedNames = append(res.FailedNames, out.Name)
		}
	}
	return res
}

// graceful requests a cooperative close of every window-owning candidate and
// waits under one shared budget. It returns the resolved outcomes and the
// records that still need escalation. Once the budget elapses, everything
// left moves on immediately.
func (c *Closer) graceful(candidates []proc.Record) (done []Outcome, pending []proc.Record) {
	deadline := time.Now().Add(c.opts.Timeout)

	for i, rec := range candidates {
		if !rec.HasWindow {
			pending = append(pending, rec)
			continue
		}
		if !c.drv.Alive(rec.PID) {
			done = append(done, Outcome{PID: rec.PID, Name: rec.Name, State: AlreadyExited})
			continue
		}
		if time.Now().After(deadline) {
			// Budget exhausted: the rest escalates without a request.
			pending = append(pending, candidates[i:]...)
			return done, pending
		}

		err := c.drv.RequestClose(rec.PID)
		if err != nil {
			log.Warnw("close request failed", "pid", rec.PID, "name", rec.Name, "error", err)
			pending = append(pending, rec)
			continue
		}
		if c.waitExit(rec.PID, deadline) {
			done = append(done, Outcome{PID: rec.PID, Name: rec.Name, State: ClosedGracefully})
			log.Infow("closure outcome", "pid", rec.PID, "name", rec.Name, "state", ClosedGracefully.String())
			continue
		}
		pending = append(pending, rec)
	}
	return done, pending
}

// Escalate applies the termination tiers to one process, re-checking liveness
// before each tier. Running it against an already-exited identifier is a
// no-op that reports AlreadyExited.
func (c *Closer) Escalate(rec proc.Record) Outcome {
	out := Outcome{PID: rec.PID, Name: rec.Name}

	if !c.drv.Alive(rec.PID) {
		out.State = AlreadyExited
		return out
	}

	// Tier 1: direct kill.
	if err := c.drv.Kill(rec.PID); err != nil {
		out.Err = err
	}
	if c.waitExit(rec.PID, time.Now().Add(c.opts.Grace)) {
		out.State = ClosedByKill
		return out
	}

	// Tier 2: tree-wide forceful termination. Catches helper children and
	// processes that shrug off the direct kill.
	if err := c.drv.KillTree(rec.PID); err != nil {
		out.Err = err
	}
	if c.waitExit(rec.PID, time.Now().Add(c.opts.Grace)) {
		out.State = ClosedByForceKill
		return out
	}

	out.State = Failed
	return out
}

// waitExit polls liveness until the process exits or the deadline passes.
func (c *Closer) waitExit(pid int32, deadline time.Time) bool {
	for {
		if !c.drv.Alive(pid) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(c.opts.Poll)
	}
}
