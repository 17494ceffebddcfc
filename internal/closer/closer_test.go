package closer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/winddown/winddown/internal/proc"
)

// fakeDriver simulates processes with configurable reactions to each tier.
type fakeDriver struct {
	mu sync.Mutex

	alive map[int32]bool
	// which requests a process honors
	honorsClose    map[int32]bool
	honorsKill     map[int32]bool
	honorsKillTree map[int32]bool

	closeRequests []int32
	kills         []int32
	treeKills     []int32

	closeErr map[int32]error
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		alive:          map[int32]bool{},
		honorsClose:    map[int32]bool{},
		honorsKill:     map[int32]bool{},
		honorsKillTree: map[int32]bool{},
		closeErr:       map[int32]error{},
	}
}

func (d *fakeDriver) Alive(pid int32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alive[pid]
}

func (d *fakeDriver) RequestClose(pid int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeRequests = append(d.closeRequests, pid)
	if err := d.closeErr[pid]; err != nil {
		return err
	}
	if d.honorsClose[pid] {
		d.alive[pid] = false
	}
	return nil
}

func (d *fakeDriver) Kill(pid int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.kills = append(d.kills, pid)
	if d.honorsKill[pid] {
		d.alive[pid] = false
	}
	return nil
}

func (d *fakeDriver) KillTree(pid int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.treeKills = append(d.treeKills, pid)
	if d.honorsKillTree[pid] {
		d.alive[pid] = false
	}
	return nil
}

func fastOptions() Options {
	return Options{
		Timeout: 200 * time.Millisecond,
		Grace:   20 * time.Millisecond,
		Poll:    5 * time.Millisecond,
	}
}

func rec(pid int32, name string, hasWindow bool) proc.Record {
	return proc.Record{PID: pid, Name: name, HasWindow: hasWindow}
}

func TestClose_NoCandidates(t *testing.T) {
	drv := newFakeDriver()
	res := New(drv, fastOptions()).Close(nil)

	assert.True(t, res.Succeeded())
	assert.Empty(t, res.Outcomes)
	assert.Empty(t, drv.kills, "no termination calls may be issued")
	assert.Empty(t, drv.closeRequests)
}

func TestClose_GracefulSuccess(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[10] = true
	drv.honorsClose[10] = true

	res := New(drv, fastOptions()).Close([]proc.Record{rec(10, "notepad.exe", true)})

	assert.True(t, res.Succeeded())
	assert.Len(t, res.Outcomes, 1)
	assert.Equal(t, ClosedGracefully, res.Outcomes[0].State)
	assert.Empty(t, drv.kills)
}

func TestClose_UnresponsiveWindowEscalates(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[11] = true
	drv.honorsKill[11] = true // ignores WM_CLOSE, dies to the direct kill

	res := New(drv, fastOptions()).Close([]proc.Record{rec(11, "stuck.exe", true)})

	assert.True(t, res.Succeeded())
	assert.Len(t, res.Outcomes, 1)
	state := res.Outcomes[0].State
	assert.NotEqual(t, ClosedGracefully, state, "an unresponsive process can never count as gracefully closed")
	assert.Contains(t, []State{ClosedByKill, ClosedByForceKill}, state)
}

func TestClose_ForceSkipsGracefulPhase(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[12] = true
	drv.honorsClose[12] = true // would close gracefully, but force never asks
	drv.honorsKill[12] = true

	opts := fastOptions()
	opts.Force = true
	res := New(drv, opts).Close([]proc.Record{rec(12, "notepad.exe", true)})

	assert.True(t, res.Succeeded())
	assert.Empty(t, drv.closeRequests, "force mode must not send close requests")
	assert.Equal(t, ClosedByKill, res.Outcomes[0].State)
}

func TestClose_NoGracefulSkipsGracefulPhase(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[13] = true
	drv.honorsKill[13] = true

	opts := fastOptions()
	opts.NoGraceful = true
	res := New(drv, opts).Close([]proc.Record{rec(13, "notepad.exe", true)})

	assert.Empty(t, drv.closeRequests)
	assert.Equal(t, ClosedByKill, res.Outcomes[0].State)
}

func TestClose_WindowlessGoesStraightToEscalation(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[14] = true
	drv.honorsKill[14] = true

	res := New(drv, fastOptions()).Close([]proc.Record{rec(14, "spotify.exe", false)})

	assert.Empty(t, drv.closeRequests)
	assert.Equal(t, ClosedByKill, res.Outcomes[0].State)
}

func TestClose_TreeKillTier(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[15] = true
	drv.honorsKillTree[15] = true // survives the direct kill

	res := New(drv, fastOptions()).Close([]proc.Record{rec(15, "hydra.exe", false)})

	assert.True(t, res.Succeeded())
	assert.Equal(t, ClosedByForceKill, res.Outcomes[0].State)
	assert.Equal(t, []int32{15}, drv.kills)
	assert.Equal(t, []int32{15}, drv.treeKills)
}

func TestClose_SurvivorReportsFailed(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[16] = true // survives everything

	res := New(drv, fastOptions()).Close([]proc.Record{rec(16, "immortal.exe", false)})

	assert.False(t, res.Succeeded())
	assert.Equal(t, Failed, res.Outcomes[0].State)
	assert.Equal(t, []string{"immortal.exe"}, res.FailedNames)
	// Bounded attempts only: one kill, one tree kill, no retries.
	assert.Len(t, drv.kills, 1)
	assert.Len(t, drv.treeKills, 1)
}

func TestClose_PerProcessFailureDoesNotInterruptBatch(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[17] = true // immortal
	drv.alive[18] = true
	drv.honorsKill[18] = true

	res := New(drv, fastOptions()).Close([]proc.Record{
		rec(17, "immortal.exe", false),
		rec(18, "meek.exe", false),
	})

	assert.False(t, res.Succeeded())
	assert.Len(t, res.Outcomes, 2)
	assert.Equal(t, []string{"immortal.exe"}, res.FailedNames)
}

func TestClose_CloseRequestErrorEscalates(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[19] = true
	drv.closeErr[19] = errors.New("window vanished")
	drv.honorsKill[19] = true

	res := New(drv, fastOptions()).Close([]proc.Record{rec(19, "flaky.exe", true)})

	assert.True(t, res.Succeeded())
	assert.Equal(t, ClosedByKill, res.Outcomes[0].State)
}

func TestEscalate_IdempotentOnExitedPID(t *testing.T) {
	drv := newFakeDriver()
	drv.alive[20] = true
	drv.honorsKill[20] = true
	c := New(drv, fastOptions())

	first := c.Escalate(rec(20, "once.exe", false))
	assert.Equal(t, ClosedByKill, first.State)

	second := c.Escalate(rec(20, "once.exe", false))
	assert.Equal(t, AlreadyExited, second.State)
	assert.NoError(t, second.Err)
	assert.Len(t, drv.kills, 1, "second pass must be a no-op")
}

func TestClose_SharedBudgetAcrossBatch(t *testing.T) {
	drv := newFakeDriver()
	for pid := int32(30); pid < 34; pid++ {
		drv.alive[pid] = true
		drv.honorsKill[pid] = true // nobody honors WM_CLOSE
	}

	opts := fastOptions()
	opts.Timeout = 30 * time.Millisecond

	start := time.Now()
	res := New(drv, opts).Close([]proc.Record{
		rec(30, "a.exe", true), rec(31, "b.exe", true),
		rec(32, "c.exe", true), rec(33, "d.exe", true),
	})
	elapsed := time.Since(start)

	assert.True(t, res.Succeeded())
	// The budget is shared: four stubborn processes cannot each burn a full
	// timeout. Generous upper bound to keep the test robust.
	assert.Less(t, elapsed, 10*opts.Timeout)
}
