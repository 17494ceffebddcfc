package power

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAction_String(t *testing.T) {
	assert.Equal(t, "sleep", Sleep.String())
	assert.Equal(t, "restart", Restart.String())
	assert.Equal(t, "shutdown", Shutdown.String())
}

func TestRun_FirstSuccessShortCircuits(t *testing.T) {
	var calls []string
	inv := &Invoker{
		Action: Sleep,
		Methods: []Method{
			{Name: "first", Invoke: func(context.Context) error {
				calls = append(calls, "first")
				return nil
			}},
			{Name: "second", Invoke: func(context.Context) error {
				calls = append(calls, "second")
				return nil
			}},
		},
	}

	assert.NoError(t, inv.Run(context.Background()))
	assert.Equal(t, []string{"first"}, calls)
}

func TestRun_UnavailableMethodSkippedWithoutFailure(t *testing.T) {
	var calls []string
	inv := &Invoker{
		Action: Shutdown,
		Methods: []Method{
			{
				Name:      "absent",
				Available: func() bool { return false },
				Invoke: func(context.Context) error {
					calls = append(calls, "absent")
					return nil
				},
			},
			{Name: "present", Invoke: func(context.Context) error {
				calls = append(calls, "present")
				return nil
			}},
		},
	}

	assert.NoError(t, inv.Run(context.Background()))
	assert.Equal(t, []string{"present"}, calls)
}

func TestRun_InvokeErrorFallsThrough(t *testing.T) {
	inv := &Invoker{
		Action: Restart,
		Methods: []Method{
			{Name: "broken", Invoke: func(context.Context) error { return errors.New("boom") }},
			{Name: "works", Invoke: func(context.Context) error { return nil }},
		},
	}
	assert.NoError(t, inv.Run(context.Background()))
}

func TestRun_SuccessCheckFailureFallsThrough(t *testing.T) {
	var second bool
	inv := &Invoker{
		Action: Restart,
		Methods: []Method{
			{
				Name:      "lying",
				Invoke:    func(context.Context) error { return nil },
				Succeeded: func() bool { return false },
			},
			{Name: "honest", Invoke: func(context.Context) error { second = true; return nil }},
		},
	}

	assert.NoError(t, inv.Run(context.Background()))
	assert.True(t, second, "a method whose success check fails must fall through")
}

func TestRun_ExhaustionTriggersLastResort(t *testing.T) {
	var lastResort bool
	inv := &Invoker{
		Action: Sleep,
		Methods: []Method{
			{Name: "broken", Invoke: func(context.Context) error { return errors.New("boom") }},
		},
		LastResort: func(context.Context) error {
			lastResort = true
			return nil
		},
	}

	assert.NoError(t, inv.Run(context.Background()))
	assert.True(t, lastResort)
}

func TestRun_TotalExhaustionReportsActionFailed(t *testing.T) {
	inv := &Invoker{
		Action: Shutdown,
		Methods: []Method{
			{Name: "broken", Invoke: func(context.Context) error { return errors.New("boom") }},
		},
		LastResort: func(context.Context) error { return errors.New("still boom") },
	}

	err := inv.Run(context.Background())
	assert.ErrorIs(t, err, ErrActionFailed)
}

func TestRun_NoMethodsNoLastResort(t *testing.T) {
	inv := &Invoker{Action: Sleep}
	err := inv.Run(context.Background())
	assert.ErrorIs(t, err, ErrActionFailed)
}

func TestRun_InvocationIsBounded(t *testing.T) {
	inv := &Invoker{
		Action:        Sleep,
		InvokeTimeout: 30 * time.Millisecond,
		Methods: []Method{
			{Name: "stuck", Invoke: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}},
			{Name: "works", Invoke: func(context.Context) error { return nil }},
		},
	}

	start := time.Now()
	assert.NoError(t, inv.Run(context.Background()))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_PostDelayObserved(t *testing.T) {
	inv := &Invoker{
		Action: Sleep,
		Methods: []Method{
			{
				Name:      "delayed",
				Invoke:    func(context.Context) error { return nil },
				PostDelay: 50 * time.Millisecond,
				Succeeded: func() bool { return true },
			},
		},
	}

	start := time.Now()
	assert.NoError(t, inv.Run(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestNew_BuildsPlatformMethods(t *testing.T) {
	for _, action := range []Action{Sleep, Restart, Shutdown} {
		inv := New(action, false)
		assert.Equal(t, action, inv.Action)
		assert.NotEmpty(t, inv.Methods, "action %s should carry at least one method", action)
		for _, m := range inv.Methods {
			assert.NotEmpty(t, m.Name)
			assert.NotNil(t, m.Invoke)
		}
	}
}
