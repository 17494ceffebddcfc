package process

import (
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func startTestProcess(t *testing.T) *exec.Cmd {
	t.Helper()
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("timeout", "/t", "30")
	} else {
		cmd = exec.Command("sleep", "30")
	}
	err := cmd.Start()
	if err != nil {
		t.Fatalf("Failed to start test process: %v", err)
	}
	return cmd
}

func TestTerminate_InvalidPID(t *testing.T) {
	if err := Terminate(0); err == nil {
		t.Error("Expected an error for invalid PID 0, but got nil")
	}
	if err := TerminateTree(-1); err == nil {
		t.Error("Expected an error for invalid PID -1, but got nil")
	}
}

func TestIsRunning(t *testing.T) {
	cmd := startTestProcess(t)
	pid := cmd.Process.Pid
	defer cmd.Process.Kill()

	if !IsRunning(pid) {
		t.Errorf("IsRunning for PID %d should be true", pid)
	}
	if IsRunning(0) {
		t.Error("IsRunning for PID 0 should be false")
	}
}

func TestTerminate(t *testing.T) {
	cmd := startTestProcess(t)
	pid := cmd.Process.Pid

	if err := Terminate(pid); err != nil {
		t.Errorf("Terminate should have succeeded, but got error: %v", err)
	}
	go cmd.Wait() // reap

	if !WaitExit(pid, 2*time.Second) {
		t.Errorf("Process %d should not be running after Terminate", pid)
	}
}

func TestTerminateTree(t *testing.T) {
	cmd := startTestProcess(t)
	pid := cmd.Process.Pid

	if err := TerminateTree(pid); err != nil {
		t.Errorf("TerminateTree should have succeeded, but got error: %v", err)
	}
	go cmd.Wait() // reap

	if !WaitExit(pid, 2*time.Second) {
		t.Errorf("Process %d should not be running after TerminateTree", pid)
	}
}

func TestTerminate_NonExistentProcess(t *testing.T) {
	pid := 999999
	for IsRunning(pid) {
		pid++
	}

	// Terminating a process that is already gone is a no-op, never an error.
	if err := Terminate(pid); err != nil {
		t.Errorf("Terminating a non-existent process should not return an error, but got: %v", err)
	}
	if err := TerminateTree(pid); err != nil {
		t.Errorf("TerminateTree on a non-existent process should not return an error, but got: %v", err)
	}
}

func TestWaitExit_ExpiresOnLiveProcess(t *testing.T) {
	cmd := startTestProcess(t)
	pid := cmd.Process.Pid
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	if WaitExit(pid, 300*time.Millisecond) {
		t.Errorf("WaitExit should have expired for live PID %d", pid)
	}
}
