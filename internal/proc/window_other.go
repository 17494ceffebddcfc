//go:build linux || darwin || freebsd || openbsd || netbsd
// +build linux darwin freebsd openbsd netbsd

package proc

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// windowTable has no meaning outside Windows; no process is considered a
// window owner, so only known applications are offered for closure.
func windowTable() map[int32]string {
	return map[int32]string{}
}

func sessionOf(pid uint32) uint32 {
	sid, err := unix.Getsid(int(pid))
	if err != nil {
		return 0
	}
	return uint32(sid)
}

// CurrentSession returns the session of the calling process.
func CurrentSession() uint32 {
	return sessionOf(uint32(Self()))
}

// RequestClose asks the process to terminate itself with SIGTERM, the
// conventional cooperative shutdown request outside Windows.
func RequestClose(pid int32) error {
	return syscall.Kill(int(pid), syscall.SIGTERM)
}
