//go:build unix

package sighandler

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// trackedOrder lists the signals Init subscribes on Unix.
// SIGUSR1 is reserved as the "kill everything" request.
var trackedOrder = []os.Signal{
	unix.SIGINT,
	unix.SIGTERM,
	unix.SIGHUP,
	unix.SIGSEGV,
	unix.SIGABRT,
	unix.SIGFPE,
	unix.SIGILL,
	unix.SIGBUS,
	unix.SIGUSR1,
}

var classification = map[os.Signal]Strategy{
	unix.SIGINT:  Save,
	unix.SIGTERM: Save,
	unix.SIGHUP:  Save,
	unix.SIGSEGV: NoSave,
	unix.SIGABRT: NoSave,
	unix.SIGFPE:  NoSave,
	unix.SIGILL:  NoSave,
	unix.SIGBUS:  NoSave,
	unix.SIGUSR1: SaveAndKillChildren,
}

// faultSignal and abortSignal stand in for panics recovered by Guard.
var (
	faultSignal os.Signal = unix.SIGSEGV
	abortSignal os.Signal = unix.SIGABRT
)

// SignalName returns the conventional name of sig, e.g. "SIGSEGV".
func SignalName(sig os.Signal) string {
	if s, ok := sig.(syscall.Signal); ok {
		if name := unix.SignalName(s); name != "" {
			return name
		}
	}
	return sig.String()
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return -1
}

// ExitCode follows the shell convention of 128 + signal number.
func ExitCode(sig os.Signal) int {
	if n := signalNumber(sig); n > 0 {
		return 128 + n
	}
	return 1
}
