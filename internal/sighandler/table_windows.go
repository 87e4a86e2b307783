//go:build windows

package sighandler

import (
	"os"
	"syscall"
)

// Only Interrupt and SIGTERM are delivered on Windows
// (Ctrl-C/Ctrl-Break and console close/logoff/shutdown respectively).
var trackedOrder = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
}

var classification = map[os.Signal]Strategy{
	os.Interrupt:    Save,
	syscall.SIGTERM: Save,
}

var (
	faultSignal os.Signal = syscall.SIGSEGV
	abortSignal os.Signal = syscall.SIGABRT
)

var signalNames = map[os.Signal]string{
	os.Interrupt:    "SIGINT",
	syscall.SIGTERM: "SIGTERM",
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGABRT: "SIGABRT",
}

// SignalName returns the conventional name of sig, e.g. "SIGINT".
func SignalName(sig os.Signal) string {
	if name, ok := signalNames[sig]; ok {
		return name
	}
	return sig.String()
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return -1
}

// ExitCode returns the process exit status used after a dispatch.
func ExitCode(os.Signal) int {
	return 1
}
