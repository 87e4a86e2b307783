//go:build !unix && !windows

package sighandler

import "os"

// Only os.Interrupt is portable to the remaining platforms (plan9, js,
// wasip1).
var trackedOrder = []os.Signal{
	os.Interrupt,
}

var classification = map[os.Signal]Strategy{
	os.Interrupt: Save,
}

// faultName stands in for signals these platforms cannot express, so
// Guard still has something to dispatch and name.
type faultName string

func (f faultName) String() string { return string(f) }
func (faultName) Signal()          {}

var (
	faultSignal os.Signal = faultName("SIGSEGV")
	abortSignal os.Signal = faultName("SIGABRT")
)

// SignalName returns the conventional name of sig.
func SignalName(sig os.Signal) string {
	if sig == os.Interrupt {
		return "SIGINT"
	}
	return sig.String()
}

func signalNumber(os.Signal) int {
	return -1
}

// ExitCode returns the process exit status used after a dispatch.
func ExitCode(os.Signal) int {
	return 1
}
