// Package sighandler routes abnormal-termination signals to one of three
// caller-supplied shutdown strategies.
//
// The package keeps a single process-wide Handler:
//
//   - Init records the program name and up to three callbacks and
//     subscribes the tracked signal set
//   - every tracked signal is classified (Classify) and dispatched to
//     exactly one strategy slot
//   - a second signal during a save escalates to the abrupt strategy once
//   - when the chosen callback returns, the process exits
//
// Usage:
//
//	err := sighandler.Init("solver", sighandler.Callbacks{
//		EmergencyExit:     abort,
//		EmergencySaveExit: saveAndQuit,
//	})
//
// Trap path contract: between receiving a signal and invoking the
// strategy, the dispatcher only performs atomic loads and compare-and-swap
// operations and a single Write of a pre-built diagnostic line. It never
// acquires a mutex, so a callback may safely run while application code
// holds its own locks.
package sighandler
