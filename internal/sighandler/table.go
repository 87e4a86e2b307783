package sighandler

import "os"

// Classify returns the strategy for sig. Signals outside the
// classification table fall back to NoSave.
func Classify(sig os.Signal) Strategy {
	if s, ok := classification[sig]; ok {
		return s
	}
	return NoSave
}

// TrackedSignals returns the signals Init subscribes, in table order.
func TrackedSignals() []os.Signal {
	out := make([]os.Signal, len(trackedOrder))
	copy(out, trackedOrder)
	return out
}

// Row describes one tracked signal for display.
type Row struct {
	Signal   string `json:"signal" yaml:"signal"`
	Number   int    `json:"number" yaml:"number"`
	Strategy string `json:"strategy" yaml:"strategy"`
	ExitCode int    `json:"exit_code" yaml:"exit_code"`
}

// Table returns the classification table of the current platform.
func Table() []Row {
	rows := make([]Row, 0, len(trackedOrder))
	for _, sig := range trackedOrder {
		rows = append(rows, Row{
			Signal:   SignalName(sig),
			Number:   signalNumber(sig),
			Strategy: Classify(sig).String(),
			ExitCode: ExitCode(sig),
		})
	}
	return rows
}
