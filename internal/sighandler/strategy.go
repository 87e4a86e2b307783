package sighandler

// Strategy selects one of the three shutdown callback slots.
type Strategy uint8

const (
	// NoSave terminates abruptly without persisting anything.
	NoSave Strategy = iota
	// Save persists current state before terminating.
	Save
	// SaveAndKillChildren also tears down subordinate processes.
	SaveAndKillChildren

	numStrategies
)

func (s Strategy) String() string {
	switch s {
	case NoSave:
		return "no-save"
	case Save:
		return "save"
	case SaveAndKillChildren:
		return "save-and-kill-children"
	default:
		return "unknown"
	}
}

// action is the human readable tail of the diagnostic line.
func (s Strategy) action() string {
	switch s {
	case Save:
		return "saving state and exiting"
	case SaveAndKillChildren:
		return "terminating child processes and exiting"
	default:
		return "exiting without save"
	}
}

// Callbacks holds the caller-owned shutdown procedures. Any field may be nil.
type Callbacks struct {
	// EmergencyExit is invoked for fatal runtime faults.
	EmergencyExit func()
	// EmergencySaveExit is invoked for graceful termination requests.
	EmergencySaveExit func()
	// KillAllChildren is invoked when the whole process tree should go away.
	KillAllChildren func()
}

func noop() {}

// slots resolves the callbacks into a table indexed by Strategy.
// Unset callbacks become no-ops.
func (c Callbacks) slots() [numStrategies]func() {
	s := [numStrategies]func(){
		NoSave:              c.EmergencyExit,
		Save:                c.EmergencySaveExit,
		SaveAndKillChildren: c.KillAllChildren,
	}
	for i := range s {
		if s[i] == nil {
			s[i] = noop
		}
	}
	return s
}
