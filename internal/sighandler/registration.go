package sighandler

import (
	"fmt"
	"os"
	"slices"

	"github.com/oklog/ulid/v2"
)

// registration is the immutable state recorded by one Init call.
// A new value replaces the old one atomically on every Init.
type registration struct {
	id      ulid.ULID
	program string
	slots   [numStrategies]func()

	// Diagnostic lines are rendered up front so the dispatch path
	// only has to write bytes.
	messages    map[os.Signal][]byte
	escalations map[os.Signal][]byte
	unexpected  []byte
	escalated   []byte
}

func newRegistration(program string, cb Callbacks, tracked []os.Signal) *registration {
	r := &registration{
		id:          ulid.Make(),
		program:     program,
		slots:       cb.slots(),
		messages:    make(map[os.Signal][]byte, len(tracked)+2),
		escalations: make(map[os.Signal][]byte, len(tracked)+2),
	}
	for _, sig := range slices.Concat(tracked, []os.Signal{faultSignal, abortSignal}) {
		if _, ok := r.messages[sig]; ok {
			continue
		}
		r.messages[sig] = r.render(sig, Classify(sig).action())
		r.escalations[sig] = r.render(sig, "already shutting down, "+NoSave.action())
	}
	r.unexpected = []byte(fmt.Sprintf("%s: caught unexpected signal, %s\n", program, NoSave.action()))
	r.escalated = []byte(fmt.Sprintf("%s: caught unexpected signal, already shutting down, %s\n", program, NoSave.action()))
	return r
}

func (r *registration) render(sig os.Signal, action string) []byte {
	return []byte(fmt.Sprintf("%s: caught %s (signal %d), %s\n",
		r.program, SignalName(sig), signalNumber(sig), action))
}

func (r *registration) message(sig os.Signal) []byte {
	if m, ok := r.messages[sig]; ok {
		return m
	}
	return r.unexpected
}

func (r *registration) escalation(sig os.Signal) []byte {
	if m, ok := r.escalations[sig]; ok {
		return m
	}
	return r.escalated
}
