package sighandler

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/sigguard/internal/telemetry/logger"
)

// ErrEmptyProgram is returned by Init when no program name is given.
var ErrEmptyProgram = errors.New("sighandler: program name is required")

// Dispatch states. While dispatching, the state holds 1+Strategy so the
// strategy in flight is visible to a re-entrant delivery without a second
// load.
const (
	stateTerminated int32 = -1
	stateIdle       int32 = 0
)

func dispatching(s Strategy) int32 {
	return 1 + int32(s)
}

// Handler dispatches tracked signals to the registered shutdown strategies.
type Handler struct {
	reg       atomic.Pointer[registration]
	state     atomic.Int32
	escalated atomic.Bool

	notifier Notifier
	signals  []os.Signal
	exit     func(int)
	diag     io.Writer
	log      logger.Logger
	observer Observer

	// mu guards the subscription only. It is never taken on the dispatch path.
	mu    sync.Mutex
	sigCh chan os.Signal
	done  chan struct{}
}

// Option configures a Handler.
type Option func(*Handler)

// WithNotifier replaces the os/signal subscription.
func WithNotifier(n Notifier) Option {
	return func(h *Handler) {
		h.notifier = n
	}
}

// WithSignals overrides the tracked signal set.
func WithSignals(sigs ...os.Signal) Option {
	return func(h *Handler) {
		h.signals = append([]os.Signal(nil), sigs...)
	}
}

// WithExit replaces os.Exit.
func WithExit(exit func(int)) Option {
	return func(h *Handler) {
		h.exit = exit
	}
}

// WithDiagnostics sets where the one-line diagnostic is written.
func WithDiagnostics(w io.Writer) Option {
	return func(h *Handler) {
		h.diag = w
	}
}

// WithLogger sets the logger used outside the dispatch path.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		h.log = l
	}
}

// WithObserver attaches a dispatch event sink.
func WithObserver(o Observer) Option {
	return func(h *Handler) {
		h.observer = o
	}
}

// New creates an unregistered handler.
func New(opts ...Option) *Handler {
	h := &Handler{
		notifier: osNotifier{},
		signals:  TrackedSignals(),
		exit:     os.Exit,
		diag:     os.Stderr,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Init records the program name and callbacks and subscribes the tracked
// signals. Calling it again replaces the registration; the subscription is
// reused.
func (h *Handler) Init(program string, cb Callbacks) error {
	if program == "" {
		return ErrEmptyProgram
	}

	reg := newRegistration(program, cb, h.signals)
	h.reg.Store(reg)
	h.subscribe()

	h.logger().Info("signal handler registered",
		"program", program,
		"registration", reg.id.String(),
		"signals", len(h.signals))
	return nil
}

// Program returns the registered program name, or "" before Init.
func (h *Handler) Program() string {
	if reg := h.reg.Load(); reg != nil {
		return reg.program
	}
	return ""
}

// ID returns the ULID of the current registration.
func (h *Handler) ID() ulid.ULID {
	if reg := h.reg.Load(); reg != nil {
		return reg.id
	}
	return ulid.ULID{}
}

// Stop unsubscribes the tracked signals and returns them to the OS default
// action. The registration is kept.
func (h *Handler) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sigCh == nil {
		return
	}
	h.notifier.Stop(h.sigCh)
	close(h.done)
	h.sigCh = nil
	h.done = nil
}

func (h *Handler) subscribe() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sigCh != nil {
		return
	}
	// os/signal drops deliveries on a full channel; one slot per tracked
	// signal covers a burst of distinct signals.
	h.sigCh = make(chan os.Signal, len(h.signals)+1)
	h.done = make(chan struct{})
	h.notifier.Notify(h.sigCh, h.signals...)
	go h.listen(h.sigCh, h.done)
}

func (h *Handler) listen(sigCh <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case sig := <-sigCh:
			// Each delivery gets its own goroutine so a second signal is
			// seen while the first strategy is still running.
			go h.trap(sig)
		case <-done:
			return
		}
	}
}

// trap is the entry point for every delivered signal. A panic in a
// callback is routed back through dispatch by Guard.
func (h *Handler) trap(sig os.Signal) {
	defer h.Guard()
	h.processSignal(sig)
}

func (h *Handler) processSignal(sig os.Signal) {
	reg := h.reg.Load()
	if reg == nil {
		return
	}
	h.observer.SignalReceived(sig)

	strategy := Classify(sig)
	if !h.state.CompareAndSwap(stateIdle, dispatching(strategy)) {
		h.reenter(reg, sig)
		return
	}

	h.observer.StrategyInvoked(strategy)
	_, _ = h.diag.Write(reg.message(sig))
	reg.slots[strategy]()
	h.terminate(reg, sig, strategy)
}

// reenter handles a delivery that arrives while a strategy is running.
// A save in progress is escalated to NoSave once; everything else is
// dropped.
func (h *Handler) reenter(reg *registration, sig os.Signal) {
	cur := h.state.Load()
	if cur == stateTerminated || cur == dispatching(NoSave) ||
		!h.escalated.CompareAndSwap(false, true) {
		h.observer.Ignored(sig)
		return
	}

	h.observer.Escalated()
	h.observer.StrategyInvoked(NoSave)
	_, _ = h.diag.Write(reg.escalation(sig))
	reg.slots[NoSave]()
	h.terminate(reg, sig, NoSave)
}

// terminate exits the process once, however many strategies returned.
func (h *Handler) terminate(reg *registration, sig os.Signal, s Strategy) {
	if h.state.Swap(stateTerminated) == stateTerminated {
		return
	}
	code := ExitCode(sig)
	h.logger().Warn("shutdown strategy returned, exiting",
		"program", reg.program,
		"registration", reg.id.String(),
		"signal", SignalName(sig),
		"strategy", s.String(),
		"exit_code", code)
	h.exit(code)
}

// Dispatching reports whether a strategy has been chosen. It stays true
// through termination; the exit belongs to the dispatch from then on.
func (h *Handler) Dispatching() bool {
	return h.state.Load() != stateIdle
}

func (h *Handler) terminated() bool {
	return h.state.Load() == stateTerminated
}

func (h *Handler) logger() logger.Logger {
	if h.log != nil {
		return h.log
	}
	return logger.Default()
}
