package sighandler

import (
	"os"
	"os/signal"
)

// Notifier subscribes a channel to OS signals. It exists so tests can
// deliver signals without touching the real process.
type Notifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type osNotifier struct{}

func (osNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (osNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// Observer receives dispatch events. Implementations are called from the
// dispatch path and must not block.
type Observer interface {
	SignalReceived(sig os.Signal)
	StrategyInvoked(s Strategy)
	Escalated()
	Ignored(sig os.Signal)
}

type nopObserver struct{}

func (nopObserver) SignalReceived(os.Signal) {}
func (nopObserver) StrategyInvoked(Strategy) {}
func (nopObserver) Escalated()               {}
func (nopObserver) Ignored(os.Signal)        {}
