// Package metric exposes Prometheus metrics for signal dispatch.
package metric

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/sigguard/internal/sighandler"
)

const (
	namespace = "sigguard"
	subsystem = "dispatch"
)

// Dispatch implements sighandler.Observer with Prometheus counters.
//
// Per-signal and per-strategy children are resolved up front so the
// dispatch path only increments atomics.
type Dispatch struct {
	signals      *prometheus.CounterVec
	strategies   *prometheus.CounterVec
	ignored      *prometheus.CounterVec
	escalations  prometheus.Counter
	registration *prometheus.GaugeVec

	signalCounters   map[os.Signal]prometheus.Counter
	ignoredCounters  map[os.Signal]prometheus.Counter
	strategyCounters []prometheus.Counter
}

var _ sighandler.Observer = (*Dispatch)(nil)

// NewDispatch creates the dispatch metrics and registers them with reg.
func NewDispatch(reg prometheus.Registerer) (*Dispatch, error) {
	d := &Dispatch{
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "signals_received_total",
			Help:      "Tracked signals delivered to the dispatcher",
		}, []string{"signal"}),
		strategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "strategies_invoked_total",
			Help:      "Shutdown strategies invoked, including escalations",
		}, []string{"strategy"}),
		ignored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "signals_ignored_total",
			Help:      "Signals dropped because a shutdown was already in progress",
		}, []string{"signal"}),
		escalations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "escalations_total",
			Help:      "Saves interrupted by a second signal and escalated to an abrupt exit",
		}),
		registration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registration_info",
			Help:      "Current signal handler registration (always 1)",
		}, []string{"program", "registration"}),
	}

	for _, c := range []prometheus.Collector{d.signals, d.strategies, d.ignored, d.escalations, d.registration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register dispatch metrics: %w", err)
		}
	}

	tracked := sighandler.TrackedSignals()
	d.signalCounters = make(map[os.Signal]prometheus.Counter, len(tracked))
	d.ignoredCounters = make(map[os.Signal]prometheus.Counter, len(tracked))
	for _, sig := range tracked {
		name := sighandler.SignalName(sig)
		d.signalCounters[sig] = d.signals.WithLabelValues(name)
		d.ignoredCounters[sig] = d.ignored.WithLabelValues(name)
	}
	for _, s := range []sighandler.Strategy{sighandler.NoSave, sighandler.Save, sighandler.SaveAndKillChildren} {
		d.strategyCounters = append(d.strategyCounters, d.strategies.WithLabelValues(s.String()))
	}

	return d, nil
}

// SignalReceived implements sighandler.Observer.
func (d *Dispatch) SignalReceived(sig os.Signal) {
	counterFor(d.signalCounters, d.signals, sig).Inc()
}

// StrategyInvoked implements sighandler.Observer.
func (d *Dispatch) StrategyInvoked(s sighandler.Strategy) {
	if int(s) < len(d.strategyCounters) {
		d.strategyCounters[s].Inc()
		return
	}
	d.strategies.WithLabelValues(s.String()).Inc()
}

// Escalated implements sighandler.Observer.
func (d *Dispatch) Escalated() {
	d.escalations.Inc()
}

// Ignored implements sighandler.Observer.
func (d *Dispatch) Ignored(sig os.Signal) {
	counterFor(d.ignoredCounters, d.ignored, sig).Inc()
}

// Registered publishes the current registration, replacing any previous one.
func (d *Dispatch) Registered(program, id string) {
	d.registration.Reset()
	d.registration.WithLabelValues(program, id).Set(1)
}

func counterFor(m map[os.Signal]prometheus.Counter, vec *prometheus.CounterVec, sig os.Signal) prometheus.Counter {
	if c, ok := m[sig]; ok {
		return c
	}
	return vec.WithLabelValues(sighandler.SignalName(sig))
}

// Handler returns an HTTP handler serving the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
