package metric

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/sigguard/internal/sighandler"
)

func newDispatch(t *testing.T) (*Dispatch, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	d, err := NewDispatch(reg)
	if err != nil {
		t.Fatalf("NewDispatch() error = %v", err)
	}
	return d, reg
}

func TestNewDispatch_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewDispatch(reg); err != nil {
		t.Fatalf("first NewDispatch() error = %v", err)
	}
	if _, err := NewDispatch(reg); err == nil {
		t.Fatal("second NewDispatch() on the same registry should fail")
	}
}

func TestDispatch_Counters(t *testing.T) {
	d, _ := newDispatch(t)

	d.SignalReceived(os.Interrupt)
	d.SignalReceived(os.Interrupt)
	d.StrategyInvoked(sighandler.Save)
	d.StrategyInvoked(sighandler.NoSave)
	d.Escalated()
	d.Ignored(syscall.SIGTERM)

	name := sighandler.SignalName(os.Interrupt)
	if got := testutil.ToFloat64(d.signals.WithLabelValues(name)); got != 2 {
		t.Errorf("signals_received_total{%s} = %v, want 2", name, got)
	}
	if got := testutil.ToFloat64(d.strategies.WithLabelValues("save")); got != 1 {
		t.Errorf("strategies_invoked_total{save} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(d.strategies.WithLabelValues("no-save")); got != 1 {
		t.Errorf("strategies_invoked_total{no-save} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(d.escalations); got != 1 {
		t.Errorf("escalations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(d.ignored.WithLabelValues(sighandler.SignalName(syscall.SIGTERM))); got != 1 {
		t.Errorf("signals_ignored_total = %v, want 1", got)
	}
}

func TestDispatch_UntrackedSignalUsesVec(t *testing.T) {
	d, _ := newDispatch(t)

	d.SignalReceived(syscall.SIGKILL)

	name := sighandler.SignalName(syscall.SIGKILL)
	if got := testutil.ToFloat64(d.signals.WithLabelValues(name)); got != 1 {
		t.Errorf("signals_received_total{%s} = %v, want 1", name, got)
	}
}

func TestDispatch_Registered(t *testing.T) {
	d, _ := newDispatch(t)

	d.Registered("first", "A")
	d.Registered("second", "B")

	if got := testutil.CollectAndCount(d.registration); got != 1 {
		t.Errorf("registration_info series = %d, want 1", got)
	}
	if got := testutil.ToFloat64(d.registration.WithLabelValues("second", "B")); got != 1 {
		t.Errorf("registration_info{second} = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	d, reg := newDispatch(t)
	d.Escalated()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sigguard_dispatch_escalations_total 1") {
		t.Errorf("body missing escalation counter:\n%s", rec.Body.String())
	}
}
