package sighandler

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Guard recovers a panic and dispatches it as a fatal fault. Defer it at
// the root of every goroutine whose faults should go through the
// registered strategies:
//
//	go func() {
//		defer h.Guard()
//		work()
//	}()
//
// Go turns in-process SIGSEGV, SIGBUS and SIGFPE into runtime panics that
// os/signal never sees; Guard closes that gap. Runtime errors dispatch as
// SIGSEGV, any other panic value as SIGABRT. If the dispatch does not end
// in termination, the panic is re-raised.
func (h *Handler) Guard() {
	if r := recover(); r != nil {
		h.recovered(r)
	}
}

func (h *Handler) recovered(r any) {
	if h.reg.Load() == nil {
		panic(r)
	}

	sig := abortSignal
	if _, ok := r.(runtime.Error); ok {
		sig = faultSignal
	}
	h.logger().Error("recovered panic",
		"program", h.Program(),
		"panic", fmt.Sprint(r),
		"signal", SignalName(sig),
		"stack", string(debug.Stack()))

	h.processSignal(sig)
	if !h.terminated() {
		panic(r)
	}
}
