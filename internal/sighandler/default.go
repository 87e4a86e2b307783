package sighandler

import "sync/atomic"

var defaultHandler atomic.Pointer[Handler]

func init() {
	defaultHandler.Store(New())
}

// Default returns the process-wide handler.
func Default() *Handler {
	return defaultHandler.Load()
}

// SetDefault replaces the process-wide handler. Call it before Init.
func SetDefault(h *Handler) {
	if h != nil {
		defaultHandler.Store(h)
	}
}

// Init registers program and cb with the process-wide handler.
func Init(program string, cb Callbacks) error {
	return Default().Init(program, cb)
}

// Guard is Handler.Guard on the process-wide handler.
func Guard() {
	if r := recover(); r != nil {
		Default().recovered(r)
	}
}
