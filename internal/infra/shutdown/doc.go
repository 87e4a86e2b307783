// Package shutdown runs cleanup hooks under a deadline.
//
// Signal handling itself lives in package sighandler; this package
// provides the body an application typically hands to it as the
// save-exit callback:
//
//	hooks := shutdown.NewHooks(30 * time.Second)
//	hooks.OnShutdown(flushState)
//	sighandler.Init("solver", sighandler.Callbacks{
//		EmergencySaveExit: hooks.Func(logger.WithLogger(ctx, log), "save"),
//	})
package shutdown
