package command

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigguard/internal/cmdline"
	"github.com/yndnr/sigguard/internal/config"
	"github.com/yndnr/sigguard/internal/infra/confloader"
	"github.com/yndnr/sigguard/internal/infra/shutdown"
	"github.com/yndnr/sigguard/internal/sighandler"
	"github.com/yndnr/sigguard/internal/telemetry/logger"
	"github.com/yndnr/sigguard/internal/telemetry/metric"
)

// runOptions maps each run option to the config key it overrides. Options
// without a key are consumed by the command itself.
var runOptions = []struct {
	ident   string
	def     any
	descr   string
	key     string
	private bool
}{
	{ident: "config", def: "", descr: "Path to configuration file"},
	{ident: "program", def: "", descr: "Program name used in diagnostics", key: "program.name"},
	{ident: "metrics-addr", def: "", descr: "Serve Prometheus metrics on this address", key: "metrics.addr"},
	{ident: "tick", def: "", descr: "Workload heartbeat interval (e.g. 1s)", key: "workload.tick"},
	{ident: "save-timeout", def: "", descr: "Upper bound for the save hooks (e.g. 30s)", key: "shutdown.timeout"},
	{ident: "log-level", def: "", descr: "Log level: debug, info, warn, error", key: "log.level"},
	{ident: "fault-after", def: 0, descr: "Panic on the given heartbeat to exercise the fault guard", private: true},
}

// RunOptions returns the option registry of the run command.
func RunOptions() *cmdline.Registry {
	r := cmdline.NewRegistry()
	for _, o := range runOptions {
		var err error
		if o.private {
			err = r.AddPrivate(o.ident, o.def, o.descr)
		} else {
			err = r.Add(o.ident, o.def, o.descr, true)
		}
		if err != nil {
			panic(err)
		}
	}
	return r
}

// RunCommand registers the signal dispatcher and runs until a tracked
// signal terminates the process. Arguments after the flags are started as
// a child process.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Register the shutdown dispatcher and supervise a workload",
		ArgsUsage: "[-- command [args...]]",
		Flags:     RunOptions().Flags(),
		Action:    runAction,
	}
}

func runAction(c *cli.Context) error {
	overrides := overridesFrom(c)
	path := c.String("config")

	cfg, err := config.Load(path, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	r, err := newRunner(cfg, log)
	if err != nil {
		return err
	}
	sighandler.SetDefault(r.handler)

	ctx := logger.WithProgram(logger.WithLogger(c.Context, log), cfg.Program.Name)
	if err := r.start(ctx, c.Args().Slice()); err != nil {
		return err
	}
	if path != "" {
		stop, err := watchConfig(path, overrides, log)
		if err != nil {
			log.Warn("config watch disabled", "path", path, "error", err)
		} else {
			defer stop()
		}
	}

	r.faultAfter = int64(c.Int("fault-after"))
	return r.work(ctx)
}

// overridesFrom collects the options given on the command line as config
// keys, leaving file and environment values alone for the rest.
func overridesFrom(c *cli.Context) map[string]any {
	out := make(map[string]any)
	for _, o := range runOptions {
		if o.key != "" && c.IsSet(o.ident) {
			out[o.key] = c.String(o.ident)
		}
	}
	if c.IsSet("metrics-addr") {
		out["metrics.enabled"] = true
	}
	return out
}

// runner owns everything the run command wires together.
type runner struct {
	cfg      *config.Config
	registry *prometheus.Registry
	dispatch *metric.Dispatch
	hooks    *shutdown.Hooks
	children *children
	handler  *sighandler.Handler

	metricsAddr net.Addr
	faultAfter  int64
	ticks       atomic.Int64
}

func newRunner(cfg *config.Config, log logger.Logger, opts ...sighandler.Option) (*runner, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatch, err := metric.NewDispatch(registry)
	if err != nil {
		return nil, err
	}

	r := &runner{
		cfg:      cfg,
		registry: registry,
		dispatch: dispatch,
		hooks:    shutdown.NewHooks(cfg.Shutdown.Timeout),
		children: newChildren(log),
	}
	opts = append([]sighandler.Option{
		sighandler.WithLogger(log),
		sighandler.WithObserver(dispatch),
	}, opts...)
	r.handler = sighandler.New(opts...)
	return r, nil
}

func (r *runner) callbacks(ctx context.Context) sighandler.Callbacks {
	log := logger.L(ctx)
	save := r.hooks.Func(ctx, "save")
	return sighandler.Callbacks{
		EmergencyExit: func() {
			log.Error("emergency exit without save", "children", r.children.count())
		},
		EmergencySaveExit: save,
		KillAllChildren: func() {
			n := r.children.killAll()
			log.Warn("killed child process groups", "count", n)
			save()
		},
	}
}

// start registers the dispatcher, then brings up the metrics endpoint and
// the child process. Hooks run newest first, so children stop before the
// metrics server.
func (r *runner) start(ctx context.Context, argv []string) error {
	if err := r.handler.Init(r.cfg.Program.Name, r.callbacks(ctx)); err != nil {
		return fmt.Errorf("register signal handler: %w", err)
	}
	r.dispatch.Registered(r.cfg.Program.Name, r.handler.ID().String())

	if r.cfg.Metrics.Enabled {
		if err := r.serveMetrics(ctx); err != nil {
			return err
		}
	}

	if len(argv) > 0 {
		if err := r.children.start(argv); err != nil {
			return err
		}
		r.hooks.OnShutdown(func(ctx context.Context) error {
			logger.L(ctx).Info("stopping child processes")
			return r.children.terminate(ctx)
		})
	}
	return nil
}

func (r *runner) serveMetrics(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.cfg.Metrics.Addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	r.metricsAddr = ln.Addr()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metric.Handler(r.registry))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	log := logger.L(ctx)
	go func() {
		log.Info("metrics server listening", "addr", r.metricsAddr.String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	r.hooks.OnShutdown(func(ctx context.Context) error {
		logger.L(ctx).Info("shutting down metrics server")
		return srv.Shutdown(ctx)
	})
	return nil
}

// work is the supervised workload: a heartbeat that ends when ctx is done
// or every child has exited. Panics are routed through the fault guard.
// Once a dispatch has started, work only returns when ctx is done, so the
// dispatcher's exit status is the one the process ends with.
func (r *runner) work(ctx context.Context) error {
	defer r.handler.Guard()

	log := logger.L(ctx)
	ticker := time.NewTicker(r.cfg.Workload.Tick)
	defer ticker.Stop()
	exited := r.children.exited()

	log.Info("running, waiting for signals", "pid", os.Getpid())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-exited:
			var err error
			if !r.handler.Dispatching() {
				log.Info("all children exited")
				err = r.hooks.Run(ctx)
			}
			return r.settle(ctx, err)
		case <-ticker.C:
			n := r.ticks.Add(1)
			log.Debug("heartbeat", "tick", n)
			if n == r.faultAfter {
				// Nil map write: a runtime.Error, dispatched as SIGSEGV.
				var state map[string]int
				state["tick"] = int(n)
			}
		}
	}
}

func watchConfig(path string, overrides map[string]any, log logger.Logger) (func(), error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) {
		cfg, err := config.Load(path, overrides)
		if err != nil {
			log.Warn("config reload rejected", "path", path, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("config reloaded", "path", path, "level", logger.GetLevel())
	})
	w.StartAsync()
	return func() { _ = w.Stop() }, nil
}

// settle returns err unless a dispatch is under way. In that case the
// dispatcher terminates the process and settle blocks until ctx is done.
func (r *runner) settle(ctx context.Context, err error) error {
	if !r.handler.Dispatching() {
		return err
	}
	logger.L(ctx).Info("shutdown dispatch in progress, waiting for exit")
	<-ctx.Done()
	return nil
}
