package command

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/yndnr/sigguard/internal/telemetry/logger"
)

// ErrNoCommand is returned when a child is started without a command line.
var ErrNoCommand = errors.New("child command is empty")

type child struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// children tracks the processes started by run. Each child leads its own
// process group so killAll reaches its descendants too.
type children struct {
	mu    sync.Mutex
	procs []*child
	log   logger.Logger
}

func newChildren(log logger.Logger) *children {
	return &children{log: log}
}

func (c *children) start(argv []string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}

	ch := &child{cmd: cmd, done: make(chan struct{})}
	c.mu.Lock()
	c.procs = append(c.procs, ch)
	c.mu.Unlock()

	c.log.Info("child started", "pid", cmd.Process.Pid, "command", argv[0])
	go func() {
		defer close(ch.done)
		err := cmd.Wait()
		c.log.Info("child exited", "pid", cmd.Process.Pid, "error", err)
	}()
	return nil
}

func (c *children) snapshot() []*child {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*child(nil), c.procs...)
}

// count returns the number of children started.
func (c *children) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.procs)
}

// exited is closed once every started child has exited. With no children
// it never closes.
func (c *children) exited() <-chan struct{} {
	procs := c.snapshot()
	if len(procs) == 0 {
		return nil
	}
	out := make(chan struct{})
	go func() {
		for _, p := range procs {
			<-p.done
		}
		close(out)
	}()
	return out
}

// terminate asks every running child to stop and waits for them until
// ctx expires.
func (c *children) terminate(ctx context.Context) error {
	procs := c.snapshot()
	for _, p := range procs {
		if running(p) {
			if err := terminateGroup(p.cmd.Process.Pid); err != nil {
				c.log.Warn("terminate child", "pid", p.cmd.Process.Pid, "error", err)
			}
		}
	}
	for _, p := range procs {
		select {
		case <-p.done:
		case <-ctx.Done():
			return fmt.Errorf("waiting for child %d: %w", p.cmd.Process.Pid, ctx.Err())
		}
	}
	return nil
}

// killAll kills every running child's process group and returns how many
// were signalled.
func (c *children) killAll() int {
	n := 0
	for _, p := range c.snapshot() {
		if !running(p) {
			continue
		}
		if err := killGroup(p.cmd.Process.Pid); err != nil {
			c.log.Warn("kill child", "pid", p.cmd.Process.Pid, "error", err)
			continue
		}
		n++
	}
	return n
}

func running(p *child) bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
