//go:build unix

package command

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGTERM)
}

func killGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}
