//go:build !unix

package command

import (
	"os"
	"os/exec"
)

func setProcessGroup(*exec.Cmd) {}

// Without process groups or SIGTERM for arbitrary processes, both paths
// kill the child itself.
func terminateGroup(pid int) error {
	return killGroup(pid)
}

func killGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
