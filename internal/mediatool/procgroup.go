package mediatool

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup puts cmd in its own process group and arranges for
// ctx cancellation to signal the whole group, not just the direct
// child, so a transcoder that forks helper processes doesn't leak them
// when an RPC is cancelled.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
}
