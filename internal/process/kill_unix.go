//go:build !windows

// Package process terminates headless browser process trees.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid so Chrome's
// renderer and GPU helpers die with the browser.
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	// Best-effort: launcher.Kill() already targeted the leader.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
