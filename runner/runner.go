// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package runner

import (
	"fmt"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// Start launches the specified command, detached from the caller's terminal:
// its standard input, output, and error streams are all discarded. The
// command is an executable path only, not a shell line; callers wanting shell
// features wrap their command in a script, exactly as with the original
// renderer.
//
// Spawning is synchronous: a launch failure is reported as the error return
// and is fatal to the caller. The command's own completion, however, is
// awaited out-of-band on a background goroutine, which reports the wait
// outcome (nil for a clean exit) exactly once on the returned channel and
// then closes it. A non-zero or failed exit is logged but intentionally has
// no way of feeding back into reconciliation.
func Start(command string) (<-chan error, error) {
	cmd := exec.Command(command)
	// nil Stdin/Stdout/Stderr connect the child to the null device.
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot spawn watch process %s: %w", command, err)
	}
	pid := cmd.Process.Pid
	logrus.Debugf("watch process pid %d started", pid)
	done := make(chan error, 1)
	go func() {
		defer close(done)
		err := cmd.Wait()
		if err != nil {
			logrus.Warnf("watch process pid %d failed to terminate cleanly: %s", pid, err)
			done <- err
			return
		}
		logrus.Debugf("watch process pid %d terminated with %s", pid, cmd.ProcessState)
		done <- nil
	}()
	return done, nil
}
