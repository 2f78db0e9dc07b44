package capability

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"tcpport/internal/session"
)

// ExecWaitDelay bounds how long a finished child waits for its stdio
// copies.  The stdin copy blocks in a session Read until the peer
// closes, which may never happen.
const ExecWaitDelay = 500 * time.Millisecond

// Exec wires a session to a child process's stdio.
// Either Program (-e) or Command (-c) must be set.
type Exec struct {
	Program string // -e: execute a program directly
	Command string // -c: execute via the system shell
}

// Handle starts the child process with its stdin/stdout/stderr
// connected to the session.
func (e *Exec) Handle(ctx context.Context, s *session.Session, ep Endpoints) error {
	var cmd *exec.Cmd

	switch {
	case e.Command != "":
		if runtime.GOOS == "windows" {
			cmd = exec.CommandContext(ctx, "cmd.exe", "/C", e.Command)
		} else {
			cmd = exec.CommandContext(ctx, "/bin/sh", "-c", e.Command)
		}
	case e.Program != "":
		cmd = exec.CommandContext(ctx, e.Program)
	default:
		return fmt.Errorf("no command specified for exec mode")
	}

	stream := s.Stream()
	cmd.Stdin = stream
	cmd.Stdout = stream
	cmd.Stderr = stream
	cmd.WaitDelay = ExecWaitDelay

	ep.Logger.Debug("exec: %s", cmd.String())

	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// The child exited cleanly; only the stdin copy was cut short.
		err = nil
	}
	if err != nil {
		return fmt.Errorf("exec %q: %w", cmd.Path, err)
	}
	return nil
}
