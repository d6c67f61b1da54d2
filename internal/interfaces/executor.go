package interfaces

import (
	"context"
	"time"
)

// ExecResult captures the observable outcome of one subprocess invocation.
// A non-zero exit code is normal signal (failed tests), not an error.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CommandExecutor runs a command and captures its output. The real
// implementation shells out; test implementations return canned output so
// the execution controller's parsing stays testable without spawning
// processes.
type CommandExecutor interface {
	Execute(ctx context.Context, dir string, name string, args ...string) (*ExecResult, error)
}
