package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/interfaces"
)

// shellExecutor runs commands through os/exec, capturing both output streams
// for the duration of the subprocess.
type shellExecutor struct {
	logger arbor.ILogger
}

// NewExecutor creates the real subprocess executor.
func NewExecutor(logger arbor.ILogger) interfaces.CommandExecutor {
	return &shellExecutor{logger: logger}
}

func (e *shellExecutor) Execute(ctx context.Context, dir string, name string, args ...string) (*interfaces.ExecResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug().Str("command", name).Strs("args", args).Str("dir", dir).Msg("Executing harness command")

	startTime := time.Now()
	err := cmd.Run()
	duration := time.Since(startTime)

	result := &interfaces.ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit is signal that tests failed, not an error.
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, err
	}

	return result, nil
}
