// Package kubectl shells out to the cluster CLI and summarizes its output.
// Every failure, including a timeout, maps to a soft Result: the caller
// always gets an exit code and captured streams, never a hard fault.
package kubectl

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single kubectl invocation.
const DefaultTimeout = 25 * time.Second

// Result of one subprocess run.
type Result struct {
	Code   int    `json:"code"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Runner executes commands. The exec function is swappable for tests.
type Runner struct {
	timeout time.Duration
	execCmd func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		timeout: timeout,
		execCmd: exec.CommandContext,
	}
}

// Run executes the command and captures both streams. A start failure or
// timeout yields Code -1 with the error text in Stderr.
func (r *Runner) Run(ctx context.Context, name string, args ...string) Result {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := r.execCmd(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	switch {
	case err == nil:
		result.Code = 0
	case ctx.Err() != nil:
		result.Code = -1
		result.Stderr = joinStderr(result.Stderr, ctx.Err().Error())
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.Code = exitErr.ExitCode()
		} else {
			result.Code = -1
			result.Stderr = joinStderr(result.Stderr, err.Error())
		}
	}
	return result
}

func joinStderr(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "\n" + extra
}
