// Package cmd runs external tools (powercfg, powershell) and turns their
// exit status into Go errors.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"powerplan/internal/logger"
)

// Output is what a finished process wrote, already decoded to UTF-8.
type Output struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

// Runner is the narrow capability the power-scheme and shell code depend on.
// Implementations return a *ToolError together with the populated Output
// when the process exits non-zero.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

// ToolError reports a non-zero exit from an external tool. Stderr is kept
// exactly as the tool wrote it.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Diagnostic())
}

// Diagnostic is the text to show the user: stderr when present, otherwise
// stdout (powercfg reports most failures on stdout).
func (e *ToolError) Diagnostic() string {
	if strings.TrimSpace(e.Stderr) != "" {
		return e.Stderr
	}
	return strings.TrimSpace(e.Stdout)
}

// AsToolError unwraps err into a *ToolError if it carries one.
func AsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// Executor is the production Runner. A zero Timeout waits for the process
// indefinitely.
type Executor struct {
	Timeout time.Duration
}

func (e Executor) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := HiddenContext(ctx, name, args...)
	c.Stdout = &stdout
	c.Stderr = &stderr

	logger.Debug("running external tool", "tool", name, "args", args)
	start := time.Now()
	err := c.Run()

	cp := OEMCodePage()
	out := &Output{
		Stdout: Decode(stdout.Bytes(), cp),
		Stderr: Decode(stderr.Bytes(), cp),
	}

	if err != nil {
		// A killed process also reports an ExitError; the deadline is the cause.
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Warn("external tool did not finish", "tool", name, "elapsed", time.Since(start), "err", ctxErr)
			return out, fmt.Errorf("%s did not finish: %w", name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			logger.Warn("external tool failed", "tool", name, "exit", out.ExitCode, "elapsed", time.Since(start))
			return out, &ToolError{
				Tool:     name,
				Args:     args,
				ExitCode: out.ExitCode,
				Stdout:   out.Stdout,
				Stderr:   out.Stderr,
			}
		}
		return out, fmt.Errorf("failed to start %s: %w", name, err)
	}

	logger.Debug("external tool finished", "tool", name, "elapsed", time.Since(start))
	return out, nil
}
