// Package toolkit runs free-form shell commands for the "Run command" box.
//
// RunCommand passes the user's text to PowerShell verbatim. It is an
// unrestricted command-execution surface: whatever the user types runs with
// the privileges of this process, which is usually elevated. Nothing here
// filters, quotes or sandboxes the input.
package toolkit

import (
	"context"
	"errors"
	"strings"

	"powerplan/internal/cmd"
	"powerplan/internal/logger"
)

// Shell is the interpreter used for free-form commands.
const Shell = "powershell"

// ErrEmptyCommand is returned without starting a process when the command
// text is blank.
var ErrEmptyCommand = errors.New("no command entered")

// CommandResult holds what a command printed and how it exited.
type CommandResult struct {
	Command  string `json:"command"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
	Success  bool   `json:"success"`
}

// RunCommand executes text through PowerShell. On a non-zero exit both the
// populated result and a *cmd.ToolError are returned; the error's Stderr is
// the interpreter's stderr, unmodified.
func RunCommand(ctx context.Context, r cmd.Runner, text string) (*CommandResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCommand
	}

	logger.Info("running user command", "shell", Shell)
	out, err := r.Run(ctx, Shell, "-NoProfile", "-Command", text)

	result := &CommandResult{Command: text}
	if out != nil {
		result.Stdout = out.Stdout
		result.Stderr = out.Stderr
		result.ExitCode = out.ExitCode
	}
	if err != nil {
		return result, err
	}
	result.Success = true
	return result, nil
}
