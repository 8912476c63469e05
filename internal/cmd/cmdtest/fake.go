// Package cmdtest provides a scripted cmd.Runner for tests.
package cmdtest

import (
	"context"
	"fmt"
	"strings"

	"powerplan/internal/cmd"
)

// Call is one recorded invocation.
type Call struct {
	Name string
	Args []string
}

func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is what the fake returns for a command line.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error // returned as-is when set, instead of a ToolError
}

// Runner answers commands from a table keyed by "name arg1 arg2 ...".
// Unscripted commands fail with an error so tests notice unexpected calls.
type Runner struct {
	Responses map[string]Response
	Calls     []Call
}

func NewRunner() *Runner {
	return &Runner{Responses: make(map[string]Response)}
}

// On scripts the response for a command line.
func (r *Runner) On(line string, resp Response) *Runner {
	r.Responses[line] = resp
	return r
}

func (r *Runner) Run(_ context.Context, name string, args ...string) (*cmd.Output, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	r.Calls = append(r.Calls, call)

	resp, ok := r.Responses[call.String()]
	if !ok {
		return &cmd.Output{}, fmt.Errorf("cmdtest: unscripted command %q", call.String())
	}
	if resp.Err != nil {
		return &cmd.Output{}, resp.Err
	}

	out := &cmd.Output{Stdout: resp.Stdout, Stderr: resp.Stderr, ExitCode: resp.ExitCode}
	if resp.ExitCode != 0 {
		return out, &cmd.ToolError{
			Tool:     name,
			Args:     call.Args,
			ExitCode: resp.ExitCode,
			Stdout:   resp.Stdout,
			Stderr:   resp.Stderr,
		}
	}
	return out, nil
}

// Lines returns the recorded calls as command lines.
func (r *Runner) Lines() []string {
	lines := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		lines[i] = c.String()
	}
	return lines
}
