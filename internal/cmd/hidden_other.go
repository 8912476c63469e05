//go:build !windows

package cmd

import (
	"context"
	"os/exec"
)

func HiddenContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}
