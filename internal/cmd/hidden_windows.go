package cmd

import (
	"context"
	"os/exec"
	"syscall"
)

// HiddenContext creates an exec.Cmd with the CREATE_NO_WINDOW flag set, so
// no console window flashes up when the desktop window shells out. The
// process is killed when ctx ends.
func HiddenContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: 0x08000000, // CREATE_NO_WINDOW
	}
	return c
}
