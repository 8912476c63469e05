package main

import (
	"errors"
	"strings"

	"powerplan/internal/cmd"
	"powerplan/internal/powercfg"
	"powerplan/internal/standby"
	"powerplan/internal/toolkit"
)

// ErrNoSelection is returned when an action needs a scheme and none was given.
var ErrNoSelection = errors.New("no power scheme selected")

// UserError carries a localized message for display while keeping the
// underlying error reachable through errors.Is / errors.As.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }
func (e *UserError) Unwrap() error { return e.Err }

// fail turns err into a UserError. pattern is the translation key used for
// failures that have no more specific message; it takes one %s argument.
func (a *App) fail(pattern string, err error) error {
	if err == nil {
		return nil
	}
	return &UserError{Message: a.describe(pattern, err), Err: err}
}

func (a *App) describe(pattern string, err error) string {
	switch {
	case errors.Is(err, ErrNoSelection):
		return a.tr.T("No power plan selected")
	case errors.Is(err, powercfg.ErrBuiltInScheme):
		return a.tr.T("Built-in power plans cannot be deleted!")
	case errors.Is(err, toolkit.ErrEmptyCommand):
		return a.tr.T("Please enter a command to run")
	case errors.Is(err, standby.ErrPermissionDenied):
		return a.tr.T("Administrator privileges are required to modify the registry!\nPlease run this program as administrator.")
	}

	if te, ok := cmd.AsToolError(err); ok {
		if te.Tool == toolkit.Shell {
			return a.tr.Tf("Command failed:\nExit code: %d\nError: %s", te.ExitCode, te.Stderr)
		}
		return a.tr.Tf(pattern, strings.TrimSpace(te.Diagnostic()))
	}
	return a.tr.Tf(pattern, err.Error())
}
