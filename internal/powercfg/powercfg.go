// Package powercfg drives the Windows power-configuration tool.
package powercfg

import (
	"context"
	"errors"
	"fmt"

	"powerplan/internal/cmd"
	"powerplan/internal/logger"
	"powerplan/internal/scheme"
)

const tool = "powercfg"

var (
	// ErrInvalidGUID is returned before any tool call when a GUID argument is malformed.
	ErrInvalidGUID = errors.New("not a power scheme GUID")
	// ErrBuiltInScheme is returned before any tool call when asked to delete an OS-provided scheme.
	ErrBuiltInScheme = errors.New("built-in power schemes cannot be deleted")
	// ErrUnknownMode is returned for a quick-switch mode with no built-in scheme.
	ErrUnknownMode = errors.New("unknown power mode")
)

// Manager lists and changes power schemes through a cmd.Runner.
type Manager struct {
	runner cmd.Runner
}

func NewManager(r cmd.Runner) *Manager {
	return &Manager{runner: r}
}

// ListRaw returns the unparsed output of `powercfg /L`.
func (m *Manager) ListRaw(ctx context.Context) (string, error) {
	out, err := m.runner.Run(ctx, tool, "/L")
	if err != nil {
		return "", fmt.Errorf("failed to list power schemes: %w", err)
	}
	return out.Stdout, nil
}

// List enumerates all schemes. The result is a fresh snapshot every call.
func (m *Manager) List(ctx context.Context) (*scheme.Inventory, error) {
	raw, err := m.ListRaw(ctx)
	if err != nil {
		return nil, err
	}
	inv := scheme.Parse(raw)
	logger.Debug("power schemes listed", "count", len(inv.Schemes), "active", inv.ActiveGUID)
	return inv, nil
}

// ActiveGUID returns the GUID reported by `powercfg /getactivescheme`.
func (m *Manager) ActiveGUID(ctx context.Context) (string, error) {
	out, err := m.runner.Run(ctx, tool, "/getactivescheme")
	if err != nil {
		return "", fmt.Errorf("failed to get active power scheme: %w", err)
	}
	guid := scheme.ParseGUID(out.Stdout)
	if guid == "" {
		return "", fmt.Errorf("could not parse active scheme GUID from output: %q", out.Stdout)
	}
	return guid, nil
}

// Activate makes guid the active scheme and returns the GUID that was
// actually activated. A built-in template that is not currently enumerated
// (hidden, or removed earlier) is duplicated first and the copy is activated.
func (m *Manager) Activate(ctx context.Context, guid string) (string, error) {
	if !scheme.ValidGUID(guid) {
		return "", fmt.Errorf("%w: %q", ErrInvalidGUID, guid)
	}
	guid = scheme.Canonical(guid)

	inv, err := m.List(ctx)
	if err != nil {
		return "", err
	}

	target := guid
	if inv.Find(guid) == nil && scheme.IsBuiltIn(guid) {
		target, err = m.duplicate(ctx, guid)
		if err != nil {
			return "", err
		}
	}

	if _, err := m.runner.Run(ctx, tool, "/setactive", target); err != nil {
		return "", fmt.Errorf("failed to activate power scheme %s: %w", target, err)
	}
	logger.Info("power scheme activated", "guid", target, "requested", guid)
	return target, nil
}

// ActivateBuiltIn is Activate for one of the four quick-switch modes.
func (m *Manager) ActivateBuiltIn(ctx context.Context, mode scheme.Mode) (string, error) {
	b, ok := scheme.LookupBuiltIn(mode)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return m.Activate(ctx, b.GUID)
}

// duplicate copies a template scheme and returns the new scheme's GUID.
func (m *Manager) duplicate(ctx context.Context, template string) (string, error) {
	out, err := m.runner.Run(ctx, tool, "-duplicatescheme", template)
	if err != nil {
		return "", fmt.Errorf("failed to duplicate power scheme %s: %w", template, err)
	}

	// Reply looks like: "Power Scheme GUID: <new guid>  (Ultimate Performance)".
	created := scheme.ParseGUID(out.Stdout)
	if created == "" {
		created = template
	}
	logger.Info("power scheme duplicated", "template", template, "created", created)
	return created, nil
}

// Delete removes a user-created scheme. Built-in schemes are refused before
// powercfg is invoked.
func (m *Manager) Delete(ctx context.Context, guid string) error {
	if !scheme.ValidGUID(guid) {
		return fmt.Errorf("%w: %q", ErrInvalidGUID, guid)
	}
	guid = scheme.Canonical(guid)
	if scheme.IsBuiltIn(guid) {
		return fmt.Errorf("%w: %s", ErrBuiltInScheme, guid)
	}

	if _, err := m.runner.Run(ctx, tool, "/d", guid); err != nil {
		return fmt.Errorf("failed to delete power scheme %s: %w", guid, err)
	}
	logger.Info("power scheme deleted", "guid", guid)
	return nil
}
