// Package standby reads and toggles the PlatformAoAcOverride registry value,
// which switches Modern Standby (S0 low-power idle) off when set to 0.
package standby

import (
	"errors"
	"fmt"

	"powerplan/internal/logger"
)

const (
	// KeyPath is relative to HKEY_LOCAL_MACHINE.
	KeyPath   = `SYSTEM\CurrentControlSet\Control\Power`
	ValueName = "PlatformAoAcOverride"
)

// ErrPermissionDenied means the registry refused access; the process needs
// to be elevated.
var ErrPermissionDenied = errors.New("administrator privileges are required to change the registry")

// Accessor is the registry capability used by Override. ReadDword reports
// present=false with a nil error when the key or value does not exist.
// Implementations return ErrPermissionDenied (possibly wrapped) on access
// failures.
type Accessor interface {
	ReadDword(path, name string) (value uint32, present bool, err error)
	WriteDword(path, name string, value uint32) error
	DeleteValue(path, name string) error
}

// Status is the observed state of the override value.
type Status struct {
	Present bool   `json:"present"`
	Value   uint32 `json:"value"`
}

// Enabled reports whether the override is in effect (value present and 0).
func (s Status) Enabled() bool {
	return s.Present && s.Value == 0
}

func (s Status) String() string {
	if !s.Present {
		return "unset"
	}
	return fmt.Sprintf("%d", s.Value)
}

// Override toggles PlatformAoAcOverride through an Accessor.
type Override struct {
	acc Accessor
}

func NewOverride(acc Accessor) *Override {
	return &Override{acc: acc}
}

// Status reads the current value. An absent value is a normal "unset" state.
func (o *Override) Status() (Status, error) {
	v, present, err := o.acc.ReadDword(KeyPath, ValueName)
	if err != nil {
		return Status{}, fmt.Errorf("failed to read %s: %w", ValueName, err)
	}
	return Status{Present: present, Value: v}, nil
}

// Apply writes 0 when enable is true and removes the value otherwise.
// Removing a value that is already absent succeeds.
func (o *Override) Apply(enable bool) error {
	if enable {
		if err := o.acc.WriteDword(KeyPath, ValueName, 0); err != nil {
			return fmt.Errorf("failed to set %s: %w", ValueName, err)
		}
		logger.Info("registry value set", "name", ValueName, "value", 0)
		return nil
	}

	if err := o.acc.DeleteValue(KeyPath, ValueName); err != nil {
		return fmt.Errorf("failed to delete %s: %w", ValueName, err)
	}
	logger.Info("registry value deleted", "name", ValueName)
	return nil
}

// Restore puts back a previously observed Status.
func (o *Override) Restore(s Status) error {
	if !s.Present {
		return o.Apply(false)
	}
	if err := o.acc.WriteDword(KeyPath, ValueName, s.Value); err != nil {
		return fmt.Errorf("failed to restore %s: %w", ValueName, err)
	}
	return nil
}
