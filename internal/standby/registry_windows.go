package standby

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// LocalMachine is the Accessor for HKEY_LOCAL_MACHINE.
type LocalMachine struct{}

func (LocalMachine) ReadDword(path, name string) (uint32, bool, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, classify(err)
	}
	defer key.Close()

	v, valType, err := key.GetIntegerValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, classify(err)
	}
	if valType != registry.DWORD {
		return 0, false, fmt.Errorf("%s is not a DWORD (type %d)", name, valType)
	}
	return uint32(v), true, nil
}

func (LocalMachine) WriteDword(path, name string, value uint32) error {
	key, _, err := registry.CreateKey(registry.LOCAL_MACHINE, path, registry.SET_VALUE)
	if err != nil {
		return classify(err)
	}
	defer key.Close()

	return classify(key.SetDWordValue(name, value))
}

func (LocalMachine) DeleteValue(path, name string) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return classify(err)
	}
	defer key.Close()

	if err := key.DeleteValue(name); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, windows.ERROR_ACCESS_DENIED) {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}
