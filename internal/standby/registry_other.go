//go:build !windows

package standby

import "errors"

// LocalMachine has no registry to talk to off Windows; reads report the
// value as absent and writes fail.
type LocalMachine struct{}

func (LocalMachine) ReadDword(path, name string) (uint32, bool, error) {
	return 0, false, nil
}

func (LocalMachine) WriteDword(path, name string, value uint32) error {
	return errors.ErrUnsupported
}

func (LocalMachine) DeleteValue(path, name string) error {
	return errors.ErrUnsupported
}
