//go:build !windows

package toolkit

import "os"

func IsAdmin() bool {
	return os.Geteuid() == 0
}
