//go:build darwin
// +build darwin

package kernel

import (
	"os"
	"syscall"
)

// flush makes a checkpoint slot's bytes durable before the slot
// is renamed into place. f.Sync on darwin only reaches the drive's
// cache, so it asks the drive to flush, and falls back to f.Sync
// on file systems that refuse F_FULLFSYNC.
func flush(f *os.File) error {
	_, _, errno := syscall.Syscall(syscall.SYS_FCNTL, f.Fd(), syscall.F_FULLFSYNC, 0)
	switch errno {
	case 0:
		return nil
	case syscall.ENOTSUP, syscall.EINVAL:
		return f.Sync()
	}
	return errno
}
