//go:build !darwin
// +build !darwin

package kernel

import "os"

// flush makes a checkpoint slot's bytes durable before the slot
// is renamed into place.
func flush(f *os.File) error {
	return f.Sync()
}
