package kernel

import "nockchain/errors"

var (
	// ErrBadKernel is returned when the kernel, or the result of one
	// of its arms, does not have the expected shape.
	ErrBadKernel = errors.New("malformed kernel")

	// ErrBadCheckpoint is returned for a checkpoint that fails
	// validation or belongs to a different kernel.
	ErrBadCheckpoint = errors.New("bad checkpoint")

	// ErrNoCheckpoint is returned by a Store holding no checkpoint.
	ErrNoCheckpoint = errors.New("no checkpoint")

	// ErrDriver is returned by NewSQLStore for a database
	// driver it has no dialect for.
	ErrDriver = errors.New("unsupported database driver")

	// ErrDead is returned by a Serf whose kernel has failed
	// nondeterministically.
	ErrDead = errors.New("kernel is dead")

	// ErrNoStore is returned by Serf.Save when the Serf
	// was started without a store.
	ErrNoStore = errors.New("no checkpoint store")

	// ErrClosed is returned by a Serf after Close, or after a
	// panic stopped its goroutine.
	ErrClosed = errors.New("serf closed")
)
