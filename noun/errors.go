package noun

import (
	"fmt"

	"nockchain/errors"
)

var (
	// ErrAllocation is the root of every AllocationError.
	ErrAllocation = errors.New("arena exhausted")

	// ErrAxis is returned when an axis is zero or
	// descends through an atom.
	ErrAxis = errors.New("bad axis")

	// ErrCue is returned for malformed jam input.
	ErrCue = errors.New("malformed jam")

	// ErrNotAtom and ErrNotCell report a noun of the wrong kind.
	ErrNotAtom = errors.New("not an atom")
	ErrNotCell = errors.New("not a cell")

	// ErrParse is returned by Parse for malformed text.
	ErrParse = errors.New("noun syntax")
)

// AllocationError records an allocation that would have
// exceeded the arena's capacity. Allocation functions panic
// with a *AllocationError; WithFrame and Cue recover it.
type AllocationError struct {
	Requested uint64 // words
	Used      uint64
	Capacity  uint64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s: need %d words, %d of %d in use",
		ErrAllocation, e.Requested, e.Used, e.Capacity)
}

func (e *AllocationError) Unwrap() error { return ErrAllocation }
