package jets

import (
	"sync"

	"nockchain/errors"
)

// HotEntry binds a native routine to the arm at Axis (2, the gate
// arm, if zero) of the cores registered under Path.
// If ParentAxis is nonzero, the matching cold registration must name
// its parent core at exactly that axis.
// Test entries are always verified against the interpreter.
type HotEntry struct {
	Path       string
	Axis       uint64
	ParentAxis uint64
	Jet        Jet
	Test       bool
}

type hotKey struct {
	path string
	axis uint64
}

// Hot is the boot-time table of native routines.
// It is safe for concurrent use and may be shared by many contexts.
type Hot struct {
	mu      sync.RWMutex
	sealed  bool
	entries map[hotKey]HotEntry
}

// NewHot returns a Hot holding entries. Later entries
// for the same path and axis replace earlier ones.
func NewHot(entries ...HotEntry) *Hot {
	h := &Hot{entries: make(map[hotKey]HotEntry)}
	for _, e := range entries {
		h.add(e)
	}
	return h
}

func (h *Hot) add(e HotEntry) {
	if e.Axis == 0 {
		e.Axis = 2
	}
	h.entries[hotKey{e.Path, e.Axis}] = e
}

// Register adds e. It fails with ErrSealed once any
// context using h has begun evaluating.
func (h *Hot) Register(e HotEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sealed {
		return errors.WithDetail(ErrSealed, e.Path)
	}
	h.add(e)
	return nil
}

// Seal freezes the table.
func (h *Hot) Seal() {
	h.mu.Lock()
	h.sealed = true
	h.mu.Unlock()
}

// Lookup returns the entry for the arm at axis of cores
// registered under path.
func (h *Hot) Lookup(path string, axis uint64) (HotEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[hotKey{path, axis}]
	return e, ok
}

// Len returns the number of entries.
func (h *Hot) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
