package jets

import (
	"nockchain/crypto/sha3pool"
	"nockchain/errors"
	"nockchain/noun"
)

// ColdEntry is a battery registered by a %fast hint.
type ColdEntry struct {
	Battery    noun.Noun // home handle
	Label      string
	Path       string // labels from the root, joined by "/"
	ParentAxis uint64 // 0 for a root core
	Parent     *ColdEntry
	Digest     [32]byte // SHA3-256 of the battery's jam
}

// Cold holds the batteries registered so far in one context.
// A battery registered under several parent chains has one entry
// per chain, all sharing the same home copy.
// Registrations are never removed. Batteries are copied to the
// arena's home region, so entries stay valid for the arena's life.
type Cold struct {
	byMug map[uint32][]*ColdEntry
	n     int
}

// NewCold returns an empty Cold.
func NewCold() *Cold {
	return &Cold{byMug: make(map[uint32][]*ColdEntry)}
}

// Len returns the number of registrations.
func (c *Cold) Len() int { return c.n }

// Find returns the registrations whose battery is structurally
// equal to *battery, one per parent chain. On a match *battery is
// rewritten to the home copy.
func (c *Cold) Find(a *noun.Arena, battery *noun.Noun) []*ColdEntry {
	var found []*ColdEntry
	for _, e := range c.byMug[a.Mug(*battery)] {
		home := e.Battery
		if a.Equal(battery, &home) {
			found = append(found, e)
		}
	}
	return found
}

// Match returns the registration for core. Its battery must match,
// and at every level of the registered parent chain the core at
// ParentAxis must carry the registered parent battery.
func (c *Cold) Match(a *noun.Arena, core noun.Noun) (*ColdEntry, bool) {
	battery, _, ok := a.AsCell(a.Resolve(core))
	if !ok {
		return nil, false
	}
	for _, e := range c.Find(a, &battery) {
		if e.matches(a, core) {
			return e, true
		}
	}
	return nil, false
}

func (e *ColdEntry) matches(a *noun.Arena, core noun.Noun) bool {
	for ; e.Parent != nil; e = e.Parent {
		pcore, ok := a.SlotUint(core, e.ParentAxis)
		if !ok {
			return false
		}
		pbat, _, ok := a.AsCell(a.Resolve(pcore))
		if !ok {
			return false
		}
		home := e.Parent.Battery
		if !a.Equal(&pbat, &home) {
			return false
		}
		core = pcore
	}
	return true
}

// Register records core's battery under label as a child of the core
// at parentAxis (0 for a root). It reports whether the registration
// is new. A battery may be registered once per parent chain; a repeat
// under the same chain keeps its first label.
func (c *Cold) Register(a *noun.Arena, core noun.Noun, label string, parentAxis uint64) (bool, error) {
	battery, _, ok := a.AsCell(core)
	if !ok {
		return false, errors.WithDetail(ErrBadClue, "core is an atom")
	}

	var parent *ColdEntry
	if parentAxis != 0 {
		pcore, ok := a.SlotUint(core, parentAxis)
		if !ok || !pcore.IsCell() {
			return false, errors.WithDetailf(ErrNoParent, "%s: no core at axis %d", label, parentAxis)
		}
		parent, ok = c.Match(a, pcore)
		if !ok {
			return false, errors.WithDetailf(ErrNoParent, "%s: parent at axis %d", label, parentAxis)
		}
	}

	same := c.Find(a, &battery)
	for _, e := range same {
		if e.Parent == parent && e.ParentAxis == parentAxis {
			return false, nil
		}
	}

	e := &ColdEntry{Label: label, Path: label, ParentAxis: parentAxis, Parent: parent}
	if parent != nil {
		e.Path = parent.Path + "/" + label
	}
	if len(same) > 0 {
		e.Battery, e.Digest = same[0].Battery, same[0].Digest
	} else {
		e.Digest = sha3pool.Sum256(a.Jam(battery))
		e.Battery = a.Home(battery)
	}
	mug := a.Mug(e.Battery)
	c.byMug[mug] = append(c.byMug[mug], e)
	c.n++
	return true, nil
}

// chainInContext reports whether every non-root core on the path
// from e to its root names its parent within its own context.
func (e *ColdEntry) chainInContext() bool {
	for ; e != nil; e = e.Parent {
		if e.Parent != nil && !noun.InContext(e.ParentAxis) {
			return false
		}
	}
	return true
}
