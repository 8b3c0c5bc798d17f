package jets

import (
	"github.com/codahale/metrics"

	"nockchain/noun"
)

type siteKey struct {
	axis  uint64
	entry *ColdEntry
}

// Warm caches call-site decisions for one context.
// It is not safe for concurrent use.
type Warm struct {
	hot   *Hot
	cold  *Cold
	sites map[siteKey]*Site
}

// NewWarm returns a Warm joining hot and cold.
func NewWarm(hot *Hot, cold *Cold) *Warm {
	return &Warm{hot: hot, cold: cold, sites: make(map[siteKey]*Site)}
}

// Len returns the number of cached sites.
func (w *Warm) Len() int { return len(w.sites) }

// Find resolves the arm at axis of core.
//
// The core is matched against the cold state by battery and by the
// batteries of its registered parent chain, so a known battery under
// an unknown context is not matched. Unmatched cores yield NoJet and
// are not cached. A matched site is cached per registration as
// Accelerated when a hot entry exists for its path and every parent
// axis on the way to the root lies within its core's context, or as
// Traced otherwise.
func (w *Warm) Find(a *noun.Arena, core noun.Noun, axis uint64) *Site {
	e, found := w.cold.Match(a, core)
	if !found {
		metrics.Counter("jets.miss").Add()
		return noJet
	}
	key := siteKey{axis, e}
	if s, ok := w.sites[key]; ok {
		metrics.Counter("jets.hit").Add()
		return s
	}

	s := &Site{Decision: Traced, Path: e.Path}
	if h, ok := w.hot.Lookup(e.Path, axis); ok && e.chainInContext() &&
		(h.ParentAxis == 0 || h.ParentAxis == e.ParentAxis) {
		s.Decision = Accelerated
		s.Jet = h.Jet
		s.Test = h.Test
	}
	w.sites[key] = s
	metrics.Counter("jets.miss").Add()
	return s
}
