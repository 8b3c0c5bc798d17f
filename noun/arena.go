package noun

import (
	"math/big"

	"github.com/codahale/metrics"
)

const (
	cellWords   = 3
	atomHeader  = 2
	wordBits    = 64
	defaultHint = 1024
)

// fwd, when nonzero, is a more senior handle for the same value.
// It lives in the slot it redirects, so popping a frame discards
// the redirects of everything the frame held.
type cell struct {
	head, tail Noun
	fwd        Noun
	mug        uint32
}

type indirect struct {
	v   *big.Int // normalized, > MaxDirect
	fwd Noun
	mug uint32
}

type region struct {
	cells []cell
	atoms []indirect
	words uint64
}

type frameMark struct {
	cells, atoms int
	words        uint64
}

// Mark is a snapshot of an arena's allocation state.
type Mark struct {
	Depth     int // number of open frames
	Cells     int
	Atoms     int
	Words     uint64 // frame stack usage
	HomeWords uint64
}

// Arena owns the storage behind every non-direct Noun it returns.
//
// Allocation is bump-style on a stack of frames. PopFrame releases
// everything allocated since the matching PushFrame. A separate home
// region is never released; values are copied there with Home.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	stack    region
	home     region
	capacity uint64
	frames   []frameMark
	watchers []func(depth int)
	name     string
}

// NewArena returns an arena that may hold up to capacity words,
// counting 3 words per cell and 2 plus the digit count per
// indirect atom.
func NewArena(capacity uint64) *Arena {
	return &Arena{
		stack: region{
			cells: make([]cell, 0, defaultHint),
		},
		capacity: capacity,
	}
}

// SetGauge names an arena.words gauge that reports
// this arena's usage on every frame pop.
func (a *Arena) SetGauge(name string) {
	a.name = name
}

// Capacity returns the arena's capacity in words.
func (a *Arena) Capacity() uint64 { return a.capacity }

// Mark returns the current allocation state.
func (a *Arena) Mark() Mark {
	return Mark{
		Depth:     len(a.frames),
		Cells:     len(a.stack.cells),
		Atoms:     len(a.stack.atoms),
		Words:     a.stack.words,
		HomeWords: a.home.words,
	}
}

// Depth returns the number of open frames.
func (a *Arena) Depth() int { return len(a.frames) }

// OnPop registers f to be called after every frame pop with
// the new frame depth. Compact calls f with -1, meaning every
// previously allocated handle may have moved.
func (a *Arena) OnPop(f func(depth int)) {
	a.watchers = append(a.watchers, f)
}

func (a *Arena) notify(depth int) {
	for _, f := range a.watchers {
		f(depth)
	}
	if a.name != "" {
		metrics.Gauge(a.name).Set(int64(a.stack.words + a.home.words))
	}
}

func (a *Arena) reserve(words uint64) {
	used := a.stack.words + a.home.words
	if words > a.capacity-used {
		panic(&AllocationError{Requested: words, Used: used, Capacity: a.capacity})
	}
}

func atomWords(v *big.Int) uint64 {
	return uint64((v.BitLen()+wordBits-1)/wordBits) + atomHeader
}

func (r *region) pushCell(c cell, home bool) Noun {
	r.cells = append(r.cells, c)
	r.words += cellWords
	n := tagCell | Noun(len(r.cells)-1)
	if home {
		n |= homeBit
	}
	return n
}

func (r *region) pushAtom(x indirect, home bool) Noun {
	r.atoms = append(r.atoms, x)
	r.words += atomWords(x.v)
	n := tagAtom | Noun(len(r.atoms)-1)
	if home {
		n |= homeBit
	}
	return n
}

// Cell allocates the cell [head tail] in the current frame.
// It panics with *AllocationError if the arena is full.
func (a *Arena) Cell(head, tail Noun) Noun {
	a.reserve(cellWords)
	return a.stack.pushCell(cell{head: head, tail: tail}, false)
}

// Tuple allocates the right-nested cell [n0 n1 ... nk].
// It requires at least two elements; with one it returns that element.
func (a *Arena) Tuple(ns ...Noun) Noun {
	if len(ns) == 0 {
		panic("noun: empty tuple")
	}
	r := ns[len(ns)-1]
	for i := len(ns) - 2; i >= 0; i-- {
		r = a.Cell(ns[i], r)
	}
	return r
}

// List allocates the null-terminated list [n0 n1 ... nk 0].
func (a *Arena) List(ns ...Noun) Noun {
	var r Noun
	for i := len(ns) - 1; i >= 0; i-- {
		r = a.Cell(ns[i], r)
	}
	return r
}

func (a *Arena) cellAt(n Noun) *cell {
	if n&homeBit != 0 {
		return &a.home.cells[n.index()]
	}
	return &a.stack.cells[n.index()]
}

func (a *Arena) atomAt(n Noun) *indirect {
	if n&homeBit != 0 {
		return &a.home.atoms[n.index()]
	}
	return &a.stack.atoms[n.index()]
}

// Head returns the head of cell n. It panics if n is an atom.
func (a *Arena) Head(n Noun) Noun {
	if !n.IsCell() {
		panic("noun: Head of atom")
	}
	return a.cellAt(n).head
}

// Tail returns the tail of cell n. It panics if n is an atom.
func (a *Arena) Tail(n Noun) Noun {
	if !n.IsCell() {
		panic("noun: Tail of atom")
	}
	return a.cellAt(n).tail
}

// AsCell returns the head and tail of n,
// and reports whether n is a cell.
func (a *Arena) AsCell(n Noun) (head, tail Noun, ok bool) {
	if !n.IsCell() {
		return 0, 0, false
	}
	c := a.cellAt(n)
	return c.head, c.tail, true
}

// Tuple3 splits [x y z]. It reports false if n is not
// a cell whose tail is a cell.
func (a *Arena) Tuple3(n Noun) (x, y, z Noun, ok bool) {
	x, t, ok := a.AsCell(n)
	if !ok {
		return 0, 0, 0, false
	}
	y, z, ok = a.AsCell(t)
	return x, y, z, ok
}

func (a *Arena) setField(c Noun, tail bool, v Noun) {
	p := a.cellAt(c)
	if tail {
		p.tail = v
	} else {
		p.head = v
	}
}

// PushFrame opens a new frame. Everything allocated until the
// matching PopFrame belongs to it.
func (a *Arena) PushFrame() {
	a.frames = append(a.frames, frameMark{
		cells: len(a.stack.cells),
		atoms: len(a.stack.atoms),
		words: a.stack.words,
	})
}

// PopFrame closes the innermost frame, releasing its allocations.
// Each preserve target is first copied, with whatever part of its
// closure the frame holds, into the enclosing frame, and the target
// is rewritten to the copy. Shared substructure is copied once.
// With no targets the arena returns exactly to its state at PushFrame.
func (a *Arena) PopFrame(preserve ...*Noun) {
	if len(a.frames) == 0 {
		panic("noun: PopFrame without PushFrame")
	}
	m := a.frames[len(a.frames)-1]
	a.frames = a.frames[:len(a.frames)-1]
	a.relocate(m, preserve)
	a.notify(len(a.frames))
}

// PopTo pops frames without preservation until Depth() == depth.
func (a *Arena) PopTo(depth int) {
	for len(a.frames) > depth {
		a.PopFrame()
	}
}

// WithFrame calls fn inside a new frame. On success the frame is
// popped preserving the result; on error, or if fn runs the arena
// out of space, everything fn allocated is released. Other panics
// are propagated after the frame is released.
func (a *Arena) WithFrame(fn func() (Noun, error)) (res Noun, err error) {
	a.PushFrame()
	depth := len(a.frames)
	defer func() {
		if r := recover(); r != nil {
			ae, ok := r.(*AllocationError)
			if !ok {
				a.PopTo(depth - 1)
				panic(r)
			}
			err = ae
		}
		a.PopTo(depth)
		if err != nil {
			res = 0
			a.PopFrame()
			return
		}
		a.PopFrame(&res)
	}()
	return fn()
}

// Compact discards every frame and rebuilds the base of the arena
// so it holds only the closure of roots, which are rewritten in
// place. Roots may live in any frame. Every other non-home handle
// becomes invalid.
func (a *Arena) Compact(roots ...*Noun) {
	a.frames = a.frames[:0]
	a.relocate(frameMark{}, roots)
	a.notify(-1)
}

type moved struct {
	old Noun
	c   cell
	x   indirect
}

func (m frameMark) holds(n Noun) bool {
	if n.IsDirect() || n&homeBit != 0 {
		return false
	}
	if n.IsCell() {
		return n.index() >= m.cells
	}
	return n.index() >= m.atoms
}

// relocate truncates the stack region to m after copying the part
// of the closure of roots that lies above m back onto the stack.
func (a *Arena) relocate(m frameMark, roots []*Noun) {
	var order []moved
	done := make(map[Noun]bool)
	var stack []Noun
	for _, r := range roots {
		*r = a.Resolve(*r)
		stack = append(stack[:0], *r)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			if !m.holds(n) || done[n] {
				stack = stack[:len(stack)-1]
				continue
			}
			if n.IsAtom() {
				stack = stack[:len(stack)-1]
				done[n] = true
				x := *a.atomAt(n)
				x.fwd = 0
				order = append(order, moved{old: n, x: x})
				continue
			}
			c := *a.cellAt(n)
			c.head, c.tail = a.Resolve(c.head), a.Resolve(c.tail)
			c.fwd = 0
			pending := false
			if m.holds(c.tail) && !done[c.tail] {
				stack = append(stack, c.tail)
				pending = true
			}
			if m.holds(c.head) && !done[c.head] {
				stack = append(stack, c.head)
				pending = true
			}
			if pending {
				continue
			}
			stack = stack[:len(stack)-1]
			done[n] = true
			order = append(order, moved{old: n, c: c})
		}
	}

	a.stack.cells = a.stack.cells[:m.cells]
	a.stack.atoms = a.stack.atoms[:m.atoms]
	a.stack.words = m.words

	if len(order) == 0 {
		return
	}
	to := make(map[Noun]Noun, len(order))
	remap := func(n Noun) Noun {
		if v, ok := to[n]; ok {
			return v
		}
		return n
	}
	for _, mv := range order {
		if mv.old.IsCell() {
			mv.c.head, mv.c.tail = remap(mv.c.head), remap(mv.c.tail)
			to[mv.old] = a.stack.pushCell(mv.c, false)
		} else {
			to[mv.old] = a.stack.pushAtom(mv.x, false)
		}
	}
	for _, r := range roots {
		*r = remap(*r)
	}
}

// Home copies the closure of n into the home region, which is never
// released, and returns the copy. Parts of n already at home are
// shared. Each copied value is redirected to its home copy.
// It panics with *AllocationError if the arena is full.
func (a *Arena) Home(n Noun) Noun {
	n = a.Resolve(n)
	if n.IsDirect() || n.IsHome() {
		return n
	}
	to := make(map[Noun]Noun)
	stack := []Noun{n}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		if x.IsDirect() || x.IsHome() || to[x] != 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		if x.IsAtom() {
			v := *a.atomAt(x)
			v.fwd = 0
			a.reserve(atomWords(v.v))
			to[x] = a.home.pushAtom(v, true)
			a.setForward(x, to[x])
			stack = stack[:len(stack)-1]
			continue
		}
		c := *a.cellAt(x)
		h, t := a.Resolve(c.head), a.Resolve(c.tail)
		pending := false
		if !t.IsDirect() && !t.IsHome() && to[t] == 0 {
			stack = append(stack, t)
			pending = true
		}
		if !h.IsDirect() && !h.IsHome() && to[h] == 0 {
			stack = append(stack, h)
			pending = true
		}
		if pending {
			continue
		}
		if v, ok := to[h]; ok {
			h = v
		}
		if v, ok := to[t]; ok {
			t = v
		}
		a.reserve(cellWords)
		to[x] = a.home.pushCell(cell{head: h, tail: t, mug: c.mug}, true)
		a.setForward(x, to[x])
		stack = stack[:len(stack)-1]
	}
	return to[n]
}

// Resolve follows redirects from n to the most senior
// known handle for the same value.
func (a *Arena) Resolve(n Noun) Noun {
	for !n.IsDirect() {
		var fwd Noun
		if n.IsCell() {
			fwd = a.cellAt(n).fwd
		} else {
			fwd = a.atomAt(n).fwd
		}
		if fwd == 0 {
			break
		}
		n = fwd
	}
	return n
}

// setForward redirects junior to the senior handle for the same value.
func (a *Arena) setForward(junior, senior Noun) {
	if junior.IsCell() {
		a.cellAt(junior).fwd = senior
	} else {
		a.atomAt(junior).fwd = senior
	}
}
