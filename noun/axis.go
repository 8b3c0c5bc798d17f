package noun

import (
	"math/bits"

	"nockchain/errors"
)

// axisPath calls visit for each step of the path named by axis,
// most significant first, skipping the leading 1 bit.
// It returns false if axis is zero or a cell.
func (a *Arena) axisPath(axis Noun, visit func(tail bool) bool) bool {
	if axis.IsCell() || axis == 0 {
		return false
	}
	for i := a.BitLen(axis) - 2; i >= 0; i-- {
		if !visit(a.Bit(axis, i) == 1) {
			return false
		}
	}
	return true
}

// Slot returns the subtree of n at axis: 1 is n itself,
// 2k and 2k+1 are the head and tail of the subtree at k.
func (a *Arena) Slot(n, axis Noun) (Noun, error) {
	cur := n
	ok := a.axisPath(axis, func(tail bool) bool {
		if !cur.IsCell() {
			return false
		}
		c := a.cellAt(cur)
		if tail {
			cur = c.tail
		} else {
			cur = c.head
		}
		return true
	})
	if !ok {
		return 0, errors.WithData(ErrAxis, "axis", axis)
	}
	return cur, nil
}

// SlotUint is Slot for a small axis.
func (a *Arena) SlotUint(n Noun, axis uint64) (Noun, bool) {
	if axis == 0 {
		return 0, false
	}
	for i := 62 - leadingZeros(axis); i >= 0; i-- {
		if !n.IsCell() {
			return 0, false
		}
		c := a.cellAt(n)
		if axis>>uint(i)&1 == 1 {
			n = c.tail
		} else {
			n = c.head
		}
	}
	return n, true
}

func leadingZeros(x uint64) int { return bits.LeadingZeros64(x) }

// Edit returns a copy of n with the subtree at axis replaced by v.
// Only the cells along the path are reallocated.
func (a *Arena) Edit(n, axis, v Noun) (Noun, error) {
	type step struct {
		parent Noun
		tail   bool
	}
	var path []step
	cur := n
	ok := a.axisPath(axis, func(tail bool) bool {
		if !cur.IsCell() {
			return false
		}
		path = append(path, step{cur, tail})
		c := a.cellAt(cur)
		if tail {
			cur = c.tail
		} else {
			cur = c.head
		}
		return true
	})
	if !ok {
		return 0, errors.WithData(ErrAxis, "axis", axis)
	}
	for i := len(path) - 1; i >= 0; i-- {
		c := *a.cellAt(path[i].parent)
		if path[i].tail {
			v = a.Cell(c.head, v)
		} else {
			v = a.Cell(v, c.tail)
		}
	}
	return v, nil
}

// Peg returns the axis of the subtree at b within the subtree at a.
func Peg(a, b uint64) uint64 {
	n := 63 - leadingZeros(b)
	return a<<uint(n) | b&(1<<uint(n)-1)
}

// InContext reports whether axis lies within the subtree at 7,
// the context of a core: its binary form begins 111.
func InContext(axis uint64) bool {
	n := 63 - leadingZeros(axis)
	return n >= 2 && axis>>uint(n-2) == 7
}
