package noun

// slotRef names the place a noun was read from during a
// comparison: a field of a cell, or (cell == 0) a caller variable.
type slotRef struct {
	cell Noun
	tail bool
}

type eqFrame struct {
	x, y   Noun
	xs, ys slotRef
	post   bool
}

// Equal reports whether *x and *y are structurally equal.
//
// Whenever it finds two distinct equal cells or indirect atoms,
// Equal rewrites every reference it walked through to the junior
// one (allocated later, or outside the home region) to point at
// the senior one instead: the caller's variable, the field of the
// parent cell, and the junior's own slot in the arena. Later comparisons of
// the same values are then identity checks.
func (a *Arena) Equal(x, y *Noun) bool {
	*x, *y = a.Resolve(*x), a.Resolve(*y)
	if *x == *y {
		return true
	}
	if x.IsDirect() || y.IsDirect() {
		return false
	}
	stack := []eqFrame{{x: *x, y: *y}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.post {
			a.unify(f, x, y)
			continue
		}
		if rx := a.Resolve(f.x); rx != f.x {
			f.x = rx
			a.setSlot(f.xs, rx, x)
		}
		if ry := a.Resolve(f.y); ry != f.y {
			f.y = ry
			a.setSlot(f.ys, ry, y)
		}
		if f.x == f.y {
			continue
		}
		switch {
		case f.x.IsCell() && f.y.IsCell():
			cx, cy := a.cellAt(f.x), a.cellAt(f.y)
			if cx.mug != 0 && cy.mug != 0 && cx.mug != cy.mug {
				return false
			}
			f.post = true
			stack = append(stack, f,
				eqFrame{x: cx.tail, y: cy.tail, xs: slotRef{f.x, true}, ys: slotRef{f.y, true}},
				eqFrame{x: cx.head, y: cy.head, xs: slotRef{f.x, false}, ys: slotRef{f.y, false}},
			)
		case f.x.isIndirect() && f.y.isIndirect():
			ax, ay := a.atomAt(f.x), a.atomAt(f.y)
			if ax.mug != 0 && ay.mug != 0 && ax.mug != ay.mug {
				return false
			}
			if ax.v.Cmp(ay.v) != 0 {
				return false
			}
			a.unify(f, x, y)
		default:
			return false
		}
	}
	return true
}

// unify redirects the junior of f.x and f.y to the senior.
func (a *Arena) unify(f eqFrame, x, y *Noun) {
	a.shareMug(f.x, f.y)
	if senior(f.x, f.y) {
		a.setForward(f.y, f.x)
		a.setSlot(f.ys, f.x, y)
	} else {
		a.setForward(f.x, f.y)
		a.setSlot(f.xs, f.y, x)
	}
}

func (a *Arena) shareMug(x, y Noun) {
	var mx, my *uint32
	if x.IsCell() {
		mx, my = &a.cellAt(x).mug, &a.cellAt(y).mug
	} else {
		mx, my = &a.atomAt(x).mug, &a.atomAt(y).mug
	}
	if *mx == 0 {
		*mx = *my
	} else if *my == 0 {
		*my = *mx
	}
}

func (a *Arena) setSlot(s slotRef, v Noun, top *Noun) {
	if s.cell == 0 {
		*top = v
		return
	}
	a.setField(s.cell, s.tail, v)
}

// Same reports whether x and y are structurally equal
// without modifying the arena.
func (a *Arena) Same(x, y Noun) bool {
	stack := [][2]Noun{{x, y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := a.Resolve(p[0]), a.Resolve(p[1])
		if x == y {
			continue
		}
		switch {
		case x.IsCell() && y.IsCell():
			cx, cy := a.cellAt(x), a.cellAt(y)
			if cx.mug != 0 && cy.mug != 0 && cx.mug != cy.mug {
				return false
			}
			stack = append(stack, [2]Noun{cx.tail, cy.tail}, [2]Noun{cx.head, cy.head})
		case x.isIndirect() && y.isIndirect():
			if a.atomAt(x).v.Cmp(a.atomAt(y).v) != 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
