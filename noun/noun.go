// Package noun implements the Nock value model: an arena of
// binary trees whose leaves are arbitrary-precision natural numbers.
//
// A Noun is a 64-bit handle. Atoms below 2^63 are stored inline;
// larger atoms and all cells live in an Arena and are addressed by
// index. Handles are only meaningful relative to the Arena that
// produced them, and only until the frame that holds them is popped.
package noun

// Noun is a handle to an atom or a cell.
//
// The top bit clear means a direct atom whose value is the handle.
// Otherwise the next bit distinguishes an indirect atom (0) from
// a cell (1), and bit 61 marks a value in the arena's home region.
type Noun uint64

const (
	tagMask  Noun = 3 << 62
	tagAtom  Noun = 2 << 62
	tagCell  Noun = 3 << 62
	homeBit  Noun = 1 << 61
	indexMax Noun = homeBit - 1

	// MaxDirect is the largest atom stored inline in a handle.
	MaxDirect = 1<<63 - 1
)

// Loobeans. Nock uses 0 for true.
const (
	Yes Noun = 0
	No  Noun = 1
)

// D returns the direct atom v. It panics if v > MaxDirect;
// use Arena.Atom for values that may be larger.
func D(v uint64) Noun {
	if v > MaxDirect {
		panic("noun: direct atom out of range")
	}
	return Noun(v)
}

// Loob returns Yes if b is true and No otherwise.
func Loob(b bool) Noun {
	if b {
		return Yes
	}
	return No
}

// IsDirect reports whether n is an atom stored inline.
func (n Noun) IsDirect() bool { return n>>63 == 0 }

// IsCell reports whether n is a cell.
func (n Noun) IsCell() bool { return n&tagMask == tagCell }

// IsAtom reports whether n is an atom.
func (n Noun) IsAtom() bool { return n&tagMask != tagCell }

func (n Noun) isIndirect() bool { return n&tagMask == tagAtom }

// IsHome reports whether n refers to the arena's home region.
// Direct atoms are never home.
func (n Noun) IsHome() bool { return !n.IsDirect() && n&homeBit != 0 }

func (n Noun) index() int { return int(n & indexMax) }

// senior reports whether x is strictly senior to y: it lives
// in the home region while y does not, or both live in the same
// region and x was allocated first.
// x and y must be the same kind of indirect value.
func senior(x, y Noun) bool {
	xh, yh := x&homeBit != 0, y&homeBit != 0
	if xh != yh {
		return xh
	}
	return x&indexMax < y&indexMax
}
