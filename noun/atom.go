package noun

import (
	"math/big"
	"math/bits"
)

var maxDirect = new(big.Int).SetUint64(MaxDirect)

// Atom returns the atom v, allocating only if v > MaxDirect.
func (a *Arena) Atom(v uint64) Noun {
	if v <= MaxDirect {
		return Noun(v)
	}
	return a.bigAtom(new(big.Int).SetUint64(v))
}

// BigAtom returns the atom x. It panics if x is negative.
// The arena keeps its own copy of x.
func (a *Arena) BigAtom(x *big.Int) Noun {
	if x.Sign() < 0 {
		panic("noun: negative atom")
	}
	if x.Cmp(maxDirect) <= 0 {
		return Noun(x.Uint64())
	}
	return a.bigAtom(new(big.Int).Set(x))
}

// bigAtom takes ownership of x, which must exceed MaxDirect.
func (a *Arena) bigAtom(x *big.Int) Noun {
	a.reserve(atomWords(x))
	return a.stack.pushAtom(indirect{v: x}, false)
}

// BytesAtom returns the atom whose little-endian encoding is b.
func (a *Arena) BytesAtom(b []byte) Noun {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	if n <= 8 {
		var v uint64
		for i := n - 1; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
		return a.Atom(v)
	}
	be := make([]byte, n)
	for i := 0; i < n; i++ {
		be[n-1-i] = b[i]
	}
	return a.bigAtom(new(big.Int).SetBytes(be))
}

// Cord returns the atom whose bytes are the text s.
func (a *Arena) Cord(s string) Noun {
	return a.BytesAtom([]byte(s))
}

// Uint64 returns the value of atom n if it fits in 64 bits.
func (a *Arena) Uint64(n Noun) (uint64, bool) {
	switch {
	case n.IsDirect():
		return uint64(n), true
	case n.isIndirect():
		x := a.atomAt(n).v
		return x.Uint64(), x.IsUint64()
	}
	return 0, false
}

// Big returns a fresh copy of the value of atom n,
// or nil if n is a cell.
func (a *Arena) Big(n Noun) *big.Int {
	switch {
	case n.IsDirect():
		return new(big.Int).SetUint64(uint64(n))
	case n.isIndirect():
		return new(big.Int).Set(a.atomAt(n).v)
	}
	return nil
}

// Bytes returns the minimal little-endian encoding of atom n.
// Zero encodes as the empty slice. It returns nil for a cell.
func (a *Arena) Bytes(n Noun) []byte {
	switch {
	case n.IsDirect():
		var out []byte
		for v := uint64(n); v != 0; v >>= 8 {
			out = append(out, byte(v))
		}
		if out == nil {
			out = []byte{}
		}
		return out
	case n.isIndirect():
		be := a.atomAt(n).v.Bytes()
		for i, j := 0, len(be)-1; i < j; i, j = i+1, j-1 {
			be[i], be[j] = be[j], be[i]
		}
		return be
	}
	return nil
}

// BitLen returns the number of significant bits in atom n
// (zero for 0). It returns 0 for a cell.
func (a *Arena) BitLen(n Noun) int {
	switch {
	case n.IsDirect():
		return bits.Len64(uint64(n))
	case n.isIndirect():
		return a.atomAt(n).v.BitLen()
	}
	return 0
}

// Bit returns bit i of atom n.
func (a *Arena) Bit(n Noun, i int) uint {
	switch {
	case n.IsDirect():
		if i >= 64 {
			return 0
		}
		return uint(n>>uint(i)) & 1
	case n.isIndirect():
		return a.atomAt(n).v.Bit(i)
	}
	return 0
}

// bigRef returns the value of an atom without copying.
// The result must not be modified.
func (a *Arena) bigRef(n Noun) *big.Int {
	if n.IsDirect() {
		return new(big.Int).SetUint64(uint64(n))
	}
	return a.atomAt(n).v
}
