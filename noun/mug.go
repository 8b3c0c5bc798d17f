package noun

import (
	"encoding/binary"
	"math/bits"

	"github.com/spaolacci/murmur3"
)

const (
	atomSeed = 0xcafebabe
	cellSeed = 0xdeadbeef
)

// fold hashes data to a nonzero 31-bit value, reseeding on zero.
func fold(data []byte, seed uint32) uint32 {
	for i := 0; i < 8; i++ {
		h := murmur3.Sum32WithSeed(data, seed)
		h = (h >> 31) ^ (h & 0x7fffffff)
		if h != 0 {
			return h
		}
		seed++
	}
	return 0x7fff
}

func mugBytes(b []byte) uint32 {
	return fold(b, atomSeed)
}

func mugDirect(v uint64) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return mugBytes(buf[:(bits.Len64(v)+7)/8])
}

// MugPair combines two mugs as the mug of a cell
// with those mugs for head and tail.
func MugPair(head, tail uint32) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], head)
	binary.LittleEndian.PutUint32(buf[4:], tail)
	return fold(buf[:], cellSeed)
}

// cachedMug returns the mug of n if it is direct or already computed.
func (a *Arena) cachedMug(n Noun) uint32 {
	switch {
	case n.IsDirect():
		return mugDirect(uint64(n))
	case n.IsCell():
		return a.cellAt(n).mug
	}
	return a.atomAt(n).mug
}

// Mug returns the 31-bit structural hash of n. It is never zero.
// Mugs of cells and indirect atoms are computed once and cached.
func (a *Arena) Mug(n Noun) uint32 {
	if m := a.cachedMug(n); m != 0 {
		return m
	}
	stack := []Noun{n}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		if x.isIndirect() {
			p := a.atomAt(x)
			if p.mug == 0 {
				p.mug = mugBytes(a.Bytes(x))
			}
			stack = stack[:len(stack)-1]
			continue
		}
		c := a.cellAt(x)
		if c.mug != 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		hm, tm := a.cachedMug(c.head), a.cachedMug(c.tail)
		if hm == 0 || tm == 0 {
			if tm == 0 {
				stack = append(stack, c.tail)
			}
			if hm == 0 {
				stack = append(stack, c.head)
			}
			continue
		}
		c.mug = MugPair(hm, tm)
		stack = stack[:len(stack)-1]
	}
	return a.cachedMug(n)
}
