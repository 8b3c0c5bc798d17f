package noun

import (
	stdbits "math/bits"

	"nockchain/encoding/bits"
	"nockchain/errors"
)

type backref struct {
	n   Noun
	off uint64
}

// writeMat writes the self-delimiting length-prefixed encoding of
// an atom: for 0 a single 1 bit, otherwise c zero bits, a 1 bit,
// the low c-1 bits of b, then the b bits of the atom, where b is
// the atom's bit length and c is the bit length of b.
func writeMat(w *bits.Writer, b uint64, atom func(w *bits.Writer)) {
	if b == 0 {
		w.WriteBit(1)
		return
	}
	c := uint(stdbits.Len64(b))
	w.WriteZeros(uint64(c))
	w.WriteBit(1)
	w.WriteBits(b, c-1)
	atom(w)
}

func (a *Arena) writeAtom(w *bits.Writer, n Noun) {
	b := uint64(a.BitLen(n))
	writeMat(w, b, func(w *bits.Writer) {
		if n.IsDirect() {
			w.WriteBits(uint64(n), uint(b))
		} else {
			w.WriteBytes(a.Bytes(n), b)
		}
	})
}

func writeUint(w *bits.Writer, v uint64) {
	b := uint64(stdbits.Len64(v))
	writeMat(w, b, func(w *bits.Writer) { w.WriteBits(v, uint(b)) })
}

// Jam returns the canonical serialization of n.
//
// The encoding is a bit stream: an atom is a 0 bit followed by its
// mat encoding; a cell is 1, 0 followed by its head and tail; a
// back-reference is 1, 1 followed by the mat of the bit offset of an
// earlier equal subtree. Repeated cells always become
// back-references; a repeated atom does when the offset has fewer
// significant bits than the atom.
// The result is the stream read as a little-endian atom.
func (a *Arena) Jam(n Noun) []byte {
	var w bits.Writer
	seen := make(map[uint32][]backref)
	stack := []Noun{n}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		mug := a.Mug(x)

		if ref, ok := a.findBackref(seen[mug], &x); ok {
			if x.IsCell() || stdbits.Len64(ref) < a.BitLen(x) {
				w.WriteBit(1)
				w.WriteBit(1)
				writeUint(&w, ref)
				continue
			}
		} else {
			seen[mug] = append(seen[mug], backref{x, w.Len()})
		}

		if x.IsAtom() {
			w.WriteBit(0)
			a.writeAtom(&w, x)
			continue
		}
		w.WriteBit(1)
		w.WriteBit(0)
		c := a.cellAt(x)
		stack = append(stack, c.tail, c.head)
	}
	out := w.Bytes()
	if len(out) == 0 {
		return []byte{}
	}
	return out
}

func (a *Arena) findBackref(refs []backref, x *Noun) (uint64, bool) {
	for _, r := range refs {
		n := r.n
		if a.Equal(x, &n) {
			return r.off, true
		}
	}
	return 0, false
}

// JamAtom returns the jam of n as an atom.
func (a *Arena) JamAtom(n Noun) Noun {
	return a.BytesAtom(a.Jam(n))
}

// Cue decodes the output of Jam. The result is built inside a frame
// that is discarded if b is malformed, so a failed Cue allocates
// nothing. Malformed input yields an error whose root is ErrCue;
// running out of space yields a *AllocationError.
func (a *Arena) Cue(b []byte) (Noun, error) {
	return a.WithFrame(func() (Noun, error) {
		n, err := a.cue(bits.NewReader(b))
		return n, errors.Sub(ErrCue, err)
	})
}

// CueAtom decodes the jam held in atom n.
func (a *Arena) CueAtom(n Noun) (Noun, error) {
	if n.IsCell() {
		return 0, errors.WithDetail(ErrCue, "cue of cell")
	}
	return a.Cue(a.Bytes(n))
}

var (
	errTruncated = errors.New("truncated")
	errBadRef    = errors.New("undefined back-reference")
	errLength    = errors.New("inconsistent length prefix")
	errTrailing  = errors.New("trailing data")
)

// rubLen reads the length prefix of a mat encoding.
func rubLen(r *bits.Reader) (uint64, error) {
	c := r.CountZeros(64)
	if err := r.Err(); err != nil {
		return 0, errTruncated
	}
	if c == 0 {
		return 0, nil
	}
	if c > 64 {
		return 0, errLength
	}
	b := uint64(1)<<(c-1) | r.ReadBits(uint(c-1))
	if r.Err() != nil {
		return 0, errTruncated
	}
	if b > r.Remaining() {
		return 0, errTruncated
	}
	return b, nil
}

func (a *Arena) rub(r *bits.Reader) (Noun, error) {
	b, err := rubLen(r)
	if err != nil || b == 0 {
		return 0, err
	}
	var n Noun
	if b <= 64 {
		n = a.Atom(r.ReadBits(uint(b)))
	} else {
		n = a.BytesAtom(r.ReadBytes(b))
	}
	if r.Err() != nil {
		return 0, errTruncated
	}
	if uint64(a.BitLen(n)) != b {
		return 0, errLength
	}
	return n, nil
}

func rubUint(r *bits.Reader) (uint64, error) {
	b, err := rubLen(r)
	if err != nil || b == 0 {
		return 0, err
	}
	if b > 64 {
		return 0, errBadRef
	}
	v := r.ReadBits(uint(b))
	if r.Err() != nil {
		return 0, errTruncated
	}
	if uint64(stdbits.Len64(v)) != b {
		return 0, errLength
	}
	return v, nil
}

type cueFrame struct {
	off     uint64
	head    Noun
	hasHead bool
}

func (a *Arena) cue(r *bits.Reader) (Noun, error) {
	refs := make(map[uint64]Noun)
	var stack []cueFrame
	for {
		off := r.Pos()
		var n Noun
		if r.ReadBit() == 0 {
			if r.Err() != nil {
				return 0, errTruncated
			}
			x, err := a.rub(r)
			if err != nil {
				return 0, err
			}
			n = x
			refs[off] = n
		} else if r.ReadBit() == 0 {
			if r.Err() != nil {
				return 0, errTruncated
			}
			stack = append(stack, cueFrame{off: off})
			continue
		} else {
			if r.Err() != nil {
				return 0, errTruncated
			}
			o, err := rubUint(r)
			if err != nil {
				return 0, err
			}
			x, ok := refs[o]
			if !ok {
				return 0, errors.WithData(errBadRef, "offset", o)
			}
			n = x
		}

		for {
			if len(stack) == 0 {
				for r.Remaining() > 0 {
					if r.ReadBit() != 0 {
						return 0, errTrailing
					}
				}
				return n, nil
			}
			f := &stack[len(stack)-1]
			if !f.hasHead {
				f.head, f.hasHead = n, true
				break
			}
			n = a.Cell(f.head, n)
			refs[f.off] = n
			stack = stack[:len(stack)-1]
		}
	}
}
