// Package bits implements least-significant-bit-first bit streams.
//
// Bit i of a stream is bit i%8 of byte i/8, so a stream read back as a
// little-endian integer has its first bit in the ones place.
package bits

import (
	"io"
	"math/bits"
)

// Writer accumulates a bit stream.
// The zero value is ready to use.
type Writer struct {
	buf []byte
	n   uint64 // bits written
}

// Len returns the number of bits written so far.
func (w *Writer) Len() uint64 { return w.n }

// WriteBit appends the low bit of b.
func (w *Writer) WriteBit(b uint) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if b&1 != 0 {
		w.buf[w.n/8] |= 1 << (w.n % 8)
	}
	w.n++
}

// WriteZeros appends n zero bits.
func (w *Writer) WriteZeros(n uint64) {
	end := w.n + n
	for uint64(len(w.buf))*8 < end {
		w.buf = append(w.buf, 0)
	}
	w.n = end
}

// WriteBits appends the low n bits of v, low bit first.
// It panics if n > 64.
func (w *Writer) WriteBits(v uint64, n uint) {
	if n > 64 {
		panic("bits: WriteBits count out of range")
	}
	for n > 0 {
		if w.n%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		off := uint(w.n % 8)
		k := 8 - off
		if k > n {
			k = n
		}
		w.buf[w.n/8] |= byte(v&(1<<k-1)) << off
		v >>= k
		n -= k
		w.n += uint64(k)
	}
}

// WriteBytes appends the first n bits of the little-endian
// bit string b. Bits beyond len(b)*8 are written as zero.
func (w *Writer) WriteBytes(b []byte, n uint64) {
	for i := uint64(0); n > 0; i++ {
		k := uint(8)
		if n < 8 {
			k = uint(n)
		}
		var v byte
		if i < uint64(len(b)) {
			v = b[i]
		}
		w.WriteBits(uint64(v), k)
		n -= uint64(k)
	}
}

// Bytes returns the stream as a little-endian byte string
// with trailing zero bytes removed. The result aliases the
// writer's buffer until the next write.
func (w *Writer) Bytes() []byte {
	b := w.buf
	for len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return b
}

// Reader consumes a bit stream.
// Reading past the end of the stream sets a sticky
// io.ErrUnexpectedEOF and yields zero bits.
type Reader struct {
	buf []byte
	pos uint64
	err error
}

// NewReader returns a Reader over the little-endian bit string b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Pos returns the index of the next bit to be read.
func (r *Reader) Pos() uint64 { return r.pos }

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() uint64 {
	total := uint64(len(r.buf)) * 8
	if r.pos >= total {
		return 0
	}
	return total - r.pos
}

// ReadBit reads one bit.
func (r *Reader) ReadBit() uint {
	if r.err != nil {
		return 0
	}
	if r.pos >= uint64(len(r.buf))*8 {
		r.err = io.ErrUnexpectedEOF
		return 0
	}
	b := uint(r.buf[r.pos/8]>>(r.pos%8)) & 1
	r.pos++
	return b
}

// CountZeros consumes zero bits up to and including the next
// one bit and returns the number of zeros. It fails once limit
// zeros have been seen without a one bit.
func (r *Reader) CountZeros(limit uint64) uint64 {
	var n uint64
	for r.err == nil {
		if r.pos >= uint64(len(r.buf))*8 {
			r.err = io.ErrUnexpectedEOF
			return 0
		}
		byt := r.buf[r.pos/8] >> (r.pos % 8)
		if byt == 0 {
			k := 8 - r.pos%8
			n += k
			r.pos += k
		} else {
			k := uint64(bits.TrailingZeros8(byt))
			n += k
			r.pos += k + 1
			return n
		}
		if n > limit {
			r.err = io.ErrUnexpectedEOF
			return 0
		}
	}
	return 0
}

// ReadBits reads n bits, low bit first, into a uint64.
// It panics if n > 64.
func (r *Reader) ReadBits(n uint) uint64 {
	if n > 64 {
		panic("bits: ReadBits count out of range")
	}
	if r.err != nil {
		return 0
	}
	if uint64(n) > r.Remaining() {
		r.err = io.ErrUnexpectedEOF
		return 0
	}
	var v uint64
	var got uint
	for got < n {
		off := uint(r.pos % 8)
		k := 8 - off
		if k > n-got {
			k = n - got
		}
		chunk := uint64(r.buf[r.pos/8]>>off) & (1<<k - 1)
		v |= chunk << got
		got += k
		r.pos += uint64(k)
	}
	return v
}

// ReadBytes reads n bits into a little-endian byte string
// of length ceil(n/8).
func (r *Reader) ReadBytes(n uint64) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.Remaining() {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	out := make([]byte, (n+7)/8)
	for i := range out {
		k := uint(8)
		if rem := n - uint64(i)*8; rem < 8 {
			k = uint(rem)
		}
		out[i] = byte(r.ReadBits(k))
	}
	return out
}
