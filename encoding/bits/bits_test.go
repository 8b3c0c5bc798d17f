package bits

import (
	"bytes"
	"io"
	"testing"
)

func TestWriterLSBFirst(t *testing.T) {
	var w Writer
	// the jam of [0 1]
	for _, b := range []uint{1, 0, 0, 1, 0, 0, 1, 1} {
		w.WriteBit(b)
	}
	if got := w.Bytes(); !bytes.Equal(got, []byte{201}) {
		t.Errorf("Bytes() = %v want [201]", got)
	}
	if w.Len() != 8 {
		t.Errorf("Len() = %d want 8", w.Len())
	}
}

func TestWriteBitsRoundTrip(t *testing.T) {
	cases := []struct {
		v uint64
		n uint
	}{
		{0, 0},
		{1, 1},
		{5, 3},
		{0xabcdef, 24},
		{0xffffffffffffffff, 64},
		{0x123456789, 37},
	}

	var w Writer
	w.WriteBit(1) // misalign everything
	for _, c := range cases {
		w.WriteBits(c.v, c.n)
	}
	w.WriteBit(1)

	r := NewReader(w.Bytes())
	if r.ReadBit() != 1 {
		t.Fatal("first bit lost")
	}
	for _, c := range cases {
		if got := r.ReadBits(c.n); got != c.v {
			t.Errorf("ReadBits(%d) = %#x want %#x", c.n, got, c.v)
		}
	}
	if r.ReadBit() != 1 || r.Err() != nil {
		t.Fatalf("trailing bit lost, err=%v", r.Err())
	}
}

func TestWriteZeros(t *testing.T) {
	var w Writer
	w.WriteBit(1)
	w.WriteZeros(13)
	w.WriteBit(1)
	if w.Len() != 15 {
		t.Fatalf("Len() = %d want 15", w.Len())
	}
	r := NewReader(w.Bytes())
	r.ReadBit()
	if n := r.CountZeros(64); n != 13 {
		t.Errorf("CountZeros = %d want 13", n)
	}
	if r.Pos() != 15 {
		t.Errorf("Pos = %d want 15", r.Pos())
	}
}

func TestReadBytes(t *testing.T) {
	var w Writer
	w.WriteBits(3, 2)
	w.WriteBytes([]byte{0xaa, 0xbb, 0x01}, 17)
	r := NewReader(w.Bytes())
	r.ReadBits(2)
	got := r.ReadBytes(17)
	if !bytes.Equal(got, []byte{0xaa, 0xbb, 0x01}) {
		t.Errorf("ReadBytes = %x want aabb01", got)
	}
}

func TestReaderShort(t *testing.T) {
	r := NewReader([]byte{0x01})
	r.ReadBits(8)
	if r.Err() != nil {
		t.Fatal(r.Err())
	}
	r.ReadBit()
	if r.Err() != io.ErrUnexpectedEOF {
		t.Fatalf("err = %v want %v", r.Err(), io.ErrUnexpectedEOF)
	}
	// sticky
	if r.ReadBits(1) != 0 || r.Err() != io.ErrUnexpectedEOF {
		t.Fatal("error not sticky")
	}

	r = NewReader([]byte{0, 0})
	r.CountZeros(64)
	if r.Err() != io.ErrUnexpectedEOF {
		t.Fatalf("CountZeros on zeros: err = %v", r.Err())
	}
}
