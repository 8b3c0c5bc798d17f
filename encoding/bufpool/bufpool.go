// Package bufpool is a freelist for bytes.Buffer objects.
// Buffers that have grown past MaxRetain are dropped rather than
// pooled, so one large checkpoint does not pin its memory.
package bufpool

import (
	"bytes"
	"sync"
)

// MaxRetain is the largest capacity, in bytes, a returned buffer
// may have and still be reused.
const MaxRetain = 16 << 20

var pool = &sync.Pool{New: func() interface{} { return bytes.NewBuffer(nil) }}

// Get returns an empty bytes.Buffer from the free list.
// The caller should call Put when finished with it.
// Since Buffer.Bytes() returns the buffer's underlying slice,
// it is not safe for that slice to escape the caller;
// use CopyBytes for bytes that must outlive the buffer.
func Get() *bytes.Buffer {
	return pool.Get().(*bytes.Buffer)
}

// Put resets b and adds it to the free list,
// unless it is larger than MaxRetain.
func Put(b *bytes.Buffer) {
	if b.Cap() > MaxRetain {
		return
	}
	b.Reset()
	pool.Put(b)
}

// CopyBytes returns a copy of the bytes in buf,
// safe to keep after buf is returned with Put.
func CopyBytes(buf *bytes.Buffer) []byte {
	return append([]byte(nil), buf.Bytes()...)
}
