// Package sha3pool is a freelist for SHA3-256 hash objects.
package sha3pool

import (
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"
)

var pool256 = &sync.Pool{New: func() interface{} { return sha3.New256() }}

// Get256 returns an initialized SHA3-256 hash ready to use.
// It is like sha3.New256 except it uses the freelist.
// The caller should call Put256 when finished with the returned object.
func Get256() hash.Hash {
	return pool256.Get().(hash.Hash)
}

// Put256 resets h and puts it in the freelist.
func Put256(h hash.Hash) {
	h.Reset()
	pool256.Put(h)
}

// Sum256 computes the SHA3-256 digest of the concatenation of data
// using a hash from the freelist.
func Sum256(data ...[]byte) (sum [32]byte) {
	h := Get256()
	defer Put256(h)
	for _, b := range data {
		h.Write(b)
	}
	h.Sum(sum[:0])
	return sum
}
