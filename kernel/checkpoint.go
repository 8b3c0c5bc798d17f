package kernel

import (
	"bytes"
	"encoding/binary"

	"nockchain/crypto/sha3pool"
	"nockchain/encoding/bufpool"
	"nockchain/errors"
)

// CheckpointVersion is the only checkpoint version written and read.
const CheckpointVersion = 1

// checkpointMagic is the atom %chkjam, CHKJAM in little-endian bytes.
var checkpointMagic = binary.LittleEndian.Uint64([]byte("CHKJAM\x00\x00"))

// header: magic, version, kernel hash, checksum, event, jam length
const headerLen = 8 + 4 + 32 + 32 + 8 + 8

// A Checkpoint is a saved kernel state.
type Checkpoint struct {
	KernelHash [32]byte // sha3-256 of the boot jam
	Event      uint64
	Jam        []byte // jam of the kernel state
}

// Checksum returns the sha3-256 of the event counter and jam.
func (cp *Checkpoint) Checksum() [32]byte {
	var ev [8]byte
	binary.LittleEndian.PutUint64(ev[:], cp.Event)
	return sha3pool.Sum256(ev[:], cp.Jam)
}

// Encode returns the binary form of cp.
func (cp *Checkpoint) Encode() []byte {
	buf := bufpool.Get()
	defer bufpool.Put(buf)

	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], checkpointMagic)
	buf.Write(scratch[:])
	binary.LittleEndian.PutUint32(scratch[:4], CheckpointVersion)
	buf.Write(scratch[:4])
	buf.Write(cp.KernelHash[:])
	sum := cp.Checksum()
	buf.Write(sum[:])
	binary.LittleEndian.PutUint64(scratch[:], cp.Event)
	buf.Write(scratch[:])
	binary.LittleEndian.PutUint64(scratch[:], uint64(len(cp.Jam)))
	buf.Write(scratch[:])
	buf.Write(cp.Jam)
	return bufpool.CopyBytes(buf)
}

// DecodeCheckpoint parses the output of Encode. It rejects a wrong
// magic number or version, a checksum mismatch, and truncated or
// overlong input, with errors whose root is ErrBadCheckpoint.
func DecodeCheckpoint(b []byte) (*Checkpoint, error) {
	if len(b) < headerLen {
		return nil, errors.WithDetailf(ErrBadCheckpoint, "truncated header (%d bytes)", len(b))
	}
	r := bytes.NewReader(b)
	var h struct {
		Magic    uint64
		Version  uint32
		Hash     [32]byte
		Checksum [32]byte
		Event    uint64
		Len      uint64
	}
	// the header length was checked above
	_ = binary.Read(r, binary.LittleEndian, &h)
	if h.Magic != checkpointMagic {
		return nil, errors.WithDetailf(ErrBadCheckpoint, "bad magic %#x", h.Magic)
	}
	if h.Version != CheckpointVersion {
		return nil, errors.WithDetailf(ErrBadCheckpoint, "unknown version %d", h.Version)
	}
	if rest := uint64(len(b) - headerLen); h.Len != rest {
		return nil, errors.WithDetailf(ErrBadCheckpoint, "payload is %d bytes, header says %d", rest, h.Len)
	}
	cp := &Checkpoint{
		KernelHash: h.Hash,
		Event:      h.Event,
		Jam:        append([]byte(nil), b[headerLen:]...),
	}
	if cp.Checksum() != h.Checksum {
		return nil, errors.WithDetail(ErrBadCheckpoint, "checksum mismatch")
	}
	return cp, nil
}
