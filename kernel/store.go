package kernel

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"nockchain/errors"
	"nockchain/log"
)

// A Store keeps kernel checkpoints.
type Store interface {
	// Save durably records cp.
	Save(ctx context.Context, cp *Checkpoint) error

	// Latest returns the valid checkpoint with the highest event
	// number, or ErrNoCheckpoint if there is none.
	Latest(ctx context.Context) (*Checkpoint, error)
}

var slotNames = [2]string{"0.chkjam", "1.chkjam"}

// FileStore keeps two checkpoint files in a directory and
// overwrites the older one on each save, so a crash while
// saving leaves the previous checkpoint intact.
type FileStore struct {
	dir string

	mu   sync.Mutex
	next int // slot to write next
}

// NewFileStore returns a FileStore in dir, creating dir if needed.
func NewFileStore(ctx context.Context, dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err)
	}
	s := &FileStore{dir: dir}
	_, slot, err := s.latest(ctx)
	if err == nil {
		s.next = 1 - slot
	} else if errors.Root(err) != ErrNoCheckpoint && errors.Root(err) != ErrBadCheckpoint {
		return nil, err
	}
	return s, nil
}

// Save writes cp over the older of the two files.
func (s *FileStore) Save(ctx context.Context, cp *Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := writeSlot(s.dir, s.next, cp.Encode()); err != nil {
		return errors.Wrap(err, "save checkpoint")
	}
	log.Printkv(ctx, "saved", slotNames[s.next], "event", cp.Event)
	s.next = 1 - s.next
	return nil
}

// Latest returns the newer valid checkpoint. An invalid file is
// logged and ignored as long as the other one is valid.
func (s *FileStore) Latest(ctx context.Context) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, _, err := s.latest(ctx)
	return cp, err
}

func (s *FileStore) latest(ctx context.Context) (*Checkpoint, int, error) {
	var (
		best    *Checkpoint
		slot    int
		invalid int
	)
	for i, n := range slotNames {
		name := filepath.Join(s.dir, n)
		b, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, 0, errors.Wrap(err)
		}
		cp, err := DecodeCheckpoint(b)
		if err != nil {
			invalid++
			log.Error(ctx, err, "file", name)
			continue
		}
		if best == nil || cp.Event > best.Event {
			best, slot = cp, i
		}
	}
	if best == nil {
		if invalid > 0 {
			return nil, 0, errors.WithDetailf(ErrBadCheckpoint, "no valid checkpoint in %s", s.dir)
		}
		return nil, 0, ErrNoCheckpoint
	}
	return best, slot, nil
}

// writeSlot replaces checkpoint slot i in dir with b. It writes
// b beside the slot, flushes it, and renames it over the slot, so
// a reader sees either the old checkpoint or the new one. The
// directory is synced last so the rename survives a crash.
func writeSlot(dir string, i int, b []byte) error {
	name := filepath.Join(dir, slotNames[i])
	temp := name + ".temp"
	f, err := os.OpenFile(temp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err)
	}
	defer f.Close()
	if n, err := f.Write(b); err != nil {
		return errors.Wrap(err, temp)
	} else if n < len(b) {
		return errors.Wrap(io.ErrShortWrite, temp)
	}
	if err := flush(f); err != nil {
		return errors.Wrapf(err, "flush %s", temp)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, temp)
	}
	if err := os.Rename(temp, name); err != nil {
		return errors.Wrap(err)
	}
	d, err := os.Open(dir)
	if err != nil {
		return errors.Wrap(err)
	}
	defer d.Close()
	return errors.Wrapf(d.Sync(), "sync %s", dir)
}
