// Package kernel runs a Nock kernel: a core whose arms answer
// read-only peeks and state-changing pokes. The kernel value and its
// event counter change only when a poke completes.
//
// A kernel is booted from the jam of a trap, a core whose arm at 2
// produces the kernel. Within the kernel core, the arm at axis 4
// loads old state, 22 peeks, 23 pokes, and the state lives at 6.
package kernel

import (
	"github.com/codahale/metrics"

	"nockchain/crypto/sha3pool"
	"nockchain/errors"
	"nockchain/interp"
	"nockchain/noun"
)

// Kernel arm and state axes.
const (
	LoadAxis  = 4
	StateAxis = 6
	PeekAxis  = 22
	PokeAxis  = 23
)

// A Kernel owns the base of its context's arena. Nouns returned by
// Peek and Poke remain valid until the next successful Poke or Load,
// which compacts the arena down to the kernel and its last effects.
// It is not safe for concurrent use; see Serf.
type Kernel struct {
	c     *interp.Context
	core  noun.Noun
	event uint64
	hash  [32]byte
}

// Boot cues trap and kicks it to produce the kernel.
func Boot(c *interp.Context, trap []byte) (*Kernel, error) {
	a := c.Arena()
	t, err := a.Cue(trap)
	if err != nil {
		return nil, errors.Wrap(err, "cue kernel")
	}
	core, err := c.Kick(t, 2)
	if err != nil {
		return nil, errors.Wrap(err, "boot")
	}
	if core.IsAtom() {
		return nil, errors.WithDetail(ErrBadKernel, "kernel is an atom")
	}
	a.Compact(&core)
	k := &Kernel{c: c, core: core, hash: sha3pool.Sum256(trap)}
	metrics.Gauge("kernel.event").Set(0)
	return k, nil
}

// Context returns the interpreter the kernel runs in.
func (k *Kernel) Context() *interp.Context { return k.c }

// Event returns the number of pokes committed so far.
func (k *Kernel) Event() uint64 { return k.event }

// Hash returns the sha3-256 of the jam the kernel was booted from.
func (k *Kernel) Hash() [32]byte { return k.hash }

// Core returns the current kernel core.
func (k *Kernel) Core() noun.Noun { return k.core }

// State returns the kernel's state.
func (k *Kernel) State() (noun.Noun, error) {
	s, ok := k.c.Arena().SlotUint(k.core, StateAxis)
	if !ok {
		return 0, errors.WithDetail(ErrBadKernel, "no state")
	}
	return s, nil
}

// Peek asks the kernel for the value at path. It never changes the
// kernel.
func (k *Kernel) Peek(path noun.Noun) (noun.Noun, error) {
	metrics.Counter("kernel.peek").Add()
	res, err := k.slam(PeekAxis, path)
	if err != nil {
		metrics.Counter("kernel.fail").Add()
		return 0, errors.Wrap(err, "peek")
	}
	return res, nil
}

// Poke applies event to the kernel and returns its effects.
// On failure the kernel and event counter are unchanged.
func (k *Kernel) Poke(event noun.Noun) (noun.Noun, error) {
	return k.poke(event, nil)
}

// poke is Poke with a final veto: when commit is non-nil and
// returns an error, the result is discarded and the error returned.
func (k *Kernel) poke(event noun.Noun, commit func() error) (noun.Noun, error) {
	metrics.Counter("kernel.poke").Add()
	a := k.c.Arena()
	next := k.event + 1
	res, err := k.slam(PokeAxis, a.Cell(a.Atom(next), event))
	if err != nil {
		metrics.Counter("kernel.fail").Add()
		return 0, errors.Wrapf(err, "poke %d", next)
	}
	effects, core, ok := a.AsCell(res)
	if !ok || core.IsAtom() {
		metrics.Counter("kernel.fail").Add()
		return 0, errors.WithDetailf(ErrBadKernel, "poke %d: result is not [effects kernel]", next)
	}
	if commit != nil {
		if err := commit(); err != nil {
			return 0, err
		}
	}
	a.Compact(&core, &effects)
	k.core, k.event = core, next
	metrics.Gauge("kernel.event").Set(int64(next))
	return effects, nil
}

// Load replaces the kernel with the one its load arm builds from
// old, the state of an earlier kernel. The event counter is kept.
func (k *Kernel) Load(old noun.Noun) error {
	res, err := k.slam(LoadAxis, old)
	if err != nil {
		return errors.Wrap(err, "load")
	}
	if res.IsAtom() {
		return errors.WithDetail(ErrBadKernel, "load produced an atom")
	}
	k.c.Arena().Compact(&res)
	k.core = res
	return nil
}

// Checkpoint captures the kernel's state and event counter.
func (k *Kernel) Checkpoint() (*Checkpoint, error) {
	s, err := k.State()
	if err != nil {
		return nil, err
	}
	return &Checkpoint{
		KernelHash: k.hash,
		Event:      k.event,
		Jam:        k.c.Arena().Jam(s),
	}, nil
}

// Restore loads the state saved in cp, which must have been taken
// from a kernel booted from the same jam.
func (k *Kernel) Restore(cp *Checkpoint) error {
	if cp.KernelHash != k.hash {
		return errors.WithDetail(ErrBadCheckpoint, "checkpoint is for another kernel")
	}
	s, err := k.c.Arena().Cue(cp.Jam)
	if err != nil {
		return errors.Sub(ErrBadCheckpoint, err)
	}
	if err := k.Load(s); err != nil {
		return err
	}
	k.event = cp.Event
	metrics.Gauge("kernel.event").Set(int64(cp.Event))
	return nil
}

// slam kicks the arm at axis to get a gate and calls it with
// sample: [8 [9 axis 0 2] 9 2 10 [6 0 7] 0 2] against
// [kernel sample].
func (k *Kernel) slam(axis uint64, sample noun.Noun) (noun.Noun, error) {
	a := k.c.Arena()
	fol := a.Tuple(8, a.Tuple(9, a.Atom(axis), 0, 2),
		9, 2, 10, a.Tuple(6, 0, 7), 0, 2)
	return k.c.Interpret(a.Cell(k.core, sample), fol)
}
