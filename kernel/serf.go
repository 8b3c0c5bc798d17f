package kernel

import (
	"context"
	"sync"
	"time"

	"nockchain/errors"
	"nockchain/interp"
	"nockchain/log"
	"nockchain/metrics"
	"nockchain/net/http/reqid"
)

// maxLatency bounds the peek and poke latency histograms.
const maxLatency = time.Minute

// A Serf owns a kernel on its own goroutine and serves requests
// to it one at a time, in the order they were submitted. Values
// cross the Serf boundary as jam bytes.
//
// A poke whose context is done before it commits is discarded.
// The computation itself runs to completion, and once the Serf has
// taken a poke or a save the caller waits for it: the reply always
// tells whether it was committed. After a nondeterministic failure
// the Serf answers every request with ErrDead. A panic in the Serf's
// goroutine is logged and closes the Serf.
type Serf struct {
	reqs     chan request
	quit     chan struct{}
	done     chan struct{}
	quitOnce sync.Once

	store     Store
	saveEvery uint64

	PeekLatency *metrics.RotatingLatency
	PokeLatency *metrics.RotatingLatency
}

// A SerfOption configures a Serf.
type SerfOption func(*Serf)

// SaveEvery makes the Serf write a checkpoint to store after
// every n committed pokes. With n == 0 it saves only on request.
func SaveEvery(store Store, n uint64) SerfOption {
	return func(s *Serf) {
		s.store = store
		s.saveEvery = n
	}
}

type request struct {
	ctx   context.Context
	kind  string
	fn    func(ctx context.Context, k *Kernel) ([]byte, error)
	reply chan reply
}

type reply struct {
	b   []byte
	err error
}

// NewSerf starts a Serf for k. The caller must not use k again.
func NewSerf(ctx context.Context, k *Kernel, opts ...SerfOption) *Serf {
	s := &Serf{
		reqs:        make(chan request),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		PeekLatency: metrics.NewRotatingLatency(5, maxLatency),
		PokeLatency: metrics.NewRotatingLatency(5, maxLatency),
	}
	for _, o := range opts {
		o(s)
	}
	go s.run(ctx, k)
	return s
}

// Open boots the kernel in trap and restores the latest
// checkpoint in store, if there is one.
func Open(ctx context.Context, c *interp.Context, trap []byte, store Store) (*Kernel, error) {
	k, err := Boot(c, trap)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return k, nil
	}
	cp, err := store.Latest(ctx)
	if errors.Root(err) == ErrNoCheckpoint {
		log.Printkv(ctx, "boot", "fresh")
		return k, nil
	} else if err != nil {
		return nil, err
	}
	if err := k.Restore(cp); err != nil {
		return nil, err
	}
	log.Printkv(ctx, "boot", "restored", "event", k.Event())
	return k, nil
}

func (s *Serf) run(ctx context.Context, k *Kernel) {
	defer close(s.done)
	defer log.RecoverAndLogError(ctx)
	log.Printkv(ctx, "serf", "start", "event", k.Event())
	var dead error
	for {
		select {
		case <-s.quit:
			return
		case r := <-s.reqs:
			if dead != nil {
				r.reply <- reply{err: dead}
				continue
			}
			if err := r.ctx.Err(); err != nil {
				r.reply <- reply{err: errors.Wrap(err)}
				continue
			}
			b, err := r.fn(r.ctx, k)
			if interp.IsNonDeterministic(err) {
				dead = errors.Sub(ErrDead, err)
				log.Error(r.ctx, err, "kernel died in ", r.kind)
			} else if err != nil {
				log.Error(r.ctx, err, r.kind)
			}
			r.reply <- reply{b, err}
		}
	}
}

// do submits fn and waits for its result. Until the Serf takes
// the request, ctx being done abandons it. After that, a request
// that commits is always waited for; others are abandoned when ctx
// is done.
func (s *Serf) do(ctx context.Context, kind string, commits bool, fn func(context.Context, *Kernel) ([]byte, error)) ([]byte, error) {
	ctx = log.AddPrefixkv(reqid.Ensure(ctx), "kind", kind)
	r := request{ctx: ctx, kind: kind, fn: fn, reply: make(chan reply, 1)}
	select {
	case s.reqs <- r:
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err())
	}
	var cancel <-chan struct{}
	if !commits {
		cancel = ctx.Done()
	}
	select {
	case rep := <-r.reply:
		return rep.b, rep.err
	case <-s.done:
		// the reply, if any, is sent before done is closed
		select {
		case rep := <-r.reply:
			return rep.b, rep.err
		default:
			return nil, ErrClosed
		}
	case <-cancel:
		return nil, errors.Wrap(ctx.Err())
	}
}

// Peek answers the jammed path with the jam of the kernel's value.
func (s *Serf) Peek(ctx context.Context, path []byte) ([]byte, error) {
	defer s.PeekLatency.RecordSince(time.Now())
	return s.do(ctx, "peek", false, func(ctx context.Context, k *Kernel) ([]byte, error) {
		a := k.Context().Arena()
		a.PushFrame()
		defer a.PopFrame()
		p, err := a.Cue(path)
		if err != nil {
			return nil, err
		}
		res, err := k.Peek(p)
		if err != nil {
			return nil, err
		}
		return a.Jam(res), nil
	})
}

// Poke applies the jammed event and returns the jam of its
// effects. If ctx is done before the event commits, it is
// discarded and Poke returns the context's error; an event that
// committed is always reported as such.
func (s *Serf) Poke(ctx context.Context, event []byte) ([]byte, error) {
	defer s.PokeLatency.RecordSince(time.Now())
	return s.do(ctx, "poke", true, func(ctx context.Context, k *Kernel) ([]byte, error) {
		a := k.Context().Arena()
		depth := a.Depth()
		a.PushFrame()
		ev, err := a.Cue(event)
		if err != nil {
			a.PopTo(depth)
			return nil, err
		}
		// a committed poke compacts the arena, frames included
		effects, err := k.poke(ev, func() error { return errors.Wrap(ctx.Err()) })
		if err != nil {
			a.PopTo(depth)
			return nil, err
		}
		out := a.Jam(effects)
		if s.saveEvery > 0 && k.Event()%s.saveEvery == 0 {
			if err := s.save(ctx, k); err != nil {
				log.Error(ctx, err)
			}
		}
		return out, nil
	})
}

// Event returns the kernel's event counter.
func (s *Serf) Event(ctx context.Context) (uint64, error) {
	var ev uint64
	_, err := s.do(ctx, "event", false, func(ctx context.Context, k *Kernel) ([]byte, error) {
		ev = k.Event()
		return nil, nil
	})
	if err != nil {
		return 0, err
	}
	return ev, nil
}

// Save writes a checkpoint to the Serf's store.
func (s *Serf) Save(ctx context.Context) error {
	_, err := s.do(ctx, "save", true, func(ctx context.Context, k *Kernel) ([]byte, error) {
		return nil, s.save(ctx, k)
	})
	return err
}

func (s *Serf) save(ctx context.Context, k *Kernel) error {
	if s.store == nil {
		return ErrNoStore
	}
	cp, err := k.Checkpoint()
	if err != nil {
		return err
	}
	return s.store.Save(ctx, cp)
}

// Close stops the Serf and waits for its goroutine to exit.
// A request in progress completes first.
func (s *Serf) Close() {
	s.quitOnce.Do(func() { close(s.quit) })
	<-s.done
}
