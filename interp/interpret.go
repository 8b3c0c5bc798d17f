package interp

import (
	"github.com/codahale/metrics"

	"nockchain/errors"
	"nockchain/noun"
)

// Interpret evaluates formula against subject.
//
// The result is allocated in the arena frame that was current on
// entry. On failure the arena is returned to its entry depth and the
// error is an *Error. Running out of arena space is reported as a
// nondeterministic %meme failure. Batteries registered by %fast during
// a failed computation stay registered.
func (c *Context) Interpret(subject, formula noun.Noun) (res noun.Noun, err error) {
	c.hot.Seal()
	a := c.arena
	depth := a.Depth()
	base := len(c.traces)
	m := &machine{c: c, a: a, traceBase: base}
	a.PushFrame()
	defer func() {
		if r := recover(); r != nil {
			ae, ok := r.(*noun.AllocationError)
			if !ok {
				c.traces = c.traces[:base]
				a.PopTo(depth)
				panic(r)
			}
			err = &Error{Kind: NonDeterministic, Mote: Meme, Trace: c.renderTrace(base), Err: ae}
		}
		c.traces = c.traces[:base]
		if err != nil {
			metrics.Counter("interp.fail").Add()
			a.PopTo(depth)
			res = 0
			return
		}
		a.PopTo(depth + 1)
		a.PopFrame(&res)
	}()
	return m.run(subject, formula)
}

// Kick evaluates the arm at axis of core.
func (c *Context) Kick(core noun.Noun, axis uint64) (noun.Noun, error) {
	return c.Interpret(core, c.arena.Tuple(9, c.arena.Atom(axis), 0, 1))
}

// Slam calls gate with sample: it replaces the gate's sample and
// kicks its arm at 2.
func (c *Context) Slam(gate, sample noun.Noun) (noun.Noun, error) {
	a := c.arena
	bat, pay, ok := a.AsCell(gate)
	if !ok {
		return 0, c.fail(errors.WithDetail(ErrFormula, "slam of atom"))
	}
	_, ctx, ok := a.AsCell(pay)
	if !ok {
		return 0, c.fail(errors.WithDetail(ErrFormula, "gate without sample"))
	}
	return c.Kick(a.Cell(bat, a.Cell(sample, ctx)), 2)
}

func (c *Context) fail(err error) *Error {
	return &Error{Kind: Deterministic, Mote: Exit, Err: err}
}

type machine struct {
	c         *Context
	a         *noun.Arena
	stack     []work
	res       noun.Noun
	traceBase int
	steps     uint64
}

// work is one pending step of an evaluation. step runs with the
// work item on top of the stack and m.res holding the product of
// the last completed evaluation.
type work interface {
	step(m *machine) error
}

func (m *machine) push(w work) { m.stack = append(m.stack, w) }

func (m *machine) pop() { m.stack = m.stack[:len(m.stack)-1] }

// replace swaps the top of the stack for w.
func (m *machine) replace(w work) { m.stack[len(m.stack)-1] = w }

func (m *machine) eval(subject, formula noun.Noun) {
	m.push(&evalWork{subject: subject, formula: formula})
}

// tail replaces the top of the stack with an evaluation
// whose product is the product of the current work item.
func (m *machine) tail(subject, formula noun.Noun) {
	m.pop()
	m.eval(subject, formula)
}

// enter opens an arena frame for a call, unless the caller's own
// frame would be popped immediately after it.
func (m *machine) enter() {
	if n := len(m.stack); n > 0 {
		if _, ok := m.stack[n-1].(*retWork); !ok {
			m.a.PushFrame()
			m.push(&retWork{})
		}
	}
}

func (m *machine) exit(err error) error {
	return &Error{Kind: Deterministic, Mote: Exit, Trace: m.c.renderTrace(m.traceBase), Err: err}
}

func (m *machine) run(subject, formula noun.Noun) (noun.Noun, error) {
	m.eval(subject, formula)
	for len(m.stack) > 0 {
		if len(m.stack) > m.c.cfg.maxDepth {
			return 0, &Error{
				Kind:  NonDeterministic,
				Mote:  Meme,
				Trace: m.c.renderTrace(m.traceBase),
				Err:   errors.Sub(noun.ErrAllocation, errors.WithDetailf(ErrDepth, "depth %d", len(m.stack))),
			}
		}
		m.steps++
		if m.steps&0xffff == 0 && m.c.interrupted() {
			return 0, &Error{Kind: NonDeterministic, Mote: Intr, Trace: m.c.renderTrace(m.traceBase), Err: m.c.cfg.interrupt.Err()}
		}
		if err := m.stack[len(m.stack)-1].step(m); err != nil {
			return 0, err
		}
	}
	return m.res, nil
}
