package interp

import (
	"github.com/codahale/metrics"

	"nockchain/errors"
	"nockchain/jets"
	"nockchain/log"
	"nockchain/noun"
)

// kickWork is opcode 9: [9 axis c] evaluates the arm at axis
// of the core produced by c.
type kickWork struct {
	todo                todo
	subject, axis, core noun.Noun
}

func (w *kickWork) step(m *machine) error {
	if w.todo == todoFirst {
		w.todo = todoSecond
		m.eval(w.subject, w.core)
		return nil
	}
	m.pop()
	return m.kick(m.res, w.axis)
}

// kick runs the arm at axis of core, natively if the call site
// resolves to a jet.
func (m *machine) kick(core, axis noun.Noun) error {
	a := m.a
	arm, err := a.Slot(core, axis)
	if err != nil {
		return m.exit(err)
	}
	m.enter()

	ax, ok := a.Uint64(axis)
	if !ok {
		m.eval(core, arm)
		return nil
	}
	site := m.c.warm.Find(a, core, ax)
	if site.Decision != jets.Accelerated {
		m.eval(core, arm)
		return nil
	}

	test := site.Test || m.c.cfg.testJets
	out, err := m.c.runJet(site, core)
	switch {
	case err == nil && test:
		m.push(&verifyWork{path: site.Path, expected: out})
	case err == nil:
		m.res = out
		return nil
	case errors.Root(err) == jets.ErrPunt:
		metrics.Counter("jets.punt").Add()
	case test:
		m.push(&verifyWork{path: site.Path, jetErr: err})
	default:
		return m.exit(errors.Wrap(err, site.Path))
	}
	m.eval(core, arm)
	return nil
}

func (c *Context) runJet(site *jets.Site, core noun.Noun) (out noun.Noun, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if ae, ok := r.(*noun.AllocationError); ok {
			panic(ae)
		}
		log.Printkv(c.cfg.logCtx, "jet", site.Path, "panic", r)
		err = errors.WithDetailf(ErrJetPanic, "%s: %v", site.Path, r)
	}()
	return site.Jet(c.jetEnv(), core)
}

// verifyWork compares a jet's product with the product
// of interpreting the same arm.
// If the jet failed, jetErr is set and any product is a mismatch.
type verifyWork struct {
	path     string
	expected noun.Noun
	jetErr   error
}

func (w *verifyWork) step(m *machine) error {
	m.pop()
	metrics.Counter("jets.verify").Add()
	got := m.res
	var jet string
	if w.jetErr != nil {
		jet = w.jetErr.Error()
	} else if m.a.Equal(&w.expected, &got) {
		m.res = got
		return nil
	} else {
		jet = m.a.Format(w.expected, 128)
	}
	return &Error{
		Kind:  NonDeterministic,
		Mote:  Jest,
		Trace: m.c.renderTrace(m.traceBase),
		Err:   errors.WithDetailf(ErrJetMismatch, "%s: jet %s, nock %s", w.path, jet, m.a.Format(got, 128)),
	}
}
