package interp

import (
	"time"

	"github.com/codahale/metrics"

	"nockchain/errors"
	"nockchain/jets"
	"nockchain/log"
	"nockchain/noun"
)

// tas returns the atom whose bytes are s. s must be at most 7 bytes.
func tas(s string) noun.Noun {
	var v uint64
	for i := len(s) - 1; i >= 0; i-- {
		v = v<<8 | uint64(s[i])
	}
	return noun.D(v)
}

var (
	tagMemo = tas("memo")
	tagFast = tas("fast")
	tagSlog = tas("slog")
	tagBout = tas("bout")
	tagHela = tas("hela")

	traceTags = map[noun.Noun]bool{
		tas("hunk"): true,
		tas("hand"): true,
		tas("lose"): true,
		tas("mean"): true,
		tas("spot"): true,
	}
)

// hint starts opcode 11. A static hint [11 tag c] is c.
// A dynamic hint [11 [tag clue] c] evaluates clue, which may
// crash, and then c.
func (m *machine) hint(subject, arg noun.Noun) error {
	a := m.a
	h, body, ok := a.AsCell(arg)
	if !ok {
		return m.exit(errors.WithDetail(ErrFormula, "opcode 11"))
	}
	if h.IsAtom() {
		m.tail(subject, body)
		return nil
	}
	tag, clue := a.Head(h), a.Tail(h)
	m.replace(&hintWork{subject: subject, tag: tag, clue: clue, body: body})
	return nil
}

type hintWork struct {
	todo                todo
	subject, tag        noun.Noun
	clue, body, product noun.Noun
	start               time.Time
}

func (w *hintWork) step(m *machine) error {
	c := m.c
	switch w.todo {
	case todoFirst:
		w.todo = todoSecond
		m.eval(w.subject, w.clue)
		return nil
	case todoThird:
		m.pop()
		w.finish(m)
		return nil
	}

	w.product = m.res
	if !c.cfg.hints {
		m.tail(w.subject, w.body)
		return nil
	}
	switch {
	case w.tag == tagMemo && c.memo != nil:
		if v, ok := c.memo.get(m.a, w.subject, w.body); ok {
			metrics.Counter("interp.memo.hit").Add()
			m.pop()
			m.res = v
			return nil
		}
	case w.tag == tagFast:
	case w.tag == tagBout:
		w.start = timeNow()
	case traceTags[w.tag]:
		c.traces = append(c.traces, trace{tag: w.tag, clue: w.product})
	case w.tag == tagSlog:
		c.slogf(w.product)
		m.tail(w.subject, w.body)
		return nil
	case w.tag == tagHela:
		for _, f := range c.renderTrace(m.traceBase) {
			log.Printkv(c.cfg.logCtx, "hint", "hela", "trace", f.String())
		}
		m.tail(w.subject, w.body)
		return nil
	default:
		m.tail(w.subject, w.body)
		return nil
	}
	w.todo = todoThird
	m.eval(w.subject, w.body)
	return nil
}

// finish runs after the hinted formula has produced m.res.
func (w *hintWork) finish(m *machine) {
	c := m.c
	switch {
	case w.tag == tagMemo:
		c.memo.put(m.a, w.subject, w.body, m.res)
	case w.tag == tagFast:
		c.register(w.product, m.res)
	case w.tag == tagBout:
		log.Printkv(c.cfg.logCtx, "hint", "bout", "elapsed", timeNow().Sub(w.start))
	case traceTags[w.tag]:
		c.traces = c.traces[:len(c.traces)-1]
	}
}

func (c *Context) slogf(clue noun.Noun) {
	if !c.slog.Allow() {
		metrics.Counter("interp.slog.dropped").Add()
		return
	}
	a := c.arena
	priority, tank := noun.Noun(0), clue
	if h, t, ok := a.AsCell(clue); ok && h.IsAtom() {
		priority, tank = h, t
	}
	log.Printkv(c.cfg.logCtx, "hint", "slog", "priority", a.String(priority), "tank", a.Format(tank, 1024))
}

// register records the core produced under a %fast hint.
// A bad clue is logged and otherwise ignored.
func (c *Context) register(clue, core noun.Noun) {
	label, parent, err := jets.ParseClue(c.arena, clue)
	if err == nil {
		var added bool
		added, err = c.cold.Register(c.arena, core, label, parent)
		if added {
			metrics.Counter("jets.cold").Add()
		}
	}
	if err != nil {
		log.Error(c.cfg.logCtx, err, "fast hint")
	}
}
