package interp

import (
	"math/big"

	"nockchain/errors"
	"nockchain/noun"
)

type todo uint8

const (
	todoFirst todo = iota
	todoSecond
	todoThird
)

type evalWork struct {
	subject, formula noun.Noun
}

func (w *evalWork) step(m *machine) error {
	a := m.a
	op, arg, ok := a.AsCell(w.formula)
	if !ok {
		return m.exit(errors.WithDetailf(ErrFormula, "atom %s", a.Format(w.formula, 64)))
	}
	if op.IsCell() {
		m.replace(&consWork{subject: w.subject, head: op, tail: arg})
		return nil
	}
	s := w.subject
	switch op {
	case 0:
		v, err := a.Slot(s, arg)
		if err != nil {
			return m.exit(err)
		}
		m.pop()
		m.res = v
		return nil
	case 1:
		m.pop()
		m.res = arg
		return nil
	case 3, 4:
		m.replace(&unaryWork{op: op, subject: s, arg: arg})
		return nil
	case 7:
		m.replace(&composeWork{subject: s, arg: arg, push: false})
		return nil
	case 8:
		m.replace(&composeWork{subject: s, arg: arg, push: true})
		return nil
	case 11:
		return m.hint(s, arg)
	}

	b, c, ok := a.AsCell(arg)
	if !ok {
		return m.exit(errors.WithDetailf(ErrFormula, "opcode %d", uint64(op)))
	}
	switch op {
	case 2:
		m.replace(&evalOpWork{subject: s, b: b, c: c})
	case 5:
		m.replace(&equalWork{subject: s, b: b, c: c})
	case 6:
		t, f, ok := a.AsCell(c)
		if !ok {
			return m.exit(errors.WithDetail(ErrFormula, "opcode 6"))
		}
		m.replace(&ifWork{subject: s, test: b, yes: t, no: f})
	case 9:
		if b.IsCell() {
			return m.exit(errors.WithDetail(ErrFormula, "opcode 9 axis"))
		}
		m.replace(&kickWork{subject: s, axis: b, core: c})
	case 10:
		axis, v, ok := a.AsCell(b)
		if !ok || axis.IsCell() {
			return m.exit(errors.WithDetail(ErrFormula, "opcode 10"))
		}
		m.replace(&editWork{subject: s, axis: axis, value: v, target: c})
	case 12:
		m.replace(&scryWork{subject: s, ref: b, path: c})
	default:
		return m.exit(errors.WithDetailf(ErrFormula, "opcode %s", a.Format(op, 32)))
	}
	return nil
}

// consWork evaluates [b c] against the subject into a cell.
type consWork struct {
	todo             todo
	subject          noun.Noun
	head, tail, hres noun.Noun
}

func (w *consWork) step(m *machine) error {
	switch w.todo {
	case todoFirst:
		w.todo = todoSecond
		m.eval(w.subject, w.head)
	case todoSecond:
		w.hres = m.res
		w.todo = todoThird
		m.eval(w.subject, w.tail)
	case todoThird:
		m.pop()
		m.res = m.a.Cell(w.hres, m.res)
	}
	return nil
}

// unaryWork is opcode 3 (cell test) or 4 (increment).
type unaryWork struct {
	todo         todo
	op           noun.Noun
	subject, arg noun.Noun
}

var one = big.NewInt(1)

func (w *unaryWork) step(m *machine) error {
	if w.todo == todoFirst {
		w.todo = todoSecond
		m.eval(w.subject, w.arg)
		return nil
	}
	m.pop()
	if w.op == 3 {
		m.res = noun.Loob(m.res.IsCell())
		return nil
	}
	if m.res.IsCell() {
		return m.exit(errors.WithDetail(ErrCrash, "increment of cell"))
	}
	if v, ok := m.a.Uint64(m.res); ok && v < 1<<64-1 {
		m.res = m.a.Atom(v + 1)
		return nil
	}
	m.res = m.a.BigAtom(new(big.Int).Add(m.a.Big(m.res), one))
	return nil
}

// evalOpWork is opcode 2: [2 b c] evaluates the product of c
// against the product of b.
type evalOpWork struct {
	todo          todo
	subject, b, c noun.Noun
	s2            noun.Noun
}

func (w *evalOpWork) step(m *machine) error {
	switch w.todo {
	case todoFirst:
		w.todo = todoSecond
		m.eval(w.subject, w.b)
	case todoSecond:
		w.s2 = m.res
		w.todo = todoThird
		m.eval(w.subject, w.c)
	case todoThird:
		m.pop()
		m.enter()
		m.eval(w.s2, m.res)
	}
	return nil
}

// equalWork is opcode 5.
type equalWork struct {
	todo          todo
	subject, b, c noun.Noun
	x             noun.Noun
}

func (w *equalWork) step(m *machine) error {
	switch w.todo {
	case todoFirst:
		w.todo = todoSecond
		m.eval(w.subject, w.b)
	case todoSecond:
		w.x = m.res
		w.todo = todoThird
		m.eval(w.subject, w.c)
	case todoThird:
		m.pop()
		y := m.res
		m.res = noun.Loob(m.a.Equal(&w.x, &y))
	}
	return nil
}

// ifWork is opcode 6.
type ifWork struct {
	todo          todo
	subject, test noun.Noun
	yes, no       noun.Noun
}

func (w *ifWork) step(m *machine) error {
	if w.todo == todoFirst {
		w.todo = todoSecond
		m.eval(w.subject, w.test)
		return nil
	}
	switch m.res {
	case noun.Yes:
		m.tail(w.subject, w.yes)
	case noun.No:
		m.tail(w.subject, w.no)
	default:
		return m.exit(errors.WithDetailf(ErrCrash, "condition %s", m.a.Format(m.res, 64)))
	}
	return nil
}

// composeWork is opcode 7, or 8 when push is set.
type composeWork struct {
	todo         todo
	push         bool
	subject, arg noun.Noun
}

func (w *composeWork) step(m *machine) error {
	b, c, ok := m.a.AsCell(w.arg)
	if !ok {
		return m.exit(errors.WithDetail(ErrFormula, "compose"))
	}
	if w.todo == todoFirst {
		w.todo = todoSecond
		m.eval(w.subject, b)
		return nil
	}
	s := m.res
	if w.push {
		s = m.a.Cell(m.res, w.subject)
	}
	m.tail(s, c)
	return nil
}

// editWork is opcode 10: [10 [axis value] target].
type editWork struct {
	todo                   todo
	subject, axis          noun.Noun
	value, target, product noun.Noun
}

func (w *editWork) step(m *machine) error {
	switch w.todo {
	case todoFirst:
		w.todo = todoSecond
		m.eval(w.subject, w.value)
	case todoSecond:
		w.product = m.res
		w.todo = todoThird
		m.eval(w.subject, w.target)
	case todoThird:
		m.pop()
		v, err := m.a.Edit(m.res, w.axis, w.product)
		if err != nil {
			return m.exit(err)
		}
		m.res = v
	}
	return nil
}

// scryWork is opcode 12.
type scryWork struct {
	todo               todo
	subject, ref, path noun.Noun
	refv               noun.Noun
}

func (w *scryWork) step(m *machine) error {
	switch w.todo {
	case todoFirst:
		w.todo = todoSecond
		m.eval(w.subject, w.ref)
	case todoSecond:
		w.refv = m.res
		w.todo = todoThird
		m.eval(w.subject, w.path)
	case todoThird:
		m.pop()
		h := m.c.cfg.scry
		if h == nil {
			return m.exit(ErrNoScry)
		}
		v, err := h(m.a, w.refv, m.res)
		if errors.Is(err, ErrBlocked) {
			return &Error{Kind: NonDeterministic, Mote: Fail, Trace: m.c.renderTrace(m.traceBase), Err: err}
		}
		if err != nil {
			return m.exit(err)
		}
		m.res = v
	}
	return nil
}

// retWork closes the frame opened for a call,
// keeping the call's product.
type retWork struct{}

func (w *retWork) step(m *machine) error {
	m.pop()
	m.a.PopFrame(&m.res)
	return nil
}
