package jets

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"nockchain/errors"
	"nockchain/noun"
)

// Label renders a %fast chum: a cord becomes its text and a
// [term version] cell becomes "term.version".
func Label(a *noun.Arena, chum noun.Noun) (string, error) {
	if chum.IsAtom() {
		return cordText(a, chum)
	}
	h, t, _ := a.AsCell(chum)
	if h.IsCell() || t.IsCell() {
		return "", errors.WithDetail(ErrBadClue, "chum")
	}
	term, err := cordText(a, h)
	if err != nil {
		return "", err
	}
	v, ok := a.Uint64(t)
	if !ok {
		return "", errors.WithDetail(ErrBadClue, "chum version")
	}
	return term + "." + strconv.FormatUint(v, 10), nil
}

func cordText(a *noun.Arena, n noun.Noun) (string, error) {
	b := a.Bytes(n)
	if len(b) == 0 || !utf8.Valid(b) || strings.ContainsAny(string(b), "/ ") {
		return "", errors.WithDetailf(ErrBadClue, "label %s", a.String(n))
	}
	return string(b), nil
}

// ParseClue splits a %fast clue [chum parent-formula hooks] into its
// label and parent axis. The parent formula is [1 0] for a root core
// or [0 axis] for a core whose parent sits at axis.
func ParseClue(a *noun.Arena, clue noun.Noun) (label string, parentAxis uint64, err error) {
	chum, pf, _, ok := a.Tuple3(clue)
	if !ok {
		return "", 0, errors.WithDetail(ErrBadClue, "not a triple")
	}
	label, err = Label(a, chum)
	if err != nil {
		return "", 0, err
	}
	op, arg, ok := a.AsCell(pf)
	switch {
	case ok && op == 1 && arg == 0:
		return label, 0, nil
	case ok && op == 0:
		axis, small := a.Uint64(arg)
		if small && axis > 1 {
			return label, axis, nil
		}
	}
	return "", 0, errors.WithDetailf(ErrBadClue, "parent formula %s", a.Format(pf, 64))
}
