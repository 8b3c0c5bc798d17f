package noun

import (
	"math/big"
	"strings"
	"unicode"

	"nockchain/errors"
)

// Format renders n in the conventional bracket syntax: atoms in
// decimal, cells as [a b c] with right-nested tails flattened.
// Output longer than max bytes is truncated with "..." (max <= 0
// means no limit).
func (a *Arena) Format(n Noun, max int) string {
	var sb strings.Builder
	type item struct {
		n      Noun
		text   string // emitted verbatim when n is unused
		inTail bool
	}
	stack := []item{{n: n}}
	for len(stack) > 0 {
		if max > 0 && sb.Len() > max {
			s := sb.String()[:max]
			return s + "..."
		}
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if it.text != "" {
			sb.WriteString(it.text)
			continue
		}
		if it.n.IsAtom() {
			sb.WriteString(a.bigRef(it.n).String())
			continue
		}
		c := a.cellAt(it.n)
		if !it.inTail {
			sb.WriteByte('[')
			stack = append(stack, item{text: "]"})
		}
		// the tail continues the same bracket when it is a cell
		stack = append(stack, item{n: c.tail, inTail: c.tail.IsCell()}, item{text: " "}, item{n: c.head})
	}
	s := sb.String()
	if max > 0 && len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

// String renders n without a length limit.
func (a *Arena) String(n Noun) string {
	return a.Format(n, 0)
}

// Parse reads a noun written in bracket syntax. Atoms may be
// decimal with optional dot separators (1.000), hexadecimal with a
// 0x prefix, %term or 'text' (both denote the atom whose bytes are
// the text). Brackets nest right: [a b c] is [a [b c]].
func (a *Arena) Parse(s string) (Noun, error) {
	p := &parser{a: a, s: s}
	n, err := p.noun()
	if err != nil {
		return 0, err
	}
	p.space()
	if p.i != len(p.s) {
		return 0, p.errorf("unexpected %q", p.s[p.i:])
	}
	return n, nil
}

// MustParse is like Parse but panics on error.
// It is intended for constants and tests.
func (a *Arena) MustParse(s string) Noun {
	n, err := a.Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	a *Arena
	s string
	i int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.WithDetailf(ErrParse, "at %d: "+format, append([]interface{}{p.i}, args...)...)
}

func (p *parser) space() {
	for p.i < len(p.s) && unicode.IsSpace(rune(p.s[p.i])) {
		p.i++
	}
}

// noun parses one noun. Nested brackets are handled with an
// explicit stack of open lists.
func (p *parser) noun() (Noun, error) {
	var open [][]Noun
	for {
		p.space()
		if p.i >= len(p.s) {
			return 0, p.errorf("unexpected end of input")
		}
		var n Noun
		switch c := p.s[p.i]; {
		case c == '[':
			p.i++
			open = append(open, nil)
			continue
		case c == ']':
			if len(open) == 0 {
				return 0, p.errorf("unbalanced ]")
			}
			p.i++
			items := open[len(open)-1]
			open = open[:len(open)-1]
			if len(items) < 2 {
				return 0, p.errorf("cell needs two elements")
			}
			n = p.a.Tuple(items...)
		default:
			var err error
			n, err = p.atom()
			if err != nil {
				return 0, err
			}
		}
		if len(open) == 0 {
			return n, nil
		}
		open[len(open)-1] = append(open[len(open)-1], n)
	}
}

func (p *parser) atom() (Noun, error) {
	start := p.i
	switch c := p.s[p.i]; {
	case c == '%':
		p.i++
		for p.i < len(p.s) && isTermChar(p.s[p.i]) {
			p.i++
		}
		return p.a.Cord(p.s[start+1 : p.i]), nil
	case c == '\'':
		end := strings.IndexByte(p.s[p.i+1:], '\'')
		if end < 0 {
			return 0, p.errorf("unterminated cord")
		}
		text := p.s[p.i+1 : p.i+1+end]
		p.i += end + 2
		return p.a.Cord(text), nil
	case c >= '0' && c <= '9':
		for p.i < len(p.s) && (isTermChar(p.s[p.i]) || p.s[p.i] == '.') {
			p.i++
		}
		lit := strings.Replace(p.s[start:p.i], ".", "", -1)
		x, ok := new(big.Int).SetString(lit, 0)
		if !ok || x.Sign() < 0 {
			return 0, p.errorf("bad atom %q", lit)
		}
		return p.a.BigAtom(x), nil
	}
	return 0, p.errorf("unexpected %q", p.s[p.i])
}

func isTermChar(c byte) bool {
	return c == '-' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
