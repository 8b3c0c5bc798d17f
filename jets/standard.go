package jets

import (
	"math/big"

	"nockchain/crypto/sha3pool"
	"nockchain/errors"
	"nockchain/math/checked"
	"nockchain/noun"
)

// Root is the label path of the standard library core.
const Root = "k.139"

// maxShift bounds the bit shifts jets will perform natively.
// Larger shifts punt to the interpreter.
const maxShift = 1 << 32

// Standard returns the native arithmetic and bit jets for the gates
// of the standard library core. Every gate takes its sample at axis 6;
// two-argument gates take [a b] at axes 12 and 13.
func Standard() []HotEntry {
	std := []struct {
		name string
		jet  Jet
	}{
		{"dec", Dec},
		{"add", Add},
		{"sub", Sub},
		{"mul", Mul},
		{"div", Div},
		{"mod", Mod},
		{"lth", Lth},
		{"lte", Lte},
		{"gth", Gth},
		{"gte", Gte},
		{"bex", Bex},
		{"lsh", Lsh},
		{"rsh", Rsh},
		{"met", Met},
		{"cut", Cut},
		{"mix", Mix},
		{"dis", Dis},
		{"con", Con},
		{"cap", Cap},
		{"mas", Mas},
		{"shax", Shax},
	}
	entries := make([]HotEntry, 0, len(std))
	for _, s := range std {
		entries = append(entries, HotEntry{Path: Root + "/" + s.name, Axis: 2, Jet: s.jet})
	}
	return entries
}

func atomAt(a *noun.Arena, core noun.Noun, axis uint64) (noun.Noun, error) {
	n, ok := a.SlotUint(core, axis)
	if !ok || n.IsCell() {
		return 0, errors.WithDetailf(ErrExit, "no atom at axis %d", axis)
	}
	return n, nil
}

func sample2(a *noun.Arena, core noun.Noun) (x, y noun.Noun, err error) {
	x, err = atomAt(a, core, 12)
	if err != nil {
		return 0, 0, err
	}
	y, err = atomAt(a, core, 13)
	return x, y, err
}

// small returns the uint64 values of x and y if both fit.
func small(a *noun.Arena, x, y noun.Noun) (uint64, uint64, bool) {
	xv, xok := a.Uint64(x)
	yv, yok := a.Uint64(y)
	return xv, yv, xok && yok
}

var one = big.NewInt(1)

// Dec returns its sample minus one. It fails on zero.
func Dec(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, err := atomAt(a, core, 6)
	if err != nil {
		return 0, err
	}
	if v, ok := a.Uint64(x); ok {
		if v == 0 {
			return 0, errors.WithDetail(ErrExit, "decrement of zero")
		}
		return a.Atom(v - 1), nil
	}
	return a.BigAtom(new(big.Int).Sub(a.Big(x), one)), nil
}

// Add returns a + b.
func Add(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	if xv, yv, ok := small(a, x, y); ok {
		if sum, ok := checked.AddUint64(xv, yv); ok {
			return a.Atom(sum), nil
		}
	}
	return a.BigAtom(new(big.Int).Add(a.Big(x), a.Big(y))), nil
}

// Sub returns a - b. It fails if b > a.
func Sub(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	if xv, yv, ok := small(a, x, y); ok {
		diff, ok := checked.SubUint64(xv, yv)
		if !ok {
			return 0, errors.WithDetail(ErrExit, "subtract underflow")
		}
		return a.Atom(diff), nil
	}
	d := new(big.Int).Sub(a.Big(x), a.Big(y))
	if d.Sign() < 0 {
		return 0, errors.WithDetail(ErrExit, "subtract underflow")
	}
	return a.BigAtom(d), nil
}

// Mul returns a * b.
func Mul(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	if xv, yv, ok := small(a, x, y); ok {
		if p, ok := checked.MulUint64(xv, yv); ok {
			return a.Atom(p), nil
		}
	}
	return a.BigAtom(new(big.Int).Mul(a.Big(x), a.Big(y))), nil
}

// Div returns a / b rounded down. It fails if b is zero.
func Div(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	if y == 0 {
		return 0, errors.WithDetail(ErrExit, "divide by zero")
	}
	if xv, yv, ok := small(a, x, y); ok {
		q, _ := checked.DivUint64(xv, yv)
		return a.Atom(q), nil
	}
	return a.BigAtom(new(big.Int).Quo(a.Big(x), a.Big(y))), nil
}

// Mod returns a mod b. It fails if b is zero.
func Mod(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	if y == 0 {
		return 0, errors.WithDetail(ErrExit, "modulus by zero")
	}
	if xv, yv, ok := small(a, x, y); ok {
		r, _ := checked.ModUint64(xv, yv)
		return a.Atom(r), nil
	}
	return a.BigAtom(new(big.Int).Rem(a.Big(x), a.Big(y))), nil
}

func compare(env Env, core noun.Noun, test func(c int) bool) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	var c int
	if xv, yv, ok := small(a, x, y); ok {
		switch {
		case xv < yv:
			c = -1
		case xv > yv:
			c = 1
		}
	} else {
		c = a.Big(x).Cmp(a.Big(y))
	}
	return noun.Loob(test(c)), nil
}

// Lth tests a < b.
func Lth(env Env, core noun.Noun) (noun.Noun, error) {
	return compare(env, core, func(c int) bool { return c < 0 })
}

// Lte tests a <= b.
func Lte(env Env, core noun.Noun) (noun.Noun, error) {
	return compare(env, core, func(c int) bool { return c <= 0 })
}

// Gth tests a > b.
func Gth(env Env, core noun.Noun) (noun.Noun, error) {
	return compare(env, core, func(c int) bool { return c > 0 })
}

// Gte tests a >= b.
func Gte(env Env, core noun.Noun) (noun.Noun, error) {
	return compare(env, core, func(c int) bool { return c >= 0 })
}

// Bex returns 2^a.
func Bex(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, err := atomAt(a, core, 6)
	if err != nil {
		return 0, err
	}
	v, ok := a.Uint64(x)
	if !ok || v >= maxShift {
		return 0, ErrPunt
	}
	if v < 64 {
		return a.Atom(1 << v), nil
	}
	return a.BigAtom(new(big.Int).Lsh(one, uint(v))), nil
}

// bloqBits returns n blocks of 2^bloq bits, in bits.
func bloqBits(a *noun.Arena, bloq, n noun.Noun) (uint64, bool) {
	bv, bok := a.Uint64(bloq)
	nv, nok := a.Uint64(n)
	if !bok || !nok || bv >= 64 {
		return 0, n == 0
	}
	return checked.LshiftUint64(nv, bv)
}

// bloqSample reads [a [b c]], where a is a block size exponent.
func bloqSample(a *noun.Arena, core noun.Noun) (bloq, b, c noun.Noun, err error) {
	if bloq, err = atomAt(a, core, 12); err != nil {
		return
	}
	if b, err = atomAt(a, core, 26); err != nil {
		return
	}
	c, err = atomAt(a, core, 27)
	return
}

// Lsh shifts c left by b blocks of 2^a bits.
func Lsh(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	bloq, b, c, err := bloqSample(a, core)
	if err != nil {
		return 0, err
	}
	if c == 0 {
		return 0, nil
	}
	shift, ok := bloqBits(a, bloq, b)
	if !ok || shift >= maxShift {
		return 0, ErrPunt
	}
	return a.BigAtom(new(big.Int).Lsh(a.Big(c), uint(shift))), nil
}

// Rsh shifts c right by b blocks of 2^a bits.
func Rsh(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	bloq, b, c, err := bloqSample(a, core)
	if err != nil {
		return 0, err
	}
	shift, ok := bloqBits(a, bloq, b)
	if !ok || shift >= uint64(a.BitLen(c)) {
		return 0, nil
	}
	return a.BigAtom(new(big.Int).Rsh(a.Big(c), uint(shift))), nil
}

// Met returns the number of blocks of 2^a bits in b.
func Met(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	bloq, x, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	n := uint64(a.BitLen(x))
	if n == 0 {
		return 0, nil
	}
	bv, ok := a.Uint64(bloq)
	if !ok || bv >= 64 {
		return 1, nil
	}
	size := uint64(1) << bv
	return a.Atom((n + size - 1) / size), nil
}

// Cut takes c blocks of 2^a bits from d, starting at block b.
// Its sample is [a [[b c] d]].
func Cut(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	var ns [4]noun.Noun
	for i, axis := range []uint64{12, 52, 53, 27} {
		n, err := atomAt(a, core, axis)
		if err != nil {
			return 0, err
		}
		ns[i] = n
	}
	bloq, b, c, d := ns[0], ns[1], ns[2], ns[3]
	from, ok := bloqBits(a, bloq, b)
	if !ok || from >= uint64(a.BitLen(d)) {
		return 0, nil
	}
	x := new(big.Int).Rsh(a.Big(d), uint(from))
	width, ok := bloqBits(a, bloq, c)
	if ok && width < uint64(x.BitLen()) {
		mask := new(big.Int).Lsh(one, uint(width))
		x.And(x, mask.Sub(mask, one))
	}
	return a.BigAtom(x), nil
}

func bitwise(env Env, core noun.Noun, op func(x, y uint64) uint64, bop func(z, x, y *big.Int) *big.Int) (noun.Noun, error) {
	a := env.Arena
	x, y, err := sample2(a, core)
	if err != nil {
		return 0, err
	}
	if xv, yv, ok := small(a, x, y); ok {
		return a.Atom(op(xv, yv)), nil
	}
	return a.BigAtom(bop(new(big.Int), a.Big(x), a.Big(y))), nil
}

// Mix returns a xor b.
func Mix(env Env, core noun.Noun) (noun.Noun, error) {
	return bitwise(env, core, func(x, y uint64) uint64 { return x ^ y }, (*big.Int).Xor)
}

// Dis returns a and b.
func Dis(env Env, core noun.Noun) (noun.Noun, error) {
	return bitwise(env, core, func(x, y uint64) uint64 { return x & y }, (*big.Int).And)
}

// Con returns a or b.
func Con(env Env, core noun.Noun) (noun.Noun, error) {
	return bitwise(env, core, func(x, y uint64) uint64 { return x | y }, (*big.Int).Or)
}

func axisSample(a *noun.Arena, core noun.Noun) (noun.Noun, int, error) {
	x, err := atomAt(a, core, 6)
	if err != nil {
		return 0, 0, err
	}
	n := a.BitLen(x)
	if n < 2 {
		return 0, 0, errors.WithDetail(ErrExit, "axis below 2")
	}
	return x, n, nil
}

// Cap returns 2 or 3: the first step of the path named by axis a.
func Cap(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, n, err := axisSample(a, core)
	if err != nil {
		return 0, err
	}
	return noun.D(2 + uint64(a.Bit(x, n-2))), nil
}

// Mas returns axis a with its first step removed.
func Mas(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, n, err := axisSample(a, core)
	if err != nil {
		return 0, err
	}
	v := a.Big(x)
	v.SetBit(v, n-1, 0)
	v.SetBit(v, n-2, 1)
	return a.BigAtom(v), nil
}

// Shax returns the SHA3-256 digest of the bytes of its sample,
// read as a little-endian atom.
func Shax(env Env, core noun.Noun) (noun.Noun, error) {
	a := env.Arena
	x, err := atomAt(a, core, 6)
	if err != nil {
		return 0, err
	}
	sum := sha3pool.Sum256(a.Bytes(x))
	return a.BytesAtom(sum[:]), nil
}
