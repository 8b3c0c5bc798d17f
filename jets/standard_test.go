package jets

import (
	"context"
	"testing"

	"nockchain/crypto/sha3pool"
	"nockchain/errors"
	"nockchain/noun"
)

func TestStandard(t *testing.T) {
	cases := []struct {
		jet     Jet
		sample  string
		want    string
		wantErr error
	}{
		{Dec, "5", "4", nil},
		{Dec, "0x1.0000.0000.0000.0000", "0xffff.ffff.ffff.ffff", nil},
		{Dec, "0", "", ErrExit},
		{Dec, "[1 2]", "", ErrExit},
		{Add, "[2 3]", "5", nil},
		{Add, "[0xffff.ffff.ffff.ffff 1]", "0x1.0000.0000.0000.0000", nil},
		{Add, "[[1 2] 3]", "", ErrExit},
		{Sub, "[10 3]", "7", nil},
		{Sub, "[3 10]", "", ErrExit},
		{Sub, "[0x1.0000.0000.0000.0000 1]", "0xffff.ffff.ffff.ffff", nil},
		{Mul, "[6 7]", "42", nil},
		{Mul, "[0x1.0000.0000 0x1.0000.0000]", "0x1.0000.0000.0000.0000", nil},
		{Div, "[7 2]", "3", nil},
		{Div, "[7 0]", "", ErrExit},
		{Mod, "[7 2]", "1", nil},
		{Mod, "[7 0]", "", ErrExit},
		{Lth, "[1 2]", "0", nil},
		{Lth, "[2 2]", "1", nil},
		{Lte, "[2 2]", "0", nil},
		{Gth, "[3 2]", "0", nil},
		{Gth, "[2 0x1.0000.0000.0000.0000]", "1", nil},
		{Gte, "[2 3]", "1", nil},
		{Bex, "0", "1", nil},
		{Bex, "10", "1.024", nil},
		{Bex, "64", "0x1.0000.0000.0000.0000", nil},
		{Lsh, "[3 [1 1]]", "256", nil},
		{Lsh, "[0 [70 1]]", "0x40.0000.0000.0000.0000", nil},
		{Lsh, "[99 [99 0]]", "0", nil},
		{Rsh, "[3 [1 0x1ff]]", "1", nil},
		{Rsh, "[0 [64 0xffff]]", "0", nil},
		{Met, "[0 0]", "0", nil},
		{Met, "[0 255]", "8", nil},
		{Met, "[3 256]", "2", nil},
		{Met, "[99 256]", "1", nil},
		{Cut, "[3 [[1 1] 0x1234]]", "0x12", nil},
		{Cut, "[0 [[4 4] 0xf0]]", "15", nil},
		{Cut, "[3 [[5 1] 0x1234]]", "0", nil},
		{Mix, "[5 3]", "6", nil},
		{Dis, "[5 3]", "1", nil},
		{Con, "[5 3]", "7", nil},
		{Mix, "[0x1.0000.0000.0000.0000 1]", "0x1.0000.0000.0000.0001", nil},
		{Cap, "2", "2", nil},
		{Cap, "6", "3", nil},
		{Cap, "1", "", ErrExit},
		{Mas, "5", "3", nil},
		{Mas, "4", "2", nil},
		{Mas, "0", "", ErrExit},
	}
	for _, c := range cases {
		a := noun.NewArena(1 << 16)
		core := a.Cell(0, a.Cell(a.MustParse(c.sample), 0))
		got, err := c.jet(Env{Arena: a, Ctx: context.Background()}, core)
		if errors.Root(err) != c.wantErr {
			t.Errorf("%s: err = %v want %v", c.sample, err, c.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if want := a.MustParse(c.want); !a.Same(got, want) {
			t.Errorf("%s: got %s want %s", c.sample, a.String(got), c.want)
		}
	}
}

func TestShax(t *testing.T) {
	a := noun.NewArena(1 << 16)
	core := a.Cell(0, a.Cell(a.Cord("abc"), 0))
	got, err := Shax(Env{Arena: a}, core)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha3pool.Sum256([]byte("abc"))
	if want := a.BytesAtom(sum[:]); !a.Same(got, want) {
		t.Errorf("got %s want %s", a.String(got), a.String(want))
	}
}

func TestStandardPaths(t *testing.T) {
	h := NewHot(Standard()...)
	for _, name := range []string{"dec", "add", "cut", "shax"} {
		if _, ok := h.Lookup(Root+"/"+name, 2); !ok {
			t.Errorf("missing %s", name)
		}
	}
	if h.Len() != 21 {
		t.Errorf("Len() = %d want 21", h.Len())
	}
}

func TestBexPunt(t *testing.T) {
	a := noun.NewArena(1 << 16)
	core := a.Cell(0, a.Cell(a.MustParse("0x1.0000.0000"), 0))
	if _, err := Bex(Env{Arena: a}, core); err != ErrPunt {
		t.Errorf("err = %v want %v", err, ErrPunt)
	}
}
