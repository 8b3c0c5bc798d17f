package interp

import (
	"context"
	"testing"

	"nockchain/errors"
	"nockchain/jets"
	"nockchain/noun"
	"nockchain/testutil"
)

// decFormula decrements its subject with a counting loop.
const decFormula = "[8 [1 0] 8 [1 6 [5 [0 7] 4 0 6] [0 6] 9 2 [0 2] [4 0 6] 0 7] 9 2 0 1]"

func eval(c *Context, subject, formula string) (noun.Noun, error) {
	a := c.Arena()
	return c.Interpret(a.MustParse(subject), a.MustParse(formula))
}

func TestOpcodes(t *testing.T) {
	cases := []struct {
		subject, formula, want string
	}{
		{"[[4 5] [6 14 15]]", "[0 7]", "[14 15]"},
		{"[[4 5] [6 14 15]]", "[0 1]", "[[4 5] [6 14 15]]"},
		{"42", "[1 153 218]", "[153 218]"},
		{"42", "[2 [0 1] [1 4 0 1]]", "43"},
		{"42", "[3 0 1]", "1"},
		{"[1 2]", "[3 0 1]", "0"},
		{"41", "[4 0 1]", "42"},
		{"0xffff.ffff.ffff.ffff", "[4 0 1]", "0x1.0000.0000.0000.0000"},
		{"[1 1]", "[5 [0 2] [0 3]]", "0"},
		{"[1 2]", "[5 [0 2] [0 3]]", "1"},
		{"[[1 2] [1 2]]", "[5 [0 2] [0 3]]", "0"},
		{"42", "[6 [1 0] [1 11] [1 12]]", "11"},
		{"42", "[6 [1 1] [1 11] [1 12]]", "12"},
		{"42", "[7 [4 0 1] [4 0 1]]", "44"},
		{"42", "[8 [1 0] [0 1]]", "[0 42]"},
		{"[[4 0 3] 41]", "[9 2 0 1]", "42"},
		{"[1 2]", "[10 [2 [1 9]] [0 1]]", "[9 2]"},
		{"[1 2 3]", "[10 [7 [1 9]] [0 1]]", "[1 2 9]"},
		{"42", "[11 %foo [1 5]]", "5"},
		{"42", "[11 [%foo [1 1]] [1 5]]", "5"},
		{"42", "[[1 1] [4 0 1]]", "[1 43]"},
		{"42", decFormula, "41"},
		{"[1 2]", "[[0 3] [0 2]]", "[2 1]"},
	}
	for _, tc := range cases {
		c := New(noun.NewArena(1<<20), nil)
		got, err := eval(c, tc.subject, tc.formula)
		if err != nil {
			t.Errorf("*[%s %s]: %v", tc.subject, tc.formula, err)
			continue
		}
		testutil.ExpectNoun(t, c.Arena(), got, tc.want, tc.subject+" "+tc.formula)
	}
}

func TestExit(t *testing.T) {
	cases := []struct {
		subject, formula string
		cause            error
	}{
		{"42", "[0 0]", noun.ErrAxis},
		{"[1 2]", "[0 4]", noun.ErrAxis},
		{"[1 2]", "[0 [1 2]]", noun.ErrAxis},
		{"42", "42", ErrFormula},
		{"42", "[3 0]", ErrFormula},
		{"42", "[6 [1 2] [1 3] [1 4]]", ErrCrash},
		{"42", "[4 1 [1 2]]", ErrCrash},
		{"42", "[13 0 1]", ErrFormula},
		{"42", "[12 [1 0] [1 0]]", ErrNoScry},
		{"42", "[11 [%foo [0 0]] [1 5]]", noun.ErrAxis},
		{"42", "[9 2 0 1]", noun.ErrAxis},
		{"42", "[10 [0 [1 1]] [0 1]]", noun.ErrAxis},
		{"42", "[2 [0 1] [1 0 2]]", noun.ErrAxis},
	}
	for _, tc := range cases {
		a := noun.NewArena(1 << 16)
		c := New(a, nil)
		before := a.Mark()
		_, err := eval(c, tc.subject, tc.formula)
		var e *Error
		if !errors.As(err, &e) {
			t.Errorf("*[%s %s]: err = %v, want *Error", tc.subject, tc.formula, err)
			continue
		}
		if e.Kind != Deterministic || e.Mote != Exit {
			t.Errorf("*[%s %s]: %v %v, want deterministic exit", tc.subject, tc.formula, e.Kind, e.Mote)
		}
		if !errors.Is(err, tc.cause) {
			t.Errorf("*[%s %s]: err = %v, want cause %v", tc.subject, tc.formula, err, tc.cause)
		}
		if !IsDeterministic(err) || IsNonDeterministic(err) {
			t.Errorf("*[%s %s]: classification wrong", tc.subject, tc.formula)
		}
		after := a.Mark()
		// the parsed subject and formula stay allocated
		if after.Depth != before.Depth {
			t.Errorf("*[%s %s]: depth %d want %d", tc.subject, tc.formula, after.Depth, before.Depth)
		}
	}
}

func TestFailureRestoresArena(t *testing.T) {
	a := noun.NewArena(1 << 16)
	c := New(a, nil)
	subject := a.MustParse("[1 2]")
	formula := a.MustParse("[[[4 0 2] [4 0 2]] 0 9]")
	before := a.Mark()
	_, err := c.Interpret(subject, formula)
	if !IsDeterministic(err) {
		t.Fatalf("err = %v", err)
	}
	testutil.ExpectEqual(t, a.Mark(), before, "mark after failure")

	res, err := c.Interpret(subject, a.MustParse("[4 0 2]"))
	if err != nil {
		t.Fatal(err)
	}
	if res != 2 || a.Depth() != before.Depth {
		t.Errorf("res = %d depth = %d", res, a.Depth())
	}
}

func TestLongLoop(t *testing.T) {
	c := New(noun.NewArena(1<<24), nil, WithMaxDepth(64))
	got, err := eval(c, "100.000", decFormula)
	if err != nil {
		t.Fatal(err)
	}
	testutil.ExpectNoun(t, c.Arena(), got, "99.999", "dec 100.000")
}

func TestDepthExhausted(t *testing.T) {
	a := noun.NewArena(1 << 20)
	c := New(a, nil, WithMaxDepth(1000))
	// the arm increments the product of kicking itself
	core := a.MustParse("[[4 9 2 0 1] 0]")
	_, err := c.Kick(core, 2)
	var e *Error
	if !errors.As(err, &e) || e.Kind != NonDeterministic || e.Mote != Meme {
		t.Fatalf("err = %v, want nondeterministic %%meme", err)
	}
	if !errors.Is(err, noun.ErrAllocation) {
		t.Errorf("err = %v, want allocation failure", err)
	}
	if a.Depth() != 0 {
		t.Errorf("depth = %d want 0", a.Depth())
	}
}

func TestArenaExhausted(t *testing.T) {
	a := noun.NewArena(1 << 12)
	c := New(a, nil)
	// a trap that doubles its payload forever
	core := a.MustParse("[[9 2 [0 2] [0 3] 0 3] 0]")
	formula := a.MustParse("[9 2 0 1]")
	before := a.Mark()
	_, err := c.Interpret(core, formula)
	var e *Error
	if !errors.As(err, &e) || e.Kind != NonDeterministic || e.Mote != Meme {
		t.Fatalf("err = %v, want nondeterministic %%meme", err)
	}
	if !errors.Is(err, noun.ErrAllocation) {
		t.Errorf("err = %v, want allocation failure", err)
	}
	testutil.ExpectEqual(t, a.Mark(), before, "mark after exhaustion")
}

func TestInterrupt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := noun.NewArena(1 << 16)
	c := New(a, nil, WithInterrupt(ctx))
	// a trap that loops forever without allocating
	core := a.MustParse("[[9 2 0 1] 0]")
	_, err := c.Kick(core, 2)
	var e *Error
	if !errors.As(err, &e) || e.Mote != Intr || e.Kind != NonDeterministic {
		t.Fatalf("err = %v, want nondeterministic %%intr", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestScry(t *testing.T) {
	handler := func(a *noun.Arena, ref, path noun.Noun) (noun.Noun, error) {
		if path == 0 {
			return 0, errors.WithDetail(ErrBlocked, "path 0")
		}
		return a.Cell(ref, path), nil
	}
	c := New(noun.NewArena(1<<16), nil, WithScry(handler))
	got, err := eval(c, "42", "[12 [1 1] [4 0 1]]")
	if err != nil {
		t.Fatal(err)
	}
	testutil.ExpectNoun(t, c.Arena(), got, "[1 43]", "scry")

	_, err = eval(c, "42", "[12 [1 1] [1 0]]")
	var e *Error
	if !errors.As(err, &e) || e.Mote != Fail || e.Kind != NonDeterministic {
		t.Errorf("blocked scry err = %v, want nondeterministic %%fail", err)
	}
}

func TestKickAndSlam(t *testing.T) {
	a := noun.NewArena(1 << 16)
	c := New(a, nil)
	// [battery [sample context]] where the battery adds 1 to the sample
	gate := a.MustParse("[[4 0 6] 0 0]")
	got, err := c.Slam(gate, 41)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("Slam = %s want 42", a.String(got))
	}
	if _, err := c.Slam(5, 1); !IsDeterministic(err) {
		t.Errorf("Slam(atom) err = %v", err)
	}
	got, err = c.Kick(a.MustParse("[[1 7] [1 8] 0]"), 6)
	if err != nil || got != 8 {
		t.Errorf("Kick = %v, %v", got, err)
	}
}

func TestHotSealed(t *testing.T) {
	hot := jets.NewHot()
	c := New(noun.NewArena(1<<10), hot)
	if _, err := eval(c, "0", "[1 0]"); err != nil {
		t.Fatal(err)
	}
	err := hot.Register(jets.HotEntry{Path: "x"})
	if errors.Root(err) != jets.ErrSealed {
		t.Errorf("Register after Interpret err = %v", err)
	}
}
