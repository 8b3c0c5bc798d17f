package interp

import (
	"testing"

	"github.com/codahale/metrics"

	"nockchain/errors"
	"nockchain/jets"
	"nockchain/jets/nocklib"
	"nockchain/noun"
)

var gateSamples = map[string][]string{
	"dec": {"1", "5", "0"},
	"add": {"[0 0]", "[2 3]", "[17 0]"},
	"sub": {"[10 3]", "[3 3]", "[3 10]"},
	"lth": {"[1 2]", "[2 2]", "[3 2]"},
	"lte": {"[1 2]", "[2 2]", "[3 2]"},
	"gth": {"[1 2]", "[2 2]", "[3 2]"},
	"gte": {"[1 2]", "[2 2]", "[3 2]"},
	"mul": {"[0 5]", "[6 7]", "[12 1]"},
	"div": {"[17 5]", "[6 3]", "[4 0]"},
	"mod": {"[17 5]", "[6 3]", "[4 0]"},
	"bex": {"0", "5", "10"},
	"lsh": {"[0 3 5]", "[3 1 1]", "[1 2 0]"},
	"rsh": {"[0 2 200]", "[3 1 0x1234]", "[1 5 7]"},
	"met": {"[0 0]", "[0 200]", "[3 0x1234]"},
	"cut": {"[0 [1 3] 13]", "[3 [1 1] 0x1234]", "[1 [1 2] 0xab]"},
	"mix": {"[12 10]", "[0 7]", "[255 1]"},
	"dis": {"[12 10]", "[0 7]", "[255 1]"},
	"con": {"[12 10]", "[0 7]", "[255 1]"},
	"cap": {"2", "3", "13", "1"},
	"mas": {"2", "3", "13", "0"},
}

// result runs the named reference gate on sample in a fresh context.
func result(t *testing.T, name, sample string, hot *jets.Hot, opts ...Option) (string, *Context, error) {
	a := noun.NewArena(1 << 20)
	c := New(a, hot, opts...)
	f, err := nocklib.Call(a, name, a.MustParse(sample))
	if err != nil {
		t.Fatal(err)
	}
	res, err := c.Interpret(0, f)
	if err != nil {
		return "", c, err
	}
	return a.String(res), c, nil
}

func TestJetsAgree(t *testing.T) {
	std := jets.NewHot(jets.Standard()...)
	for _, name := range nocklib.Names() {
		for _, sample := range gateSamples[name] {
			want, _, werr := result(t, name, sample, nil)
			for _, tc := range []struct {
				desc string
				opts []Option
			}{
				{"jets", nil},
				{"test jets", []Option{WithTestJets()}},
				{"no hints", []Option{WithoutHints()}},
			} {
				got, c, err := result(t, name, sample, std, tc.opts...)
				if IsDeterministic(werr) != IsDeterministic(err) || got != want {
					t.Errorf("%s %s (%s): got %q, %v want %q, %v", name, sample, tc.desc, got, err, want, werr)
				}
				if tc.desc == "no hints" {
					if c.Cold().Len() != 0 {
						t.Errorf("%s (no hints): %d batteries registered", name, c.Cold().Len())
					}
					continue
				}
				if c.Cold().Len() != 2 {
					t.Errorf("%s %s: cold has %d batteries want 2", name, sample, c.Cold().Len())
				}
			}
		}
	}
}

func TestJetAccelerates(t *testing.T) {
	calls := 0
	hot := jets.NewHot(jets.HotEntry{
		Path: "k.139/dec",
		Jet: func(env jets.Env, core noun.Noun) (noun.Noun, error) {
			calls++
			return jets.Dec(env, core)
		},
	})
	got, c, err := result(t, "dec", "1.000", hot)
	if err != nil {
		t.Fatal(err)
	}
	if got != "999" || calls != 1 {
		t.Errorf("got %s after %d jet calls", got, calls)
	}
	if c.Warm().Len() != 1 {
		t.Errorf("warm has %d sites want 1", c.Warm().Len())
	}
}

func badDec(jets.Env, noun.Noun) (noun.Noun, error) { return 7, nil }

func TestJetMismatch(t *testing.T) {
	cases := []struct {
		desc  string
		entry jets.HotEntry
		opts  []Option
	}{
		{"test entry", jets.HotEntry{Path: "k.139/dec", Jet: badDec, Test: true}, nil},
		{"test context", jets.HotEntry{Path: "k.139/dec", Jet: badDec}, []Option{WithTestJets()}},
		{"failing jet", jets.HotEntry{Path: "k.139/dec", Test: true, Jet: func(jets.Env, noun.Noun) (noun.Noun, error) {
			return 0, jets.ErrExit
		}}, nil},
	}
	for _, tc := range cases {
		_, _, err := result(t, "dec", "5", jets.NewHot(tc.entry), tc.opts...)
		var e *Error
		if !errors.As(err, &e) || e.Kind != NonDeterministic || e.Mote != Jest {
			t.Errorf("%s: err = %v want nondeterministic %%jest", tc.desc, err)
			continue
		}
		if !errors.Is(err, ErrJetMismatch) {
			t.Errorf("%s: err = %v want %v", tc.desc, err, ErrJetMismatch)
		}
	}

	// without verification the jet is trusted
	got, _, err := result(t, "dec", "5", jets.NewHot(jets.HotEntry{Path: "k.139/dec", Jet: badDec}))
	if err != nil || got != "7" {
		t.Errorf("unverified jet: got %q, %v", got, err)
	}
}

func TestJetFailures(t *testing.T) {
	before, _ := metrics.Snapshot()
	cases := []struct {
		desc  string
		jet   jets.Jet
		kind  Kind
		mote  Mote
		want  string
		cause error
	}{
		{
			desc: "punt",
			jet:  func(jets.Env, noun.Noun) (noun.Noun, error) { return 0, jets.ErrPunt },
			want: "4",
		},
		{
			desc:  "exit",
			jet:   func(jets.Env, noun.Noun) (noun.Noun, error) { return 0, jets.ErrExit },
			kind:  Deterministic,
			mote:  Exit,
			cause: jets.ErrExit,
		},
		{
			desc:  "panic",
			jet:   func(jets.Env, noun.Noun) (noun.Noun, error) { panic("boom") },
			kind:  Deterministic,
			mote:  Exit,
			cause: ErrJetPanic,
		},
		{
			desc: "allocation",
			jet: func(env jets.Env, _ noun.Noun) (noun.Noun, error) {
				panic(&noun.AllocationError{Requested: 1 << 40, Capacity: env.Arena.Capacity()})
			},
			kind:  NonDeterministic,
			mote:  Meme,
			cause: noun.ErrAllocation,
		},
	}
	for _, tc := range cases {
		hot := jets.NewHot(jets.HotEntry{Path: "k.139/dec", Jet: tc.jet})
		got, c, err := result(t, "dec", "5", hot)
		if tc.cause == nil {
			if err != nil || got != tc.want {
				t.Errorf("%s: got %q, %v want %q", tc.desc, got, err, tc.want)
			}
			continue
		}
		var e *Error
		if !errors.As(err, &e) || e.Kind != tc.kind || e.Mote != tc.mote {
			t.Errorf("%s: err = %v want %v %%%s", tc.desc, err, tc.kind, tc.mote)
			continue
		}
		if !errors.Is(err, tc.cause) {
			t.Errorf("%s: err = %v want cause %v", tc.desc, err, tc.cause)
		}
		if c.Arena().Depth() != 0 {
			t.Errorf("%s: depth %d after failure", tc.desc, c.Arena().Depth())
		}
	}
	after, _ := metrics.Snapshot()
	if after["jets.punt"] <= before["jets.punt"] {
		t.Error("jets.punt not counted")
	}
}
