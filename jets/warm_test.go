package jets

import (
	"testing"

	"nockchain/noun"
)

func TestWarmFind(t *testing.T) {
	inc := constJet(99)
	cases := []struct {
		name       string
		hot        []HotEntry
		register   bool
		parentAxis uint64
		axis       uint64
		want       Decision
	}{
		{"unregistered", []HotEntry{{Path: "k.139/inc", Jet: inc}}, false, 7, 2, NoJet},
		{"accelerated", []HotEntry{{Path: "k.139/inc", Jet: inc}}, true, 7, 2, Accelerated},
		{"no hot entry", nil, true, 7, 2, Traced},
		{"other arm", []HotEntry{{Path: "k.139/inc", Jet: inc}}, true, 7, 5, Traced},
		{"parent axis declared", []HotEntry{{Path: "k.139/inc", ParentAxis: 7, Jet: inc}}, true, 7, 2, Accelerated},
		{"parent axis mismatch", []HotEntry{{Path: "k.139/inc", ParentAxis: 15, Jet: inc}}, true, 7, 2, Traced},
		{"parent outside context", []HotEntry{{Path: "k.139/inc", Jet: inc}}, true, 6, 2, Traced},
	}
	for _, tc := range cases {
		a := noun.NewArena(1 << 16)
		cold := NewCold()
		root := a.MustParse("[[1 42] 0]")
		// core is [battery [root root]] so both 6 and 7 name a core
		core := a.Cell(a.MustParse("[4 0 6]"), a.Cell(root, root))
		if _, err := cold.Register(a, root, "k.139", 0); err != nil {
			t.Fatal(err)
		}
		if tc.register {
			if _, err := cold.Register(a, core, "inc", tc.parentAxis); err != nil {
				t.Fatalf("%s: %v", tc.name, err)
			}
		}
		w := NewWarm(NewHot(tc.hot...), cold)
		s := w.Find(a, core, tc.axis)
		if s.Decision != tc.want {
			t.Errorf("%s: Decision = %v want %v", tc.name, s.Decision, tc.want)
		}
		if tc.want == Accelerated && s.Jet == nil {
			t.Errorf("%s: accelerated site without jet", tc.name)
		}
		if tc.want != NoJet && s.Path != "k.139/inc" {
			t.Errorf("%s: Path = %q", tc.name, s.Path)
		}
	}
}

func TestWarmCache(t *testing.T) {
	a := noun.NewArena(1 << 16)
	cold := NewCold()
	w := NewWarm(NewHot(HotEntry{Path: "k", Jet: constJet(0)}), cold)

	core := a.MustParse("[[1 42] 0]")
	if s := w.Find(a, core, 2); s.Decision != NoJet {
		t.Fatalf("Decision = %v want nojet", s.Decision)
	}
	if w.Len() != 0 {
		t.Errorf("NoJet was cached")
	}
	if _, err := cold.Register(a, core, "k", 0); err != nil {
		t.Fatal(err)
	}

	a.PushFrame()
	copy1 := a.MustParse("[[1 42] 5]")
	s1 := w.Find(a, copy1, 2)
	a.PopFrame()
	copy2 := a.MustParse("[[1 42] 6]")
	s2 := w.Find(a, copy2, 2)
	if s1 != s2 || s1.Decision != Accelerated {
		t.Errorf("sites differ: %+v %+v", s1, s2)
	}
	if w.Len() != 1 {
		t.Errorf("Len() = %d want 1", w.Len())
	}
}

func TestWarmRejectsForeignContext(t *testing.T) {
	a := noun.NewArena(1 << 16)
	cold := NewCold()
	root := a.MustParse("[[1 42] 0]")
	if _, err := cold.Register(a, root, "k", 0); err != nil {
		t.Fatal(err)
	}
	gate := a.Cell(a.MustParse("[9 2 0 7]"), a.Cell(0, root))
	if _, err := cold.Register(a, gate, "foo", 7); err != nil {
		t.Fatal(err)
	}
	w := NewWarm(NewHot(HotEntry{Path: "k/foo", Jet: constJet(42)}), cold)

	if s := w.Find(a, gate, 2); s.Decision != Accelerated {
		t.Fatalf("registered context: Decision = %v want accelerated", s.Decision)
	}
	// same battery, different context: cached sites must not leak
	foreign := a.Cell(a.MustParse("[9 2 0 7]"), a.Cell(0, a.MustParse("[[1 7] 0]")))
	if s := w.Find(a, foreign, 2); s.Decision != NoJet {
		t.Errorf("foreign context: Decision = %v want nojet", s.Decision)
	}
}
