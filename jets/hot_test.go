package jets

import (
	"testing"

	"nockchain/errors"
	"nockchain/noun"
)

func constJet(v noun.Noun) Jet {
	return func(Env, noun.Noun) (noun.Noun, error) { return v, nil }
}

func TestHotLookup(t *testing.T) {
	h := NewHot(
		HotEntry{Path: "k.139/dec", Jet: constJet(1)},
		HotEntry{Path: "k.139/dec", Axis: 5, Jet: constJet(2)},
	)
	if h.Len() != 2 {
		t.Fatalf("Len() = %d want 2", h.Len())
	}
	e, ok := h.Lookup("k.139/dec", 2)
	if !ok || e.Axis != 2 {
		t.Errorf("Lookup(dec, 2) = %+v, %v", e, ok)
	}
	if _, ok := h.Lookup("k.139/dec", 5); !ok {
		t.Error("Lookup(dec, 5) missing")
	}
	if _, ok := h.Lookup("k.139/add", 2); ok {
		t.Error("Lookup(add, 2) found")
	}
}

func TestHotSeal(t *testing.T) {
	h := NewHot()
	err := h.Register(HotEntry{Path: "a", Jet: constJet(0)})
	if err != nil {
		t.Fatal(err)
	}
	h.Seal()
	err = h.Register(HotEntry{Path: "b", Jet: constJet(0)})
	if errors.Root(err) != ErrSealed {
		t.Errorf("Register after Seal err = %v want %v", err, ErrSealed)
	}
	if _, ok := h.Lookup("b", 2); ok {
		t.Error("sealed table gained an entry")
	}
}
