package noun

import (
	"testing"

	"nockchain/errors"
)

func TestSlot(t *testing.T) {
	a := NewArena(1 << 20)
	subj := a.MustParse("[[4 5] [6 14 15]]")
	cases := []struct {
		axis    Noun
		want    string
		wantErr error
	}{
		{1, "[[4 5] 6 14 15]", nil},
		{2, "[4 5]", nil},
		{3, "[6 14 15]", nil},
		{4, "4", nil},
		{5, "5", nil},
		{6, "6", nil},
		{7, "[14 15]", nil},
		{14, "14", nil},
		{15, "15", nil},
		{0, "", ErrAxis},
		{8, "", ErrAxis},
		{a.MustParse("[1 2]"), "", ErrAxis},
		{a.Atom(1 << 63), "", ErrAxis},
	}
	for _, c := range cases {
		got, err := a.Slot(subj, c.axis)
		if errors.Root(err) != c.wantErr {
			t.Errorf("Slot(%s) err = %v want %v", a.String(c.axis), err, c.wantErr)
			continue
		}
		if err == nil && a.String(got) != c.want {
			t.Errorf("Slot(%s) = %s want %s", a.String(c.axis), a.String(got), c.want)
		}
		if c.axis.IsDirect() && err == nil {
			if s, ok := a.SlotUint(subj, uint64(c.axis)); !ok || s != got {
				t.Errorf("SlotUint(%d) disagrees with Slot", c.axis)
			}
		}
	}

	small := a.MustParse("[7 8]")
	if got, _ := a.Slot(small, 3); got != 8 {
		t.Errorf("axis 3 of [7 8] = %s want 8", a.String(got))
	}
	if _, err := a.Slot(small, 5); errors.Root(err) != ErrAxis {
		t.Errorf("axis 5 of [7 8] err = %v want %v", err, ErrAxis)
	}
}

func TestEdit(t *testing.T) {
	a := NewArena(1 << 20)
	cases := []struct {
		subj string
		axis Noun
		v    string
		want string
	}{
		{"[1 2]", 1, "9", "9"},
		{"[1 2]", 2, "9", "[9 2]"},
		{"[1 2]", 3, "9", "[1 9]"},
		{"[[4 5] 6 7]", 5, "[0 0]", "[[4 0 0] 6 7]"},
		{"[[4 5] 6 7]", 7, "9", "[[4 5] 6 9]"},
	}
	for _, c := range cases {
		subj := a.MustParse(c.subj)
		got, err := a.Edit(subj, c.axis, a.MustParse(c.v))
		if err != nil {
			t.Errorf("Edit(%s, %d) err = %v", c.subj, c.axis, err)
			continue
		}
		if a.String(got) != c.want {
			t.Errorf("Edit(%s, %d) = %s want %s", c.subj, c.axis, a.String(got), c.want)
		}
		if !a.Same(subj, a.MustParse(c.subj)) {
			t.Errorf("Edit(%s, %d) modified its input", c.subj, c.axis)
		}
	}

	if _, err := a.Edit(a.MustParse("[1 2]"), 6, 0); errors.Root(err) != ErrAxis {
		t.Errorf("edit through atom: err = %v", err)
	}
	if _, err := a.Edit(a.MustParse("[1 2]"), 0, 0); errors.Root(err) != ErrAxis {
		t.Errorf("edit axis 0: err = %v", err)
	}
}

func TestPeg(t *testing.T) {
	cases := []struct{ a, b, want uint64 }{
		{1, 1, 1},
		{1, 6, 6},
		{7, 6, 30},
		{7, 13, 61},
		{3, 2, 6},
		{2, 3, 5},
	}
	for _, c := range cases {
		if got := Peg(c.a, c.b); got != c.want {
			t.Errorf("Peg(%d, %d) = %d want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestInContext(t *testing.T) {
	for axis, want := range map[uint64]bool{
		1: false, 2: false, 3: false, 6: false, 7: true,
		14: true, 15: true, 12: false, 28: true, 31: true, 61: true, 24: false,
	} {
		if got := InContext(axis); got != want {
			t.Errorf("InContext(%d) = %v want %v", axis, got, want)
		}
	}
}
