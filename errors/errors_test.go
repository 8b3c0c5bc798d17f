package errors

import (
	"errors"
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}

	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}

	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}

	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}

	if len(Stack(err3)) == 0 {
		t.Fatal("expected stack on wrapped error")
	}
}

func TestWrapNil(t *testing.T) {
	var err error

	err1 := Wrap(err, "1")
	if err1 != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
}

func TestWrapf(t *testing.T) {
	err := errors.New("0")
	err1 := Wrapf(err, "there are %d errors being wrapped", 1)
	if err1.Error() != "there are 1 errors being wrapped: 0" {
		t.Fatalf("err msg = %s want 'there are 1 errors being wrapped: 0'", err1.Error())
	}
}

func TestIs(t *testing.T) {
	root := errors.New("root")
	err := WithDetail(Wrap(root, "ctx"), "more")
	if !Is(err, root) {
		t.Fatal("Is(wrapped, root) = false")
	}
	if !errors.Is(err, root) {
		t.Fatal("stdlib errors.Is(wrapped, root) = false")
	}
}

func TestSub(t *testing.T) {
	low := errors.New("short read")
	high := errors.New("bad checkpoint")
	err := Sub(high, Wrap(low, "reading header"))
	if Root(err) != high {
		t.Fatalf("Root = %v want %v", Root(err), high)
	}
	if err.Error() != "bad checkpoint: reading header: short read" {
		t.Fatalf("msg = %q", err.Error())
	}
	if Sub(high, nil) != nil {
		t.Fatal("Sub(x, nil) should be nil")
	}
}

func TestDetail(t *testing.T) {
	root := errors.New("foo")
	err := WithDetail(root, "bar")
	err = WithDetailf(err, "baz %d", 1)
	if got := Detail(err); got != "bar; baz 1" {
		t.Fatalf("Detail = %q", got)
	}
	if err.Error() != "baz 1: bar: foo" {
		t.Fatalf("msg = %q", err.Error())
	}
}

func TestData(t *testing.T) {
	root := errors.New("foo")
	err := WithData(root, "axis", 5)
	err = WithData(err, "mote", "exit")
	want := map[string]interface{}{"axis": 5, "mote": "exit"}
	if got := Data(err); !reflect.DeepEqual(got, want) {
		t.Fatalf("Data = %v want %v", got, want)
	}
	if Root(err) != root {
		t.Fatal("WithData changed root")
	}
}
