package checked

import (
	"math"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestUint64(t *testing.T) {
	cases := []struct {
		f          func(a, b uint64) (uint64, bool)
		a, b, want uint64
		wantOk     bool
	}{
		{AddUint64, 2, 3, 5, true},
		{AddUint64, math.MaxUint64, 1, 0, false},
		{AddUint64, 1 << 62, 1 << 62, 1 << 63, true},
		{SubUint64, 3, 2, 1, true},
		{SubUint64, 2, 3, 0, false},
		{SubUint64, 0, 0, 0, true},
		{MulUint64, 2, 3, 6, true},
		{MulUint64, math.MaxUint64, 2, 0, false},
		{MulUint64, math.MaxUint64, 0, 0, true},
		{DivUint64, 2, 2, 1, true},
		{DivUint64, 1, 0, 0, false},
		{ModUint64, 3, 2, 1, true},
		{ModUint64, 1, 0, 0, false},
		{LshiftUint64, 1, 2, 4, true},
		{LshiftUint64, 1, 64, 0, false},
		{LshiftUint64, 2, 63, 0, false},
		{LshiftUint64, 1, 63, 1 << 63, true},
	}

	for _, c := range cases {
		got, gotOk := c.f(c.a, c.b)

		if got != c.want {
			t.Errorf("%s(%d, %d) = %d want %d", fname(c.f), c.a, c.b, got, c.want)
		}

		if gotOk != c.wantOk {
			t.Errorf("%s(%d, %d) ok = %v want %v", fname(c.f), c.a, c.b, gotOk, c.wantOk)
		}
	}
}

func fname(f interface{}) string {
	name := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	return name[strings.IndexRune(name, '.')+1:]
}
