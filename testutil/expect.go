package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"nockchain/errors"
	"nockchain/noun"
)

var wd, _ = os.Getwd()

func ExpectEqual(t testing.TB, actual, expected interface{}, msg string) {
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("%s: got %v, expected %v\n%s", msg, actual, expected, stackTrace())
	}
}

// ExpectNoun fails t unless got is structurally equal to the noun
// written as want in bracket syntax.
func ExpectNoun(t testing.TB, a *noun.Arena, got noun.Noun, want string, msg string) {
	w, err := a.Parse(want)
	if err != nil {
		t.Fatalf("%s: bad expected noun %q: %v", msg, want, err)
	}
	if !a.Same(got, w) {
		t.Errorf("%s: got %s, expected %s\n%s", msg, a.Format(got, 512), want, stackTrace())
	}
}

func ExpectError(t testing.TB, expected error, msg string, fn func() error) {
	actual := fn()
	if expected != errors.Root(actual) {
		t.Errorf("%s: got error %v, expected %v\n%s", msg, actual, expected, stackTrace())
	}
}

// Dump fails t with a detailed dump of got and want
// if they are not deeply equal.
func Dump(t testing.TB, got, want interface{}) {
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got:\n%s\nwant:\n%s", spew.Sdump(got), spew.Sdump(want))
	}
}

func FatalErr(t testing.TB, err error) {
	args := []interface{}{err}
	for _, frame := range errors.Stack(err) {
		file := frame.File
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "../") {
			file = rel
		}
		funcname := frame.Func[strings.IndexByte(frame.Func, '.')+1:]
		s := fmt.Sprintf("\n%s:%d: %s", file, frame.Line, funcname)
		args = append(args, s)
	}
	t.Fatal(args...)
}

func stackTrace() []byte {
	buf := make([]byte, 16384)
	len := runtime.Stack(buf, false)
	return buf[:len]
}
