// Package nocklib holds plain Nock versions of some standard library
// gates. They register themselves with %fast under the same paths as
// the native jets in package jets, so the two can be compared.
package nocklib

import (
	"sort"

	"nockchain/errors"
	"nockchain/noun"
)

// ErrUnknown is returned for a gate name with no Nock version.
var ErrUnknown = errors.New("unknown gate")

// rootCore evaluates to the library core [[1 139] 0],
// registered as k.139.
const rootCore = "[11 [%fast 1 [%k 139] [1 0] 0] [1 [1 139] 0]]"

// Gate batteries. A gate's subject is [battery [sample context]];
// loops run as traps [battery [state gate]], which see the
// gate's sample at 30 and its arguments at 60 and 61.
// There is no Nock shax.
var batteries = map[string]string{
	"dec": "[6 [5 [1 0] 0 6] [0 0] 8 [1 0] 8 [1 [6 [5 [0 30] 4 0 6] [0 6] 9 2 [0 2] [4 0 6] 0 7]] 9 2 0 1]",
	"add": "[8 [[1 0] [0 12]] 8 [1 [6 [5 [0 12] 0 61] [0 13] 9 2 [0 2] [[4 0 12] [4 0 13]] 0 7]] 9 2 0 1]",
	"sub": "[8 [[1 0] [0 13]] 8 [1 [6 [5 [0 13] 0 60] [0 12] 6 [5 [0 12] 0 60] [0 0] 9 2 [0 2] [[4 0 12] [4 0 13]] 0 7]] 9 2 0 1]",
	"lth": "[8 [1 0] 8 [1 [6 [5 [0 6] 0 61] [1 1] 6 [5 [0 6] 0 60] [1 0] 9 2 [0 2] [4 0 6] 0 7]] 9 2 0 1]",
	"gth": "[8 [1 0] 8 [1 [6 [5 [0 6] 0 60] [1 1] 6 [5 [0 6] 0 61] [1 0] 9 2 [0 2] [4 0 6] 0 7]] 9 2 0 1]",
	"lte": "[8 [1 0] 8 [1 [6 [5 [0 6] 0 60] [1 0] 6 [5 [0 6] 0 61] [1 1] 9 2 [0 2] [4 0 6] 0 7]] 9 2 0 1]",
	"gte": "[8 [1 0] 8 [1 [6 [5 [0 6] 0 61] [1 0] 6 [5 [0 6] 0 60] [1 1] 9 2 [0 2] [4 0 6] 0 7]] 9 2 0 1]",
	// Built only from increment and equality. Nested loops are traps
	// whose state sits at 6 with the enclosing subject at 7.
	"mul": "[8 [0 12] 8 [0 29] 8 [[1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 62] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1]",
	"div": "[8 [0 12] 8 [0 29] 6 [5 [0 2] 1 0] [0 0] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 30] [0 26] 6 [5 [4 0 27] 0 14] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 4 0 27] 0 7] 9 2 0 1]",
	"mod": "[8 [0 12] 8 [0 29] 6 [5 [0 2] 1 0] [0 0] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 30] [0 27] 6 [5 [4 0 27] 0 14] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 4 0 27] 0 7] 9 2 0 1]",
	"bex": "[8 [0 6] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1]",
	"lsh": "[8 [0 27] 8 [8 [8 [0 58] 8 [8 [0 60] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 62] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 62] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1]",
	"rsh": "[8 [0 27] 8 [8 [8 [0 58] 8 [8 [0 60] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 62] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 6 [5 [0 2] 1 0] [0 0] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 30] [0 26] 6 [5 [4 0 27] 0 14] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 4 0 27] 0 7] 9 2 0 1]",
	"met": "[8 [8 [8 [0 12] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 0 29] 8 [1 6 [5 [0 13] 1 0] [0 12] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 30] 6 [5 [0 2] 1 0] [0 0] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 30] [0 26] 6 [5 [4 0 27] 0 14] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 4 0 27] 0 7] 9 2 0 1] 0 7] 9 2 0 1]",
	"cut": "[8 [8 [0 12] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [8 [0 59] 8 [8 [8 [0 244] 8 [0 14] 8 [[1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 62] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 6 [5 [0 2] 1 0] [0 0] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 30] [0 26] 6 [5 [4 0 27] 0 14] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 4 0 27] 0 7] 9 2 0 1] 8 [8 [8 [0 245] 8 [0 14] 8 [[1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 62] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 8 [[1 0] 1 1] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 8 [0 13] 8 [0 29] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 7] 9 2 0 1] 6 [5 [0 2] 1 0] [0 0] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 30] [0 27] 6 [5 [4 0 27] 0 14] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 4 0 27] 0 7] 9 2 0 1]",
	"mix": "[8 [[0 12] [0 13] [1 0] 1 1] 8 [1 6 [6 [5 [0 12] 1 0] [5 [0 26] 1 0] 1 1] [0 54] 8 [8 [0 12] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 8 [8 [0 58] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 9 2 [0 14] [[0 12] [0 4] [6 [5 [0 13] 0 5] [0 246] 8 [0 246] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 8 [0 247] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 31] 9 2 0 1]",
	"dis": "[8 [[0 12] [0 13] [1 0] 1 1] 8 [1 6 [6 [5 [0 12] 1 0] [5 [0 26] 1 0] 1 1] [0 54] 8 [8 [0 12] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 8 [8 [0 58] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 9 2 [0 14] [[0 12] [0 4] [6 [5 [0 13] 1 1] [6 [5 [0 5] 1 1] [8 [0 246] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 246] 0 246] 8 [0 247] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 31] 9 2 0 1]",
	"con": "[8 [[0 12] [0 13] [1 0] 1 1] 8 [1 6 [6 [5 [0 12] 1 0] [5 [0 26] 1 0] 1 1] [0 54] 8 [8 [0 12] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 8 [8 [0 58] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 9 2 [0 14] [[0 12] [0 4] [6 [5 [0 13] 1 1] [8 [0 246] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 6 [5 [0 5] 1 1] [8 [0 246] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 246] 8 [0 247] 8 [0 503] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 31] 9 2 0 1]",
	"cap": "[8 [0 6] 8 [1 8 [8 [0 6] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 6 [5 [0 14] 1 0] [0 0] 6 [5 [0 14] 1 1] [0 0] 6 [5 [0 14] 1 2] [1 2] 6 [5 [0 14] 1 3] [1 3] 9 2 [0 6] [0 4] 0 15] 9 2 0 1]",
	"mas": "[8 [[0 6] [1 0] 1 1] 8 [1 6 [5 [0 12] 1 0] [0 0] 6 [5 [0 12] 1 1] [0 0] 6 [5 [0 12] 1 2] [8 [0 26] 8 [0 59] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 6 [5 [0 12] 1 3] [8 [0 26] 8 [0 59] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 8 [8 [0 12] 8 [[1 0] [1 0] 1 0] 8 [1 6 [5 [0 12] 0 14] [[0 26] 0 27] 6 [5 [0 27] 1 1] [9 2 [0 2] [[4 0 12] [4 0 26] 1 0] 0 7] 9 2 [0 2] [[4 0 12] [0 26] 1 1] 0 7] 9 2 0 1] 9 2 [0 6] [[0 4] [6 [5 [0 5] 1 1] [8 [0 58] 8 [0 123] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 58] 8 [0 59] 8 [0 123] 8 [[1 0] 0 6] 8 [1 6 [5 [0 12] 0 14] [0 13] 9 2 [0 2] [[4 0 12] 4 0 13] 0 7] 9 2 0 1] 0 15] 9 2 0 1]",
}

// Names returns the gates available, sorted.
func Names() []string {
	var names []string
	for n := range batteries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Root returns a formula producing the library core.
func Root(a *noun.Arena) noun.Noun {
	return a.MustParse(rootCore)
}

// Gate returns a formula that, evaluated against the library core,
// produces the named gate with a zero sample. The gate is registered
// as k.139/name with its parent at axis 7.
func Gate(a *noun.Arena, name string) (noun.Noun, error) {
	bat, ok := batteries[name]
	if !ok {
		return 0, errors.WithDetail(ErrUnknown, name)
	}
	return a.Parse("[11 [%fast 1 %" + name + " [0 7] 0] [[1 " + bat + "] [1 0] [0 1]]]")
}

// Call returns a formula that builds the library core and
// the named gate, then slams the gate with sample.
// It ignores its subject.
func Call(a *noun.Arena, name string, sample noun.Noun) (noun.Noun, error) {
	gate, err := Gate(a, name)
	if err != nil {
		return 0, err
	}
	// [7 root 8 gate 9 2 10 [6 1 sample] 0 2]
	kick := a.Tuple(9, 2, a.Tuple(10, a.Cell(6, a.Cell(1, sample)), a.Cell(0, 2)))
	return a.Tuple(7, Root(a), a.Tuple(8, gate, kick)), nil
}
