// Package jets matches Nock cores against known native implementations.
//
// Three layers of state cooperate. Hot is the fixed, boot-time table of
// native routines keyed by label path. Cold accumulates, at runtime, the
// batteries that %fast hints have registered under those paths. Warm
// caches, per call site, the decision reached by joining the two.
package jets

import (
	"context"

	"nockchain/errors"
	"nockchain/noun"
)

var (
	// ErrPunt is returned by a jet that declines to handle its input.
	// The caller falls back to interpreting the arm.
	ErrPunt = errors.New("jet punted")

	// ErrExit is returned by a jet whose input would crash the
	// interpreted arm.
	ErrExit = errors.New("jet exit")

	// ErrSealed is returned by Hot.Register after the first evaluation.
	ErrSealed = errors.New("hot state sealed")

	// ErrBadClue is returned for a malformed %fast clue.
	ErrBadClue = errors.New("bad %fast clue")

	// ErrNoParent is returned when a %fast clue names a parent core
	// whose battery has not been registered.
	ErrNoParent = errors.New("parent core not registered")
)

// Env is the environment a jet runs in.
type Env struct {
	Arena *noun.Arena
	Ctx   context.Context
}

// Jet is a native implementation of a Nock arm. It receives the
// whole core and must return exactly what interpreting the arm would,
// or ErrPunt. Jets allocate in env.Arena's current frame.
type Jet func(env Env, core noun.Noun) (noun.Noun, error)

// Decision is the outcome of resolving a call site.
type Decision int

const (
	// NoJet means the battery is unknown.
	NoJet Decision = iota
	// Traced means the battery is registered but has no native match.
	Traced
	// Accelerated means the site runs a native jet.
	Accelerated
)

func (d Decision) String() string {
	switch d {
	case Traced:
		return "traced"
	case Accelerated:
		return "accelerated"
	}
	return "nojet"
}

// Site is a resolved call site: an arm axis of a core with a
// particular battery.
type Site struct {
	Decision Decision
	Path     string // label path; empty for NoJet
	Jet      Jet    // set when Accelerated
	Test     bool   // verify the jet against the interpreter
}

var noJet = &Site{Decision: NoJet}
