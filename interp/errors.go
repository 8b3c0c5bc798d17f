package interp

import (
	"fmt"
	"strings"

	"nockchain/errors"
)

var (
	// ErrFormula is the cause of a failure on a malformed formula.
	ErrFormula = errors.New("bad formula")

	// ErrCrash is the cause of a failure on a non-loobean
	// condition, an increment of a cell, or [0 0].
	ErrCrash = errors.New("crash")

	// ErrNoScry is the cause of a failure on opcode 12
	// in a context without a scry handler.
	ErrNoScry = errors.New("no scry handler")

	// ErrBlocked may be returned by a ScryHandler whose answer is not
	// yet known. It makes the computation fail nondeterministically.
	ErrBlocked = errors.New("scry blocked")

	// ErrJetMismatch is the cause of a %jest failure.
	ErrJetMismatch = errors.New("jet disagrees with interpreter")

	// ErrJetPanic is the cause of a failure in a jet that panicked.
	ErrJetPanic = errors.New("jet panicked")

	// ErrDepth is the cause of a %meme failure on work stack overflow.
	ErrDepth = errors.New("work stack exhausted")
)

// Kind classifies failures.
type Kind int

const (
	// Deterministic failures happen on every run of the same
	// computation. They are ordinary errors to the caller.
	Deterministic Kind = iota

	// NonDeterministic failures depend on the machine: resources,
	// interrupts, or a jet bug. State must not be committed.
	NonDeterministic
)

func (k Kind) String() string {
	if k == NonDeterministic {
		return "nondeterministic"
	}
	return "deterministic"
}

// Mote names the cause of a failure.
type Mote string

const (
	Exit Mote = "exit" // the computation crashed
	Fail Mote = "fail" // a scry blocked
	Intr Mote = "intr" // interrupted
	Meme Mote = "meme" // out of memory
	Jest Mote = "jest" // a jet disagreed with the interpreter
)

// TraceFrame is one entry of a failure trace, innermost first.
type TraceFrame struct {
	Tag  string // hint tag: hunk, hand, lose, mean or spot
	Text string // the hint's clue, rendered
}

func (f TraceFrame) String() string {
	return "%" + f.Tag + " " + f.Text
}

// Error is a failed computation.
type Error struct {
	Kind  Kind
	Mote  Mote
	Trace []TraceFrame
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%%%s", e.Mote)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsDeterministic reports whether err is a deterministic
// failure of a computation.
func IsDeterministic(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == Deterministic
}

// IsNonDeterministic reports whether err is a nondeterministic
// failure of a computation.
func IsNonDeterministic(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == NonDeterministic
}
