package log

import (
	"path/filepath"
	"runtime"
	"strconv"
)

var skipFunc = map[string]bool{
	"nockchain/log.Printkv":            true,
	"nockchain/log.Printf":             true,
	"nockchain/log.Error":              true,
	"nockchain/log.Fatalkv":            true,
	"nockchain/log.RecoverAndLogError": true,
}

// SkipFunc removes the named function from stack traces
// and at=[file:line] entries printed to the log output.
// The provided name should be a fully-qualified function name
// comprising the import path and identifier separated by a dot.
// For example, nockchain/log.Printkv.
// SkipFunc must not be called concurrently with any function
// in this package (including itself).
func SkipFunc(name string) {
	skipFunc[name] = true
}

// caller returns a string containing filename and line number of
// the deepest function invocation on the calling goroutine's stack,
// after skipping functions in skipFunc.
// If no stack information is available, it returns "?:?".
func caller() string {
	pc := make([]uintptr, 16)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])
	for {
		f, more := frames.Next()
		if !skipFunc[f.Function] && f.File != "" {
			return filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
		}
		if !more {
			return "?:?"
		}
	}
}
