// Package env provides a convenient way to convert environment
// variables into Go data. It is similar in design to package
// flag.
package env

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var funcs []func() bool

func register(name string, parse func(s string) error) {
	funcs = append(funcs, func() bool {
		if s := os.Getenv(name); s != "" {
			if err := parse(s); err != nil {
				log.Println(name, err)
				return false
			}
		}
		return true
	})
}

// Int returns a new int pointer.
// When Parse is called,
// env var name will be parsed
// and the resulting value
// will be assigned to the returned location.
func Int(name string, value int) *int {
	p := new(int)
	intVar(p, name, value)
	return p
}

func intVar(p *int, name string, value int) {
	*p = value
	register(name, func(s string) error {
		v, err := strconv.Atoi(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Bool returns a new bool pointer.
// Parsing uses strconv.ParseBool.
func Bool(name string, value bool) *bool {
	p := new(bool)
	boolVar(p, name, value)
	return p
}

func boolVar(p *bool, name string, value bool) {
	*p = value
	register(name, func(s string) error {
		v, err := strconv.ParseBool(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Float returns a new float64 pointer.
// Parsing uses strconv.ParseFloat.
func Float(name string, value float64) *float64 {
	p := new(float64)
	*p = value
	register(name, func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err == nil {
			*p = v
		}
		return err
	})
	return p
}

// Bytes returns a new uint64 pointer holding a size in bytes.
// Values are parsed with humanize.ParseBytes,
// so both "1073741824" and "1GiB" are accepted.
func Bytes(name string, value uint64) *uint64 {
	p := new(uint64)
	bytesVar(p, name, value)
	return p
}

func bytesVar(p *uint64, name string, value uint64) {
	*p = value
	register(name, func(s string) error {
		v, err := humanize.ParseBytes(s)
		if err == nil {
			*p = v
		}
		return err
	})
}

// Duration returns the value of the named environment variable,
// interpreted as a time.Duration (using time.ParseDuration).
// If there is an error parsing the value, it prints a
// diagnostic message to the log and calls os.Exit(1).
// If name isn't in the environment, it returns value.
func Duration(name string, value time.Duration) time.Duration {
	if s := os.Getenv(name); s != "" {
		var err error
		value, err = time.ParseDuration(s)
		if err != nil {
			log.Println(name, err)
			os.Exit(1)
		}
	}
	return value
}

// String returns a new string pointer.
// When Parse is called,
// env var name will be assigned
// to the returned location.
func String(name string, value string) *string {
	p := new(string)
	stringVar(p, name, value)
	return p
}

func stringVar(p *string, name string, value string) {
	*p = value
	register(name, func(s string) error {
		*p = s
		return nil
	})
}

// Parse parses known env vars
// and assigns the values to the variables
// that were previously registered.
// If any values cannot be parsed,
// Parse prints an error message for each one
// and exits the process with status 1.
func Parse() {
	ok := true
	for _, f := range funcs {
		ok = f() && ok
	}
	if !ok {
		os.Exit(1)
	}
}
