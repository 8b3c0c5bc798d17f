package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"nockchain/env"
	"nockchain/interp"
	"nockchain/jets"
	"nockchain/log"
	"nockchain/noun"
)

// config vars
var (
	arenaSize = env.Bytes("NOCK_ARENA", 1<<30)
	maxDepth  = env.Int("NOCK_DEPTH", interp.DefaultMaxDepth)
	testJets  = env.Bool("NOCK_TEST_JETS", false)
	timeout   = env.Duration("NOCK_TIMEOUT", 0)
)

// We collect log output in this buffer,
// and display it only when there's an error.
var logbuf bytes.Buffer

type command struct {
	f func(a *noun.Arena, args []string)
}

var commands = map[string]*command{
	"eval": {eval},
	"jam":  {jam},
	"cue":  {cue},
}

func main() {
	log.SetOutput(&logbuf)
	env.Parse()

	if len(os.Args) < 2 {
		help(os.Stdout)
		os.Exit(0)
	}
	cmd := commands[os.Args[1]]
	if cmd == nil {
		fmt.Fprintln(os.Stderr, "unknown command:", os.Args[1])
		help(os.Stderr)
		os.Exit(1)
	}
	cmd.f(noun.NewArena(*arenaSize/8), os.Args[2:])
}

func eval(a *noun.Arena, args []string) {
	if len(args) != 2 {
		fatalln("error: eval takes subject and formula")
	}
	subject := parse(a, args[0])
	formula := parse(a, args[1])

	ctx := context.Background()
	opts := []interp.Option{interp.WithMaxDepth(*maxDepth), interp.WithLogContext(ctx)}
	if *testJets {
		opts = append(opts, interp.WithTestJets())
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
		opts = append(opts, interp.WithInterrupt(ctx))
	}
	c := interp.New(a, jets.NewHot(jets.Standard()...), opts...)

	t0 := time.Now()
	res, err := c.Interpret(subject, formula)
	if err != nil {
		fatalln("error:", err)
	}
	fmt.Println(a.String(res))
	log.Printkv(ctx, "elapsed", time.Since(t0))
}

func jam(a *noun.Arena, args []string) {
	if len(args) != 1 {
		fatalln("error: jam takes one noun")
	}
	if _, err := os.Stdout.Write(a.Jam(parse(a, args[0]))); err != nil {
		fatalln("error:", err)
	}
}

func cue(a *noun.Arena, args []string) {
	if len(args) != 0 {
		fatalln("error: cue takes no args")
	}
	b, err := ioutil.ReadAll(os.Stdin)
	if err != nil {
		fatalln("error:", err)
	}
	n, err := a.Cue(b)
	if err != nil {
		fatalln("error:", err)
	}
	fmt.Println(a.String(n))
}

func parse(a *noun.Arena, s string) noun.Noun {
	n, err := a.Parse(s)
	if err != nil {
		fatalln("error:", err)
	}
	return n
}

func fatalln(v ...interface{}) {
	io.Copy(os.Stderr, &logbuf)
	fmt.Fprintln(os.Stderr, v...)
	os.Exit(2)
}

func help(w io.Writer) {
	fmt.Fprintln(w, "usage: nock [command] [arguments]")
	fmt.Fprint(w, "\nThe commands are:\n\n")
	for name := range commands {
		fmt.Fprintln(w, "\t", name)
	}
	fmt.Fprintln(w)
}
