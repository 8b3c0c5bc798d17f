// Command jetcheck runs the plain Nock library gates on random
// samples with every jet call verified against the interpreter,
// and reports any gate whose jet disagrees.
//
// Usage:
//
//	jetcheck [-n count] [-max value] [-seed seed] [gate...]
//
// With no gate names it checks every gate in package nocklib.
// Each gate runs in its own context, in parallel.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"nockchain/errors"
	"nockchain/interp"
	"nockchain/jets"
	"nockchain/jets/nocklib"
	"nockchain/log"
	"nockchain/noun"
)

var (
	count    = flag.Int("n", 100, "samples per gate")
	maxValue = flag.Uint64("max", 1000, "largest sample `value`")
	seed     = flag.Int64("seed", 1, "random seed")
)

// shapes builds samples for gates that do not take a pair of atoms.
// Bloq sizes and shift counts stay small: the plain Nock versions
// count in unary.
var shapes = map[string]func(rng *rand.Rand, x uint64) string{
	"dec": atom,
	"cap": atom,
	"mas": atom,
	"bex": func(rng *rand.Rand, x uint64) string { return fmt.Sprint(x % 11) },
	"mul": func(rng *rand.Rand, x uint64) string { return fmt.Sprintf("[%d %d]", x, rng.Intn(17)) },
	"met": func(rng *rand.Rand, x uint64) string { return fmt.Sprintf("[%d %d]", rng.Intn(3), x) },
	"lsh": func(rng *rand.Rand, x uint64) string {
		return fmt.Sprintf("[%d %d %d]", rng.Intn(3), rng.Intn(3), x%17)
	},
	"rsh": func(rng *rand.Rand, x uint64) string {
		return fmt.Sprintf("[%d %d %d]", rng.Intn(3), rng.Intn(3), x)
	},
	"cut": func(rng *rand.Rand, x uint64) string {
		return fmt.Sprintf("[%d [%d %d] %d]", rng.Intn(3), rng.Intn(3), rng.Intn(3), x)
	},
}

func atom(_ *rand.Rand, x uint64) string { return fmt.Sprint(x) }

func main() {
	flag.Parse()
	names := flag.Args()
	if len(names) == 0 {
		names = nocklib.Names()
	}

	var checked int64
	hot := jets.NewHot(jets.Standard()...)
	g, ctx := errgroup.WithContext(context.Background())
	for i, name := range names {
		name, rng := name, rand.New(rand.NewSource(*seed+int64(i)))
		g.Go(func() error {
			for j := 0; j < *count; j++ {
				if ctx.Err() != nil {
					return nil
				}
				if err := check(ctx, hot, name, sample(rng, name)); err != nil {
					return err
				}
				atomic.AddInt64(&checked, 1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "jetcheck:", err)
		os.Exit(1)
	}
	fmt.Printf("%d samples agree across %d gates\n", checked, len(names))
}

func sample(rng *rand.Rand, name string) string {
	x := rng.Uint64() % (*maxValue + 1)
	if shape, ok := shapes[name]; ok {
		return shape(rng, x)
	}
	return fmt.Sprintf("[%d %d]", x, rng.Uint64()%(*maxValue+1))
}

// check evaluates the gate with and without jets. The jetted run
// verifies each jet call, so a disagreeing jet fails it outright.
func check(ctx context.Context, hot *jets.Hot, name, sample string) error {
	ctx = log.AddPrefixkv(ctx, "gate", name, "sample", sample)
	want, werr := run(ctx, nil, name, sample)
	got, err := run(ctx, hot, name, sample, interp.WithTestJets())
	if errors.Is(err, interp.ErrJetMismatch) {
		return errors.Wrapf(err, "%s %s", name, sample)
	}
	if interp.IsDeterministic(werr) != interp.IsDeterministic(err) || got != want {
		return errors.WithDetailf(interp.ErrJetMismatch, "%s %s: got %q (%v) want %q (%v)", name, sample, got, err, want, werr)
	}
	return nil
}

func run(ctx context.Context, hot *jets.Hot, name, sample string, opts ...interp.Option) (string, error) {
	a := noun.NewArena(1 << 22)
	c := interp.New(a, hot, append(opts, interp.WithLogContext(ctx))...)
	f, err := nocklib.Call(a, name, a.MustParse(sample))
	if err != nil {
		return "", err
	}
	res, err := c.Interpret(0, f)
	if err != nil {
		return "", err
	}
	return a.String(res), nil
}
