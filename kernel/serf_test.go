package kernel

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"nockchain/errors"
	"nockchain/interp"
	"nockchain/log"
	"nockchain/noun"
	"nockchain/testutil"
)

// jam encodes the noun written in src.
func jam(t testing.TB, src string) []byte {
	a := noun.NewArena(1 << 12)
	return a.Jam(a.MustParse(src))
}

func expectJam(t *testing.T, got []byte, want string) {
	t.Helper()
	a := noun.NewArena(1 << 12)
	n, err := a.Cue(got)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if !a.Same(n, a.MustParse(want)) {
		t.Errorf("got %s want %s", a.String(n), want)
	}
}

func TestSerf(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(ctx, t.TempDir())
	if err != nil {
		testutil.FatalErr(t, err)
	}
	s := NewSerf(ctx, boot(t), SaveEvery(store, 2))
	defer s.Close()

	for i, ev := range []string{"7", "8", "9"} {
		fx, err := s.Poke(ctx, jam(t, ev))
		if err != nil {
			testutil.FatalErr(t, err)
		}
		expectJam(t, fx, fmt.Sprintf("[%%ack %d]", i+1))
	}
	st, err := s.Peek(ctx, jam(t, "%state"))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	expectJam(t, st, "[9 8 7 0]")
	if ev, err := s.Event(ctx); err != nil || ev != 3 {
		t.Errorf("event = %d, %v want 3", ev, err)
	}

	// saved after the second poke only
	cp, err := store.Latest(ctx)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if cp.Event != 2 {
		t.Errorf("checkpoint event = %d want 2", cp.Event)
	}
	if err := s.Save(ctx); err != nil {
		testutil.FatalErr(t, err)
	}
	expectLatest(t, store, 3)

	// a fresh kernel picks up where the serf left off
	c := interp.New(noun.NewArena(1<<20), nil)
	k, err := Open(ctx, c, trapJam(t, counterKernel), store)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if k.Event() != 3 {
		t.Errorf("reopened event = %d want 3", k.Event())
	}
}

func TestSerfFailures(t *testing.T) {
	ctx := context.Background()
	s := NewSerf(ctx, boot(t))
	defer s.Close()

	if _, err := s.Poke(ctx, jam(t, "%crash")); !interp.IsDeterministic(err) {
		t.Fatalf("crash: err = %v want deterministic failure", err)
	}
	if _, err := s.Poke(ctx, []byte{0xff}); errors.Root(err) != noun.ErrCue {
		t.Errorf("bad jam: err = %v want ErrCue", err)
	}
	if err := s.Save(ctx); errors.Root(err) != ErrNoStore {
		t.Errorf("save: err = %v want ErrNoStore", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Poke(cctx, jam(t, "7")); errors.Root(err) != context.Canceled {
		t.Errorf("cancelled: err = %v want context.Canceled", err)
	}

	if ev, err := s.Event(ctx); err != nil || ev != 0 {
		t.Errorf("event = %d, %v want 0", ev, err)
	}
	fx, err := s.Poke(ctx, jam(t, "7"))
	if err != nil {
		testutil.FatalErr(t, err)
	}
	expectJam(t, fx, "[%ack 1]")
}

func TestSerfDies(t *testing.T) {
	ctx := context.Background()
	s := NewSerf(ctx, boot(t, interp.WithMaxDepth(1000)))
	defer s.Close()

	if _, err := s.Poke(ctx, jam(t, "7")); err != nil {
		testutil.FatalErr(t, err)
	}
	_, err := s.Poke(ctx, jam(t, "%loop"))
	if !interp.IsNonDeterministic(err) {
		t.Fatalf("loop: err = %v want nondeterministic failure", err)
	}
	if _, err := s.Peek(ctx, jam(t, "%state")); errors.Root(err) != ErrDead {
		t.Errorf("after death: err = %v want ErrDead", err)
	}
}

func TestSerfClosed(t *testing.T) {
	ctx := context.Background()
	s := NewSerf(ctx, boot(t))
	s.Close()
	s.Close()
	if _, err := s.Event(ctx); errors.Root(err) != ErrClosed {
		t.Errorf("err = %v want ErrClosed", err)
	}
}

func TestSerfReportsCommit(t *testing.T) {
	s := NewSerf(context.Background(), boot(t))
	defer s.Close()

	// cancelled while running: a committing request still gets its reply
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b, err := s.do(ctx, "poke", true, func(context.Context, *Kernel) ([]byte, error) {
		cancel()
		return []byte("committed"), nil
	})
	if err != nil || string(b) != "committed" {
		t.Errorf("do = %q, %v want committed", b, err)
	}
}

func TestSerfPanic(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stdout)

	ctx := context.Background()
	s := NewSerf(ctx, boot(t))
	defer s.Close()
	_, err := s.do(ctx, "poke", true, func(context.Context, *Kernel) ([]byte, error) {
		panic("boom")
	})
	if errors.Root(err) != ErrClosed {
		t.Errorf("err = %v want ErrClosed", err)
	}
	if _, err := s.Event(ctx); errors.Root(err) != ErrClosed {
		t.Errorf("after panic: err = %v want ErrClosed", err)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("panic not logged:\n%s", buf.String())
	}
}
