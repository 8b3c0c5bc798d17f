// Package interp evaluates Nock formulas.
//
// Evaluation runs on an explicit work stack, so the depth of a
// computation is bounded by configuration rather than by the Go stack.
// Calls through the jet state replace known cores with native code.
package interp

import (
	"context"
	"time"

	"github.com/golang/groupcache/lru"
	"golang.org/x/time/rate"

	"nockchain/jets"
	"nockchain/noun"
)

const (
	// DefaultMaxDepth bounds the work stack.
	DefaultMaxDepth = 1 << 20

	// DefaultMemo is the default %memo cache size in entries.
	DefaultMemo = 4096
)

// ScryHandler answers opcode 12 with the value at path,
// given the reference type ref.
// It may return ErrBlocked.
type ScryHandler func(a *noun.Arena, ref, path noun.Noun) (noun.Noun, error)

type config struct {
	hints     bool
	testJets  bool
	maxDepth  int
	memoSize  int
	scry      ScryHandler
	slogRate  rate.Limit
	slogBurst int
	logCtx    context.Context
	interrupt context.Context
}

// An Option configures a Context.
type Option func(*config)

// WithoutHints makes the context ignore every hint except for
// evaluating its clue. Results are unchanged.
func WithoutHints() Option {
	return func(c *config) { c.hints = false }
}

// WithTestJets verifies every jet call against the interpreter.
func WithTestJets() Option {
	return func(c *config) { c.testJets = true }
}

// WithMaxDepth bounds the work stack at n entries.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithMemo sets the %memo cache size. Zero disables it.
func WithMemo(entries int) Option {
	return func(c *config) { c.memoSize = entries }
}

// WithScry installs a handler for opcode 12.
func WithScry(h ScryHandler) Option {
	return func(c *config) { c.scry = h }
}

// WithSlogRate limits %slog output to r lines per second
// with bursts of up to burst lines.
func WithSlogRate(r float64, burst int) Option {
	return func(c *config) {
		c.slogRate = rate.Limit(r)
		c.slogBurst = burst
	}
}

// WithLogContext sets the context used for log lines
// and passed to jets.
func WithLogContext(ctx context.Context) Option {
	return func(c *config) { c.logCtx = ctx }
}

// WithInterrupt makes computations fail with %intr
// once ctx is done.
func WithInterrupt(ctx context.Context) Option {
	return func(c *config) { c.interrupt = ctx }
}

// Context is one interpreter instance: an arena together with the
// jet state accumulated while evaluating in it.
// It is not safe for concurrent use.
type Context struct {
	arena  *noun.Arena
	hot    *jets.Hot
	cold   *jets.Cold
	warm   *jets.Warm
	memo   *memo
	slog   *rate.Limiter
	cfg    config
	traces []trace
}

// New returns a Context evaluating in a, with native jets from hot.
// Hot may be shared between contexts; it is sealed on first use.
func New(a *noun.Arena, hot *jets.Hot, opts ...Option) *Context {
	cfg := config{
		hints:     true,
		maxDepth:  DefaultMaxDepth,
		memoSize:  DefaultMemo,
		slogRate:  100,
		slogBurst: 10,
		logCtx:    context.Background(),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if hot == nil {
		hot = jets.NewHot()
	}
	cold := jets.NewCold()
	c := &Context{
		arena: a,
		hot:   hot,
		cold:  cold,
		warm:  jets.NewWarm(hot, cold),
		slog:  rate.NewLimiter(cfg.slogRate, cfg.slogBurst),
		cfg:   cfg,
	}
	if cfg.memoSize > 0 {
		c.memo = newMemo(cfg.memoSize)
		a.OnPop(c.memo.drop)
	}
	return c
}

// Arena returns the context's arena.
func (c *Context) Arena() *noun.Arena { return c.arena }

// Cold returns the batteries registered so far.
func (c *Context) Cold() *jets.Cold { return c.cold }

// Warm returns the call-site cache.
func (c *Context) Warm() *jets.Warm { return c.warm }

func (c *Context) jetEnv() jets.Env {
	return jets.Env{Arena: c.arena, Ctx: c.cfg.logCtx}
}

func (c *Context) interrupted() bool {
	return c.cfg.interrupt != nil && c.cfg.interrupt.Err() != nil
}

type memoEntry struct {
	subject, formula, result noun.Noun
	depth                    int
}

// memo caches %memo results. An entry is valid while the frame that
// was current when it was stored is open.
type memo struct {
	cache   *lru.Cache
	byDepth map[int][]lru.Key
	top     int
}

func newMemo(n int) *memo {
	return &memo{cache: lru.New(n), byDepth: make(map[int][]lru.Key)}
}

func (m *memo) get(a *noun.Arena, subject, formula noun.Noun) (noun.Noun, bool) {
	key := noun.MugPair(a.Mug(subject), a.Mug(formula))
	v, ok := m.cache.Get(key)
	if !ok {
		return 0, false
	}
	e := v.(*memoEntry)
	if !a.Equal(&subject, &e.subject) || !a.Equal(&formula, &e.formula) {
		return 0, false
	}
	return e.result, true
}

func (m *memo) put(a *noun.Arena, subject, formula, result noun.Noun) {
	key := noun.MugPair(a.Mug(subject), a.Mug(formula))
	d := a.Depth()
	m.cache.Add(key, &memoEntry{subject, formula, result, d})
	m.byDepth[d] = append(m.byDepth[d], key)
	if d > m.top {
		m.top = d
	}
}

// drop removes entries stored in frames deeper than depth.
func (m *memo) drop(depth int) {
	if depth < 0 {
		m.cache.Clear()
		m.byDepth = make(map[int][]lru.Key)
		m.top = 0
		return
	}
	for d := m.top; d > depth; d-- {
		for _, k := range m.byDepth[d] {
			if v, ok := m.cache.Get(k); ok && v.(*memoEntry).depth == d {
				m.cache.Remove(k)
			}
		}
		delete(m.byDepth, d)
	}
	if m.top > depth {
		m.top = depth
	}
}

type trace struct {
	tag, clue noun.Noun
}

func (c *Context) renderTrace(base int) []TraceFrame {
	var out []TraceFrame
	for i := len(c.traces) - 1; i >= base; i-- {
		t := c.traces[i]
		out = append(out, TraceFrame{
			Tag:  string(c.arena.Bytes(t.tag)),
			Text: c.arena.Format(t.clue, 256),
		})
	}
	return out
}

var timeNow = time.Now
