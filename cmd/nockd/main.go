package main

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/codahale/metrics"
	"github.com/dustin/go-humanize"
	"github.com/kr/secureheader"

	"nockchain/env"
	"nockchain/errors"
	"nockchain/interp"
	"nockchain/jets"
	"nockchain/kernel"
	"nockchain/log"
	latency "nockchain/metrics"
	"nockchain/net/http/httperror"
	"nockchain/net/http/reqid"
	"nockchain/noun"
)

const (
	httpReadTimeout  = 30 * time.Second
	httpWriteTimeout = 2 * time.Minute
	maxBody          = 64 << 20
)

var (
	// config vars
	kernelFile  = env.String("KERNEL", "kernel.jam")
	listenAddr  = env.String("LISTEN", ":8080")
	dbURL       = env.String("DATABASE_URL", "")
	snapshotDir = env.String("SNAPSHOT_DIR", "checkpoints")
	saveEvery   = env.Int("SAVE_EVERY", 100)
	arenaSize   = env.Bytes("NOCK_ARENA", 4<<30)
	maxDepth    = env.Int("NOCK_DEPTH", interp.DefaultMaxDepth)
	memoSize    = env.Int("NOCK_MEMO", interp.DefaultMemo)
	testJets    = env.Bool("NOCK_TEST_JETS", false)
	slogRate    = env.Float("NOCK_SLOG_RATE", 100)

	// build vars; initialized by the linker
	buildTag    = "dev"
	buildCommit = "?"
)

func init() {
	expvar.NewString("buildtag").Set(buildTag)
	expvar.NewString("buildcommit").Set(buildCommit)
}

func main() {
	ctx := context.Background()
	env.Parse()
	log.SetPrefix("app", "nockd", "buildtag", buildTag)

	trap, err := ioutil.ReadFile(*kernelFile)
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, errors.Wrap(err))
	}
	store, err := openStore(ctx)
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, err)
	}

	a := noun.NewArena(*arenaSize / 8)
	a.SetGauge("arena.words")
	opts := []interp.Option{
		interp.WithMaxDepth(*maxDepth),
		interp.WithMemo(*memoSize),
		interp.WithSlogRate(*slogRate, 10),
		interp.WithLogContext(ctx),
	}
	if *testJets {
		opts = append(opts, interp.WithTestJets())
	}
	c := interp.New(a, jets.NewHot(jets.Standard()...), opts...)
	k, err := kernel.Open(ctx, c, trap, store)
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, err)
	}
	log.Printkv(ctx, "kernel", *kernelFile, "size", humanize.Bytes(uint64(len(trap))), "event", k.Event())

	serf := kernel.NewSerf(ctx, k, kernel.SaveEvery(store, uint64(*saveEvery)))
	done := make(chan struct{})
	go latency.RotateEvery(done, serf.PeekLatency, serf.PokeLatency)
	lat := expvar.NewMap("latency")
	lat.Set("peek", serf.PeekLatency)
	lat.Set("poke", serf.PokeLatency)
	go shutdownOnSignal(ctx, serf, done)

	http.Handle("/poke", handler(serf.Poke))
	http.Handle("/peek", handler(serf.Peek))
	http.HandleFunc("/save", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != "POST" {
			writeError(w, req, errMethod)
			return
		}
		if err := serf.Save(req.Context()); err != nil {
			writeError(w, req, err)
		}
	})
	http.HandleFunc("/event", func(w http.ResponseWriter, req *http.Request) {
		ev, err := serf.Event(req.Context())
		if err != nil {
			writeError(w, req, err)
			return
		}
		io.WriteString(w, strconv.FormatUint(ev, 10)+"\n")
	})
	http.HandleFunc("/health", func(http.ResponseWriter, *http.Request) {})
	secureheader.DefaultConfig.Next = reqid.Handler(http.DefaultServeMux)
	secureheader.DefaultConfig.PermitClearLoopback = true
	secureheader.DefaultConfig.HTTPSRedirect = false

	server := &http.Server{
		Addr:         *listenAddr,
		Handler:      secureheader.DefaultConfig,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
	}
	log.Printkv(ctx, "listen", *listenAddr)
	err = server.ListenAndServe()
	if err != nil {
		log.Fatalkv(ctx, log.KeyError, errors.Wrap(err, "ListenAndServe"))
	}
}

func openStore(ctx context.Context) (kernel.Store, error) {
	if *dbURL != "" {
		return kernel.OpenSQLStore(ctx, *dbURL)
	}
	return kernel.NewFileStore(ctx, *snapshotDir)
}

// handler adapts a jam-in, jam-out Serf method to HTTP.
func handler(f func(context.Context, []byte) ([]byte, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != "POST" {
			writeError(w, req, errMethod)
			return
		}
		in, err := ioutil.ReadAll(io.LimitReader(req.Body, maxBody))
		if err != nil {
			writeError(w, req, errors.Wrap(err))
			return
		}
		out, err := f(req.Context(), in)
		if err != nil {
			writeError(w, req, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(out)
	})
}

var (
	errComputation = errors.New("computation failed")
	errMethod      = errors.New("method not allowed")
)

var errorFormatter = httperror.Formatter{
	Default:     httperror.Info{HTTPStatus: 500, Code: "NOCK000", Message: "Internal server error"},
	IsTemporary: func(info httperror.Info, _ error) bool { return info.HTTPStatus == 503 || info.HTTPStatus == 408 },
	Errors: map[error]httperror.Info{
		noun.ErrCue:              {HTTPStatus: 400, Code: "NOCK001", Message: "Malformed jam"},
		errMethod:                {HTTPStatus: 405, Code: "NOCK002", Message: "Use POST"},
		errComputation:           {HTTPStatus: 422, Code: "NOCK003", Message: "Kernel computation failed"},
		kernel.ErrBadKernel:      {HTTPStatus: 422, Code: "NOCK004", Message: "Kernel returned a malformed result"},
		kernel.ErrDead:           {HTTPStatus: 503, Code: "NOCK005", Message: "Kernel is dead"},
		kernel.ErrClosed:         {HTTPStatus: 503, Code: "NOCK006", Message: "Shutting down"},
		context.DeadlineExceeded: {HTTPStatus: 408, Code: "NOCK007", Message: "Request timed out"},
		context.Canceled:         {HTTPStatus: 408, Code: "NOCK008", Message: "Request canceled"},
	},
}

func writeError(w http.ResponseWriter, req *http.Request, err error) {
	if interp.IsDeterministic(err) {
		err = errors.Sub(errComputation, err)
	}
	resp := errorFormatter.Format(err)
	metrics.Counter(fmt.Sprintf("http.%d", resp.HTTPStatus)).Add()
	errorFormatter.Write(req.Context(), w, err)
}

func shutdownOnSignal(ctx context.Context, serf *kernel.Serf, done chan struct{}) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Printf(ctx, "shutting down")
	if err := serf.Save(ctx); err != nil {
		log.Error(ctx, err, "final checkpoint")
	}
	serf.Close()
	close(done)
	os.Exit(0)
}
