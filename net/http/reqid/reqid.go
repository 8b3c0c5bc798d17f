// Package reqid creates request IDs and stores them in Contexts.
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"nockchain/log"
)

// Header is the response header carrying the request ID.
const Header = "Nock-Request-Id"

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

// reqIDKey is the key for request IDs in Contexts. It is
// unexported; clients use NewContext and FromContext
// instead of using this key directly.
const reqIDKey key = 0

// New generates a random request ID.
func New() string {
	return uuid.New().String()
}

// NewContext returns a new Context that carries reqid.
// It also adds a log prefix to print the request ID using
// package nockchain/log.
func NewContext(ctx context.Context, reqid string) context.Context {
	ctx = context.WithValue(ctx, reqIDKey, reqid)
	ctx = log.AddPrefixkv(ctx, "reqid", reqid)
	return ctx
}

// FromContext returns the request ID stored in ctx,
// if any.
func FromContext(ctx context.Context) string {
	reqID, _ := ctx.Value(reqIDKey).(string)
	return reqID
}

// Ensure returns ctx unchanged if it already carries a request ID,
// and otherwise a Context carrying a new one.
func Ensure(ctx context.Context) context.Context {
	if FromContext(ctx) != "" {
		return ctx
	}
	return NewContext(ctx, New())
}

// Handler gives each request a new ID, reported in the
// response header and in every log line written with
// the request's Context. It logs and swallows panics.
func Handler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := New()
		ctx := NewContext(req.Context(), id)

		defer func() {
			if err := recover(); err != nil {
				log.Printkv(ctx,
					"message", "panic",
					"remote-addr", req.RemoteAddr,
					"error", err,
				)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		w.Header().Add(Header, id)
		handler.ServeHTTP(w, req.WithContext(ctx))
	})
}
