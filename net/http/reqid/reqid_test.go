package reqid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEnsure(t *testing.T) {
	ctx := Ensure(context.Background())
	id := FromContext(ctx)
	if id == "" {
		t.Fatal("no request id")
	}
	if got := FromContext(Ensure(ctx)); got != id {
		t.Errorf("Ensure replaced id %s with %s", id, got)
	}
}

func TestHandler(t *testing.T) {
	var seen string
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		seen = FromContext(req.Context())
		if req.URL.Path == "/panic" {
			panic("boom")
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if seen == "" || rec.Header().Get(Header) != seen {
		t.Errorf("header %q, context %q", rec.Header().Get(Header), seen)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status after panic = %d", rec.Code)
	}
}
