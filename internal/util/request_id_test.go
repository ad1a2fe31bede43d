package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestWithRequestIDKeepsCallerID(t *testing.T) {
	const incoming = "directory-req-42"
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromRequest(r); got != incoming {
			t.Fatalf("request id in context = %q, want %q", got, incoming)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/schools", nil)
	req.Header.Set("X-Request-Id", incoming)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != incoming {
		t.Fatalf("response request id = %q, want %q", got, incoming)
	}
}

func TestWithRequestIDGeneratesUUIDWhenMissing(t *testing.T) {
	var seen string
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromRequest(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/schools", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "" {
		t.Fatal("expected generated request id in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("generated request id %q is not a UUID: %v", seen, err)
	}
	if got := rec.Header().Get("X-Request-Id"); got != seen {
		t.Fatalf("response header %q differs from context id %q", got, seen)
	}
}

func TestWithRequestIDInjectsScopedLogger(t *testing.T) {
	handler := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if LoggerFromContext(r.Context()) == nil {
			t.Fatal("expected logger in context")
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/schools", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}
