package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoexpressRouter_GroupRoutesUnderPrefix(t *testing.T) {
	r := NewGoexpressRouter()

	var gotID string
	r.Group("/api", func(gr Router) {
		gr.Get("/step/{session_id}", func(w http.ResponseWriter, req *http.Request) {
			gotID = req.PathValue("session_id")
			w.WriteHeader(http.StatusNoContent)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/step/sess-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusNoContent; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := gotID, "sess-1"; got != want {
		t.Errorf("session_id = %q, want %q", got, want)
	}
}

func TestGoexpressRouter_GroupMiddleware(t *testing.T) {
	r := NewGoexpressRouter()

	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Group", "yes")
			next.ServeHTTP(w, req)
		})
	}

	r.Group("/api", func(gr Router) {
		gr.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	}, tag)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("status = %d, want %d", got, want)
	}
	if got, want := rec.Header().Get("X-Group"), "yes"; got != want {
		t.Errorf("X-Group = %q, want %q", got, want)
	}
}
