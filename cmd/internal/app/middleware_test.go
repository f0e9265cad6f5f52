package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWithRequestLogging_SetsRequestID(t *testing.T) {
	t.Parallel()

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), discardLogger(), NewMetrics())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status not preserved: %d", rec.Code)
	}
	id := rec.Header().Get("X-Request-Id")
	if len(id) != 26 {
		t.Fatalf("expected a 26-char ULID request id, got %q", id)
	}

	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec2.Header().Get("X-Request-Id") == id {
		t.Fatalf("request ids must be unique per request")
	}
}

func TestWithRequestLogging_CapturesBytesAndStatus(t *testing.T) {
	t.Parallel()

	lrw := &loggingResponseWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	lrw.WriteHeader(http.StatusCreated)
	if _, err := lrw.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if lrw.status != http.StatusCreated {
		t.Fatalf("status=%d", lrw.status)
	}
	if lrw.bytes != 5 {
		t.Fatalf("bytes=%d", lrw.bytes)
	}
}

func TestNewRequestID_Sortable(t *testing.T) {
	t.Parallel()

	early := newRequestID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	late := newRequestID(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if !(early < late) {
		t.Fatalf("ids must sort by timestamp: %q vs %q", early, late)
	}
}
