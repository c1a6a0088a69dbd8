package errors

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestRecoverMiddleware(t *testing.T) {
	h := newErrorHandler("", nil)
	handler = h
	defer func() { handler = nil }()

	func() {
		defer RecoverMiddleware()()
		panic("boom")
	}()

	if got := h.Count(); got != 1 {
		t.Errorf("Count() = %v, want %v", got, 1)
	}
}

func TestGoRecovers(t *testing.T) {
	h := newErrorHandler("", nil)
	handler = h
	defer func() { handler = nil }()

	done := make(chan struct{})
	Go(func() {
		defer close(done)
		panic("job exploded")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish")
	}
	// The recover runs after the inner defer; give it a moment.
	deadline := time.Now().Add(time.Second)
	for h.Count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := h.Count(); got != 1 {
		t.Errorf("Count() = %v, want %v", got, 1)
	}
}

func TestShutdownOnErrorFlood(t *testing.T) {
	var shutdownCalled, exitCode int32
	h := newErrorHandler("", func() { atomic.StoreInt32(&shutdownCalled, 1) })
	h.exit = func(code int) { atomic.StoreInt32(&exitCode, int32(code)) }
	h.maxErrors = 2

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}
	if !h.overLimit() {
		t.Fatal("overLimit() = false, want true")
	}
	h.shutdown()

	if atomic.LoadInt32(&shutdownCalled) != 1 {
		t.Error("shutdown func was not called")
	}
	if got := atomic.LoadInt32(&exitCode); got != 1 {
		t.Errorf("exit code = %v, want %v", got, 1)
	}
}

func TestReportPostsToWebhook(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %v, want %v", ct, "application/json")
		}
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := newErrorHandler(srv.URL, nil)
	h.Report(ReportErrorOptions{Error: "Test", Message: "something broke"})

	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("webhook hits = %v, want %v", got, 1)
	}
}
