package errors

import (
	"sync"
	"testing"
	"time"
)

func TestRecoverMiddlewareCountsPanics(t *testing.T) {
	h := NewErrorHandler("", nil)
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

func TestRecoverMiddlewareWithoutHandler(t *testing.T) {
	handler = nil

	// Must not propagate the panic
	func() {
		defer RecoverMiddleware()()
		panic("boom")
	}()
}

func TestGoRecovers(t *testing.T) {
	h := NewErrorHandler("", nil)
	handler = h
	defer func() { handler = nil }()

	var wg sync.WaitGroup
	wg.Add(1)
	Go(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	// The deferred recover runs after wg.Done, give it a moment
	deadline := time.Now().Add(time.Second)
	for h.Count() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := h.Count(); got != 1 {
		t.Errorf("Count() = %v, want %v", got, 1)
	}
}

func TestShutdownOnErrorBurst(t *testing.T) {
	shutdownCalled := make(chan struct{}, 1)
	exitCode := make(chan int, 1)

	h := NewErrorHandler("", func() { shutdownCalled <- struct{}{} })
	h.exit = func(code int) { exitCode <- code }
	h.maxErrors = 2
	h.resetInterval = time.Hour
	h.checkInterval = 10 * time.Millisecond
	h.start()
	defer h.Stop()

	for i := 0; i < 3; i++ {
		h.IncrementError()
	}

	select {
	case <-shutdownCalled:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown hook was not called")
	}

	if code := <-exitCode; code != 1 {
		t.Errorf("exit code = %v, want %v", code, 1)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	h := NewErrorHandler("", nil)
	h.start()
	h.Stop()
	h.Stop()
}
