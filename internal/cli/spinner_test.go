package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerBasic(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Loading nodes")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Loading nodes") {
		t.Errorf("spinner output = %q, want message", out.String())
	}
	if !strings.HasSuffix(out.String(), "\r") {
		t.Error("Stop() should clear the line")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	var out syncBuffer
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &out, "Testing with context...")
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		<-s.stopped
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after context cancellation")
	}

	// Stop after cancellation must not block.
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
	s.Stop()
}
