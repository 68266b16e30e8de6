package relay

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/macropad/internal/model"
)

type collector struct {
	mu     sync.Mutex
	events []model.ButtonEvent
}

func (c *collector) add(ev model.ButtonEvent) error {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
	return nil
}

func (c *collector) snapshot() []model.ButtonEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ButtonEvent, len(c.events))
	copy(out, c.events)
	return out
}

// chunkReader returns its chunks one Read at a time, then an error. An empty
// chunk simulates a serial read timeout.
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, r.err
	}
	n := copy(p, r.chunks[0])
	if n < len(r.chunks[0]) {
		r.chunks[0] = r.chunks[0][n:]
	} else {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

func TestListener_SplitReadsAndTimeouts(t *testing.T) {
	r := &chunkReader{
		chunks: []string{"BUTTON_PRE", "", "SSED:7\nnoise\r\nBUTTON_RELEASED:", "", "7\r\n", "BUTTON_PRESSED:x\n"},
		err:    io.EOF,
	}
	var c collector
	err := NewListener(r, c.add).Run(context.Background())

	var te *TransportError
	if !errors.As(err, &te) || !errors.Is(err, io.EOF) {
		t.Fatalf("expected TransportError wrapping EOF, got %v", err)
	}
	got := c.snapshot()
	if len(got) != 2 {
		t.Fatalf("events = %v", got)
	}
	if got[0].Button != 7 || got[0].Edge != model.Pressed || got[1].Edge != model.Released {
		t.Errorf("events = %v", got)
	}
	if got[0].Time.IsZero() {
		t.Error("events should be stamped on arrival")
	}
}

func TestListener_FinalLineWithoutNewline(t *testing.T) {
	r := &chunkReader{chunks: []string{"BUTTON_PRESSED:9"}, err: io.EOF}
	var c collector
	_ = NewListener(r, c.add).Run(context.Background())
	if got := c.snapshot(); len(got) != 1 || got[0].Button != 9 {
		t.Errorf("events = %v", got)
	}
}

func TestListener_OverlongLineDiscarded(t *testing.T) {
	long := strings.Repeat("x", 1000)
	r := &chunkReader{chunks: []string{long, "BUTTON_PRESSED:1\nBUTTON_PRESSED:2\n"}, err: io.EOF}
	var c collector
	_ = NewListener(r, c.add).Run(context.Background())
	got := c.snapshot()
	if len(got) != 1 || got[0].Button != 2 {
		t.Errorf("events = %v", got)
	}
}

// idleReader always times out.
type idleReader struct{}

func (idleReader) Read(p []byte) (int, error) {
	time.Sleep(time.Millisecond)
	return 0, nil
}

func TestListener_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewListener(idleReader{}, (&collector{}).add).Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestListener_SinkErrorStops(t *testing.T) {
	r := &chunkReader{chunks: []string{"BUTTON_PRESSED:1\nBUTTON_PRESSED:2\n"}, err: io.EOF}
	sinkErr := errors.New("closed")
	err := NewListener(r, func(model.ButtonEvent) error { return sinkErr }).Run(context.Background())
	if !errors.Is(err, sinkErr) {
		t.Errorf("Run returned %v", err)
	}
}
