package relay

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/model"
)

// maxLine bounds a protocol line; longer input is discarded up to the next
// newline.
const maxLine = 256

// Listener reads protocol lines and forwards parsed events.
type Listener struct {
	r     io.Reader
	sink  func(model.ButtonEvent) error
	clk   clock.Clock
	log   *slog.Logger
	idle  time.Duration
	count int
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

func WithListenerClock(c clock.Clock) ListenerOption { return func(l *Listener) { l.clk = c } }

func WithListenerLogger(log *slog.Logger) ListenerOption { return func(l *Listener) { l.log = log } }

// WithIdleBackoff sets how long to wait after a read that returned no data.
// Serial ports with a read timeout return (0, nil) when idle.
func WithIdleBackoff(d time.Duration) ListenerOption { return func(l *Listener) { l.idle = d } }

// NewListener reads from r and passes events to sink, usually
// Dispatcher.Dispatch.
func NewListener(r io.Reader, sink func(model.ButtonEvent) error, opts ...ListenerOption) *Listener {
	l := &Listener{r: r, sink: sink, clk: clock.Real{}}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = slog.Default()
	}
	return l
}

// Received returns the number of events forwarded so far.
func (l *Listener) Received() int { return l.count }

// Run reads until ctx is done or the reader fails. Read failures, including
// io.EOF, are returned as *TransportError. Cancellation is observed between
// reads, so the reader should have a read timeout.
func (l *Listener) Run(ctx context.Context) error {
	buf := make([]byte, 128)
	var line []byte
	discarding := false

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := l.r.Read(buf)
		for _, b := range buf[:n] {
			if b == '\n' {
				if !discarding {
					if sinkErr := l.handleLine(line); sinkErr != nil {
						return sinkErr
					}
				}
				line = line[:0]
				discarding = false
				continue
			}
			if discarding {
				continue
			}
			if len(line) >= maxLine {
				l.log.Warn("discarding overlong line", "prefix", string(line[:32]))
				line = line[:0]
				discarding = true
				continue
			}
			line = append(line, b)
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(bytes.TrimSpace(line)) > 0 && !discarding {
				if sinkErr := l.handleLine(line); sinkErr != nil {
					return sinkErr
				}
			}
			return &TransportError{Op: "read", Err: err}
		}
		if n == 0 && l.idle > 0 {
			l.clk.Sleep(l.idle)
		}
	}
}

func (l *Listener) handleLine(raw []byte) error {
	text := string(bytes.TrimSpace(raw))
	if text == "" {
		return nil
	}
	ev, ok := ParseLine(text)
	if !ok {
		l.log.Debug("ignoring line", "line", text)
		return nil
	}
	ev = stamp(ev, l.clk.Now())
	l.count++
	l.log.Info("received", "button", int(ev.Button), "edge", ev.Edge.String())
	return l.sink(ev)
}
