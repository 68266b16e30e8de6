package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mj1618/macropad/internal/clock"
)

// Config controls Serve.
type Config struct {
	// QueueSize bounds each button's queue.
	QueueSize int
	// ListenFor bounds the session; zero listens until ctx is done.
	ListenFor time.Duration
	// IdleBackoff is the pause after an empty read.
	IdleBackoff time.Duration
	Clock       clock.Clock
	Logger      *slog.Logger
}

// Stats summarizes a finished session.
type Stats struct {
	Events int
	// Buttons counts the distinct buttons that sent events.
	Buttons int
}

// Serve reads events from r and executes them through handle, one lane per
// button, until ctx is cancelled, ListenFor elapses, or the link fails. Queued
// macros are drained before Serve returns. Reaching ListenFor or a cancelled
// ctx is a clean stop and returns nil.
func Serve(ctx context.Context, r io.Reader, handle EventHandler, cfg Config) (Stats, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.ListenFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ListenFor)
		defer cancel()
	}

	d := NewDispatcher(handle, cfg.QueueSize, log)
	opts := []ListenerOption{WithListenerLogger(log), WithIdleBackoff(cfg.IdleBackoff)}
	if cfg.Clock != nil {
		opts = append(opts, WithListenerClock(cfg.Clock))
	}
	l := NewListener(r, d.Dispatch, opts...)

	log.Info("listening for button events")
	err := l.Run(ctx)
	d.Close()

	stats := Stats{Events: l.Received(), Buttons: d.Lanes()}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return stats, nil
	}
	return stats, err
}
