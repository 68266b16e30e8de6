package edge

import (
	"context"
	"log/slog"
	"time"

	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/model"
)

// DefaultInterval is the sampling period of the reference firmware.
const DefaultInterval = 10 * time.Millisecond

// Handler consumes events produced by a Poller. It runs on the polling
// goroutine, so a slow handler delays the next sample.
type Handler func(ev model.ButtonEvent)

// Poller drives a Detector from a Source on a fixed interval.
type Poller struct {
	Detector *Detector
	Source   Source
	Handler  Handler
	Interval time.Duration
	Clock    clock.Clock
	Logger   *slog.Logger
}

// Run polls until ctx is cancelled. It always returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	log := p.Logger
	if log == nil {
		log = slog.Default()
	}

	ticks, stop := clk.NewTicker(interval)
	defer stop()

	log.Debug("polling buttons", "buttons", len(p.Detector.Buttons()), "interval", interval)
	for {
		p.cycle(clk.Now(), log)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticks:
		}
	}
}

func (p *Poller) cycle(now time.Time, log *slog.Logger) {
	events, errs := p.Detector.Poll(p.Source, now)
	for _, err := range errs {
		log.Warn("button read failed", "error", err)
	}
	for _, ev := range events {
		log.Debug("edge", "button", int(ev.Button), "edge", ev.Edge.String())
		if p.Handler != nil {
			p.Handler(ev)
		}
	}
}
