package server

import (
	"sync"
	"time"

	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/model"
)

// errEntry holds one capability failure with its timestamp.
type errEntry struct {
	err       *executor.CapabilityError
	timestamp time.Time
}

// ErrorLog collects capability errors per button so a tool call can report
// the failures of the run it started. Entries older than the ttl are
// dropped; a ttl of 0 keeps them until taken.
type ErrorLog struct {
	mu      sync.Mutex
	entries map[model.ButtonID][]errEntry
	ttl     time.Duration
	clk     clock.Clock
}

// NewErrorLog creates an empty log.
func NewErrorLog(ttl time.Duration, clk clock.Clock) *ErrorLog {
	if clk == nil {
		clk = clock.Real{}
	}
	return &ErrorLog{
		entries: make(map[model.ButtonID][]errEntry),
		ttl:     ttl,
		clk:     clk,
	}
}

// Record stores err. It has the signature executor.WithErrorHandler expects.
func (l *ErrorLog) Record(err *executor.CapabilityError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[err.Button] = append(l.entries[err.Button], errEntry{err: err, timestamp: l.clk.Now()})
}

// Take removes and returns the live errors for id, oldest first.
func (l *ErrorLog) Take(id model.ButtonID) []*executor.CapabilityError {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clk.Now()
	var out []*executor.CapabilityError
	for _, e := range l.entries[id] {
		if l.ttl > 0 && now.Sub(e.timestamp) >= l.ttl {
			continue
		}
		out = append(out, e.err)
	}
	delete(l.entries, id)
	return out
}

// InvalidateAll clears every entry.
func (l *ErrorLog) InvalidateAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[model.ButtonID][]errEntry)
}
