// Package edge turns sampled button line levels into Pressed/Released events.
package edge

import (
	"sort"
	"time"

	"github.com/mj1618/macropad/internal/model"
)

// Polarity describes how a raw line level maps to "active".
type Polarity int

const (
	// ActiveHigh treats a high level as pressed.
	ActiveHigh Polarity = iota
	// ActiveLow treats a low level as pressed (pull-up wiring).
	ActiveLow
)

func (p Polarity) String() string {
	if p == ActiveLow {
		return "active-low"
	}
	return "active-high"
}

// Source reports the raw level of one button line.
type Source interface {
	Level(id model.ButtonID) (bool, error)
}

// StaticSource is a Source backed by a map. Missing ids read as low.
type StaticSource map[model.ButtonID]bool

func (s StaticSource) Level(id model.ButtonID) (bool, error) {
	return s[id], nil
}

// Detector remembers the last active state of each configured button.
// It is not safe for concurrent use; one polling loop owns it.
type Detector struct {
	polarity Polarity
	buttons  []model.ButtonID
	active   map[model.ButtonID]bool
}

// New creates a Detector for buttons. Every button starts inactive.
func New(buttons []model.ButtonID, polarity Polarity) *Detector {
	d := &Detector{
		polarity: polarity,
		active:   make(map[model.ButtonID]bool, len(buttons)),
	}
	for _, id := range buttons {
		if _, dup := d.active[id]; dup {
			continue
		}
		d.active[id] = false
		d.buttons = append(d.buttons, id)
	}
	sort.Slice(d.buttons, func(i, j int) bool { return d.buttons[i] < d.buttons[j] })
	return d
}

// Buttons returns the tracked ids in ascending order.
func (d *Detector) Buttons() []model.ButtonID {
	out := make([]model.ButtonID, len(d.buttons))
	copy(out, d.buttons)
	return out
}

// Active reports the last seen state of id.
func (d *Detector) Active(id model.ButtonID) bool {
	return d.active[id]
}

// Update feeds one raw level sample for id. It returns an event only when
// the active state changed. Unknown ids are ignored.
func (d *Detector) Update(id model.ButtonID, level bool, now time.Time) (model.ButtonEvent, bool) {
	prev, known := d.active[id]
	if !known {
		return model.ButtonEvent{}, false
	}
	cur := level
	if d.polarity == ActiveLow {
		cur = !level
	}
	if cur == prev {
		return model.ButtonEvent{}, false
	}
	d.active[id] = cur
	ev := model.ButtonEvent{Button: id, Edge: model.Released, Time: now}
	if cur {
		ev.Edge = model.Pressed
	}
	return ev, true
}

// ReadError is a failed sample of one button during Poll.
type ReadError struct {
	Button model.ButtonID
	Err    error
}

func (e *ReadError) Error() string {
	return "read button " + e.Button.String() + ": " + e.Err.Error()
}

func (e *ReadError) Unwrap() error { return e.Err }

// Poll samples every tracked button once, in id order. Buttons whose level
// cannot be read keep their previous state and are reported in errs.
func (d *Detector) Poll(src Source, now time.Time) (events []model.ButtonEvent, errs []error) {
	for _, id := range d.buttons {
		level, err := src.Level(id)
		if err != nil {
			errs = append(errs, &ReadError{Button: id, Err: err})
			continue
		}
		if ev, ok := d.Update(id, level, now); ok {
			events = append(events, ev)
		}
	}
	return events, errs
}
