package linuxinput

import (
	"fmt"
	"sync"

	"github.com/mj1618/macropad/internal/model"
)

// Levels turns a stream of key events into per-button line levels, the way
// a GPIO pin reads on the pad itself. A button is high while any of its
// codes is held. Levels satisfies edge.Source.
type Levels struct {
	mu      sync.Mutex
	mapping Mapping
	down    map[uint16]bool
}

func NewLevels(m Mapping) *Levels {
	return &Levels{mapping: m, down: make(map[uint16]bool)}
}

// Apply records one EV_KEY event. Autorepeat (value 2) does not change the
// level; unmapped codes are ignored.
func (l *Levels) Apply(code uint16, value int32) {
	if _, ok := l.mapping[code]; !ok {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	switch value {
	case 0:
		delete(l.down, code)
	case 1:
		l.down[code] = true
	}
}

// Level reports whether button id is held.
func (l *Levels) Level(id model.ButtonID) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	mapped := false
	for code, b := range l.mapping {
		if b != id {
			continue
		}
		mapped = true
		if l.down[code] {
			return true, nil
		}
	}
	if !mapped {
		return false, fmt.Errorf("button %d has no mapped key code", id)
	}
	return false, nil
}

// ReleaseAll drops every held code, e.g. after the device disappears.
func (l *Levels) ReleaseAll() {
	l.mu.Lock()
	l.down = make(map[uint16]bool)
	l.mu.Unlock()
}
