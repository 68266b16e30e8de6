// Package relay carries button edges over a line-oriented serial link and
// feeds received edges to per-button macro lanes.
package relay

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mj1618/macropad/internal/model"
)

const (
	PressedPrefix  = "BUTTON_PRESSED:"
	ReleasedPrefix = "BUTTON_RELEASED:"
)

// Encode renders ev as one protocol line, including the trailing newline.
func Encode(ev model.ButtonEvent) string {
	prefix := PressedPrefix
	if ev.Edge == model.Released {
		prefix = ReleasedPrefix
	}
	return prefix + ev.Button.String() + "\n"
}

// ParseLine decodes one protocol line. Malformed lines report false. The
// returned event carries no timestamp; receivers stamp it on arrival.
func ParseLine(line string) (model.ButtonEvent, bool) {
	line = strings.TrimSpace(line)
	var ev model.ButtonEvent
	var rest string
	switch {
	case strings.HasPrefix(line, PressedPrefix):
		ev.Edge = model.Pressed
		rest = line[len(PressedPrefix):]
	case strings.HasPrefix(line, ReleasedPrefix):
		ev.Edge = model.Released
		rest = line[len(ReleasedPrefix):]
	default:
		return model.ButtonEvent{}, false
	}
	if !canonicalDigits(rest) {
		return model.ButtonEvent{}, false
	}
	id, err := model.ParseButtonID(rest)
	if err != nil {
		return model.ButtonEvent{}, false
	}
	ev.Button = id
	return ev, true
}

// canonicalDigits reports whether s is a decimal number as Encode writes it:
// ASCII digits only, without sign or leading zeros.
func canonicalDigits(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Sender writes encoded events to w. It is safe for concurrent use.
type Sender struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSender creates a Sender writing to w.
func NewSender(w io.Writer) *Sender {
	return &Sender{w: w}
}

// Send writes one line for ev.
func (s *Sender) Send(ev model.ButtonEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, Encode(ev)); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// TransportError is a failed read or write on the link. It ends the listen
// loop; the owner decides whether to reconnect.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "serial " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func stamp(ev model.ButtonEvent, now time.Time) model.ButtonEvent {
	ev.Time = now
	return ev
}
