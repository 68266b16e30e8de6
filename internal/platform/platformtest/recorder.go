// Package platformtest provides a recording input backend for tests.
package platformtest

import (
	"fmt"
	"sync"

	"github.com/mj1618/macropad/internal/model"
)

// Call is one recorded capability invocation.
type Call struct {
	Op     string // press, release, type, move, down, up, scroll
	Key    model.Key
	Text   string
	DX, DY int
	Button model.MouseButton
	Clicks int
}

func (c Call) String() string {
	switch c.Op {
	case "press", "release":
		return c.Op + " " + c.Key.String()
	case "type":
		return fmt.Sprintf("type %q", c.Text)
	case "move":
		return fmt.Sprintf("move %d,%d", c.DX, c.DY)
	case "down", "up":
		return c.Op + " " + c.Button.String()
	case "scroll":
		return fmt.Sprintf("scroll %d", c.Clicks)
	}
	return c.Op
}

// Recorder implements platform.Keyboard and platform.Mouse by recording
// every call. It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
	// Fail, when set, is consulted before recording; a non-nil error is
	// returned and the call is not recorded.
	Fail func(c Call) error
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		if err := r.Fail(c); err != nil {
			return err
		}
	}
	r.calls = append(r.calls, c)
	return nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Strings returns the recorded calls in their String form.
func (r *Recorder) Strings() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Moves returns only the recorded move calls.
func (r *Recorder) Moves() []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Op == "move" {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *Recorder) PressKey(k model.Key) error   { return r.record(Call{Op: "press", Key: k}) }
func (r *Recorder) ReleaseKey(k model.Key) error { return r.record(Call{Op: "release", Key: k}) }
func (r *Recorder) TypeText(s string) error      { return r.record(Call{Op: "type", Text: s}) }
func (r *Recorder) Move(dx, dy int) error        { return r.record(Call{Op: "move", DX: dx, DY: dy}) }
func (r *Recorder) Scroll(clicks int) error      { return r.record(Call{Op: "scroll", Clicks: clicks}) }

func (r *Recorder) PressButton(b model.MouseButton) error {
	return r.record(Call{Op: "down", Button: b})
}

func (r *Recorder) ReleaseButton(b model.MouseButton) error {
	return r.record(Call{Op: "up", Button: b})
}
