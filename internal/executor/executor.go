// Package executor runs button macros against the input capabilities and
// pairs every held key with the button's release.
package executor

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform"
)

// Pointer is the mouse surface macros use. *mouse.Controller implements it.
type Pointer interface {
	MoveAbsolute(x, y int) error
	MoveRelative(dx, dy int) error
	Click(b model.MouseButton) error
	Scroll(clicks int) error
}

// ErrNoPointer is reported for mouse actions when no Pointer is configured.
var ErrNoPointer = errors.New("no mouse available")

// CapabilityError is a failed action within a macro. The remaining actions
// still run.
type CapabilityError struct {
	Button model.ButtonID
	Action model.Action
	Err    error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("button %d: %s: %v", e.Button, e.Action, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// State is the per-button execution state.
type State int

const (
	Idle State = iota
	Executing
)

func (s State) String() string {
	if s == Executing {
		return "executing"
	}
	return "idle"
}

type buttonState struct {
	// mu serializes runs and releases of one button.
	mu        sync.Mutex
	executing bool
	// held lists keys pressed by the latest run, in press order.
	held []model.Key
	ran  bool
}

// Executor runs macros. Different buttons may run concurrently; each button
// is serialized on its own lock.
type Executor struct {
	profile model.Profile
	kbd     platform.Keyboard
	ptr     Pointer
	clk     clock.Clock
	log     *slog.Logger
	pause   time.Duration
	onError func(*CapabilityError)

	mu      sync.Mutex
	buttons map[model.ButtonID]*buttonState
}

// Option configures an Executor.
type Option func(*Executor)

func WithClock(c clock.Clock) Option { return func(e *Executor) { e.clk = c } }

func WithLogger(l *slog.Logger) Option { return func(e *Executor) { e.log = l } }

// WithActionPause inserts a pause after every action.
func WithActionPause(d time.Duration) Option { return func(e *Executor) { e.pause = d } }

// WithErrorHandler is called for every CapabilityError after it is logged.
func WithErrorHandler(fn func(*CapabilityError)) Option {
	return func(e *Executor) { e.onError = fn }
}

// New creates an Executor. ptr may be nil when no mouse is available; mouse
// actions then fail with ErrNoPointer.
func New(profile model.Profile, kbd platform.Keyboard, ptr Pointer, opts ...Option) *Executor {
	e := &Executor{
		profile: profile,
		kbd:     kbd,
		ptr:     ptr,
		clk:     clock.Real{},
		buttons: make(map[model.ButtonID]*buttonState),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Profile returns the profile the executor was built with.
func (e *Executor) Profile() model.Profile { return e.profile }

func (e *Executor) state(id model.ButtonID) *buttonState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.buttons[id]
	if !ok {
		st = &buttonState{}
		e.buttons[id] = st
	}
	return st
}

// Handle dispatches ev to Press or Release.
func (e *Executor) Handle(ev model.ButtonEvent) {
	switch ev.Edge {
	case model.Pressed:
		e.Press(ev.Button)
	case model.Released:
		e.Release(ev.Button)
	}
}

// Press runs the macro bound to id to completion, including its delays.
// Keys it presses stay held until Release. Unmapped buttons are ignored.
func (e *Executor) Press(id model.ButtonID) {
	actions := e.profile.Actions(id)
	if len(actions) == 0 {
		e.log.Debug("no macro for button", "button", int(id))
		return
	}

	st := e.state(id)
	st.mu.Lock()
	defer st.mu.Unlock()

	log := e.log.With("button", int(id), "run", uuid.NewString())
	if len(st.held) > 0 {
		log.Warn("button pressed again while keys are held; releasing them first", "keys", keyNames(st.held))
		e.releaseHeld(id, st, log)
	}

	e.mu.Lock()
	st.executing = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		st.executing = false
		e.mu.Unlock()
	}()

	log.Info("running macro", "actions", len(actions))
	start := e.clk.Now()
	st.held = st.held[:0]
	st.ran = true
	for i, a := range actions {
		if i > 0 && e.pause > 0 {
			e.clk.Sleep(e.pause)
		}
		log.Debug("action", "index", i, "action", a.String())
		if err := e.perform(a, st); err != nil {
			e.fail(&CapabilityError{Button: id, Action: a, Err: err}, log)
		}
	}
	log.Debug("macro finished", "elapsed", e.clk.Now().Sub(start), "held", keyNames(st.held))
}

// Release lets go of the keys held by the latest run of id. It waits for an
// in-flight run of the same button. Without a recorded run it does nothing.
func (e *Executor) Release(id model.ButtonID) {
	e.mu.Lock()
	st, ok := e.buttons[id]
	e.mu.Unlock()
	if !ok {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.ran {
		return
	}
	log := e.log.With("button", int(id))
	e.releaseHeld(id, st, log)
	st.ran = false
}

// ReleaseAll releases the held keys of every button, as if each had seen its
// release edge. It waits for in-flight runs. Buttons are visited in ascending
// id order.
func (e *Executor) ReleaseAll() {
	e.mu.Lock()
	ids := make([]model.ButtonID, 0, len(e.buttons))
	for id := range e.buttons {
		ids = append(ids, id)
	}
	e.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		e.Release(id)
	}
}

// releaseHeld releases held keys in reverse press order. Keys whose release
// fails are dropped from the held set anyway so they are not retried.
func (e *Executor) releaseHeld(id model.ButtonID, st *buttonState, log *slog.Logger) {
	for i := len(st.held) - 1; i >= 0; i-- {
		k := st.held[i]
		if err := e.kbd.ReleaseKey(k); err != nil {
			e.fail(&CapabilityError{Button: id, Action: model.KeyPress{Key: k}, Err: fmt.Errorf("release: %w", err)}, log)
		}
	}
	if len(st.held) > 0 {
		log.Debug("released keys", "keys", keyNames(st.held))
	}
	st.held = st.held[:0]
}

func (e *Executor) perform(a model.Action, st *buttonState) error {
	switch a := a.(type) {
	case model.KeyPress:
		return e.press(a.Key, st)
	case model.KeyCombo:
		var errs []error
		for _, k := range a.Keys {
			if err := e.press(k, st); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	case model.TypeText:
		return e.kbd.TypeText(a.Text)
	case model.MoveAbsolute:
		if e.ptr == nil {
			return ErrNoPointer
		}
		return e.ptr.MoveAbsolute(a.X, a.Y)
	case model.MoveRelative:
		if e.ptr == nil {
			return ErrNoPointer
		}
		return e.ptr.MoveRelative(a.DX, a.DY)
	case model.Click:
		if e.ptr == nil {
			return ErrNoPointer
		}
		return e.ptr.Click(a.Button)
	case model.Scroll:
		if e.ptr == nil {
			return ErrNoPointer
		}
		return e.ptr.Scroll(a.Clicks)
	case model.Delay:
		e.clk.Sleep(a.Duration)
		return nil
	case model.Unknown:
		e.log.Warn("skipping unknown action", "type", a.Type)
		return nil
	default:
		return fmt.Errorf("unsupported action %T", a)
	}
}

// press presses k and records it as held. A key already held by this run is
// not pressed twice.
func (e *Executor) press(k model.Key, st *buttonState) error {
	for _, h := range st.held {
		if h == k {
			return nil
		}
	}
	if err := e.kbd.PressKey(k); err != nil {
		return fmt.Errorf("press %s: %w", k, err)
	}
	st.held = append(st.held, k)
	return nil
}

func (e *Executor) fail(err *CapabilityError, log *slog.Logger) {
	log.Error("action failed", "action", err.Action.String(), "error", err.Err)
	if e.onError != nil {
		e.onError(err)
	}
}

// State reports whether a macro for id is currently running.
func (e *Executor) State(id model.ButtonID) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.buttons[id]; ok && st.executing {
		return Executing
	}
	return Idle
}

// Held returns the keys currently held for id. It waits for an in-flight run
// of id to finish.
func (e *Executor) Held(id model.ButtonID) []model.Key {
	e.mu.Lock()
	st, ok := e.buttons[id]
	e.mu.Unlock()
	if !ok {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]model.Key, len(st.held))
	copy(out, st.held)
	return out
}

func keyNames(keys []model.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
