package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind names an Action variant. The values double as the "type" field of
// structured profiles.
type Kind string

const (
	KindKey          Kind = "key"
	KindKeyCombo     Kind = "key_combo"
	KindTypeText     Kind = "type"
	KindMoveAbsolute Kind = "mouse_move"
	KindMoveRelative Kind = "mouse_move_rel"
	KindClick        Kind = "mouse_click"
	KindScroll       Kind = "scroll"
	KindDelay        Kind = "delay"
	KindUnknown      Kind = "unknown"
)

// Action is one step of a macro. The set of implementations is closed; the
// executor switches over them exhaustively.
type Action interface {
	Kind() Kind
	String() string
	action()
}

// KeyPress presses a single key and holds it until the button is released.
type KeyPress struct {
	Key Key
}

// KeyCombo presses keys in listed order and holds all of them.
type KeyCombo struct {
	Keys []Key
}

// TypeText types a literal string.
type TypeText struct {
	Text string
}

// MoveAbsolute places the cursor at a screen coordinate.
type MoveAbsolute struct {
	X, Y int
}

// MoveRelative moves the cursor by an offset, bounded by the screen.
type MoveRelative struct {
	DX, DY int
}

// Click is a momentary mouse click.
type Click struct {
	Button MouseButton
}

// Scroll scrolls the wheel; positive is up.
type Scroll struct {
	Clicks int
}

// Delay suspends the running macro.
type Delay struct {
	Duration time.Duration
}

// Unknown carries a structured action whose type this build does not know.
// It is skipped at execution time.
type Unknown struct {
	Type string
}

func (KeyPress) Kind() Kind     { return KindKey }
func (KeyCombo) Kind() Kind     { return KindKeyCombo }
func (TypeText) Kind() Kind     { return KindTypeText }
func (MoveAbsolute) Kind() Kind { return KindMoveAbsolute }
func (MoveRelative) Kind() Kind { return KindMoveRelative }
func (Click) Kind() Kind        { return KindClick }
func (Scroll) Kind() Kind       { return KindScroll }
func (Delay) Kind() Kind        { return KindDelay }
func (Unknown) Kind() Kind      { return KindUnknown }

func (KeyPress) action()     {}
func (KeyCombo) action()     {}
func (TypeText) action()     {}
func (MoveAbsolute) action() {}
func (MoveRelative) action() {}
func (Click) action()        {}
func (Scroll) action()       {}
func (Delay) action()        {}
func (Unknown) action()      {}

func (a KeyPress) String() string { return "key " + a.Key.String() }

func (a KeyCombo) String() string {
	names := make([]string, len(a.Keys))
	for i, k := range a.Keys {
		names[i] = k.String()
	}
	return "combo " + strings.Join(names, "+")
}

func (a TypeText) String() string     { return fmt.Sprintf("type %q", a.Text) }
func (a MoveAbsolute) String() string { return fmt.Sprintf("move to (%d, %d)", a.X, a.Y) }
func (a MoveRelative) String() string { return fmt.Sprintf("move by (%d, %d)", a.DX, a.DY) }
func (a Click) String() string        { return a.Button.String() + " click" }
func (a Scroll) String() string       { return fmt.Sprintf("scroll %d", a.Clicks) }
func (a Delay) String() string        { return "delay " + a.Duration.String() }
func (a Unknown) String() string      { return fmt.Sprintf("unknown action %q", a.Type) }

// ActionList is the ordered macro bound to one button.
type ActionList []Action

// Profile maps buttons to their macros. It is built once and then only read.
type Profile map[ButtonID]ActionList

// Buttons returns the mapped button ids in ascending order.
func (p Profile) Buttons() []ButtonID {
	ids := make([]ButtonID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Actions returns the macro for id, or nil when the button is unmapped.
func (p Profile) Actions(id ButtonID) ActionList {
	return p[id]
}
