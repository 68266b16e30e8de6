// Package platform defines the input injection capabilities that macros are
// executed through, and a registry of the backends that implement them.
package platform

import "github.com/mj1618/macropad/internal/model"

// MaxRelativeMove is the largest displacement a single relative mouse report
// may carry on either axis.
const MaxRelativeMove = 127

// Keyboard injects key events.
type Keyboard interface {
	PressKey(k model.Key) error
	ReleaseKey(k model.Key) error
	// TypeText types s. Keys are pressed and released internally.
	TypeText(s string) error
}

// Mouse injects relative pointer events.
type Mouse interface {
	// Move displaces the cursor by dx, dy, each within ±MaxRelativeMove.
	Move(dx, dy int) error
	PressButton(b model.MouseButton) error
	ReleaseButton(b model.MouseButton) error
	// Scroll turns the wheel; positive clicks scroll up.
	Scroll(clicks int) error
}
