//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework Foundation -framework Carbon
#include <CoreGraphics/CoreGraphics.h>
#include <Carbon/Carbon.h>

static CGPoint cg_cursor(void) {
    CGEventRef ev = CGEventCreate(NULL);
    CGPoint p = CGEventGetLocation(ev);
    CFRelease(ev);
    return p;
}

// Post a key transition with the given modifier flags.
static int cg_key(CGKeyCode keyCode, bool down, CGEventFlags flags) {
    CGEventRef ev = CGEventCreateKeyboardEvent(NULL, keyCode, down);
    if (!ev) return -1;
    CGEventSetFlags(ev, flags);
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

// Type a single Unicode character using CGEvent key simulation.
static void cg_type_char(UniChar ch) {
    CGEventRef keyDown = CGEventCreateKeyboardEvent(NULL, 0, true);
    CGEventRef keyUp = CGEventCreateKeyboardEvent(NULL, 0, false);
    CGEventKeyboardSetUnicodeString(keyDown, 1, &ch);
    CGEventKeyboardSetUnicodeString(keyUp, 1, &ch);
    CGEventPost(kCGHIDEventTap, keyDown);
    CGEventPost(kCGHIDEventTap, keyUp);
    CFRelease(keyDown);
    CFRelease(keyUp);
}

// Move the cursor by dx, dy from where it is now. A held left button turns
// the move into a drag.
static int cg_move_rel(int dx, int dy, bool dragging) {
    CGPoint p = cg_cursor();
    p.x += dx;
    p.y += dy;
    CGEventType t = dragging ? kCGEventLeftMouseDragged : kCGEventMouseMoved;
    CGEventRef move = CGEventCreateMouseEvent(NULL, t, p, kCGMouseButtonLeft);
    if (!move) return -1;
    CGEventPost(kCGHIDEventTap, move);
    CFRelease(move);
    return 0;
}

// button: 0=left, 1=right, 2=middle
static int cg_button(int button, bool down) {
    CGEventType t;
    CGMouseButton cgButton;
    switch (button) {
        case 1:
            cgButton = kCGMouseButtonRight;
            t = down ? kCGEventRightMouseDown : kCGEventRightMouseUp;
            break;
        case 2:
            cgButton = kCGMouseButtonCenter;
            t = down ? kCGEventOtherMouseDown : kCGEventOtherMouseUp;
            break;
        default:
            cgButton = kCGMouseButtonLeft;
            t = down ? kCGEventLeftMouseDown : kCGEventLeftMouseUp;
            break;
    }
    CGEventRef ev = CGEventCreateMouseEvent(NULL, t, cg_cursor(), cgButton);
    if (!ev) return -1;
    CGEventPost(kCGHIDEventTap, ev);
    CFRelease(ev);
    return 0;
}

// dy: vertical scroll (positive = up, negative = down)
static int cg_scroll(int dy) {
    CGEventRef scroll = CGEventCreateScrollWheelEvent(NULL, kCGScrollEventUnitLine, 1, dy);
    if (!scroll) return -1;
    CGEventPost(kCGHIDEventTap, scroll);
    CFRelease(scroll);
    return 0;
}
*/
import "C"

import (
	"fmt"
	"sync"

	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform"
)

// Inputter implements platform.Keyboard and platform.Mouse with CoreGraphics
// events. Held modifiers are tracked so later key events carry their flags.
type Inputter struct {
	mu       sync.Mutex
	flags    uint64
	leftDown bool
}

// NewInputter creates a macOS inputter.
func NewInputter() *Inputter {
	return &Inputter{}
}

var modifierFlags = map[model.Key]uint64{
	model.KeyLeftCtrl:   uint64(C.kCGEventFlagMaskControl),
	model.KeyRightCtrl:  uint64(C.kCGEventFlagMaskControl),
	model.KeyLeftShift:  uint64(C.kCGEventFlagMaskShift),
	model.KeyRightShift: uint64(C.kCGEventFlagMaskShift),
	model.KeyLeftAlt:    uint64(C.kCGEventFlagMaskAlternate),
	model.KeyRightAlt:   uint64(C.kCGEventFlagMaskAlternate),
	model.KeyLeftGUI:    uint64(C.kCGEventFlagMaskCommand),
	model.KeyRightGUI:   uint64(C.kCGEventFlagMaskCommand),
}

func (inp *Inputter) key(k model.Key, down bool) error {
	code, ok := KeyCode(k)
	if !ok {
		return fmt.Errorf("key %s has no macOS key code", k)
	}
	inp.mu.Lock()
	defer inp.mu.Unlock()
	if flag, isMod := modifierFlags[k]; isMod {
		if down {
			inp.flags |= flag
		} else {
			inp.flags &^= flag
		}
	}
	if C.cg_key(C.CGKeyCode(code), C.bool(down), C.CGEventFlags(inp.flags)) != 0 {
		return fmt.Errorf("failed to post key %s", k)
	}
	return nil
}

func (inp *Inputter) PressKey(k model.Key) error   { return inp.key(k, true) }
func (inp *Inputter) ReleaseKey(k model.Key) error { return inp.key(k, false) }

func (inp *Inputter) TypeText(text string) error {
	inp.mu.Lock()
	defer inp.mu.Unlock()
	for _, ch := range text {
		if ch > 0xFFFF {
			return fmt.Errorf("%w: %q", platform.ErrUntypeable, ch)
		}
		C.cg_type_char(C.UniChar(ch))
	}
	return nil
}

func (inp *Inputter) Move(dx, dy int) error {
	inp.mu.Lock()
	defer inp.mu.Unlock()
	if C.cg_move_rel(C.int(dx), C.int(dy), C.bool(inp.leftDown)) != 0 {
		return fmt.Errorf("failed to move mouse by (%d, %d)", dx, dy)
	}
	return nil
}

func cButton(b model.MouseButton) C.int {
	switch b {
	case model.MouseRight:
		return 1
	case model.MouseMiddle:
		return 2
	}
	return 0
}

func (inp *Inputter) button(b model.MouseButton, down bool) error {
	inp.mu.Lock()
	defer inp.mu.Unlock()
	if C.cg_button(cButton(b), C.bool(down)) != 0 {
		return fmt.Errorf("failed to post %s button", b)
	}
	if b == model.MouseLeft {
		inp.leftDown = down
	}
	return nil
}

func (inp *Inputter) PressButton(b model.MouseButton) error   { return inp.button(b, true) }
func (inp *Inputter) ReleaseButton(b model.MouseButton) error { return inp.button(b, false) }

func (inp *Inputter) Scroll(clicks int) error {
	if C.cg_scroll(C.int(clicks)) != 0 {
		return fmt.Errorf("failed to scroll %d", clicks)
	}
	return nil
}
