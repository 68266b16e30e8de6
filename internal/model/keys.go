package model

import (
	"fmt"
	"sort"
	"strings"
)

// Key is a HID keyboard usage id (usage page 0x07). Backends translate it to
// their native codes.
type Key uint8

// Keys used by name in code and tests.
const (
	KeyA          Key = 0x04
	KeyC          Key = 0x06
	KeyV          Key = 0x19
	KeyY          Key = 0x1C
	KeyZ          Key = 0x1D
	Key1          Key = 0x1E
	Key0          Key = 0x27
	KeyEnter      Key = 0x28
	KeyEscape     Key = 0x29
	KeyBackspace  Key = 0x2A
	KeyTab        Key = 0x2B
	KeySpace      Key = 0x2C
	KeyF1         Key = 0x3A
	KeyF2         Key = 0x3B
	KeyF3         Key = 0x3C
	KeyF4         Key = 0x3D
	KeyF12        Key = 0x45
	KeyF13        Key = 0x68
	KeyF24        Key = 0x73
	KeyLeftCtrl   Key = 0xE0
	KeyLeftShift  Key = 0xE1
	KeyLeftAlt    Key = 0xE2
	KeyLeftGUI    Key = 0xE3
	KeyRightCtrl  Key = 0xE4
	KeyRightShift Key = 0xE5
	KeyRightAlt   Key = 0xE6
	KeyRightGUI   Key = 0xE7
)

// keyNames holds the canonical name of every supported key.
var keyNames = map[Key]string{
	0x28: "ENTER", 0x29: "ESCAPE", 0x2A: "BACKSPACE", 0x2B: "TAB", 0x2C: "SPACE",
	0x2D: "MINUS", 0x2E: "EQUALS", 0x2F: "LEFT_BRACKET", 0x30: "RIGHT_BRACKET",
	0x31: "BACKSLASH", 0x33: "SEMICOLON", 0x34: "QUOTE", 0x35: "GRAVE_ACCENT",
	0x36: "COMMA", 0x37: "PERIOD", 0x38: "FORWARD_SLASH", 0x39: "CAPS_LOCK",
	0x46: "PRINT_SCREEN", 0x47: "SCROLL_LOCK", 0x48: "PAUSE", 0x49: "INSERT",
	0x4A: "HOME", 0x4B: "PAGE_UP", 0x4C: "DELETE", 0x4D: "END", 0x4E: "PAGE_DOWN",
	0x4F: "RIGHT_ARROW", 0x50: "LEFT_ARROW", 0x51: "DOWN_ARROW", 0x52: "UP_ARROW",
	0x65: "APPLICATION",
	0xE0: "LEFT_CONTROL", 0xE1: "LEFT_SHIFT", 0xE2: "LEFT_ALT", 0xE3: "LEFT_GUI",
	0xE4: "RIGHT_CONTROL", 0xE5: "RIGHT_SHIFT", 0xE6: "RIGHT_ALT", 0xE7: "RIGHT_GUI",
}

// keyAliases maps alternative spellings to canonical names. It covers the
// CircuitPython Keycode names and the host profile names.
var keyAliases = map[string]string{
	"RETURN": "ENTER", "ESC": "ESCAPE", "SPACEBAR": "SPACE", "BACK": "BACKSPACE",
	"EQUAL": "EQUALS", "DEL": "DELETE", "INS": "INSERT",
	"PAGEUP": "PAGE_UP", "PGUP": "PAGE_UP", "PAGEDOWN": "PAGE_DOWN", "PGDN": "PAGE_DOWN",
	"UP": "UP_ARROW", "DOWN": "DOWN_ARROW", "LEFT": "LEFT_ARROW", "RIGHT": "RIGHT_ARROW",
	"PRINTSCREEN": "PRINT_SCREEN", "PRTSC": "PRINT_SCREEN", "CAPSLOCK": "CAPS_LOCK",
	"SCROLLLOCK": "SCROLL_LOCK", "GRAVE": "GRAVE_ACCENT", "SLASH": "FORWARD_SLASH",
	"APOSTROPHE": "QUOTE", "MENU": "APPLICATION", "APPS": "APPLICATION",
	"CONTROL": "LEFT_CONTROL", "CTRL": "LEFT_CONTROL", "CTRLLEFT": "LEFT_CONTROL",
	"CTRLRIGHT": "RIGHT_CONTROL", "RIGHT_CTRL": "RIGHT_CONTROL", "LEFT_CTRL": "LEFT_CONTROL",
	"SHIFT": "LEFT_SHIFT", "SHIFTLEFT": "LEFT_SHIFT", "SHIFTRIGHT": "RIGHT_SHIFT",
	"ALT": "LEFT_ALT", "OPTION": "LEFT_ALT", "OPT": "LEFT_ALT", "ALTLEFT": "LEFT_ALT",
	"ALTRIGHT": "RIGHT_ALT", "ALTGR": "RIGHT_ALT", "RIGHT_OPTION": "RIGHT_ALT",
	"GUI": "LEFT_GUI", "WINDOWS": "LEFT_GUI", "WIN": "LEFT_GUI", "WINLEFT": "LEFT_GUI",
	"WINRIGHT": "RIGHT_GUI", "COMMAND": "LEFT_GUI", "CMD": "LEFT_GUI", "SUPER": "LEFT_GUI",
	"META": "LEFT_GUI", "RIGHT_COMMAND": "RIGHT_GUI",
}

var keyDigitWords = []string{"ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE", "ZERO"}

var keysByName map[string]Key

func init() {
	for i := 0; i < 26; i++ {
		keyNames[Key(0x04+i)] = string(rune('A' + i))
	}
	for i, word := range keyDigitWords {
		keyNames[Key(0x1E+i)] = word
	}
	for i := 0; i < 12; i++ {
		keyNames[Key(0x3A+i)] = fmt.Sprintf("F%d", i+1)
		keyNames[Key(0x68+i)] = fmt.Sprintf("F%d", i+13)
	}

	keysByName = make(map[string]Key, len(keyNames)+len(keyAliases)+10)
	for k, name := range keyNames {
		keysByName[name] = k
	}
	for alias, name := range keyAliases {
		keysByName[alias] = keysByName[name]
	}
	// Digit characters are key names in structured profiles; the text grammar
	// classifies bare integers as delays before consulting this table.
	for i := 0; i < 9; i++ {
		keysByName[string(rune('1'+i))] = Key(0x1E + i)
	}
	keysByName["0"] = Key0
}

// normalizeName upper-cases a key or button name and unifies separators.
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(name)), "-", "_")
}

// LookupKey resolves a key name case-insensitively.
func LookupKey(name string) (Key, bool) {
	k, ok := keysByName[normalizeName(name)]
	return k, ok
}

// String returns the canonical key name, or a hex usage id for keys without
// a name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", uint8(k))
}

// IsModifier reports whether k is one of the eight modifier keys.
func (k Key) IsModifier() bool {
	return k >= KeyLeftCtrl && k <= KeyRightGUI
}

// KeyNames returns all canonical key names, sorted.
func KeyNames() []string {
	names := make([]string, 0, len(keyNames))
	for _, name := range keyNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// shiftedRunes maps US-layout shifted characters to their base key.
var shiftedRunes = map[rune]Key{
	'!': 0x1E, '@': 0x1F, '#': 0x20, '$': 0x21, '%': 0x22, '^': 0x23,
	'&': 0x24, '*': 0x25, '(': 0x26, ')': 0x27, '_': 0x2D, '+': 0x2E,
	'{': 0x2F, '}': 0x30, '|': 0x31, ':': 0x33, '"': 0x34, '~': 0x35,
	'<': 0x36, '>': 0x37, '?': 0x38,
}

var plainRunes = map[rune]Key{
	'\n': KeyEnter, '\t': KeyTab, ' ': KeySpace,
	'-': 0x2D, '=': 0x2E, '[': 0x2F, ']': 0x30, '\\': 0x31, ';': 0x33,
	'\'': 0x34, '`': 0x35, ',': 0x36, '.': 0x37, '/': 0x38,
}

// KeyForRune maps a printable US-ASCII rune to the key that types it and
// whether shift must be held.
func KeyForRune(r rune) (key Key, shift bool, ok bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Key(0x04 + r - 'a'), false, true
	case r >= 'A' && r <= 'Z':
		return Key(0x04 + r - 'A'), true, true
	case r >= '1' && r <= '9':
		return Key(0x1E + r - '1'), false, true
	case r == '0':
		return Key0, false, true
	}
	if k, found := plainRunes[r]; found {
		return k, false, true
	}
	if k, found := shiftedRunes[r]; found {
		return k, true, true
	}
	return 0, false, false
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// TextName is the name used for b in the line-oriented profile grammar.
func (b MouseButton) TextName() string {
	switch b {
	case MouseRight:
		return "R_CLICK"
	case MouseMiddle:
		return "M_CLICK"
	default:
		return "L_CLICK"
	}
}

var clickTokens = map[string]MouseButton{
	"L_CLICK": MouseLeft, "LEFT_CLICK": MouseLeft, "MOUSE_LEFT": MouseLeft,
	"R_CLICK": MouseRight, "RIGHT_CLICK": MouseRight, "MOUSE_RIGHT": MouseRight,
	"M_CLICK": MouseMiddle, "MIDDLE_CLICK": MouseMiddle, "MOUSE_MIDDLE": MouseMiddle,
}

// LookupClickToken resolves a text-grammar mouse button token such as L_CLICK.
func LookupClickToken(token string) (MouseButton, bool) {
	b, ok := clickTokens[normalizeName(token)]
	return b, ok
}

// ParseMouseButton converts a structured-profile button name to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}
