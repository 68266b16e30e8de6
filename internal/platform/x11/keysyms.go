package x11

import (
	"strings"

	"github.com/mj1618/macropad/internal/model"
)

var namedKeysyms = map[string]string{
	"ENTER": "Return", "ESCAPE": "Escape", "BACKSPACE": "BackSpace", "TAB": "Tab",
	"SPACE": "space", "MINUS": "minus", "EQUALS": "equal",
	"LEFT_BRACKET": "bracketleft", "RIGHT_BRACKET": "bracketright",
	"BACKSLASH": "backslash", "SEMICOLON": "semicolon", "QUOTE": "apostrophe",
	"GRAVE_ACCENT": "grave", "COMMA": "comma", "PERIOD": "period", "FORWARD_SLASH": "slash",
	"CAPS_LOCK": "Caps_Lock", "PRINT_SCREEN": "Print", "SCROLL_LOCK": "Scroll_Lock",
	"PAUSE": "Pause", "INSERT": "Insert", "HOME": "Home", "PAGE_UP": "Page_Up",
	"DELETE": "Delete", "END": "End", "PAGE_DOWN": "Page_Down",
	"RIGHT_ARROW": "Right", "LEFT_ARROW": "Left", "DOWN_ARROW": "Down", "UP_ARROW": "Up",
	"APPLICATION": "Menu",
	"LEFT_CONTROL": "Control_L", "LEFT_SHIFT": "Shift_L", "LEFT_ALT": "Alt_L", "LEFT_GUI": "Super_L",
	"RIGHT_CONTROL": "Control_R", "RIGHT_SHIFT": "Shift_R", "RIGHT_ALT": "Alt_R", "RIGHT_GUI": "Super_R",
}

var digitKeysyms = map[string]string{
	"ONE": "1", "TWO": "2", "THREE": "3", "FOUR": "4", "FIVE": "5",
	"SIX": "6", "SEVEN": "7", "EIGHT": "8", "NINE": "9", "ZERO": "0",
}

// Keysym returns the X keysym name for k.
func Keysym(k model.Key) (string, bool) {
	name := k.String()
	if sym, ok := namedKeysyms[name]; ok {
		return sym, true
	}
	if d, ok := digitKeysyms[name]; ok {
		return d, true
	}
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return strings.ToLower(name), true
	}
	if strings.HasPrefix(name, "F") && len(name) > 1 && len(name) <= 3 {
		return name, true
	}
	return "", false
}
