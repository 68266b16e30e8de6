package uinput

import (
	"strings"

	"github.com/mj1618/macropad/internal/model"
)

var namedKeys = map[string]string{
	"ENTER": "KEY_ENTER", "ESCAPE": "KEY_ESC", "BACKSPACE": "KEY_BACKSPACE",
	"TAB": "KEY_TAB", "SPACE": "KEY_SPACE", "MINUS": "KEY_MINUS", "EQUALS": "KEY_EQUAL",
	"LEFT_BRACKET": "KEY_LEFTBRACE", "RIGHT_BRACKET": "KEY_RIGHTBRACE",
	"BACKSLASH": "KEY_BACKSLASH", "SEMICOLON": "KEY_SEMICOLON", "QUOTE": "KEY_APOSTROPHE",
	"GRAVE_ACCENT": "KEY_GRAVE", "COMMA": "KEY_COMMA", "PERIOD": "KEY_DOT",
	"FORWARD_SLASH": "KEY_SLASH", "CAPS_LOCK": "KEY_CAPSLOCK", "PRINT_SCREEN": "KEY_SYSRQ",
	"SCROLL_LOCK": "KEY_SCROLLLOCK", "PAUSE": "KEY_PAUSE", "INSERT": "KEY_INSERT",
	"HOME": "KEY_HOME", "PAGE_UP": "KEY_PAGEUP", "DELETE": "KEY_DELETE", "END": "KEY_END",
	"PAGE_DOWN": "KEY_PAGEDOWN", "RIGHT_ARROW": "KEY_RIGHT", "LEFT_ARROW": "KEY_LEFT",
	"DOWN_ARROW": "KEY_DOWN", "UP_ARROW": "KEY_UP", "APPLICATION": "KEY_COMPOSE",
	"LEFT_CONTROL": "KEY_LEFTCTRL", "LEFT_SHIFT": "KEY_LEFTSHIFT", "LEFT_ALT": "KEY_LEFTALT",
	"LEFT_GUI": "KEY_LEFTMETA", "RIGHT_CONTROL": "KEY_RIGHTCTRL", "RIGHT_SHIFT": "KEY_RIGHTSHIFT",
	"RIGHT_ALT": "KEY_RIGHTALT", "RIGHT_GUI": "KEY_RIGHTMETA",
}

var digitWords = map[string]string{
	"ONE": "1", "TWO": "2", "THREE": "3", "FOUR": "4", "FIVE": "5",
	"SIX": "6", "SEVEN": "7", "EIGHT": "8", "NINE": "9", "ZERO": "0",
}

// LinuxKeyName returns the input-event-codes.h name for k, such as
// KEY_LEFTCTRL.
func LinuxKeyName(k model.Key) (string, bool) {
	name := k.String()
	if linux, ok := namedKeys[name]; ok {
		return linux, true
	}
	if d, ok := digitWords[name]; ok {
		return "KEY_" + d, true
	}
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return "KEY_" + name, true
	}
	if strings.HasPrefix(name, "F") && len(name) <= 3 && name != "F" {
		return "KEY_" + name, true
	}
	return "", false
}
