//go:build darwin

package darwin

import "github.com/mj1618/macropad/internal/model"

// macOS virtual key codes from Carbon Events.h, keyed by canonical key name.
var keyCodeMap = map[string]uint16{
	"A": 0x00, "B": 0x0B, "C": 0x08, "D": 0x02, "E": 0x0E, "F": 0x03,
	"G": 0x05, "H": 0x04, "I": 0x22, "J": 0x26, "K": 0x28, "L": 0x25,
	"M": 0x2E, "N": 0x2D, "O": 0x1F, "P": 0x23, "Q": 0x0C, "R": 0x0F,
	"S": 0x01, "T": 0x11, "U": 0x20, "V": 0x09, "W": 0x0D, "X": 0x07,
	"Y": 0x10, "Z": 0x06,
	"ZERO": 0x1D, "ONE": 0x12, "TWO": 0x13, "THREE": 0x14, "FOUR": 0x15,
	"FIVE": 0x17, "SIX": 0x16, "SEVEN": 0x1A, "EIGHT": 0x1C, "NINE": 0x19,
	"ENTER": 0x24, "TAB": 0x30, "SPACE": 0x31, "BACKSPACE": 0x33, "ESCAPE": 0x35,
	"DELETE": 0x75, "INSERT": 0x72, "HOME": 0x73, "END": 0x77, "PAGE_UP": 0x74, "PAGE_DOWN": 0x79,
	"UP_ARROW": 0x7E, "DOWN_ARROW": 0x7D, "LEFT_ARROW": 0x7B, "RIGHT_ARROW": 0x7C,
	"MINUS": 0x1B, "EQUALS": 0x18, "LEFT_BRACKET": 0x21, "RIGHT_BRACKET": 0x1E,
	"BACKSLASH": 0x2A, "SEMICOLON": 0x29, "QUOTE": 0x27, "GRAVE_ACCENT": 0x32,
	"COMMA": 0x2B, "PERIOD": 0x2F, "FORWARD_SLASH": 0x2C, "CAPS_LOCK": 0x39,
	"F1": 0x7A, "F2": 0x78, "F3": 0x63, "F4": 0x76, "F5": 0x60, "F6": 0x61,
	"F7": 0x62, "F8": 0x64, "F9": 0x65, "F10": 0x6D, "F11": 0x67, "F12": 0x6F,
	"F13": 0x69, "F14": 0x6B, "F15": 0x71, "F16": 0x6A, "F17": 0x40, "F18": 0x4F,
	"F19": 0x50, "F20": 0x5A,
	"LEFT_CONTROL": 0x3B, "LEFT_SHIFT": 0x38, "LEFT_ALT": 0x3A, "LEFT_GUI": 0x37,
	"RIGHT_CONTROL": 0x3E, "RIGHT_SHIFT": 0x3C, "RIGHT_ALT": 0x3D, "RIGHT_GUI": 0x36,
}

// KeyCode returns the macOS virtual key code for k.
func KeyCode(k model.Key) (uint16, bool) {
	code, ok := keyCodeMap[k.String()]
	return code, ok
}
