//go:build !linux

package linuxinput

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCode accepts a numeric key code; names need the linux code tables.
func ParseCode(value string) (uint16, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 0, fmt.Errorf("key code is empty")
	}
	parsed, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown key code %q: only numeric codes are supported on this platform", value)
	}
	if parsed < 0 || parsed > 0xFFFF {
		return 0, fmt.Errorf("key code out of range: %d", parsed)
	}
	return uint16(parsed), nil
}

func FormatCodeName(code uint16) string {
	return strconv.Itoa(int(code))
}
