//go:build linux

package linuxinput

import "testing"

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"KEY_A", 30},
		{"key_kp7", 71},
		{"46", 46},
		{"0x2e", 46},
	}
	for _, tt := range tests {
		got, err := ParseCode(tt.in)
		if err != nil {
			t.Errorf("ParseCode(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCode(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "KEY_NOPE", "70000", "-1"} {
		if _, err := ParseCode(bad); err == nil {
			t.Errorf("ParseCode(%q) should fail", bad)
		}
	}
}

func TestFormatCodeName(t *testing.T) {
	if got := FormatCodeName(30); got != "KEY_A" {
		t.Errorf("FormatCodeName(30) = %q", got)
	}
}
