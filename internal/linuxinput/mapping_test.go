package linuxinput

import (
	"testing"

	"github.com/mj1618/macropad/internal/model"
)

func TestParseMapping(t *testing.T) {
	m, err := ParseMapping([]string{"71=7", "0x49=9", "72=7"})
	if err != nil {
		t.Fatalf("ParseMapping: %v", err)
	}
	if m[71] != 7 || m[0x49] != 9 || m[72] != 7 {
		t.Errorf("mapping = %v", m)
	}
	ids := m.Buttons()
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 9 {
		t.Errorf("Buttons() = %v, want [7 9]", ids)
	}
	codes := m.Codes()
	if len(codes) != 3 || codes[0] != 71 || codes[2] != 0x49 {
		t.Errorf("Codes() = %v", codes)
	}
}

func TestParseMapping_Errors(t *testing.T) {
	tests := []struct {
		name  string
		specs []string
	}{
		{"missing equals", []string{"71"}},
		{"bad code", []string{"NOPE_NOT_A_KEY=7"}},
		{"bad button", []string{"71=300"}},
		{"conflicting button", []string{"71=7", "71=9"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMapping(tt.specs); err == nil {
				t.Errorf("ParseMapping(%v) should fail", tt.specs)
			}
		})
	}
}

func TestLevels(t *testing.T) {
	l := NewLevels(Mapping{71: 7, 72: 7, 73: 9})

	check := func(id model.ButtonID, want bool) {
		t.Helper()
		got, err := l.Level(id)
		if err != nil {
			t.Fatalf("Level(%d): %v", id, err)
		}
		if got != want {
			t.Errorf("Level(%d) = %v, want %v", id, got, want)
		}
	}

	check(7, false)
	l.Apply(71, 1)
	check(7, true)
	check(9, false)

	l.Apply(72, 1)
	l.Apply(71, 0)
	check(7, true)
	l.Apply(72, 2)
	check(7, true)
	l.Apply(72, 0)
	check(7, false)

	l.Apply(99, 1)
	if _, err := l.Level(22); err == nil {
		t.Error("unmapped button should report an error")
	}

	l.Apply(73, 1)
	l.ReleaseAll()
	check(9, false)
}
