package cmd

import (
	"log/slog"
	"testing"
)

func TestLevelFlag(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		var f levelFlag
		if err := f.Set(tt.in); err != nil {
			t.Errorf("Set(%q): %v", tt.in, err)
			continue
		}
		if f.level != tt.want {
			t.Errorf("Set(%q) = %v, want %v", tt.in, f.level, tt.want)
		}
	}

	f := levelFlag{level: slog.LevelWarn}
	if err := f.Set("loud"); err == nil {
		t.Error("Set(loud) should fail")
	}
	if f.String() != "warn" || f.Type() != "level" {
		t.Errorf("String/Type = %q/%q", f.String(), f.Type())
	}
}
