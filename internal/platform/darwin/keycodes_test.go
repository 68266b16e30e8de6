//go:build darwin

package darwin

import (
	"testing"

	"github.com/mj1618/macropad/internal/model"
)

func TestKeyCode(t *testing.T) {
	tests := []struct {
		key  model.Key
		want uint16
	}{
		{model.KeyA, 0x00},
		{model.KeyZ, 0x06},
		{model.KeyEnter, 0x24},
		{model.KeyLeftGUI, 0x37},
		{model.KeyF1, 0x7A},
	}
	for _, tt := range tests {
		got, ok := KeyCode(tt.key)
		if !ok || got != tt.want {
			t.Errorf("KeyCode(%s) = %#x, %v; want %#x", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := KeyCode(model.KeyF24); ok {
		t.Error("F24 has no macOS key code")
	}
}
