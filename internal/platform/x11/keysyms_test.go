package x11

import (
	"testing"

	"github.com/mj1618/macropad/internal/model"
)

func TestKeysym(t *testing.T) {
	tests := []struct {
		key  model.Key
		want string
	}{
		{model.KeyA, "a"},
		{model.Key1, "1"},
		{model.KeyF12, "F12"},
		{model.KeyEnter, "Return"},
		{model.KeyLeftCtrl, "Control_L"},
		{model.KeyLeftGUI, "Super_L"},
	}
	for _, tt := range tests {
		got, ok := Keysym(tt.key)
		if !ok || got != tt.want {
			t.Errorf("Keysym(%s) = %q, %v; want %q", tt.key, got, ok, tt.want)
		}
	}
}

func TestEveryNamedKeyHasKeysym(t *testing.T) {
	for _, name := range model.KeyNames() {
		k, _ := model.LookupKey(name)
		if _, ok := Keysym(k); !ok {
			t.Errorf("key %s has no keysym", name)
		}
	}
}
