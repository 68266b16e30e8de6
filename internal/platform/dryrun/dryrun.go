// Package dryrun is an input backend that only logs what it would inject.
package dryrun

import (
	"log/slog"

	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform"
)

func init() {
	platform.Register(platform.Backend{
		Name: "dryrun",
		New: func(opts platform.Options) (*platform.Provider, error) {
			d := New(opts.Logger)
			return &platform.Provider{Name: "dryrun", Keyboard: d, Mouse: d}, nil
		},
	})
}

// Device implements platform.Keyboard and platform.Mouse.
type Device struct {
	log *slog.Logger
}

// New returns a Device logging at INFO on log.
func New(log *slog.Logger) *Device {
	if log == nil {
		log = slog.Default()
	}
	return &Device{log: log.With("backend", "dryrun")}
}

func (d *Device) PressKey(k model.Key) error {
	d.log.Info("key down", "key", k.String())
	return nil
}

func (d *Device) ReleaseKey(k model.Key) error {
	d.log.Info("key up", "key", k.String())
	return nil
}

func (d *Device) TypeText(s string) error {
	d.log.Info("type", "text", s)
	return nil
}

func (d *Device) Move(dx, dy int) error {
	d.log.Debug("move", "dx", dx, "dy", dy)
	return nil
}

func (d *Device) PressButton(b model.MouseButton) error {
	d.log.Info("button down", "button", b.String())
	return nil
}

func (d *Device) ReleaseButton(b model.MouseButton) error {
	d.log.Info("button up", "button", b.String())
	return nil
}

func (d *Device) Scroll(clicks int) error {
	d.log.Info("scroll", "clicks", clicks)
	return nil
}
