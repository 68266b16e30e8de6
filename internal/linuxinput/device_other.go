//go:build !linux

package linuxinput

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mj1618/macropad/internal/platform"
)

type DeviceInfo struct {
	Path      string `yaml:"path"    json:"path"`
	Name      string `yaml:"name"    json:"name"`
	IsVirtual bool   `yaml:"virtual" json:"virtual"`
}

type Device struct{}

func Open(path string, m Mapping, log *slog.Logger) (*Device, error) {
	return nil, fmt.Errorf("%w: input devices are read through evdev on linux only", platform.ErrUnsupported)
}

func (d *Device) Levels() *Levels               { return nil }
func (d *Device) Run(ctx context.Context) error { return platform.ErrUnsupported }
func (d *Device) Close() error                  { return nil }
func ListDevices() ([]DeviceInfo, error)        { return nil, platform.ErrUnsupported }
