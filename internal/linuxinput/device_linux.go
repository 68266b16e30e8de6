//go:build linux

package linuxinput

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

const idlePause = 5 * time.Millisecond

type DeviceInfo struct {
	Path      string `yaml:"path"    json:"path"`
	Name      string `yaml:"name"    json:"name"`
	IsVirtual bool   `yaml:"virtual" json:"virtual"`
}

// Device reads key events from one input device into Levels.
type Device struct {
	dev    *evdev.InputDevice
	levels *Levels
	log    *slog.Logger
}

// Open opens path read-only and non-blocking. Every mapped code must be one
// the device can emit.
func Open(path string, m Mapping, log *slog.Logger) (*Device, error) {
	if log == nil {
		log = slog.Default()
	}
	dev, err := evdev.OpenWithFlags(path, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	capable := make(map[evdev.EvCode]bool)
	for _, c := range dev.CapableEvents(evdev.EV_KEY) {
		capable[c] = true
	}
	for _, code := range m.Codes() {
		if !capable[evdev.EvCode(code)] {
			_ = dev.Close()
			return nil, fmt.Errorf("%s does not expose %s", path, FormatCodeName(code))
		}
	}
	if err := dev.NonBlock(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("failed to set nonblocking mode for %s: %w", path, err)
	}
	return &Device{dev: dev, levels: NewLevels(m), log: log.With("device", path)}, nil
}

// Levels is the button line source fed by Run.
func (d *Device) Levels() *Levels { return d.levels }

// Run reads events until ctx is cancelled or the device goes away.
func (d *Device) Run(ctx context.Context) error {
	defer d.levels.ReleaseAll()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		ev, err := d.dev.ReadOne()
		if err != nil {
			if isWouldBlockError(err) {
				sleepCtx(ctx, idlePause)
				continue
			}
			if isDeviceClosedError(err) {
				return fmt.Errorf("input device closed: %w", err)
			}
			d.log.Warn("input read failed", "err", err)
			sleepCtx(ctx, 5*idlePause)
			continue
		}
		if ev == nil || ev.Type != evdev.EV_KEY {
			continue
		}
		d.log.Debug("key event", "code", FormatCodeName(uint16(ev.Code)), "value", ev.Value)
		d.levels.Apply(uint16(ev.Code), ev.Value)
	}
}

func (d *Device) Close() error {
	return d.dev.Close()
}

// ListDevices enumerates readable input devices that emit key events.
func ListDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i].Path < paths[j].Path })

	devices := make([]DeviceInfo, 0, len(paths))
	for _, p := range paths {
		dev, err := evdev.OpenWithFlags(p.Path, os.O_RDONLY)
		if err != nil {
			continue
		}
		if len(dev.CapableEvents(evdev.EV_KEY)) > 0 {
			name := p.Name
			if actual, err := dev.Name(); err == nil && actual != "" {
				name = actual
			}
			id, idErr := dev.InputID()
			devices = append(devices, DeviceInfo{
				Path:      p.Path,
				Name:      name,
				IsVirtual: idErr == nil && id.BusType == uint16(evdev.BUS_VIRTUAL),
			})
		}
		_ = dev.Close()
	}
	return devices, nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}
