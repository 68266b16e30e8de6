//go:build linux

// Package uinput injects input through a virtual Linux device that, like a
// USB HID gadget, only reports keys, buttons and relative motion.
package uinput

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform"
)

func init() {
	platform.Register(platform.Backend{
		Name:     "uinput",
		Priority: 10,
		New: func(opts platform.Options) (*platform.Provider, error) {
			d, err := Open(opts.DeviceName)
			if err != nil {
				return nil, err
			}
			opts.Logger.Info("created virtual input device", "backend", "uinput", "name", opts.DeviceName)
			return &platform.Provider{Name: "uinput", Keyboard: d, Mouse: d, Close: d.Close}, nil
		},
	})
}

var mouseButtons = map[model.MouseButton]evdev.EvCode{
	model.MouseLeft:   evdev.BTN_LEFT,
	model.MouseRight:  evdev.BTN_RIGHT,
	model.MouseMiddle: evdev.BTN_MIDDLE,
}

// Device is a virtual keyboard and relative mouse.
type Device struct {
	mu    sync.Mutex
	dev   *evdev.InputDevice
	codes map[model.Key]evdev.EvCode
}

// Open creates the virtual device. It needs write access to /dev/uinput.
func Open(name string) (*Device, error) {
	codes := make(map[model.Key]evdev.EvCode)
	for k := 0; k < 256; k++ {
		linuxName, ok := LinuxKeyName(model.Key(k))
		if !ok {
			continue
		}
		if code, ok := evdev.KEYFromString[linuxName]; ok {
			codes[model.Key(k)] = code
		}
	}

	keyCaps := make([]evdev.EvCode, 0, len(codes)+len(mouseButtons))
	for _, code := range codes {
		keyCaps = append(keyCaps, code)
	}
	for _, code := range mouseButtons {
		keyCaps = append(keyCaps, code)
	}
	sort.Slice(keyCaps, func(i, j int) bool { return keyCaps[i] < keyCaps[j] })

	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keyCaps,
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL},
	}
	id := evdev.InputID{
		BusType: uint16(evdev.BUS_VIRTUAL),
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}
	dev, err := evdev.CreateDevice(name, id, caps)
	if err != nil {
		return nil, fmt.Errorf("create uinput device: %w", err)
	}
	return &Device{dev: dev, codes: codes}, nil
}

// write emits events followed by a SYN_REPORT.
func (d *Device) write(events ...evdev.InputEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range events {
		if err := d.dev.WriteOne(&events[i]); err != nil {
			return err
		}
	}
	return d.dev.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT})
}

func (d *Device) key(k model.Key, value int32) error {
	code, ok := d.codes[k]
	if !ok {
		return fmt.Errorf("key %s has no linux code", k)
	}
	return d.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value})
}

func (d *Device) PressKey(k model.Key) error   { return d.key(k, 1) }
func (d *Device) ReleaseKey(k model.Key) error { return d.key(k, 0) }

func (d *Device) TypeText(s string) error {
	return platform.TypeKeys(d, s)
}

func (d *Device) Move(dx, dy int) error {
	if dx < -platform.MaxRelativeMove || dx > platform.MaxRelativeMove ||
		dy < -platform.MaxRelativeMove || dy > platform.MaxRelativeMove {
		return fmt.Errorf("relative move %d,%d exceeds ±%d", dx, dy, platform.MaxRelativeMove)
	}
	return d.write(
		evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_X, Value: int32(dx)},
		evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: int32(dy)},
	)
}

func (d *Device) button(b model.MouseButton, value int32) error {
	code, ok := mouseButtons[b]
	if !ok {
		return fmt.Errorf("unsupported mouse button %s", b)
	}
	return d.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value})
}

func (d *Device) PressButton(b model.MouseButton) error   { return d.button(b, 1) }
func (d *Device) ReleaseButton(b model.MouseButton) error { return d.button(b, 0) }

func (d *Device) Scroll(clicks int) error {
	return d.write(evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_WHEEL, Value: int32(clicks)})
}

// Close destroys the virtual device.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev == nil {
		return errors.New("uinput device already closed")
	}
	err := d.dev.Close()
	d.dev = nil
	return err
}
