//go:build linux

// Package x11 injects input into an X server through the XTEST extension.
package x11

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform"
)

func init() {
	platform.Register(platform.Backend{
		Name:     "x11",
		Priority: 20,
		New: func(opts platform.Options) (*platform.Provider, error) {
			if os.Getenv("DISPLAY") == "" {
				return nil, fmt.Errorf("DISPLAY is not set")
			}
			d, err := Open()
			if err != nil {
				return nil, err
			}
			return &platform.Provider{Name: "x11", Keyboard: d, Mouse: d, Close: d.Close}, nil
		},
	})
}

// X core pointer buttons.
const (
	buttonWheelUp   = 4
	buttonWheelDown = 5
)

var buttonIndex = map[model.MouseButton]byte{
	model.MouseLeft:   byte(xproto.ButtonIndex1),
	model.MouseMiddle: byte(xproto.ButtonIndex2),
	model.MouseRight:  byte(xproto.ButtonIndex3),
}

// Device sends fake input over one X connection.
type Device struct {
	mu   sync.Mutex
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	root xproto.Window
}

// Open connects to $DISPLAY and initializes XTEST.
func Open() (*Device, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, err
	}
	keybind.Initialize(xu)
	return &Device{xu: xu, conn: conn, root: xu.RootWin()}, nil
}

func (d *Device) fake(eventType byte, detail byte, x, y int16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := xtest.FakeInputChecked(
		d.conn,
		eventType,
		detail,
		xproto.TimeCurrentTime,
		d.root,
		x,
		y,
		0,
	).Check(); err != nil {
		return err
	}
	d.conn.Sync()
	return nil
}

func (d *Device) keycode(k model.Key) (xproto.Keycode, error) {
	sym, ok := Keysym(k)
	if !ok {
		return 0, fmt.Errorf("key %s has no X keysym", k)
	}
	codes := keybind.StrToKeycodes(d.xu, sym)
	if len(codes) == 0 {
		return 0, fmt.Errorf("failed to resolve X11 key %q", sym)
	}
	return codes[0], nil
}

func (d *Device) PressKey(k model.Key) error {
	kc, err := d.keycode(k)
	if err != nil {
		return err
	}
	return d.fake(xproto.KeyPress, byte(kc), 0, 0)
}

func (d *Device) ReleaseKey(k model.Key) error {
	kc, err := d.keycode(k)
	if err != nil {
		return err
	}
	return d.fake(xproto.KeyRelease, byte(kc), 0, 0)
}

func (d *Device) TypeText(s string) error {
	return platform.TypeKeys(d, s)
}

// Move sends a relative motion; detail 1 selects relative mode in XTEST.
func (d *Device) Move(dx, dy int) error {
	if dx < -platform.MaxRelativeMove || dx > platform.MaxRelativeMove ||
		dy < -platform.MaxRelativeMove || dy > platform.MaxRelativeMove {
		return fmt.Errorf("relative move %d,%d exceeds ±%d", dx, dy, platform.MaxRelativeMove)
	}
	return d.fake(xproto.MotionNotify, 1, int16(dx), int16(dy))
}

func (d *Device) PressButton(b model.MouseButton) error {
	idx, ok := buttonIndex[b]
	if !ok {
		return fmt.Errorf("unsupported mouse button %s", b)
	}
	return d.fake(xproto.ButtonPress, idx, 0, 0)
}

func (d *Device) ReleaseButton(b model.MouseButton) error {
	idx, ok := buttonIndex[b]
	if !ok {
		return fmt.Errorf("unsupported mouse button %s", b)
	}
	return d.fake(xproto.ButtonRelease, idx, 0, 0)
}

// Scroll clicks the wheel buttons, 4 for up and 5 for down.
func (d *Device) Scroll(clicks int) error {
	button := byte(buttonWheelUp)
	if clicks < 0 {
		button = buttonWheelDown
		clicks = -clicks
	}
	for i := 0; i < clicks; i++ {
		if err := d.fake(xproto.ButtonPress, button, 0, 0); err != nil {
			return err
		}
		if err := d.fake(xproto.ButtonRelease, button, 0, 0); err != nil {
			return err
		}
	}
	return nil
}

func (d *Device) Close() error {
	d.conn.Close()
	return nil
}
