// Package mouse emulates absolute cursor placement on top of a device that
// only accepts small relative displacements.
//
// The controller keeps a believed position. Nothing reads the real cursor
// back, so the belief is only trustworthy after Reset has driven the cursor
// into the top-left corner.
package mouse

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform"
)

// ErrNotSynchronized is returned by moves issued before the first Reset.
var ErrNotSynchronized = errors.New("mouse position not synchronized: Reset must run before moves")

const (
	DefaultChunkPause = 2 * time.Millisecond
	DefaultClickHold  = 20 * time.Millisecond
)

// Controller owns the believed cursor position. All methods serialize on
// one mutex, so concurrent macros cannot interleave chunks.
type Controller struct {
	mu     sync.Mutex
	dev    platform.Mouse
	screen model.Screen
	x, y   int
	synced bool

	clk        clock.Clock
	chunkPause time.Duration
	clickHold  time.Duration
	resetSteps int
	log        *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(c clock.Clock) Option { return func(m *Controller) { m.clk = c } }

// WithChunkPause sets the pause between consecutive relative reports.
func WithChunkPause(d time.Duration) Option { return func(m *Controller) { m.chunkPause = d } }

// WithClickHold sets how long a click keeps the button down.
func WithClickHold(d time.Duration) Option { return func(m *Controller) { m.clickHold = d } }

// WithResetSteps overrides the number of maximal moves Reset issues.
func WithResetSteps(n int) Option { return func(m *Controller) { m.resetSteps = n } }

func WithLogger(l *slog.Logger) Option { return func(m *Controller) { m.log = l } }

// New creates a Controller for a screen of the given size.
func New(dev platform.Mouse, screen model.Screen, opts ...Option) (*Controller, error) {
	if dev == nil {
		return nil, errors.New("mouse: nil device")
	}
	if !screen.Valid() {
		return nil, fmt.Errorf("mouse: invalid screen size %s", screen)
	}
	m := &Controller{
		dev:        dev,
		screen:     screen,
		clk:        clock.Real{},
		chunkPause: DefaultChunkPause,
		clickHold:  DefaultClickHold,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.resetSteps <= 0 {
		m.resetSteps = DefaultResetSteps(screen)
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	return m, nil
}

// DefaultResetSteps is twice the number of maximal moves needed to cross the
// larger screen dimension, leaving room for pointer acceleration quirks.
func DefaultResetSteps(s model.Screen) int {
	longest := max(s.Width, s.Height)
	return 2 * ceilDiv(longest, platform.MaxRelativeMove)
}

// Reset drives the cursor into the origin corner and sets the believed
// position to (0, 0).
func (m *Controller) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug("resetting mouse position", "steps", m.resetSteps)
	for i := 0; i < m.resetSteps; i++ {
		if i > 0 {
			m.clk.Sleep(m.chunkPause)
		}
		if err := m.dev.Move(-platform.MaxRelativeMove, -platform.MaxRelativeMove); err != nil {
			m.synced = false
			return fmt.Errorf("reset mouse: %w", err)
		}
	}
	m.x, m.y = 0, 0
	m.synced = true
	return nil
}

// MoveAbsolute moves to (x, y) clamped into the screen. The believed
// position becomes the clamped target.
func (m *Controller) MoveAbsolute(x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.synced {
		return ErrNotSynchronized
	}
	tx, ty := m.clampX(x), m.clampY(y)
	return m.emit(tx-m.x, ty-m.y)
}

// MoveRelative moves by (dx, dy), stopping at the screen edges. Only the
// distance that fits inside the screen is emitted.
func (m *Controller) MoveRelative(dx, dy int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.synced {
		return ErrNotSynchronized
	}
	tx, ty := m.clampX(m.x+dx), m.clampY(m.y+dy)
	return m.emit(tx-m.x, ty-m.y)
}

// emit sends dx, dy as a series of reports no larger than MaxRelativeMove
// per axis. The believed position follows each successful report.
func (m *Controller) emit(dx, dy int) error {
	for step := 0; dx != 0 || dy != 0; step++ {
		if step > 0 {
			m.clk.Sleep(m.chunkPause)
		}
		cx := clamp(dx, -platform.MaxRelativeMove, platform.MaxRelativeMove)
		cy := clamp(dy, -platform.MaxRelativeMove, platform.MaxRelativeMove)
		if err := m.dev.Move(cx, cy); err != nil {
			return fmt.Errorf("move mouse: %w", err)
		}
		m.x += cx
		m.y += cy
		dx -= cx
		dy -= cy
	}
	return nil
}

// Click presses b, holds it, and releases it. The release is attempted even
// when the press reports an error.
func (m *Controller) Click(b model.MouseButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pressErr := m.dev.PressButton(b)
	if pressErr == nil {
		m.clk.Sleep(m.clickHold)
	}
	releaseErr := m.dev.ReleaseButton(b)
	if err := errors.Join(pressErr, releaseErr); err != nil {
		return fmt.Errorf("%s click: %w", b, err)
	}
	return nil
}

// Scroll passes clicks through to the device.
func (m *Controller) Scroll(clicks int) error {
	if clicks == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.Scroll(clicks); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// Position returns the believed position and whether it has been
// synchronized by Reset.
func (m *Controller) Position() (x, y int, synced bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.x, m.y, m.synced
}

// Screen returns the bounds the controller clamps to.
func (m *Controller) Screen() model.Screen {
	return m.screen
}

func (m *Controller) clampX(x int) int { return clamp(x, 0, m.screen.Width-1) }
func (m *Controller) clampY(y int) int { return clamp(y, 0, m.screen.Height-1) }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
