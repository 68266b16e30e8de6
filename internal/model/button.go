package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ButtonID identifies one physical input on the pad (the GPIO number on the
// reference hardware).
type ButtonID int

// MaxButtonID is the largest accepted button id.
const MaxButtonID ButtonID = 255

// ParseButtonID parses a decimal button id and checks its range.
func ParseButtonID(s string) (ButtonID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid button id %q", s)
	}
	id := ButtonID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("button id %d out of range 0-%d", n, MaxButtonID)
	}
	return id, nil
}

// Valid reports whether id is within 0..MaxButtonID.
func (id ButtonID) Valid() bool {
	return id >= 0 && id <= MaxButtonID
}

func (id ButtonID) String() string {
	return strconv.Itoa(int(id))
}

// Edge is a discrete transition of a button line.
type Edge int

const (
	Pressed Edge = iota
	Released
)

func (e Edge) String() string {
	switch e {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("edge(%d)", int(e))
	}
}

// ButtonEvent is a single edge of one button.
type ButtonEvent struct {
	Button ButtonID
	Edge   Edge
	Time   time.Time
}

func (ev ButtonEvent) String() string {
	return fmt.Sprintf("button %d %s", ev.Button, ev.Edge)
}

// Screen is the mouse coordinate space in pixels.
type Screen struct {
	Width  int `yaml:"width"  json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultScreen is used when neither the profile nor the settings name a
// resolution.
var DefaultScreen = Screen{Width: 1920, Height: 1080}

// Valid reports whether both dimensions are positive.
func (s Screen) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Screen) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// ParseScreen parses "W,H" or "WxH".
func ParseScreen(s string) (Screen, error) {
	sep := ","
	if !strings.Contains(s, sep) {
		sep = "x"
	}
	parts := strings.Split(strings.ToLower(s), sep)
	if len(parts) != 2 {
		return Screen{}, fmt.Errorf("invalid screen size %q: expected W,H or WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Screen{}, fmt.Errorf("invalid screen width in %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Screen{}, fmt.Errorf("invalid screen height in %q", s)
	}
	scr := Screen{Width: w, Height: h}
	if !scr.Valid() {
		return Screen{}, fmt.Errorf("invalid screen size %q: dimensions must be positive", s)
	}
	return scr, nil
}
