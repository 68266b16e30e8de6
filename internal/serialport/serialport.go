// Package serialport opens and discovers the serial line a macro pad
// enumerates as.
package serialport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	DefaultBaud = 115200
	// DefaultReadTimeout bounds each read so the listener can observe
	// cancellation while the line is idle.
	DefaultReadTimeout = time.Second
)

// DefaultKeywords match the USB product strings of CircuitPython boards.
var DefaultKeywords = []string{"pico", "circuitpython", "board in fs mode"}

// ErrNoMatch is returned by Discover when no port description matches.
var ErrNoMatch = errors.New("no matching serial port")

// PortInfo describes one enumerated serial port.
type PortInfo struct {
	Name         string `yaml:"name"                    json:"name"`
	Description  string `yaml:"description,omitempty"   json:"description,omitempty"`
	USB          bool   `yaml:"usb"                     json:"usb"`
	VID          string `yaml:"vid,omitempty"           json:"vid,omitempty"`
	PID          string `yaml:"pid,omitempty"           json:"pid,omitempty"`
	SerialNumber string `yaml:"serial_number,omitempty" json:"serial_number,omitempty"`
}

// List enumerates the serial ports on this machine.
func List() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			Description:  d.Product,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
		})
	}
	return ports, nil
}

// Match returns the first port whose description contains one of the
// keywords, case-insensitively. Ports without a description are matched on
// their name.
func Match(ports []PortInfo, keywords []string) (PortInfo, bool) {
	for _, p := range ports {
		desc := strings.ToLower(p.Description)
		if desc == "" {
			desc = strings.ToLower(p.Name)
		}
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(desc, kw) {
				return p, true
			}
		}
	}
	return PortInfo{}, false
}

// Discover lists the ports and returns the first match. On ErrNoMatch the
// full port list is returned so callers can show what is available.
func Discover(keywords []string) (PortInfo, []PortInfo, error) {
	ports, err := List()
	if err != nil {
		return PortInfo{}, nil, err
	}
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	p, ok := Match(ports, keywords)
	if !ok {
		return PortInfo{}, ports, fmt.Errorf("%w for keywords %q", ErrNoMatch, keywords)
	}
	return p, ports, nil
}

// Open opens name at baud (DefaultBaud when zero) with a bounded read
// timeout. A read that times out returns zero bytes and no error.
func Open(name string, baud int, readTimeout time.Duration) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", name, err)
	}
	return port, nil
}
