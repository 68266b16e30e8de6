package serialport

import "testing"

func TestMatch(t *testing.T) {
	ports := []PortInfo{
		{Name: "/dev/ttyS0", Description: "16550A UART"},
		{Name: "/dev/ttyACM0", Description: "Pico CircuitPython CDC control"},
		{Name: "/dev/ttyACM1", Description: "Board in FS mode"},
	}

	tests := []struct {
		name     string
		keywords []string
		want     string
		ok       bool
	}{
		{"default keywords pick first match", DefaultKeywords, "/dev/ttyACM0", true},
		{"case insensitive", []string{"BOARD IN FS"}, "/dev/ttyACM1", true},
		{"no match", []string{"arduino"}, "", false},
		{"blank keyword ignored", []string{"  "}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Match(ports, tt.keywords)
			if ok != tt.ok || got.Name != tt.want {
				t.Errorf("Match() = %q, %v; want %q, %v", got.Name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMatch_FallsBackToName(t *testing.T) {
	ports := []PortInfo{{Name: "/dev/cu.usbmodem-pico1"}}
	got, ok := Match(ports, []string{"pico"})
	if !ok || got.Name != "/dev/cu.usbmodem-pico1" {
		t.Errorf("Match() = %+v, %v", got, ok)
	}
}
