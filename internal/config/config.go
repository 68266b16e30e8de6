// Package config loads the optional macropad settings file. Every field has
// a default; command-line flags that are set explicitly take precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mj1618/macropad/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	appDir   = "macropad"
	fileName = "config.yaml"
)

// Config holds settings shared by the relay, local and serve commands.
type Config struct {
	// Port is the serial device; empty means auto-discover.
	Port string `yaml:"port,omitempty"`
	Baud int    `yaml:"baud"`
	// Match lists case-insensitive substrings of the port description used
	// by auto-discovery.
	Match []string `yaml:"match"`

	Profile string `yaml:"profile"`
	// Backend names the injection backend: auto, darwin, x11, uinput, dryrun.
	Backend  string `yaml:"backend"`
	Screen   string `yaml:"screen"`
	LogLevel string `yaml:"log_level"`

	// QueueSize bounds the events queued per button on the relay.
	QueueSize int `yaml:"queue_size"`

	// Buttons restricts which pin numbers a profile may bind; empty allows
	// every id.
	Buttons []int `yaml:"buttons,omitempty"`

	// ActionPauseMs is the pause between actions when executing relayed
	// macros.
	ActionPauseMs int `yaml:"action_pause_ms"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Baud:          115200,
		Match:         []string{"pico", "circuitpython", "board in fs mode"},
		Profile:       filepath.Join("profiles", "pc_profile.json"),
		Backend:       "auto",
		Screen:        "1920x1080",
		QueueSize:     64,
		LogLevel:      "info",
		ActionPauseMs: 50,
	}
}

// DefaultPath returns the per-OS settings location.
func DefaultPath() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", appDir)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		dir = filepath.Join(appData, appDir)
	default:
		base := os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
		dir = filepath.Join(base, appDir)
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads path over the defaults. A missing file is not an error unless
// the path was given explicitly.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and formats of the loaded values.
func (c *Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.ActionPauseMs < 0 {
		return fmt.Errorf("action_pause_ms must not be negative, got %d", c.ActionPauseMs)
	}
	if _, err := model.ParseScreen(c.Screen); err != nil {
		return err
	}
	if _, err := c.ValidButtons(); err != nil {
		return err
	}
	return nil
}

// ScreenSize parses the screen setting.
func (c *Config) ScreenSize() (model.Screen, error) {
	return model.ParseScreen(c.Screen)
}

// ValidButtons converts the button allow-list; nil means unrestricted.
func (c *Config) ValidButtons() ([]model.ButtonID, error) {
	if len(c.Buttons) == 0 {
		return nil, nil
	}
	ids := make([]model.ButtonID, 0, len(c.Buttons))
	for _, b := range c.Buttons {
		id := model.ButtonID(b)
		if !id.Valid() {
			return nil, fmt.Errorf("button %d out of range 0-%d", b, model.MaxButtonID)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
