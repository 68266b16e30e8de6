// Package profile loads button-to-macro mappings from the line-oriented text
// grammar or from structured JSON/YAML documents.
package profile

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mj1618/macropad/internal/model"
)

// Format selects a profile encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "config":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("unknown profile format: %q (expected text, json, or yaml)", s)
	}
}

// FormatForPath infers the format from a file extension. Anything that is
// not .json, .yaml or .yml is treated as the text grammar.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Options control validation while parsing.
type Options struct {
	// ValidButtons restricts which button ids may be mapped. Nil allows any
	// id in range.
	ValidButtons []model.ButtonID
}

func (o Options) allowed(id model.ButtonID) bool {
	if o.ValidButtons == nil {
		return true
	}
	for _, v := range o.ValidButtons {
		if v == id {
			return true
		}
	}
	return false
}

// NoButton marks a Warning that is not tied to a button.
const NoButton model.ButtonID = -1

// Warning is a recoverable problem found while parsing. The offending
// action or line is dropped.
type Warning struct {
	Line   int            `yaml:"line"             json:"line"`
	Button model.ButtonID `yaml:"button"           json:"button"`
	Token  string         `yaml:"token,omitempty"  json:"token,omitempty"`
	Reason string         `yaml:"reason"           json:"reason"`
}

func (w Warning) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d", w.Line)
	if w.Button != NoButton {
		fmt.Fprintf(&b, ", button %d", w.Button)
	}
	if w.Token != "" {
		fmt.Fprintf(&b, ", %q", w.Token)
	}
	b.WriteString(": ")
	b.WriteString(w.Reason)
	return b.String()
}

// Result is the outcome of parsing a profile.
type Result struct {
	Profile model.Profile
	// Screen is set when the document declares a resolution.
	Screen   *model.Screen
	Warnings []Warning
}

func newResult() *Result {
	return &Result{Profile: model.Profile{}}
}

func (r *Result) warn(line int, button model.ButtonID, token, reason string) {
	r.Warnings = append(r.Warnings, Warning{Line: line, Button: button, Token: token, Reason: reason})
}

// LogWarnings reports every warning at WARN level.
func (r *Result) LogWarnings(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	for _, w := range r.Warnings {
		attrs := []any{"line", w.Line, "reason", w.Reason}
		if w.Button != NoButton {
			attrs = append(attrs, "button", int(w.Button))
		}
		if w.Token != "" {
			attrs = append(attrs, "token", w.Token)
		}
		log.Warn("profile warning", attrs...)
	}
}

// ConfigError is an unreadable or malformed profile. It is fatal at startup.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "profile: " + e.Err.Error()
	}
	return fmt.Sprintf("profile %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Default returns the mapping written when no profile file exists.
func Default() model.Profile {
	return model.Profile{
		7:  {model.KeyPress{Key: mustKey("a")}},
		9:  {model.KeyPress{Key: mustKey("b")}},
		11: {model.KeyPress{Key: mustKey("c")}},
		13: {model.KeyCombo{Keys: []model.Key{model.KeyLeftCtrl, model.KeyZ}}},
		14: {model.KeyCombo{Keys: []model.Key{model.KeyLeftCtrl, model.KeyY}}},
		17: {model.KeyPress{Key: model.KeyF1}},
		18: {model.KeyPress{Key: model.KeyF2}},
		20: {model.KeyPress{Key: model.KeyF3}},
		22: {
			model.MoveAbsolute{X: 100, Y: 100},
			model.Click{Button: model.MouseLeft},
		},
	}
}

// DefaultButtons are the GPIO lines wired on the reference pad.
var DefaultButtons = []model.ButtonID{7, 9, 11, 13, 14, 17, 18, 20, 22}

func mustKey(name string) model.Key {
	k, ok := model.LookupKey(name)
	if !ok {
		panic("profile: unknown built-in key " + name)
	}
	return k
}
