package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Parse parses data in format f.
func Parse(data []byte, f Format, opts Options) (*Result, error) {
	if f == FormatText {
		return ParseText(bytes.NewReader(data), opts)
	}
	return ParseStructured(data, f, opts)
}

// Load reads and parses the profile at path, choosing the parser from the
// file extension. Any read or syntax failure is a *ConfigError.
func Load(path string, opts Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	res, err := Parse(data, FormatForPath(path), opts)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return res, nil
}

// LoadOrCreate loads path, or writes the default profile there when the file
// does not exist yet. created reports whether the file was written.
func LoadOrCreate(path string, opts Options) (res *Result, created bool, err error) {
	_, statErr := os.Stat(path)
	if statErr == nil {
		res, err = Load(path, opts)
		return res, false, err
	}
	if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, false, &ConfigError{Path: path, Err: statErr}
	}

	if err := WriteDefault(path); err != nil {
		return nil, false, err
	}
	res, err = Load(path, opts)
	return res, true, err
}

// WriteDefault writes the default profile to path in the format implied by
// its extension, creating parent directories.
func WriteDefault(path string) error {
	data, err := Encode(Default(), FormatForPath(path))
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &ConfigError{Path: path, Err: fmt.Errorf("create directory: %w", err)}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}
