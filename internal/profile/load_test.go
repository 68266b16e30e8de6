package profile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadOrCreate_Bootstrap(t *testing.T) {
	for _, name := range []string{"pc_profile.json", "profile.yaml", "profile.config"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "profiles", name)

			res, created, err := LoadOrCreate(path, Options{})
			if err != nil {
				t.Fatalf("LoadOrCreate: %v", err)
			}
			if !created {
				t.Error("expected the default profile to be written")
			}
			if !reflect.DeepEqual(res.Profile, Default()) {
				t.Errorf("got %v\nwant %v", res.Profile, Default())
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("profile not written: %v", err)
			}

			_, created, err = LoadOrCreate(path, Options{})
			if err != nil || created {
				t.Errorf("second load: created=%v err=%v", created, err)
			}
		})
	}
}

func TestLoad_ConfigError(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"), Options{})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ConfigError should unwrap to ErrNotExist: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, Options{}); !errors.As(err, &ce) {
		t.Errorf("expected ConfigError for malformed JSON, got %v", err)
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]Format{
		"a.json":         FormatJSON,
		"a.YAML":         FormatYAML,
		"a.yml":          FormatYAML,
		"profile.config": FormatText,
		"profile":        FormatText,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestEncode_TextRoundTrip(t *testing.T) {
	data, err := Encode(Default(), FormatText)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Parse(data, FormatText, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings: %v\n%s", res.Warnings, data)
	}
	if !reflect.DeepEqual(res.Profile, Default()) {
		t.Errorf("round trip mismatch:\n%s", data)
	}
}
