package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mj1618/macropad/internal/output"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"relay", "ports", "local", "send", "trigger", "profile", "serve"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

// execute runs the CLI with a temporary settings file and returns stdout.
func execute(t *testing.T, settingsYAML string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(settingsYAML), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	old := output.Stdout
	output.Stdout = &buf
	defer func() { output.Stdout = old }()

	rootCmd.SetArgs(append([]string{"--config", cfgPath, "--format", "json", "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}
