package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/profile"
	"gopkg.in/yaml.v3"
)

func sampleReport() ProfileReport {
	screen := model.Screen{Width: 1920, Height: 1080}
	res := &profile.Result{
		Profile: model.Profile{
			7:  {model.KeyPress{Key: model.KeyA}},
			22: {model.MoveAbsolute{X: 100, Y: 100}, model.Click{Button: model.MouseLeft}},
		},
		Screen:   &screen,
		Warnings: []profile.Warning{{Line: 3, Button: 9, Token: "FOO", Reason: "unknown action"}},
	}
	return NewProfileReport("pad.txt", profile.FormatText, res, false)
}

func TestNewProfileReport(t *testing.T) {
	r := sampleReport()
	if len(r.Buttons) != 2 || r.Buttons[0] != 7 || r.Buttons[1] != 22 {
		t.Errorf("buttons = %v", r.Buttons)
	}
	if r.Actions != 3 {
		t.Errorf("actions = %d, want 3", r.Actions)
	}
	if r.Format != "text" || r.Screen != "1920x1080" {
		t.Errorf("format/screen = %q/%q", r.Format, r.Screen)
	}
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintYAML(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}

	var decoded ProfileReport
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Path != "pad.txt" || len(decoded.Warnings) != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
	if strings.Contains(out, "created") {
		t.Error("false created flag should be omitted")
	}
}

func TestPrintJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, sampleReport(), false); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") > 1 {
		t.Errorf("compact output should be single line, got:\n%s", buf.String())
	}
	var decoded ProfileReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Warnings[0].Token != "FOO" {
		t.Errorf("warning token = %q", decoded.Warnings[0].Token)
	}
}

func TestPrintJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintJSON(&buf, StepResult{OK: true, Button: 7, Edge: "pressed"}, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"ok\": true") {
		t.Errorf("pretty output should be indented, got:\n%s", buf.String())
	}
}

func TestPrint_UsesOutputFormat(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldFmt := Stdout, OutputFormat
	defer func() { Stdout, OutputFormat = oldOut, oldFmt }()
	Stdout = &buf

	OutputFormat = FormatJSON
	if err := Print(StepResult{Button: 9}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "{") {
		t.Errorf("json output = %q", buf.String())
	}

	OutputFormat = Format("xml")
	if err := Print(StepResult{}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"yaml": FormatYAML, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("agent"); err == nil {
		t.Error("agent format is not supported")
	}
}
