package server

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/executor"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/mouse"
	"github.com/mj1618/macropad/internal/platform/platformtest"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	srv *Server
	rec *platformtest.Recorder
	clk *clock.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rec := &platformtest.Recorder{}
	clk := clock.NewFake(time.Unix(0, 0))
	ctl, err := mouse.New(rec, model.Screen{Width: 800, Height: 600}, mouse.WithClock(clk))
	if err != nil {
		t.Fatal(err)
	}
	if err := ctl.Reset(); err != nil {
		t.Fatal(err)
	}
	rec.Reset()

	errs := NewErrorLog(0, clk)
	p := model.Profile{
		7:  {model.KeyPress{Key: model.KeyA}},
		13: {model.KeyCombo{Keys: []model.Key{model.KeyLeftCtrl, model.KeyZ}}},
		22: {model.MoveAbsolute{X: 100, Y: 100}, model.Click{Button: model.MouseLeft}},
	}
	ex := executor.New(p, rec, ctl, executor.WithClock(clk), executor.WithErrorHandler(errs.Record))
	srv := New(ex, ctl, errs, "test", WithClock(clk), WithBackend("dryrun"))
	return &fixture{srv: srv, rec: rec, clk: clk}
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range r.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

func decodeStep(t *testing.T, r *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(resultText(t, r)), &m); err != nil {
		t.Fatalf("result is not YAML: %v", err)
	}
	return m
}

func TestPressAndRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.srv.handlePress(ctx, call(map[string]interface{}{"button": float64(13)}))
	if err != nil || res.IsError {
		t.Fatalf("press: %v %s", err, resultText(t, res))
	}
	step := decodeStep(t, res)
	if step["edge"] != "pressed" {
		t.Errorf("edge = %v", step["edge"])
	}
	held, _ := step["held"].([]interface{})
	if len(held) != 2 || held[0] != "LEFT_CONTROL" {
		t.Errorf("held = %v", step["held"])
	}

	res, err = f.srv.handleRelease(ctx, call(map[string]interface{}{"button": float64(13)}))
	if err != nil || res.IsError {
		t.Fatalf("release: %v", err)
	}
	if _, ok := decodeStep(t, res)["held"]; ok {
		t.Error("nothing should be held after release")
	}
	if got := len(f.rec.Calls()); got != 4 {
		t.Errorf("calls = %v", f.rec.Strings())
	}
}

func TestTapHoldsForDuration(t *testing.T) {
	f := newFixture(t)
	start := f.clk.Now()

	res, _ := f.srv.handleTap(context.Background(), call(map[string]interface{}{"button": float64(7), "hold": float64(120)}))
	if res.IsError {
		t.Fatalf("tap failed: %s", resultText(t, res))
	}
	if got := f.clk.Now().Sub(start); got != 120*time.Millisecond {
		t.Errorf("held for %s, want 120ms", got)
	}
	want := []string{"press A", "release A"}
	got := f.rec.Strings()
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("calls = %v, want %v", got, want)
	}
}

func TestButtonValidation(t *testing.T) {
	f := newFixture(t)
	for _, args := range []map[string]interface{}{
		{},
		{"button": float64(300)},
		{"button": float64(-1)},
	} {
		res, err := f.srv.handlePress(context.Background(), call(args))
		if err != nil {
			t.Fatal(err)
		}
		if !res.IsError {
			t.Errorf("args %v should be rejected", args)
		}
	}
}

func TestPressReportsCapabilityErrors(t *testing.T) {
	f := newFixture(t)
	f.rec.Fail = func(c platformtest.Call) error {
		if c.Op == "down" {
			return errors.New("device gone")
		}
		return nil
	}

	res, _ := f.srv.handlePress(context.Background(), call(map[string]interface{}{"button": float64(22)}))
	if !res.IsError {
		t.Fatal("expected an error result")
	}
	if text := resultText(t, res); !strings.Contains(text, "device gone") {
		t.Errorf("result = %s", text)
	}
}

func TestListProfile(t *testing.T) {
	f := newFixture(t)
	res, _ := f.srv.handleListProfile(context.Background(), call(map[string]interface{}{"format": "json"}))
	if res.IsError {
		t.Fatalf("list_profile: %s", resultText(t, res))
	}
	text := resultText(t, res)
	if !strings.Contains(text, `"22"`) || !strings.Contains(text, "key_combo") {
		t.Errorf("profile = %s", text)
	}

	res, _ = f.srv.handleListProfile(context.Background(), call(map[string]interface{}{"format": "xml"}))
	if !res.IsError {
		t.Error("unknown format should fail")
	}
}

func TestMouseState(t *testing.T) {
	f := newFixture(t)
	if _, err := f.srv.handlePress(context.Background(), call(map[string]interface{}{"button": float64(22)})); err != nil {
		t.Fatal(err)
	}
	res, _ := f.srv.handleMouseState(context.Background(), call(nil))
	m := decodeStep(t, res)
	if m["x"] != 100 || m["y"] != 100 || m["synced"] != true {
		t.Errorf("state = %v", m)
	}
	if m["backend"] != "dryrun" || m["screen"] != "800x600" {
		t.Errorf("state = %v", m)
	}
}

func TestErrorLogTTL(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	l := NewErrorLog(time.Second, clk)
	l.Record(&executor.CapabilityError{Button: 7, Err: errors.New("old")})
	clk.Advance(2 * time.Second)
	l.Record(&executor.CapabilityError{Button: 7, Err: errors.New("new")})

	got := l.Take(7)
	if len(got) != 1 || got[0].Err.Error() != "new" {
		t.Errorf("Take = %v", got)
	}
	if len(l.Take(7)) != 0 {
		t.Error("Take should drain the button")
	}
	l.Record(&executor.CapabilityError{Button: 9, Err: errors.New("x")})
	l.InvalidateAll()
	if len(l.Take(9)) != 0 {
		t.Error("InvalidateAll should clear entries")
	}
}
