package mouse

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/model"
	"github.com/mj1618/macropad/internal/platform/platformtest"
)

var testScreen = model.Screen{Width: 1920, Height: 1080}

func newSynced(t *testing.T) (*Controller, *platformtest.Recorder, *clock.Fake) {
	t.Helper()
	rec := &platformtest.Recorder{}
	clk := clock.NewFake(time.Unix(0, 0))
	m, err := New(rec, testScreen, WithClock(clk))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}
	rec.Reset()
	return m, rec, clk
}

func sumMoves(moves []platformtest.Call) (int, int) {
	var x, y int
	for _, c := range moves {
		x += c.DX
		y += c.DY
	}
	return x, y
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, testScreen); err == nil {
		t.Error("nil device should fail")
	}
	if _, err := New(&platformtest.Recorder{}, model.Screen{}); err == nil {
		t.Error("empty screen should fail")
	}
}

func TestMoveBeforeReset(t *testing.T) {
	rec := &platformtest.Recorder{}
	m, err := New(rec, testScreen)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.MoveAbsolute(10, 10); !errors.Is(err, ErrNotSynchronized) {
		t.Errorf("MoveAbsolute before Reset: %v", err)
	}
	if err := m.MoveRelative(10, 10); !errors.Is(err, ErrNotSynchronized) {
		t.Errorf("MoveRelative before Reset: %v", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("no device calls expected, got %v", rec.Strings())
	}
}

func TestReset(t *testing.T) {
	rec := &platformtest.Recorder{}
	m, err := New(rec, testScreen, WithClock(clock.NewFake(time.Unix(0, 0))), WithResetSteps(5))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}
	moves := rec.Moves()
	if len(moves) != 5 {
		t.Fatalf("reset issued %d moves, want 5", len(moves))
	}
	for _, c := range moves {
		if c.DX != -127 || c.DY != -127 {
			t.Errorf("reset move = %d,%d", c.DX, c.DY)
		}
	}
	x, y, synced := m.Position()
	if x != 0 || y != 0 || !synced {
		t.Errorf("position = %d,%d synced=%v", x, y, synced)
	}
}

func TestDefaultResetStepsCoversScreen(t *testing.T) {
	steps := DefaultResetSteps(testScreen)
	if steps*127 < 1920 {
		t.Errorf("%d steps cannot cross 1920 pixels", steps)
	}
}

func TestChunkCount(t *testing.T) {
	tests := []struct {
		x, y   int
		chunks int
	}{
		{0, 0, 0},
		{1, 0, 1},
		{127, 127, 1},
		{128, 0, 2},
		{254, 10, 2},
		{1000, 500, 8},
		{1919, 1079, 16},
	}
	for _, tt := range tests {
		m, rec, _ := newSynced(t)
		if err := m.MoveAbsolute(tt.x, tt.y); err != nil {
			t.Fatal(err)
		}
		moves := rec.Moves()
		if len(moves) != tt.chunks {
			t.Errorf("move to %d,%d: %d chunks, want %d", tt.x, tt.y, len(moves), tt.chunks)
		}
		for _, c := range moves {
			if c.DX < -127 || c.DX > 127 || c.DY < -127 || c.DY > 127 {
				t.Errorf("chunk out of range: %d,%d", c.DX, c.DY)
			}
		}
		if sx, sy := sumMoves(moves); sx != tt.x || sy != tt.y {
			t.Errorf("chunks sum to %d,%d, want %d,%d", sx, sy, tt.x, tt.y)
		}
	}
}

func TestChunkPauses(t *testing.T) {
	m, _, clk := newSynced(t)
	before := len(clk.Sleeps())
	if err := m.MoveAbsolute(300, 0); err != nil {
		t.Fatal(err)
	}
	// Three chunks, two pauses between them.
	sleeps := clk.Sleeps()[before:]
	if len(sleeps) != 2 || sleeps[0] != DefaultChunkPause {
		t.Errorf("sleeps = %v", sleeps)
	}
}

func TestMoveAbsoluteIdempotent(t *testing.T) {
	m, rec, _ := newSynced(t)
	if err := m.MoveAbsolute(500, 400); err != nil {
		t.Fatal(err)
	}
	rec.Reset()
	if err := m.MoveAbsolute(500, 400); err != nil {
		t.Fatal(err)
	}
	if n := len(rec.Moves()); n != 0 {
		t.Errorf("second move emitted %d chunks", n)
	}
}

func TestMoveAbsoluteClamps(t *testing.T) {
	m, rec, _ := newSynced(t)
	if err := m.MoveAbsolute(5000, -20); err != nil {
		t.Fatal(err)
	}
	x, y, _ := m.Position()
	if x != 1919 || y != 0 {
		t.Errorf("position = %d,%d, want 1919,0", x, y)
	}
	if sx, sy := sumMoves(rec.Moves()); sx != 1919 || sy != 0 {
		t.Errorf("emitted %d,%d", sx, sy)
	}
}

func TestMoveRelativeAgainstWall(t *testing.T) {
	m, rec, _ := newSynced(t)
	if err := m.MoveAbsolute(1900, 10); err != nil {
		t.Fatal(err)
	}
	rec.Reset()

	if err := m.MoveRelative(100, -50); err != nil {
		t.Fatal(err)
	}
	if sx, sy := sumMoves(rec.Moves()); sx != 19 || sy != -10 {
		t.Errorf("emitted %d,%d, want 19,-10", sx, sy)
	}
	rec.Reset()

	// Already at the wall: nothing to emit.
	if err := m.MoveRelative(100, -50); err != nil {
		t.Fatal(err)
	}
	if len(rec.Moves()) != 0 {
		t.Errorf("moves against the wall: %v", rec.Strings())
	}
}

func TestBoundsInvariant(t *testing.T) {
	m, _, _ := newSynced(t)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		var err error
		if rng.Intn(2) == 0 {
			err = m.MoveAbsolute(rng.Intn(6000)-3000, rng.Intn(4000)-2000)
		} else {
			err = m.MoveRelative(rng.Intn(6000)-3000, rng.Intn(4000)-2000)
		}
		if err != nil {
			t.Fatal(err)
		}
		x, y, _ := m.Position()
		if x < 0 || x >= testScreen.Width || y < 0 || y >= testScreen.Height {
			t.Fatalf("step %d: position %d,%d out of bounds", i, x, y)
		}
	}
}

func TestMoveFailureKeepsEmittedProgress(t *testing.T) {
	m, rec, _ := newSynced(t)
	calls := 0
	rec.Fail = func(c platformtest.Call) error {
		if c.Op == "move" {
			calls++
			if calls == 2 {
				return errors.New("device gone")
			}
		}
		return nil
	}
	if err := m.MoveAbsolute(300, 0); err == nil {
		t.Fatal("expected error")
	}
	x, _, _ := m.Position()
	if x != 127 {
		t.Errorf("believed x = %d, want 127 after one successful chunk", x)
	}
}

func TestClick(t *testing.T) {
	m, rec, clk := newSynced(t)
	before := len(clk.Sleeps())
	if err := m.Click(model.MouseRight); err != nil {
		t.Fatal(err)
	}
	got := rec.Strings()
	if len(got) != 2 || got[0] != "down right" || got[1] != "up right" {
		t.Errorf("calls = %v", got)
	}
	sleeps := clk.Sleeps()[before:]
	if len(sleeps) != 1 || sleeps[0] != DefaultClickHold {
		t.Errorf("hold sleeps = %v", sleeps)
	}
}

func TestClickReleasesAfterFailedPress(t *testing.T) {
	m, rec, _ := newSynced(t)
	rec.Fail = func(c platformtest.Call) error {
		if c.Op == "down" {
			return errors.New("stuck")
		}
		return nil
	}
	if err := m.Click(model.MouseLeft); err == nil {
		t.Error("expected error")
	}
	got := rec.Strings()
	if len(got) != 1 || got[0] != "up left" {
		t.Errorf("calls = %v", got)
	}
}

func TestScroll(t *testing.T) {
	m, rec, _ := newSynced(t)
	if err := m.Scroll(0); err != nil {
		t.Fatal(err)
	}
	if err := m.Scroll(-3); err != nil {
		t.Fatal(err)
	}
	got := rec.Strings()
	if len(got) != 1 || got[0] != "scroll -3" {
		t.Errorf("calls = %v", got)
	}
}
