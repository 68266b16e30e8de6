package edge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/macropad/internal/clock"
	"github.com/mj1618/macropad/internal/model"
)

func TestUpdate_ActiveHigh(t *testing.T) {
	d := New([]model.ButtonID{7}, ActiveHigh)
	now := time.Unix(100, 0)

	if _, ok := d.Update(7, false, now); ok {
		t.Fatal("no event expected while idle")
	}
	ev, ok := d.Update(7, true, now)
	if !ok || ev.Edge != model.Pressed || ev.Button != 7 || !ev.Time.Equal(now) {
		t.Fatalf("press: got %+v, %v", ev, ok)
	}
	if _, ok := d.Update(7, true, now); ok {
		t.Fatal("held level must not repeat the press")
	}
	ev, ok = d.Update(7, false, now)
	if !ok || ev.Edge != model.Released {
		t.Fatalf("release: got %+v, %v", ev, ok)
	}
}

func TestUpdate_ActiveLow(t *testing.T) {
	d := New([]model.ButtonID{9}, ActiveLow)

	// Pull-up: high is idle.
	if _, ok := d.Update(9, true, time.Time{}); ok {
		t.Fatal("high level on active-low line is idle")
	}
	ev, ok := d.Update(9, false, time.Time{})
	if !ok || ev.Edge != model.Pressed {
		t.Fatalf("low level should press, got %+v, %v", ev, ok)
	}
	ev, ok = d.Update(9, true, time.Time{})
	if !ok || ev.Edge != model.Released {
		t.Fatalf("high level should release, got %+v, %v", ev, ok)
	}
}

func TestUpdate_UnknownButton(t *testing.T) {
	d := New([]model.ButtonID{7}, ActiveHigh)
	if _, ok := d.Update(8, true, time.Time{}); ok {
		t.Error("unknown id must be ignored")
	}
	if d.Active(8) {
		t.Error("unknown id must not be tracked")
	}
}

func TestNew_DedupAndSort(t *testing.T) {
	d := New([]model.ButtonID{22, 7, 22, 9}, ActiveHigh)
	got := d.Buttons()
	want := []model.ButtonID{7, 9, 22}
	if len(got) != len(want) {
		t.Fatalf("buttons = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("buttons = %v, want %v", got, want)
		}
	}
}

type flakySource struct {
	levels StaticSource
	broken model.ButtonID
}

func (s flakySource) Level(id model.ButtonID) (bool, error) {
	if id == s.broken {
		return false, errors.New("line unavailable")
	}
	return s.levels.Level(id)
}

func TestPoll_OrderAndErrors(t *testing.T) {
	d := New([]model.ButtonID{22, 7, 9}, ActiveHigh)
	src := flakySource{levels: StaticSource{7: true, 9: true, 22: true}, broken: 9}

	events, errs := d.Poll(src, time.Time{})
	if len(events) != 2 || events[0].Button != 7 || events[1].Button != 22 {
		t.Fatalf("events = %v", events)
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	var re *ReadError
	if !errors.As(errs[0], &re) || re.Button != 9 {
		t.Errorf("expected ReadError for button 9, got %v", errs[0])
	}
	if d.Active(9) {
		t.Error("unreadable button keeps its previous state")
	}
}

func TestPoller_Run(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	src := StaticSource{7: false}
	var mu sync.Mutex
	var got []model.ButtonEvent

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		Detector: New([]model.ButtonID{7}, ActiveHigh),
		Source:   &lockedSource{mu: &mu, levels: src},
		Clock:    fake,
		Handler: func(ev model.ButtonEvent) {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
		},
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	step := func(level bool) {
		mu.Lock()
		src[7] = level
		mu.Unlock()
		fake.Advance(DefaultInterval)
	}
	waitFor := func(n int) {
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			mu.Lock()
			l := len(got)
			mu.Unlock()
			if l >= n {
				return
			}
			time.Sleep(time.Millisecond)
		}
		t.Fatalf("timed out waiting for %d events", n)
	}

	step(true)
	waitFor(1)
	step(false)
	waitFor(2)

	cancel()
	fake.Advance(DefaultInterval)
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got[0].Edge != model.Pressed || got[1].Edge != model.Released {
		t.Errorf("events = %v", got)
	}
}

type lockedSource struct {
	mu     *sync.Mutex
	levels StaticSource
}

func (s *lockedSource) Level(id model.ButtonID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[id], nil
}
