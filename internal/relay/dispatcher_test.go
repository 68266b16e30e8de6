package relay

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mj1618/macropad/internal/model"
)

func TestDispatcher_PerButtonOrder(t *testing.T) {
	var mu sync.Mutex
	seen := map[model.ButtonID][]model.Edge{}
	d := NewDispatcher(func(ev model.ButtonEvent) {
		mu.Lock()
		seen[ev.Button] = append(seen[ev.Button], ev.Edge)
		mu.Unlock()
	}, 4, nil)

	for i := 0; i < 50; i++ {
		for _, id := range []model.ButtonID{7, 9, 11, 13} {
			edge := model.Pressed
			if i%2 == 1 {
				edge = model.Released
			}
			if err := d.Dispatch(model.ButtonEvent{Button: id, Edge: edge}); err != nil {
				t.Fatal(err)
			}
		}
	}
	d.Close()

	for id, edges := range seen {
		if len(edges) != 50 {
			t.Errorf("button %d: %d events", id, len(edges))
		}
		for i, e := range edges {
			want := model.Pressed
			if i%2 == 1 {
				want = model.Released
			}
			if e != want {
				t.Fatalf("button %d: event %d is %s", id, i, e)
			}
		}
	}
}

func TestDispatcher_SlowMacroDoesNotBlockOtherButtons(t *testing.T) {
	// 9, 13 and 17 share a residue modulo small pool sizes.
	tests := []struct {
		name string
		slow model.ButtonID
		fast model.ButtonID
	}{
		{"adjacent ids", 0, 1},
		{"ids 4 apart", 9, 13},
		{"ids 8 apart", 9, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := make(chan struct{})
			fast := make(chan model.ButtonID, 1)
			d := NewDispatcher(func(ev model.ButtonEvent) {
				if ev.Button == tt.slow {
					<-block
					return
				}
				fast <- ev.Button
			}, 1, nil)
			defer d.Close()
			defer close(block)

			if err := d.Dispatch(model.ButtonEvent{Button: tt.slow}); err != nil {
				t.Fatal(err)
			}
			if err := d.Dispatch(model.ButtonEvent{Button: tt.fast}); err != nil {
				t.Fatal(err)
			}
			select {
			case id := <-fast:
				if id != tt.fast {
					t.Errorf("got %d", id)
				}
			case <-time.After(2 * time.Second):
				t.Fatalf("button %d blocked behind button %d", tt.fast, tt.slow)
			}
			if d.Lanes() != 2 {
				t.Errorf("lanes = %d, want 2", d.Lanes())
			}
		})
	}
}

func TestDispatcher_Closed(t *testing.T) {
	d := NewDispatcher(func(model.ButtonEvent) {}, 1, nil)
	d.Close()
	d.Close()
	if err := d.Dispatch(model.ButtonEvent{Button: 1}); !errors.Is(err, ErrDispatcherClosed) {
		t.Errorf("got %v", err)
	}
}

func TestServe_DrainsOnEOF(t *testing.T) {
	var mu sync.Mutex
	var handled []model.ButtonEvent
	input := "BUTTON_PRESSED:7\nBUTTON_RELEASED:7\nBUTTON_PRESSED:9\n"
	stats, err := Serve(context.Background(), strings.NewReader(input), func(ev model.ButtonEvent) {
		time.Sleep(time.Millisecond)
		mu.Lock()
		handled = append(handled, ev)
		mu.Unlock()
	}, Config{})

	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF transport error, got %v", err)
	}
	if stats.Events != 3 || stats.Buttons != 2 {
		t.Errorf("stats = %+v", stats)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(handled) != 3 {
		t.Errorf("handled %d events before returning", len(handled))
	}
}

func TestServe_ListenForIsCleanStop(t *testing.T) {
	stats, err := Serve(context.Background(), idleReader{}, func(model.ButtonEvent) {}, Config{ListenFor: 20 * time.Millisecond})
	if err != nil {
		t.Errorf("bounded session should end cleanly, got %v", err)
	}
	if stats.Events != 0 {
		t.Errorf("stats = %+v", stats)
	}
}
