package relay

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/mj1618/macropad/internal/model"
)

// DefaultQueueSize bounds each button's queue.
const DefaultQueueSize = 64

// ErrDispatcherClosed is returned by Dispatch after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// EventHandler executes one event. *executor.Executor's Handle satisfies it.
type EventHandler func(ev model.ButtonEvent)

// Dispatcher runs every button on its own lane: a queue drained by one
// goroutine, started on the button's first event. Events for the same button
// keep their order, and a slow macro never delays another button. Lanes are
// bounded by the ButtonID range.
type Dispatcher struct {
	handle    EventHandler
	log       *slog.Logger
	queueSize int
	wg        sync.WaitGroup

	// closeMu is held for reading across a send so Close never closes a
	// lane under a blocked Dispatch.
	closeMu sync.RWMutex
	closed  bool

	mu    sync.Mutex
	lanes map[model.ButtonID]chan model.ButtonEvent
}

// NewDispatcher returns a Dispatcher whose lanes queue up to queueSize
// events. A non-positive size selects DefaultQueueSize.
func NewDispatcher(handle EventHandler, queueSize int, log *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		handle:    handle,
		log:       log,
		queueSize: queueSize,
		lanes:     make(map[model.ButtonID]chan model.ButtonEvent),
	}
}

// Lanes returns the number of buttons that have a lane.
func (d *Dispatcher) Lanes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.lanes)
}

func (d *Dispatcher) work(q <-chan model.ButtonEvent) {
	defer d.wg.Done()
	for ev := range q {
		d.handle(ev)
	}
}

// lane returns the queue for id, starting it if needed.
func (d *Dispatcher) lane(id model.ButtonID) chan model.ButtonEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	q, ok := d.lanes[id]
	if !ok {
		q = make(chan model.ButtonEvent, d.queueSize)
		d.lanes[id] = q
		d.wg.Add(1)
		go d.work(q)
	}
	return q
}

// Dispatch queues ev on its button's lane. When that queue is full it blocks
// until there is room, after logging a warning.
func (d *Dispatcher) Dispatch(ev model.ButtonEvent) error {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()
	if d.closed {
		return ErrDispatcherClosed
	}
	q := d.lane(ev.Button)
	select {
	case q <- ev:
	default:
		d.log.Warn("macro queue full, waiting", "button", int(ev.Button), "edge", ev.Edge.String())
		q <- ev
	}
	return nil
}

// Close stops accepting events, lets every lane drain its queue, and waits.
func (d *Dispatcher) Close() {
	d.closeMu.Lock()
	if d.closed {
		d.closeMu.Unlock()
		return
	}
	d.closed = true
	d.mu.Lock()
	for _, q := range d.lanes {
		close(q)
	}
	d.mu.Unlock()
	d.closeMu.Unlock()
	d.wg.Wait()
}
