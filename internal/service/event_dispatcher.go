package service

import (
	"context"
	"errors"
	"sync"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// ErrDispatcherStopped is returned by Publish after Stop.
var ErrDispatcherStopped = errors.New("event dispatcher stopped")

// EventDispatcher fans ledger events out to sinks. Each sink has its own
// ordered outbox and worker, so a slow sink never reorders or delays the
// others. Publish only appends to the outboxes and never waits on a sink,
// which keeps it safe to call while the ledger lock is held. It implements
// ports.EventPublisher.
type EventDispatcher struct {
	mu       sync.RWMutex
	stopped  bool
	workers  []*sinkWorker
	wg       sync.WaitGroup
	warnEach int
	log      zerolog.Logger
}

type sinkWorker struct {
	sink ports.EventPublisher

	mu      sync.Mutex
	pending []domain.Event
	closed  bool
	wake    chan struct{}
}

// NewEventDispatcher creates a dispatcher with one outbox per sink. A warning
// is logged each time an outbox backlog grows by another bufferSize events.
func NewEventDispatcher(bufferSize int, log zerolog.Logger, sinks ...ports.EventPublisher) *EventDispatcher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	d := &EventDispatcher{warnEach: bufferSize, log: log}
	for _, s := range sinks {
		if s == nil {
			continue
		}
		d.workers = append(d.workers, &sinkWorker{sink: s, wake: make(chan struct{}, 1)})
	}
	return d
}

// Name implements ports.EventPublisher.
func (d *EventDispatcher) Name() string {
	return "dispatcher"
}

// Start launches one worker per sink. Workers exit after Stop once their
// outbox is drained.
func (d *EventDispatcher) Start(ctx context.Context) {
	for _, w := range d.workers {
		d.wg.Add(1)
		go d.run(ctx, w)
	}
	d.log.Info().Int("sinks", len(d.workers)).Msg("event dispatcher started")
}

func (d *EventDispatcher) run(ctx context.Context, w *sinkWorker) {
	defer d.wg.Done()
	for {
		ev, ok := w.next()
		if !ok {
			return
		}
		if err := w.sink.Publish(ctx, ev); err != nil {
			d.log.Warn().Err(err).
				Str("sink", w.sink.Name()).
				Str("event", string(ev.Type)).
				Uint64("seq", ev.Seq).
				Msg("event delivery failed")
		}
	}
}

// Publish appends ev to every sink outbox. It does not block, so ctx is
// only part of the ports.EventPublisher contract here.
func (d *EventDispatcher) Publish(_ context.Context, ev domain.Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}
	for _, w := range d.workers {
		if backlog := w.push(ev); backlog%d.warnEach == 0 {
			d.log.Warn().
				Str("sink", w.sink.Name()).
				Int("backlog", backlog).
				Uint64("seq", ev.Seq).
				Msg("event sink falling behind")
		}
	}
	return nil
}

// Backlog reports the number of undelivered events per sink name.
func (d *EventDispatcher) Backlog() map[string]int {
	out := make(map[string]int, len(d.workers))
	for _, w := range d.workers {
		w.mu.Lock()
		out[w.sink.Name()] += len(w.pending)
		w.mu.Unlock()
	}
	return out
}

// Stop closes the outboxes and waits for workers to drain them.
func (d *EventDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, w := range d.workers {
		w.close()
	}
	d.mu.Unlock()

	d.wg.Wait()
	d.log.Info().Msg("event dispatcher stopped")
}

func (w *sinkWorker) push(ev domain.Event) int {
	w.mu.Lock()
	w.pending = append(w.pending, ev)
	n := len(w.pending)
	w.mu.Unlock()
	w.signal()
	return n
}

func (w *sinkWorker) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.signal()
}

func (w *sinkWorker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest pending event. It waits while the outbox is empty
// and reports false once the outbox is closed and drained.
func (w *sinkWorker) next() (domain.Event, bool) {
	for {
		w.mu.Lock()
		if len(w.pending) > 0 {
			ev := w.pending[0]
			w.pending[0] = domain.Event{}
			w.pending = w.pending[1:]
			w.mu.Unlock()
			return ev, true
		}
		closed := w.closed
		w.mu.Unlock()
		if closed {
			return domain.Event{}, false
		}
		<-w.wake
	}
}
