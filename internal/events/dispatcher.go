package events

import (
	"context"
	"sync"
	"time"

	"reservas/pkg/logger"
)

const deliverTimeout = 5 * time.Second

// Sink delivers one event to one downstream transport. Delivery gets exactly
// one attempt; a failed delivery is logged and dropped.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// Dispatcher fans events out to its sinks from a bounded queue. Emit never
// blocks the caller: when the queue is full the event is dropped with a
// warning. Losing an event is acceptable, stalling a request is not.
type Dispatcher struct {
	queue  chan Event
	sinks  []Sink
	logger *logger.Logger
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(log *logger.Logger, queueSize, workers int, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		queue:  make(chan Event, queueSize),
		sinks:  sinks,
		logger: log,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	log.Info("Event dispatcher started",
		"queue_size", queueSize,
		"workers", workers,
		"sinks", len(sinks),
	)

	return d
}

// Emit enqueues an event without blocking. Returns false when the queue was
// full and the event was dropped.
func (d *Dispatcher) Emit(event Event) bool {
	select {
	case d.queue <- event:
		return true
	default:
		d.logger.Warn("Event queue full, dropping event", "event", event.Name)
		return false
	}
}

// Close drains the queue and stops the workers. Safe to call more than once.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for event := range d.queue {
		for _, sink := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
			if err := sink.Deliver(ctx, event); err != nil {
				d.logger.Warn("Event delivery failed",
					"sink", sink.Name(),
					"event", event.Name,
					"error", err,
				)
			}
			cancel()
		}
	}
}
