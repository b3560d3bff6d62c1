package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/corebank/portal-gateway/internal/core/domain"
	"github.com/corebank/portal-gateway/internal/core/ports"
	"github.com/corebank/portal-gateway/internal/pkg/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
	// defaultEnqueueWait bounds how long a producer waits on a full worker
	// queue before the event is dropped.
	defaultEnqueueWait = 250 * time.Millisecond
)

// Sink is a named consumer of lifecycle events.
type Sink struct {
	Name    string
	Handler ports.EventSink
}

// Dispatcher routes transfer lifecycle events to a fixed set of workers using
// consistent hashing on the intent ID, guaranteeing per-intent event ordering.
// Each worker hands every event to all sinks in order; a failing sink is
// logged and never blocks the others.
type Dispatcher struct {
	workers     []chan domain.TransferEvent
	sinks       []Sink
	log         zerolog.Logger
	enqueueWait time.Duration

	// stopping is closed first by Stop so producers waiting on a full queue
	// release the read lock at once.
	stopping chan struct{}
	stopOnce sync.Once

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger, sinks ...Sink) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:     make([]chan domain.TransferEvent, numWorkers),
		sinks:       sinks,
		log:         log,
		enqueueWait: defaultEnqueueWait,
		stopping:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TransferEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or, after draining, when Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop refuses new events and waits until queued events are handled or ctx
// expires.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.stopping) })

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) OnSucceeded(ctx context.Context, ev domain.TransferEvent) {
	d.Enqueue(ctx, ev)
}

// OnRetryableFailure queues the event carrying the user-facing message.
func (d *Dispatcher) OnRetryableFailure(ctx context.Context, ev domain.TransferEvent, message string) {
	ev.Message = message
	d.Enqueue(ctx, ev)
}

// OnKeyConflict queues the event carrying the user-facing message.
func (d *Dispatcher) OnKeyConflict(ctx context.Context, ev domain.TransferEvent, message string) {
	ev.Message = message
	d.Enqueue(ctx, ev)
}

// Enqueue sends an event to the worker responsible for its intent. It never
// blocks the caller for longer than enqueueWait: when the worker queue stays
// full, or the dispatcher is stopping, the event is dropped and counted.
func (d *Dispatcher) Enqueue(ctx context.Context, ev domain.TransferEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ev, "stopping")
		return
	}

	idx := d.shardIndex(ev.IntentID)
	ch := d.workers[idx]
	select {
	case ch <- ev:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(ch)))
		return
	default:
	}

	timer := time.NewTimer(d.enqueueWait)
	defer timer.Stop()
	select {
	case ch <- ev:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(ch)))
	case <-timer.C:
		d.drop(ev, "queue_full")
	case <-d.stopping:
		d.drop(ev, "stopping")
	case <-ctx.Done():
		d.drop(ev, "cancelled")
	}
}

func (d *Dispatcher) drop(ev domain.TransferEvent, reason string) {
	metrics.EventsDroppedTotal.WithLabelValues(reason).Inc()
	d.log.Warn().
		Str("intent_id", ev.IntentID).
		Str("outcome", string(ev.Outcome)).
		Str("reason", reason).
		Msg("lifecycle event dropped")
}

// shardIndex maps an intent ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(intentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(intentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TransferEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, ev)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, ev domain.TransferEvent) {
	for _, s := range d.sinks {
		if err := s.Handler.Handle(ctx, ev); err != nil {
			metrics.EventSinkErrorsTotal.WithLabelValues(s.Name).Inc()
			d.log.Error().Err(err).
				Str("sink", s.Name).
				Str("intent_id", ev.IntentID).
				Str("outcome", string(ev.Outcome)).
				Int("worker_id", workerID).
				Msg("event sink failed")
		}
	}
}
