package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Observer receives dispatcher events. Metrics hook in here.
type Observer interface {
	Queued(delta int)
	Applied(err error)
}

type nopObserver struct{}

func (nopObserver) Queued(int)    {}
func (nopObserver) Applied(error) {}

// Dispatcher routes assignment changes to a fixed set of workers using
// consistent hashing on the document id, so changes to one document are
// applied in the order they were enqueued.
type Dispatcher struct {
	workers  []chan domain.AssignmentChange
	service  ports.AssignmentService
	observer Observer
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. observer may be nil.
func NewDispatcher(numWorkers int, service ports.AssignmentService, observer Observer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if observer == nil {
		observer = nopObserver{}
	}
	d := &Dispatcher{
		workers:  make([]chan domain.AssignmentChange, numWorkers),
		service:  service,
		observer: observer,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AssignmentChange, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a change to the worker responsible for its document. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(change domain.AssignmentChange) {
	d.observer.Queued(1)
	d.workers[d.shardIndex(change.DocumentID)] <- change
}

// shardIndex maps a document id deterministically to a worker index.
func (d *Dispatcher) shardIndex(documentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(documentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AssignmentChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			d.observer.Queued(-1)
			err := d.service.Sync(ctx, change)
			d.observer.Applied(err)
			if err != nil {
				d.log.Error().Err(err).
					Str("document", change.DocumentID).
					Str("from", change.Previous).
					Str("to", change.Current).
					Int("worker_id", id).
					Msg("assignment sync failed")
			}
		}
	}
}
