package store

import (
	"context"
	"log"
	"sync"

	"github.com/i474232898/station-data-api/internal/observation"
)

// Writer persists record batches on a background goroutine so the response
// path never waits on the database. The queue is bounded; when it is full a
// batch is dropped with a log line rather than blocking the caller. A failed
// write is logged and not retried.
type Writer struct {
	store observation.Store
	jobs  chan []observation.Record
	wg    sync.WaitGroup
	once  sync.Once
}

// NewWriter starts a Writer with the given queue capacity.
func NewWriter(store observation.Store, queueSize int) *Writer {
	if queueSize <= 0 {
		queueSize = 64
	}
	w := &Writer{
		store: store,
		jobs:  make(chan []observation.Record, queueSize),
	}

	w.wg.Add(1)
	go w.run()

	return w
}

func (w *Writer) run() {
	defer w.wg.Done()
	for records := range w.jobs {
		if err := w.store.Save(context.Background(), records); err != nil {
			log.Printf("writer: failed to persist %d records for %s: %v", len(records), records[0].CacheKey, err)
		}
	}
}

// Enqueue schedules a batch for persistence and returns immediately.
func (w *Writer) Enqueue(records []observation.Record) {
	if len(records) == 0 {
		return
	}
	select {
	case w.jobs <- records:
	default:
		log.Printf("writer: queue full, dropping %d records for %s", len(records), records[0].CacheKey)
	}
}

// Close drains the queue and stops the worker. Safe to call more than once.
func (w *Writer) Close() {
	w.once.Do(func() {
		close(w.jobs)
	})
	w.wg.Wait()
}
