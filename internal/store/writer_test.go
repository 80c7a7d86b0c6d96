package store

import (
	"context"
	"sync"
	"testing"

	"github.com/i474232898/station-data-api/internal/observation"
)

type recordingStore struct {
	mu    sync.Mutex
	saved [][]observation.Record
}

func (r *recordingStore) ByCacheKey(context.Context, string) ([]observation.Record, error) {
	return nil, nil
}

func (r *recordingStore) Save(_ context.Context, records []observation.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, records)
	return nil
}

func (r *recordingStore) Count(context.Context) (int64, error) {
	return 0, nil
}

func TestWriterPersistsEnqueuedBatches(t *testing.T) {
	rs := &recordingStore{}
	w := NewWriter(rs, 8)

	w.Enqueue(testRecords("k1"))
	w.Enqueue(testRecords("k2"))
	w.Close()

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.saved) != 2 {
		t.Fatalf("expected 2 persisted batches, got %d", len(rs.saved))
	}
	if rs.saved[0][0].CacheKey != "k1" || rs.saved[1][0].CacheKey != "k2" {
		t.Fatalf("batches persisted out of order or mangled: %+v", rs.saved)
	}
}

func TestWriterIgnoresEmptyBatch(t *testing.T) {
	rs := &recordingStore{}
	w := NewWriter(rs, 8)

	w.Enqueue(nil)
	w.Close()

	rs.mu.Lock()
	defer rs.mu.Unlock()
	if len(rs.saved) != 0 {
		t.Fatalf("expected no persisted batches, got %d", len(rs.saved))
	}
}

func TestWriterCloseIsIdempotent(t *testing.T) {
	w := NewWriter(&recordingStore{}, 8)
	w.Close()
	w.Close()
}
