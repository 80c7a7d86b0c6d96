package observation

import (
	"context"
	"fmt"
	"log"
)

// Service orchestrates one station-data request: fingerprint derivation,
// cache lookup, upstream fetch on miss, filtering, deferred persistence and
// optional aggregation.
//
// Two concurrent requests missing on the same fingerprint will both fetch and
// both persist; the store is a plain append and does not serialize writers
// per fingerprint.
type Service struct {
	store    Store
	provider Provider
	writer   RecordWriter
}

// NewService creates a new Service.
func NewService(store Store, provider Provider, writer RecordWriter) *Service {
	return &Service{
		store:    store,
		provider: provider,
		writer:   writer,
	}
}

// Result is the response payload of one pipeline run. Exactly one of NoData
// or the record/bucket content is populated.
type Result struct {
	Records   []Record
	Buckets   []Bucket
	NoData    *NoData
	FromCache bool
}

// Data renders the result as the array carried in the response envelope:
// aggregation buckets, flat records, or the single no-data object.
func (r Result) Data() []any {
	switch {
	case r.NoData != nil:
		return []any{r.NoData}
	case r.Buckets != nil:
		data := make([]any, 0, len(r.Buckets))
		for _, b := range r.Buckets {
			data = append(data, b)
		}
		return data
	default:
		data := make([]any, 0, len(r.Records))
		for _, rec := range r.Records {
			data = append(data, rec)
		}
		return data
	}
}

// StationData runs the fetch-cache-aggregate pipeline for a validated query.
// The cache is consulted before any upstream I/O; on a hit no persistence is
// scheduled. On a miss the filtered records are returned immediately and the
// write-back is enqueued to the background writer. A provider no-data
// response bypasses aggregation and is returned verbatim.
func (s *Service) StationData(ctx context.Context, q Query) (Result, error) {
	cacheKey := q.CacheKey()

	cached, err := s.store.ByCacheKey(ctx, cacheKey)
	if err != nil {
		return Result{}, fmt.Errorf("cache lookup for %s: %w", cacheKey, err)
	}
	if len(cached) > 0 {
		log.Printf("cache hit for %s: %d records", cacheKey, len(cached))
		return s.finish(Result{Records: cached, FromCache: true}, q), nil
	}

	fetched, err := s.provider.Fetch(ctx, q.StartDate, q.EndDate, q.Station)
	if err != nil {
		return Result{}, err
	}
	if fetched.NoData != nil {
		return Result{NoData: fetched.NoData}, nil
	}

	records := FilterRecords(fetched.Records, cacheKey)
	log.Printf("fetched %s from %s: %d raw, %d kept", cacheKey, s.provider.Name(), len(fetched.Records), len(records))

	if len(records) > 0 && s.writer != nil {
		s.writer.Enqueue(records)
	}

	return s.finish(Result{Records: records}, q), nil
}

// finish applies the requested aggregation to a record-list result.
func (s *Service) finish(r Result, q Query) Result {
	if q.Aggregation == AggregationNone {
		return r
	}
	r.Buckets = AggregateRecords(r.Records, q.Aggregation)
	r.Records = nil
	return r
}
