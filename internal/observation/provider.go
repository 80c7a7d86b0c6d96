package observation

import (
	"context"
)

// FetchResult is the outcome of a successful upstream exchange: either the
// raw payload array, or the provider's structured no-data response when the
// metadata envelope carried no payload URL.
type FetchResult struct {
	Records []RawObservation
	NoData  *NoData
}

// Provider abstracts the upstream observation source. A non-200 metadata
// response surfaces as *UpstreamError; there is exactly one attempt.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, startDate, endDate string, station Station) (FetchResult, error)
}

// Store is the contract the persistence layer must satisfy. Records are
// append-only; presence of at least one record for a cache key means the
// range+station has already been fetched.
type Store interface {
	ByCacheKey(ctx context.Context, cacheKey string) ([]Record, error)
	Save(ctx context.Context, records []Record) error
	Count(ctx context.Context) (int64, error)
}

// RecordWriter schedules a deferred, fire-and-forget persistence of freshly
// fetched records. It must never block the response path.
type RecordWriter interface {
	Enqueue(records []Record)
}
