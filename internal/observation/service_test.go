package observation

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	records map[string][]Record
	saved   [][]Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]Record)}
}

func (f *fakeStore) ByCacheKey(_ context.Context, cacheKey string) ([]Record, error) {
	return f.records[cacheKey], nil
}

func (f *fakeStore) Save(_ context.Context, records []Record) error {
	f.saved = append(f.saved, records)
	return nil
}

func (f *fakeStore) Count(context.Context) (int64, error) {
	return 0, nil
}

type fakeProvider struct {
	result FetchResult
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Fetch(context.Context, string, string, Station) (FetchResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeWriter struct {
	batches [][]Record
}

func (f *fakeWriter) Enqueue(records []Record) {
	f.batches = append(f.batches, records)
}

func TestStationDataCacheHit(t *testing.T) {
	q := validQuery()
	key := q.CacheKey()

	st := newFakeStore()
	st.records[key] = []Record{
		{ID: "1", CacheKey: key, Station: "GdC", DateTime: "2024-03-15T03:00:00", Temperature: 1, Pressure: 2, Speed: 3},
		{ID: "2", CacheKey: key, Station: "GdC", DateTime: "2024-03-15T04:00:00", Temperature: 2, Pressure: 3, Speed: 4},
		{ID: "3", CacheKey: key, Station: "GdC", DateTime: "2024-03-15T05:00:00", Temperature: 3, Pressure: 4, Speed: 5},
	}
	prov := &fakeProvider{}
	wr := &fakeWriter{}
	svc := NewService(st, prov, wr)

	result, err := svc.StationData(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.FromCache {
		t.Fatal("expected a cache hit")
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected the 3 cached records, got %d", len(result.Records))
	}
	if prov.calls != 0 {
		t.Fatalf("cache hit must not reach upstream, got %d calls", prov.calls)
	}
	if len(wr.batches) != 0 {
		t.Fatalf("cache hit must not schedule persistence, got %d batches", len(wr.batches))
	}
}

func TestStationDataCacheMissFetchesAndEnqueues(t *testing.T) {
	q := validQuery()

	st := newFakeStore()
	prov := &fakeProvider{result: FetchResult{Records: []RawObservation{
		{Name: "GdC", Timestamp: "2024-03-15T03:00:00", Temperature: "20.5", Pressure: "1013.0", Speed: "5.0"},
		{Name: "GdC", Timestamp: "2024-03-15T04:00:00", Temperature: "NaN", Pressure: "1010.0", Speed: "3.0"},
	}}}
	wr := &fakeWriter{}
	svc := NewService(st, prov, wr)

	result, err := svc.StationData(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FromCache {
		t.Fatal("expected a cache miss")
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 filtered record, got %d", len(result.Records))
	}
	if prov.calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", prov.calls)
	}
	if len(wr.batches) != 1 || len(wr.batches[0]) != 1 {
		t.Fatalf("expected one enqueued batch with the filtered record, got %+v", wr.batches)
	}
	if wr.batches[0][0].CacheKey != q.CacheKey() {
		t.Fatalf("enqueued record carries wrong fingerprint %q", wr.batches[0][0].CacheKey)
	}
}

func TestStationDataNoDataBypassesAggregation(t *testing.T) {
	q := validQuery()
	q.Aggregation = AggregationHourly

	st := newFakeStore()
	prov := &fakeProvider{result: FetchResult{NoData: &NoData{Description: "No hay datos", Status: 404}}}
	wr := &fakeWriter{}
	svc := NewService(st, prov, wr)

	result, err := svc.StationData(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NoData == nil {
		t.Fatal("expected the no-data response to pass through")
	}
	if result.Buckets != nil {
		t.Fatal("no-data response must not be aggregated")
	}
	if len(wr.batches) != 0 {
		t.Fatal("no-data response must not schedule persistence")
	}

	data := result.Data()
	if len(data) != 1 {
		t.Fatalf("expected a single no-data object, got %d entries", len(data))
	}
}

func TestStationDataUpstreamFailure(t *testing.T) {
	q := validQuery()

	st := newFakeStore()
	upstreamErr := &UpstreamError{StatusCode: 500, Body: []byte(`{"descripcion":"error"}`)}
	prov := &fakeProvider{err: upstreamErr}
	wr := &fakeWriter{}
	svc := NewService(st, prov, wr)

	_, err := svc.StationData(context.Background(), q)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UpstreamError, got %v", err)
	}
	if ue.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", ue.StatusCode)
	}
	if len(wr.batches) != 0 {
		t.Fatal("failed fetch must not schedule persistence")
	}
}

func TestStationDataAggregatesFreshRecords(t *testing.T) {
	q := validQuery()
	q.Aggregation = AggregationHourly

	st := newFakeStore()
	prov := &fakeProvider{result: FetchResult{Records: []RawObservation{
		{Name: "GdC", Timestamp: "2024-03-15T03:00:00", Temperature: "10", Pressure: "1000", Speed: "4"},
		{Name: "GdC", Timestamp: "2024-03-16T03:00:00", Temperature: "20", Pressure: "1010", Speed: "6"},
	}}}
	svc := NewService(st, prov, &fakeWriter{})

	result, err := svc.StationData(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Records != nil {
		t.Fatal("aggregated result must not carry flat records")
	}
	if len(result.Buckets) != 1 {
		t.Fatalf("expected 1 hourly bucket, got %d", len(result.Buckets))
	}
	if result.Buckets[0].Bucket != "03" || result.Buckets[0].Temperature != 15 {
		t.Fatalf("unexpected bucket: %+v", result.Buckets[0])
	}
}

func TestStationDataEmptyFilteredFetchSchedulesNothing(t *testing.T) {
	q := validQuery()

	st := newFakeStore()
	prov := &fakeProvider{result: FetchResult{Records: []RawObservation{
		{Name: "GdC", Timestamp: "2024-03-15T03:00:00", Temperature: "NaN", Pressure: "1010", Speed: "3"},
	}}}
	wr := &fakeWriter{}
	svc := NewService(st, prov, wr)

	result, err := svc.StationData(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
	if len(wr.batches) != 0 {
		t.Fatal("an all-filtered fetch must not enqueue an empty batch")
	}
}
