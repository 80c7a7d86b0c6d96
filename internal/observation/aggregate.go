package observation

import (
	"fmt"
	"sort"
	"time"
)

// Bucket is one aggregation group with the arithmetic means of its member
// records. The key is the zero-padded hour of day for hourly mode, the
// calendar date for daily mode, or the year-month for monthly mode.
type Bucket struct {
	Bucket      string  `json:"bucket"`
	Temperature float64 `json:"temperature"`
	Pressure    float64 `json:"pressure"`
	Speed       float64 `json:"speed"`
}

// Record timestamps arrive in whatever shape the provider emitted them, so a
// few layouts are tried in order.
var recordTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	TimeLayout,
}

func parseRecordTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range recordTimeLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// AggregateRecords buckets records by the given mode and computes per-bucket
// means of temperature, pressure and speed, ordered by ascending bucket key.
// Hourly pools by hour of day across all dates, not per date. Records whose
// timestamp cannot be parsed are skipped. Empty input yields empty output;
// mode none is handled by the caller as a pass-through.
func AggregateRecords(records []Record, mode Aggregation) []Bucket {
	type sums struct {
		temp, pres, speed float64
		n                 int
	}
	byKey := make(map[string]*sums)

	for _, r := range records {
		ts, err := parseRecordTime(r.DateTime)
		if err != nil {
			continue
		}

		var key string
		switch mode {
		case AggregationHourly:
			key = fmt.Sprintf("%02d", ts.Hour())
		case AggregationDaily:
			key = ts.Format("2006-01-02")
		case AggregationMonthly:
			key = ts.Format("2006-01")
		default:
			continue
		}

		s, ok := byKey[key]
		if !ok {
			s = &sums{}
			byKey[key] = s
		}
		s.temp += r.Temperature
		s.pres += r.Pressure
		s.speed += r.Speed
		s.n++
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		s := byKey[k]
		n := float64(s.n)
		buckets = append(buckets, Bucket{
			Bucket:      k,
			Temperature: s.temp / n,
			Pressure:    s.pres / n,
			Speed:       s.speed / n,
		})
	}
	return buckets
}
