package observation

import (
	"math"

	"github.com/google/uuid"
)

// FilterRecords turns the raw upstream payload into cleaned records carrying
// the query fingerprint. A record whose temperature, pressure or speed is
// unparsable or non-finite is dropped silently: this is a data-quality
// filter, not an error condition.
func FilterRecords(raw []RawObservation, cacheKey string) []Record {
	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		temp, errT := r.Temperature.Float()
		pres, errP := r.Pressure.Float()
		speed, errV := r.Speed.Float()
		if errT != nil || errP != nil || errV != nil {
			continue
		}
		if !isFinite(temp) || !isFinite(pres) || !isFinite(speed) {
			continue
		}

		records = append(records, Record{
			ID:          uuid.NewString(),
			CacheKey:    cacheKey,
			Station:     r.Name,
			DateTime:    r.Timestamp,
			Temperature: temp,
			Pressure:    pres,
			Speed:       speed,
		})
	}
	return records
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
