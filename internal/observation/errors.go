package observation

import (
	"errors"
	"fmt"
)

// Validation failures. Each maps to HTTP 400 at the API boundary; none of
// them is raised after any I/O has happened.
var (
	ErrInvalidTimeFormat  = errors.New("datetime must be in the format YYYY-MM-DDTHH:MM:SSUTC")
	ErrUnknownStation     = errors.New("unknown station identifier")
	ErrInvalidAggregation = errors.New("invalid aggregation type; allowed values are: Hourly, Daily, Monthly")
	ErrInvalidFieldType   = errors.New("invalid data type; allowed values are: temperature, pressure, speed")
)

// UpstreamError carries a non-200 provider response through the pipeline so
// the API layer can relay it verbatim. The fetch is a single attempt; nothing
// is retried or cached on this path.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}
