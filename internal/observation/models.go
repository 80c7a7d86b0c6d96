package observation

import (
	"bytes"
	"strconv"
	"strings"
)

// TimeLayout is the fixed textual format AEMET expects for range bounds,
// e.g. 2024-03-15T14:30:00UTC.
const TimeLayout = "2006-01-02T15:04:05UTC"

// Station identifies one of the AEMET Antarctica stations. The values are the
// full display labels used by the upstream catalog; the station code sent on
// the wire is the portion before the first dash.
type Station string

const (
	StationMeteoJuanCarlosI  Station = "89064- Estación Meteorológica Juan Carlos I"
	StationRadioJuanCarlosI  Station = "89064R- Estación Radiométrica Juan Carlos I"
	StationRadioJuanCarlosIA Station = "89064RA- Estación Radiométrica Juan Carlos I (hasta 08/03/2007)"
	StationMeteoGabrielCast  Station = "89070- Estación Meteorológica Gabriel de Castilla"
)

// Stations is the closed catalog of valid station identifiers.
var Stations = []Station{
	StationMeteoJuanCarlosI,
	StationRadioJuanCarlosI,
	StationRadioJuanCarlosIA,
	StationMeteoGabrielCast,
}

// Code returns the upstream station code, the label portion before the dash.
func (s Station) Code() string {
	return strings.SplitN(string(s), "-", 2)[0]
}

// Valid reports whether s is a member of the station catalog.
func (s Station) Valid() bool {
	for _, known := range Stations {
		if s == known {
			return true
		}
	}
	return false
}

// Aggregation selects the time bucketing applied to a record list.
type Aggregation string

const (
	AggregationNone    Aggregation = ""
	AggregationHourly  Aggregation = "Hourly"
	AggregationDaily   Aggregation = "Daily"
	AggregationMonthly Aggregation = "Monthly"
)

// Valid reports whether a is a known non-empty aggregation mode.
func (a Aggregation) Valid() bool {
	switch a {
	case AggregationHourly, AggregationDaily, AggregationMonthly:
		return true
	}
	return false
}

// DataType names one of the observation fields a client may request.
type DataType string

const (
	DataTypeTemperature DataType = "temperature"
	DataTypePressure    DataType = "pressure"
	DataTypeSpeed       DataType = "speed"
)

// Valid reports whether d is a known data type.
func (d DataType) Valid() bool {
	switch d {
	case DataTypeTemperature, DataTypePressure, DataTypeSpeed:
		return true
	}
	return false
}

// Record is one cleaned weather reading, persisted keyed by the fingerprint
// of the query that produced it. All three numeric fields are finite; the
// filter never creates a record that violates this.
type Record struct {
	ID          string  `gorm:"primaryKey;column:id" json:"-"`
	CacheKey    string  `gorm:"index;column:cache_key" json:"-"`
	Station     string  `gorm:"column:station" json:"station"`
	DateTime    string  `gorm:"column:date_time" json:"datetime"`
	Temperature float64 `gorm:"column:temperature" json:"temperature"`
	Pressure    float64 `gorm:"column:pressure" json:"pressure"`
	Speed       float64 `gorm:"column:speed" json:"speed"`
}

// TableName pins the table name instead of relying on gorm pluralization.
func (Record) TableName() string { return "records" }

// NoData is the structured provider response returned when the upstream has
// no payload for the requested range. It is relayed to clients verbatim,
// distinct from an empty record list.
type NoData struct {
	Description string `json:"descripcion"`
	Status      int    `json:"estado"`
}

// RawValue holds one upstream numeric field before parsing. AEMET emits these
// as JSON numbers or as strings (including "NaN"), so both forms are kept as
// their textual representation and parsed by the filter.
type RawValue string

func (v *RawValue) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if string(b) == "null" {
		*v = ""
		return nil
	}
	*v = RawValue(b)
	return nil
}

// Float parses the value as a float64. Note that strconv accepts "NaN" and
// "Inf" spellings without error; finiteness is checked separately.
func (v RawValue) Float() (float64, error) {
	return strconv.ParseFloat(string(v), 64)
}

// RawObservation is one element of the upstream payload array, prior to
// validation and filtering.
type RawObservation struct {
	Name        string   `json:"nombre"`
	Timestamp   string   `json:"fhora"`
	Temperature RawValue `json:"temp"`
	Pressure    RawValue `json:"pres"`
	Speed       RawValue `json:"vel"`
}
