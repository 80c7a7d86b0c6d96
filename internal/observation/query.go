package observation

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// The closed enumerations and the fixed timestamp pattern are enforced as
	// custom validations so Query can be checked with a single Struct call.
	_ = v.RegisterValidation("utcstamp", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(TimeLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("station", func(fl validator.FieldLevel) bool {
		return Station(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("aggregation", func(fl validator.FieldLevel) bool {
		return Aggregation(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("datatype", func(fl validator.FieldLevel) bool {
		return DataType(fl.Field().String()).Valid()
	})

	return v
}

// Query is a validated station-data request. Aggregation may be empty (no
// bucketing); DataTypes is validated but does not trim the response shape.
type Query struct {
	StartDate   string      `validate:"required,utcstamp"`
	EndDate     string      `validate:"required,utcstamp"`
	Station     Station     `validate:"required,station"`
	Aggregation Aggregation `validate:"omitempty,aggregation"`
	DataTypes   []DataType  `validate:"omitempty,dive,datatype"`
}

// Validate checks the query against the closed enumerations and the timestamp
// pattern, returning one of the sentinel validation errors. No side effects.
func (q Query) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "utcstamp":
		return fmt.Errorf("%s: %w", fieldParam(fe.Field()), ErrInvalidTimeFormat)
	case "station":
		return fmt.Errorf("%q: %w", fe.Value(), ErrUnknownStation)
	case "aggregation":
		return fmt.Errorf("%q: %w", fe.Value(), ErrInvalidAggregation)
	case "datatype":
		return fmt.Errorf("%q: %w", fe.Value(), ErrInvalidFieldType)
	case "required":
		switch fe.Field() {
		case "Station":
			return ErrUnknownStation
		default:
			return fmt.Errorf("%s: %w", fieldParam(fe.Field()), ErrInvalidTimeFormat)
		}
	}
	return err
}

// fieldParam maps struct field names back to their query parameter names for
// error messages.
func fieldParam(field string) string {
	switch field {
	case "StartDate":
		return "start_date"
	case "EndDate":
		return "end_date"
	}
	return field
}

// CacheKey derives the query fingerprint: a deterministic concatenation of
// the range bounds and the station code. Identical range+station always maps
// to the same key; distinct inputs cannot collide because the separator never
// appears in the parts.
func (q Query) CacheKey() string {
	return q.StartDate + "|" + q.EndDate + "|" + q.Station.Code()
}
