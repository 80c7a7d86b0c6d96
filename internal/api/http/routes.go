package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/station-data-api/internal/observation"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *observation.Service) {
	app.Get("/station_data/", func(c *fiber.Ctx) error {
		query, err := parseStationDataQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := service.StationData(c.Context(), query)
		if err != nil {
			var upstream *observation.UpstreamError
			if errors.As(err, &upstream) {
				// Relay the provider response verbatim; soft failure.
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Status(upstream.StatusCode).Send(upstream.Body)
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch station data")
		}

		return c.JSON(fiber.Map{"data": result.Data()})
	})
}

// parseStationDataQuery binds the query string into an observation.Query and
// validates it. data_types may be repeated.
func parseStationDataQuery(c *fiber.Ctx) (observation.Query, error) {
	q := observation.Query{
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
		Station:     observation.Station(c.Query("station_id")),
		Aggregation: observation.Aggregation(c.Query("aggregation")),
	}

	for _, raw := range c.Context().QueryArgs().PeekMulti("data_types") {
		q.DataTypes = append(q.DataTypes, observation.DataType(raw))
	}

	if err := q.Validate(); err != nil {
		return observation.Query{}, err
	}
	return q, nil
}
