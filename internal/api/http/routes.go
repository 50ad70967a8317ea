package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/commute-dashboard/internal/apperr"
	"github.com/i474232898/commute-dashboard/internal/board"
	"github.com/i474232898/commute-dashboard/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *board.Service) {
	// Dashboard read models polled by the frontend.
	app.Get("/clock", func(c *fiber.Ctx) error {
		return c.JSON(service.Clock())
	})

	app.Get("/weather", func(c *fiber.Ctx) error {
		return c.JSON(service.WeatherBoard())
	})

	app.Get("/departures", func(c *fiber.Ctx) error {
		return c.JSON(service.DepartureBoards())
	})

	v1 := app.Group("/api/v1")

	v1.Get("/weather/days", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"updated_at": service.Weather().UpdatedAt(),
			"days":       service.Weather().Daily(),
		})
	})

	v1.Get("/weather/days/:date", func(c *fiber.Ctx) error {
		req := dayQuery{Date: c.Params("date")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}

		summary, err := service.Weather().SummaryFor(req.Date)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather summary for requested date")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather summary")
		}

		return c.JSON(fiber.Map{
			"weekday": service.Weekday(summary.Date),
			"summary": summary,
		})
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		sample, err := service.Weather().CurrentSample(service.Now())
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no upcoming weather sample")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather sample")
		}

		return c.JSON(fiber.Map{
			"sample":    sample,
			"condition": weather.CategoryCondition(sample.Category),
			"summary":   service.Weather().TodaySummary(),
		})
	})

	v1.Get("/departures", func(c *fiber.Ctx) error {
		var req departuresQuery
		if err := req.bind(c, service.TopN()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		group, err := service.Group(req.From, req.To)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no departures for requested station pair")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read departures")
		}

		return c.JSON(fiber.Map{
			"name":       group.Name(),
			"updated_at": group.UpdatedAt(),
			"departures": group.Top(req.N),
		})
	})
}

// RegisterMetrics exposes the Prometheus registry at /metrics.
func RegisterMetrics(app *fiber.App, gatherer prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}

// dayQuery holds the path parameter of the daily summary endpoint.
type dayQuery struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

// departuresQuery holds query parameters for the departures endpoint.
type departuresQuery struct {
	From string `validate:"required"`
	To   string `validate:"required"`
	N    int    `validate:"min=0,max=50"`
}

func (q *departuresQuery) bind(c *fiber.Ctx, defaultN int) error {
	q.From = c.Query("from")
	q.To = c.Query("to")
	if q.From == "" || q.To == "" {
		return errors.New("from and to query parameters are required")
	}

	q.N = defaultN
	if c.Query("n") != "" {
		n := c.QueryInt("n", -1)
		if n < 0 {
			return errors.New("n must be a non-negative integer")
		}
		q.N = n
	}
	return nil
}
