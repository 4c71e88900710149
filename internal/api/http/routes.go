package httpapi

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/airport-weather-alerts/internal/alert"
)

var validate = validator.New()

// runTimeout bounds a run triggered over HTTP.
const runTimeout = 5 * time.Minute

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *alert.Service, store alert.StateStore) {
	v1 := app.Group("/api/v1")

	// POST /api/v1/run triggers a run immediately. mode=forced bypasses
	// change detection and always notifies; mode=scheduled (the default)
	// applies the normal rules.
	v1.Post("/run", func(c *fiber.Ctx) error {
		var q runQuery
		q.Mode = c.Query("mode", "scheduled")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		mode := alert.ModeScheduled
		if q.Mode == "forced" {
			mode = alert.ModeForced
		}

		ctx, cancel := context.WithTimeout(c.Context(), runTimeout)
		defer cancel()

		if err := service.Run(ctx, mode); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(fiber.Map{
			"status": "completed",
			"mode":   q.Mode,
		})
	})

	// GET /api/v1/state exposes the persisted change-detection state.
	v1.Get("/state", func(c *fiber.Ctx) error {
		state, err := store.Load()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load state")
		}
		return c.JSON(state)
	})
}

// runQuery holds query parameters for the run endpoint.
type runQuery struct {
	Mode string `validate:"oneof=scheduled forced"`
}
