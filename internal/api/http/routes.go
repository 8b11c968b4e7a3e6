package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/sjpark-dev/weather-diary/internal/diary"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *diary.Service) {
	app.Post("/create/diary", func(c *fiber.Ctx) error {
		date, err := parseDateQuery(c, "date")
		if err != nil {
			return err
		}

		entry, err := service.CreateDiary(c.Context(), date, string(c.Body()))
		if err != nil {
			return toAPIError(err)
		}
		return c.JSON(entry)
	})

	app.Get("/read/diary", func(c *fiber.Ctx) error {
		date, err := parseDateQuery(c, "date")
		if err != nil {
			return err
		}

		entries, err := service.ReadDiary(c.Context(), date)
		if err != nil {
			return toAPIError(err)
		}
		return c.JSON(entries)
	})

	app.Get("/read/diaries", func(c *fiber.Ctx) error {
		start, err := parseDateQuery(c, "start-date")
		if err != nil {
			return err
		}
		end, err := parseDateQuery(c, "end-date")
		if err != nil {
			return err
		}

		entries, err := service.ReadDiaries(c.Context(), start, end)
		if err != nil {
			return toAPIError(err)
		}
		return c.JSON(entries)
	})

	app.Put("/update/diary", func(c *fiber.Ctx) error {
		date, err := parseDateQuery(c, "date")
		if err != nil {
			return err
		}

		entry, err := service.UpdateDiary(c.Context(), date, string(c.Body()))
		if err != nil {
			return toAPIError(err)
		}
		return c.JSON(entry)
	})

	app.Delete("/delete/diary", func(c *fiber.Ctx) error {
		date, err := parseDateQuery(c, "date")
		if err != nil {
			return err
		}

		if err := service.DeleteDiary(c.Context(), date); err != nil {
			return toAPIError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// dateQuery holds a single required date query parameter.
type dateQuery struct {
	Date string `validate:"required"`
}

func parseDateQuery(c *fiber.Ctx, name string) (diary.Date, error) {
	q := dateQuery{Date: c.Query(name)}
	if err := validate.Struct(q); err != nil {
		return diary.Date{}, newAPIError(fiber.StatusBadRequest, "INVALID_DATE_FORMAT",
			name+" query parameter is required")
	}

	date, err := diary.ParseDate(q.Date)
	if err != nil {
		return diary.Date{}, newAPIError(fiber.StatusBadRequest, "INVALID_DATE_FORMAT",
			name+" must be an ISO date (YYYY-MM-DD)")
	}
	return date, nil
}
