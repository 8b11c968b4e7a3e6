package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sjpark-dev/weather-diary/internal/diary"
)

// apiError is a failure exposed at the HTTP boundary with a stable code.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func newAPIError(status int, code, message string) *apiError {
	return &apiError{Status: status, Code: code, Message: message}
}

// toAPIError maps domain errors to HTTP responses. Upstream weather
// failures are deliberately reported as internal errors, matching the
// service's external contract.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, diary.ErrInvalidDate):
		return newAPIError(fiber.StatusBadRequest, "INVALID_DATE", "date is beyond the allowed horizon")
	case errors.Is(err, diary.ErrNotFound):
		return newAPIError(fiber.StatusNotFound, "NOT_FOUND", "no diary entry for the requested date")
	default:
		return newAPIError(fiber.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}

// ErrorHandler renders every error as a structured JSON body. It never
// leaks internal details for errors it does not recognize.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{
			"error":   true,
			"code":    apiErr.Code,
			"message": apiErr.Message,
		})
	}

	status := fiber.StatusInternalServerError
	message := "internal server error"
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(status).JSON(fiber.Map{
		"error":   true,
		"code":    codeForStatus(status),
		"message": message,
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
