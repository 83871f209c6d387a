package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/quietfjord/macrolog/internal/models"
	"github.com/quietfjord/macrolog/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError maps the service taxonomy onto HTTP statuses. Anything
// unrecognized is a plain 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrFoodNotFound):
		return apiError(c, fiber.StatusNotFound, "food not found")
	case errors.Is(err, services.ErrEntryNotFound):
		return apiError(c, fiber.StatusNotFound, "entry not found")
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return apiError(c, fiber.StatusBadGateway, "nutrition lookup unavailable")
	case errors.Is(err, services.ErrInvariantViolation):
		return apiError(c, fiber.StatusUnprocessableEntity, "calories inconsistent with macros")
	case errors.Is(err, services.ErrConcurrencyConflict):
		return apiError(c, fiber.StatusConflict, "concurrent write conflict, retry")
	case errors.Is(err, services.ErrInvalidGrams):
		return apiError(c, fiber.StatusBadRequest, "grams must be positive")
	case errors.Is(err, services.ErrInvalidDate):
		return apiError(c, fiber.StatusBadRequest, "invalid date, use YYYY-MM-DD")
	default:
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

// parseDay parses a YYYY-MM-DD value into the start of that day in the
// server location. An empty value means today.
func (handler *Handler) parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return services.DateAtLocation(time.Now(), handler.location), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
	if err != nil {
		return time.Time{}, services.ErrInvalidDate
	}
	return parsed, nil
}

func formatDay(day time.Time) string {
	return day.Format("2006-01-02")
}
