package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/quietfjord/macrolog/internal/services"
)

type totalsView struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	TotalCarbsG   float64 `json:"total_carbs_g"`
	TotalProteinG float64 `json:"total_protein_g"`
	TotalFatG     float64 `json:"total_fat_g"`
}

func totalsViewOf(totals services.DayTotals) totalsView {
	return totalsView{
		Date:          formatDay(totals.Date),
		TotalCalories: totals.Calories,
		TotalCarbsG:   totals.CarbsG,
		TotalProteinG: totals.ProteinG,
		TotalFatG:     totals.FatG,
	}
}

// GetDailyTotals serves the stored aggregate; ?recompute=1 sums the log
// directly instead, which must agree with the stored row.
func (handler *Handler) GetDailyTotals(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := handler.parseDay(c.Params("date"))
	if err != nil {
		return serviceError(c, err)
	}

	var totals services.DayTotals
	if c.Query("recompute") == "1" {
		totals, err = handler.foodLog.RecomputeDailyTotals(user.ID, day)
	} else {
		totals, err = handler.foodLog.GetDailyTotals(user.ID, day)
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load totals")
	}
	return c.JSON(totalsViewOf(totals))
}

// DayTotalsHistory lists per-day totals across the whole log, newest first.
func (handler *Handler) DayTotalsHistory(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	history, err := handler.foodLog.ListDayTotalsHistory(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load history")
	}

	views := make([]totalsView, 0, len(history))
	for _, totals := range history {
		views = append(views, totalsViewOf(totals))
	}
	return c.JSON(fiber.Map{"days": views})
}
