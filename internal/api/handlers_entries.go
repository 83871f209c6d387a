package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/quietfjord/macrolog/internal/models"
	"github.com/quietfjord/macrolog/internal/services"
)

type entryView struct {
	ID         uint      `json:"id"`
	Date       string    `json:"date"`
	Name       string    `json:"name"`
	WeightG    float64   `json:"weight_g"`
	CarbsG     float64   `json:"carbs_g"`
	ProteinG   float64   `json:"protein_g"`
	FatG       float64   `json:"fat_g"`
	Calories   float64   `json:"calories"`
	FoodItemID *uint     `json:"food_item_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func entryViewOf(entry models.FoodEntry) entryView {
	return entryView{
		ID:         entry.ID,
		Date:       formatDay(entry.Date),
		Name:       entry.Name,
		WeightG:    entry.WeightG,
		CarbsG:     entry.CarbsG,
		ProteinG:   entry.ProteinG,
		FatG:       entry.FatG,
		Calories:   entry.Calories,
		FoodItemID: entry.FoodItemID,
		CreatedAt:  entry.CreatedAt,
	}
}

type logFoodPayload struct {
	Food    string  `json:"food"`
	AmountG float64 `json:"amount_g"`
	Date    string  `json:"date"`
}

// LogFood resolves a food query and appends one entry of the given grams.
func (handler *Handler) LogFood(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := logFoodPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Food == "" {
		return apiError(c, fiber.StatusBadRequest, "food query is required")
	}
	if payload.AmountG <= 0 {
		return apiError(c, fiber.StatusBadRequest, "grams must be positive")
	}

	day, err := handler.parseDay(payload.Date)
	if err != nil {
		return serviceError(c, err)
	}

	entry, err := handler.tracker.ResolveAndLog(c.UserContext(), user.ID, payload.Food, payload.AmountG, day)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entryViewOf(entry))
}

type naturalQueryPayload struct {
	Query string `json:"query"`
	Date  string `json:"date"`
}

// LogNaturalQuery logs every food recognized in a natural language query,
// each at its reported serving weight.
func (handler *Handler) LogNaturalQuery(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := naturalQueryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.Query == "" {
		return apiError(c, fiber.StatusBadRequest, "query is required")
	}

	day, err := handler.parseDay(payload.Date)
	if err != nil {
		return serviceError(c, err)
	}

	entries, err := handler.tracker.LogNaturalQuery(c.UserContext(), user.ID, payload.Query, day)
	if err != nil {
		return serviceError(c, err)
	}

	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryViewOf(entry))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entries": views})
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := handler.parseDay(c.Query("date"))
	if err != nil {
		return serviceError(c, err)
	}

	entries, err := handler.foodLog.ListEntries(user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	views := make([]entryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryViewOf(entry))
	}
	return c.JSON(fiber.Map{"date": formatDay(services.DateAtLocation(day, handler.location)), "entries": views})
}

type amendEntryPayload struct {
	Date     *string  `json:"date"`
	WeightG  *float64 `json:"weight_g"`
	Name     *string  `json:"name"`
	CarbsG   *float64 `json:"carbs_g"`
	ProteinG *float64 `json:"protein_g"`
	FatG     *float64 `json:"fat_g"`
	Calories *float64 `json:"calories"`
}

func (handler *Handler) AmendEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entryID, err := c.ParamsInt("id")
	if err != nil || entryID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	payload := amendEntryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	changes := services.EntryChanges{
		WeightG: payload.WeightG,
		Name:    payload.Name,
	}

	if payload.Date != nil {
		day, err := handler.parseDay(*payload.Date)
		if err != nil {
			return serviceError(c, err)
		}
		changes.Day = &day
	}

	anyMacro := payload.CarbsG != nil || payload.ProteinG != nil || payload.FatG != nil || payload.Calories != nil
	if anyMacro {
		if payload.CarbsG == nil || payload.ProteinG == nil || payload.FatG == nil || payload.Calories == nil {
			return apiError(c, fiber.StatusBadRequest, "macro override requires carbs_g, protein_g, fat_g and calories")
		}
		changes.Snapshot = &services.MacroSnapshot{
			CarbsG:   *payload.CarbsG,
			ProteinG: *payload.ProteinG,
			FatG:     *payload.FatG,
			Calories: *payload.Calories,
		}
	}

	entry, err := handler.foodLog.Amend(c.UserContext(), user.ID, uint(entryID), changes)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(entryViewOf(entry))
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entryID, err := c.ParamsInt("id")
	if err != nil || entryID <= 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	if err := handler.foodLog.Remove(c.UserContext(), user.ID, uint(entryID)); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
