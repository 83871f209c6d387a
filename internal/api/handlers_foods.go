package api

import "github.com/gofiber/fiber/v2"

type lookupFoodView struct {
	Name           string  `json:"name"`
	ServingWeightG float64 `json:"serving_weight_grams"`
	Calories       float64 `json:"calories"`
	ProteinG       float64 `json:"protein_g"`
	CarbsG         float64 `json:"carbs_g"`
	FatG           float64 `json:"fat_g"`
	Source         string  `json:"source"`
	SourceFoodID   string  `json:"source_food_id,omitempty"`
}

// SearchFoods previews the provider's candidates for a query without
// caching or logging anything.
func (handler *Handler) SearchFoods(c *fiber.Ctx) error {
	if _, ok := currentUser(c); !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	query := c.Query("q")
	if query == "" {
		return apiError(c, fiber.StatusBadRequest, "missing query parameter 'q'")
	}

	candidates, err := handler.tracker.SearchFoods(c.UserContext(), query)
	if err != nil {
		return serviceError(c, err)
	}

	results := make([]lookupFoodView, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, lookupFoodView{
			Name:           candidate.Name,
			ServingWeightG: candidate.ServingWeightG,
			Calories:       candidate.Calories,
			ProteinG:       candidate.ProteinG,
			CarbsG:         candidate.CarbsG,
			FatG:           candidate.FatG,
			Source:         "nutritionix",
			SourceFoodID:   candidate.TagID,
		})
	}
	return c.JSON(fiber.Map{"results": results})
}
