package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)

	foods := api.Group("/foods", handler.AuthRequired)
	foods.Get("/search", handler.SearchFoods)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Post("", handler.LogFood)
	entries.Post("/natural", handler.LogNaturalQuery)
	entries.Get("", handler.ListEntries)
	entries.Patch("/:id", handler.AmendEntry)
	entries.Delete("/:id", handler.DeleteEntry)

	summary := api.Group("/summary", handler.AuthRequired)
	summary.Get("/history", handler.DayTotalsHistory)
	summary.Get("/:date", handler.GetDailyTotals)

	account := api.Group("/account", handler.AuthRequired)
	account.Delete("", handler.DeleteAccount)
}
