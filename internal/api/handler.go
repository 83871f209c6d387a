package api

import (
	"time"

	"github.com/quietfjord/macrolog/internal/db"
	"github.com/quietfjord/macrolog/internal/services"
	"gorm.io/gorm"
)

const contextUserKey = "current_user"

type Handler struct {
	secretKey    []byte
	location     *time.Location
	repositories *db.Repositories
	foodLog      *services.FoodLogService
	tracker      *services.TrackerService
}

// NewHandler wires the repositories and services behind the HTTP surface.
// The lookup client is injected so tests can stub the provider.
func NewHandler(database *gorm.DB, secretKey string, location *time.Location, lookup services.LookupClient) *Handler {
	if location == nil {
		location = time.UTC
	}

	repositories := db.NewRepositories(database)
	aggregator := services.NewDailyAggregator()
	foodLog := services.NewFoodLogService(repositories.FoodLog, aggregator, location)
	resolver := services.NewFoodResolver(repositories.FoodItems, lookup)

	return &Handler{
		secretKey:    []byte(secretKey),
		location:     location,
		repositories: repositories,
		foodLog:      foodLog,
		tracker:      services.NewTrackerService(resolver, foodLog),
	}
}
