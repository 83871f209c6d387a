package services

import (
	"context"
	"time"

	"github.com/quietfjord/macrolog/internal/models"
)

// TrackerService chains resolve → compute → validate → commit: the full
// path from a food query to a logged entry with its day totals adjusted.
type TrackerService struct {
	resolver *FoodResolver
	log      *FoodLogService
}

func NewTrackerService(resolver *FoodResolver, log *FoodLogService) *TrackerService {
	return &TrackerService{
		resolver: resolver,
		log:      log,
	}
}

// ResolveAndLog logs a consumption of the given grams of whatever the query
// resolves to, counted toward the given logical day.
func (service *TrackerService) ResolveAndLog(ctx context.Context, userID uint, query string, grams float64, day time.Time) (models.FoodEntry, error) {
	if grams <= 0 {
		return models.FoodEntry{}, ErrInvalidGrams
	}

	item, err := service.resolver.Resolve(ctx, query)
	if err != nil {
		return models.FoodEntry{}, err
	}

	snapshot := ComputeSnapshot(Per100FromFoodItem(item), grams)
	itemID := item.ID
	return service.log.Append(ctx, userID, day, snapshot, EntryMeta{
		FoodItemID: &itemID,
		Name:       item.Name,
		WeightG:    grams,
	})
}

// LogNaturalQuery logs every food the provider recognizes in a natural
// language query, each at its reported serving weight.
func (service *TrackerService) LogNaturalQuery(ctx context.Context, userID uint, query string, day time.Time) ([]models.FoodEntry, error) {
	candidates, err := service.resolver.ResolveAll(ctx, query)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FoodEntry, 0, len(candidates))
	for _, candidate := range candidates {
		snapshot := ComputeSnapshot(Per100FromFoodItem(candidate.Item), candidate.ServingWeightG)
		itemID := candidate.Item.ID
		entry, err := service.log.Append(ctx, userID, day, snapshot, EntryMeta{
			FoodItemID: &itemID,
			Name:       candidate.Item.Name,
			WeightG:    candidate.ServingWeightG,
		})
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (service *TrackerService) SearchFoods(ctx context.Context, query string) ([]LookupFood, error) {
	return service.resolver.Search(ctx, query)
}
