package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quietfjord/macrolog/internal/models"
	"github.com/sethvargo/go-retry"
)

// LookupFood is one candidate serving returned by the external nutrition
// provider. Transport, auth and endpoint details live in the client.
type LookupFood struct {
	Name           string
	ServingWeightG float64
	Calories       float64
	ProteinG       float64
	CarbsG         float64
	FatG           float64
	TagID          string
}

type LookupClient interface {
	Lookup(ctx context.Context, query string) ([]LookupFood, error)
}

type FoodReferenceRepository interface {
	SearchByNameFragment(fragment string) (models.FoodItem, bool, error)
	FindBySourceTag(source string, tag string) (models.FoodItem, bool, error)
	FindBySourceAndName(source string, name string) (models.FoodItem, bool, error)
	Create(item *models.FoodItem) error
}

// ResolvedCandidate pairs a cached reference with the serving weight the
// provider reported for it.
type ResolvedCandidate struct {
	Item           models.FoodItem
	ServingWeightG float64
}

// FoodResolver is the cache in front of the external lookup: local name
// match first, then one synchronous provider call, then dedup on insert.
type FoodResolver struct {
	foods  FoodReferenceRepository
	lookup LookupClient
}

func NewFoodResolver(foods FoodReferenceRepository, lookup LookupClient) *FoodResolver {
	return &FoodResolver{
		foods:  foods,
		lookup: lookup,
	}
}

// Resolve maps a free-text query to a per-100g reference. The external call
// happens before any log transaction is opened, so a slow provider never
// holds a write lock.
func (resolver *FoodResolver) Resolve(ctx context.Context, query string) (models.FoodItem, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return models.FoodItem{}, ErrFoodNotFound
	}

	cached, found, err := resolver.foods.SearchByNameFragment(trimmed)
	if err != nil {
		return models.FoodItem{}, err
	}
	if found {
		return cached, nil
	}

	candidates, err := resolver.lookup.Lookup(ctx, trimmed)
	if err != nil {
		return models.FoodItem{}, err
	}
	if len(candidates) == 0 {
		return models.FoodItem{}, ErrFoodNotFound
	}

	return resolver.cacheCandidate(ctx, trimmed, candidates[0])
}

// ResolveAll caches every candidate the provider returns for a natural
// language query, e.g. "2 eggs and toast".
func (resolver *FoodResolver) ResolveAll(ctx context.Context, query string) ([]ResolvedCandidate, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ErrFoodNotFound
	}

	candidates, err := resolver.lookup.Lookup(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrFoodNotFound
	}

	resolved := make([]ResolvedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		item, err := resolver.cacheCandidate(ctx, trimmed, candidate)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ResolvedCandidate{
			Item:           item,
			ServingWeightG: normalizeServingWeight(candidate.ServingWeightG),
		})
	}
	return resolved, nil
}

// Search is a passthrough of the provider's candidates without caching,
// for preview endpoints.
func (resolver *FoodResolver) Search(ctx context.Context, query string) ([]LookupFood, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, ErrFoodNotFound
	}
	return resolver.lookup.Lookup(ctx, trimmed)
}

func (resolver *FoodResolver) cacheCandidate(ctx context.Context, query string, candidate LookupFood) (models.FoodItem, error) {
	reference := referenceFromLookup(query, candidate)

	tag := strings.TrimSpace(candidate.TagID)
	if tag != "" {
		return resolver.getOrCreateByTag(ctx, reference, tag)
	}

	// Without a stable id the best we can do is an exact-name match within
	// the source. Slightly different query texts can still mint duplicate
	// references; that is an accepted gap.
	existing, found, err := resolver.foods.FindBySourceAndName(reference.Source, reference.Name)
	if err != nil {
		return models.FoodItem{}, err
	}
	if found {
		return existing, nil
	}
	if err := resolver.foods.Create(&reference); err != nil {
		return models.FoodItem{}, err
	}
	return reference, nil
}

// getOrCreateByTag resolves the insert race through the unique index on
// (source, source_food_id): a conflicting insert is retried once as a
// refetch, never pre-checked and assumed safe.
func (resolver *FoodResolver) getOrCreateByTag(ctx context.Context, reference models.FoodItem, tag string) (models.FoodItem, error) {
	reference.SourceFoodID = &tag

	var resolved models.FoodItem
	backoff := retry.WithMaxRetries(1, retry.NewConstant(25*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		existing, found, err := resolver.foods.FindBySourceTag(reference.Source, tag)
		if err != nil {
			return err
		}
		if found {
			resolved = existing
			return nil
		}

		candidate := reference
		err = resolver.foods.Create(&candidate)
		if errors.Is(err, ErrConcurrencyConflict) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		resolved = candidate
		return nil
	})
	if err != nil {
		return models.FoodItem{}, err
	}
	return resolved, nil
}

// referenceFromLookup normalizes a reported serving into per-100g macros.
// A missing or non-positive serving weight is treated as 100g, which also
// guards the division.
func referenceFromLookup(query string, candidate LookupFood) models.FoodItem {
	weight := normalizeServingWeight(candidate.ServingWeightG)
	factor := 100.0 / weight

	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		name = query
	}

	serving := weight
	return models.FoodItem{
		Source:          models.SourceNutritionix,
		Name:            name,
		ServingSizeG:    &serving,
		CarbsPer100g:    candidate.CarbsG * factor,
		ProteinPer100g:  candidate.ProteinG * factor,
		FatPer100g:      candidate.FatG * factor,
		CaloriesPer100g: candidate.Calories * factor,
	}
}

func normalizeServingWeight(weight float64) float64 {
	if weight <= 0 {
		return 100.0
	}
	return weight
}
