package db

import (
	"github.com/quietfjord/macrolog/internal/models"
	"gorm.io/gorm"
)

type FoodItemRepository struct {
	database *gorm.DB
}

func NewFoodItemRepository(database *gorm.DB) *FoodItemRepository {
	return &FoodItemRepository{database: database}
}

// SearchByNameFragment is the local cache hit: a case-insensitive substring
// match on the reference name, oldest row first for stability.
func (repo *FoodItemRepository) SearchByNameFragment(fragment string) (models.FoodItem, bool, error) {
	item := models.FoodItem{}
	result := repo.database.
		Where("name LIKE ? COLLATE NOCASE", "%"+fragment+"%").
		Order("id ASC").
		Limit(1).
		Find(&item)
	if result.Error != nil {
		return models.FoodItem{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FoodItem{}, false, nil
	}
	return item, true, nil
}

func (repo *FoodItemRepository) FindBySourceTag(source string, tag string) (models.FoodItem, bool, error) {
	item := models.FoodItem{}
	result := repo.database.
		Where("source = ? AND source_food_id = ?", source, tag).
		Limit(1).
		Find(&item)
	if result.Error != nil {
		return models.FoodItem{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FoodItem{}, false, nil
	}
	return item, true, nil
}

func (repo *FoodItemRepository) FindBySourceAndName(source string, name string) (models.FoodItem, bool, error) {
	item := models.FoodItem{}
	result := repo.database.
		Where("source = ? AND name = ? COLLATE NOCASE", source, name).
		Order("id ASC").
		Limit(1).
		Find(&item)
	if result.Error != nil {
		return models.FoodItem{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FoodItem{}, false, nil
	}
	return item, true, nil
}

// Create inserts a new reference. A duplicate (source, source_food_id) from
// a concurrent resolve comes back as ErrConcurrencyConflict so the caller
// can refetch the winner.
func (repo *FoodItemRepository) Create(item *models.FoodItem) error {
	return translateWriteError(repo.database.Create(item).Error)
}

func (repo *FoodItemRepository) ListBySource(source string) ([]models.FoodItem, error) {
	items := make([]models.FoodItem, 0)
	if err := repo.database.Where("source = ?", source).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
