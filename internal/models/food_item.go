package models

import "time"

const SourceNutritionix = "nutritionix"

// FoodItem is a cached reference profile from an external nutrition API.
// Macros are stored per 100g as the canonical form; consumption snapshots
// are derived from it at log time and never recomputed afterwards.
type FoodItem struct {
	ID           uint    `gorm:"primaryKey"`
	Source       string  `gorm:"not null"`
	SourceFoodID *string `gorm:"index"`
	Name         string  `gorm:"not null;index"`
	ServingSizeG *float64

	CarbsPer100g    float64 `gorm:"column:carbs_per_100g;not null;default:0"`
	ProteinPer100g  float64 `gorm:"column:protein_per_100g;not null;default:0"`
	FatPer100g      float64 `gorm:"column:fat_per_100g;not null;default:0"`
	CaloriesPer100g float64 `gorm:"column:calories_per_100g;not null;default:0"`

	LastSynced time.Time `gorm:"autoUpdateTime"`
}
