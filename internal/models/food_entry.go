package models

import "time"

// FoodEntry is one consumption event. The four macro fields are a snapshot
// frozen when the entry is written; a later re-sync of the referenced
// FoodItem must not change historical entries.
type FoodEntry struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"not null;index:idx_entry_user_date"`
	Date   time.Time `gorm:"type:date;not null;index:idx_entry_user_date"`

	FoodItemID *uint
	Name       string  `gorm:"not null"`
	WeightG    float64 `gorm:"not null"`

	CarbsG   float64 `gorm:"not null"`
	ProteinG float64 `gorm:"not null"`
	FatG     float64 `gorm:"not null"`
	Calories float64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
