package models

import "time"

// DailySummary is the denormalized running total for one (user, day).
// Outside an in-flight transaction it always equals the sum of the
// FoodEntry snapshots for that day. Rows are created lazily and never
// deleted; a day whose entries were all removed sits at zero.
type DailySummary struct {
	ID     uint      `gorm:"primaryKey"`
	UserID uint      `gorm:"not null;uniqueIndex:uidx_summary_user_date"`
	Date   time.Time `gorm:"type:date;not null;uniqueIndex:uidx_summary_user_date"`

	TotalCalories float64 `gorm:"not null;default:0"`
	TotalCarbsG   float64 `gorm:"not null;default:0"`
	TotalProteinG float64 `gorm:"not null;default:0"`
	TotalFatG     float64 `gorm:"not null;default:0"`

	UpdatedAt time.Time
}
