package db

import (
	"context"
	"time"

	"github.com/quietfjord/macrolog/internal/models"
	"github.com/quietfjord/macrolog/internal/services"
	"gorm.io/gorm"
)

// FoodLogStore is the transactional boundary for entries and summaries.
// Everything a single log mutation touches goes through one gorm
// transaction, so an aborted request can never leave the summary out of
// step with the log.
type FoodLogStore struct {
	database *gorm.DB
}

func NewFoodLogStore(database *gorm.DB) *FoodLogStore {
	return &FoodLogStore{database: database}
}

func (store *FoodLogStore) InTransaction(ctx context.Context, fn func(tx services.LogTx) error) error {
	err := store.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&foodLogTx{tx: tx})
	})
	return translateWriteError(err)
}

func (store *FoodLogStore) FindEntryForUser(userID uint, entryID uint) (models.FoodEntry, bool, error) {
	return findEntryForUser(store.database, userID, entryID)
}

func (store *FoodLogStore) ListEntriesByDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.FoodEntry, error) {
	entries := make([]models.FoodEntry, 0)
	if err := store.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (store *FoodLogStore) LoadSummary(userID uint, day time.Time) (models.DailySummary, bool, error) {
	return loadSummary(store.database, userID, day)
}

// SumEntriesByDayRange recomputes totals straight from the log, independent
// of the stored summary row.
func (store *FoodLogStore) SumEntriesByDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (services.MacroSnapshot, error) {
	var sums struct {
		Calories float64 `gorm:"column:calories"`
		CarbsG   float64 `gorm:"column:carbs_g"`
		ProteinG float64 `gorm:"column:protein_g"`
		FatG     float64 `gorm:"column:fat_g"`
	}
	if err := store.database.
		Model(&models.FoodEntry{}).
		Select(
			"COALESCE(SUM(calories), 0) AS calories",
			"COALESCE(SUM(carbs_g), 0) AS carbs_g",
			"COALESCE(SUM(protein_g), 0) AS protein_g",
			"COALESCE(SUM(fat_g), 0) AS fat_g",
		).
		Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
		Scan(&sums).Error; err != nil {
		return services.MacroSnapshot{}, err
	}
	return services.MacroSnapshot{
		Calories: sums.Calories,
		CarbsG:   sums.CarbsG,
		ProteinG: sums.ProteinG,
		FatG:     sums.FatG,
	}, nil
}

func (store *FoodLogStore) ListDayTotals(userID uint) ([]services.DayTotals, error) {
	var rows []struct {
		Date     time.Time `gorm:"column:date"`
		Calories float64   `gorm:"column:calories"`
		CarbsG   float64   `gorm:"column:carbs_g"`
		ProteinG float64   `gorm:"column:protein_g"`
		FatG     float64   `gorm:"column:fat_g"`
	}
	if err := store.database.
		Model(&models.FoodEntry{}).
		Select(
			"date",
			"SUM(calories) AS calories",
			"SUM(carbs_g) AS carbs_g",
			"SUM(protein_g) AS protein_g",
			"SUM(fat_g) AS fat_g",
		).
		Where("user_id = ?", userID).
		Group("date").
		Order("date DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]services.DayTotals, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, services.DayTotals{
			Date:     row.Date,
			Calories: row.Calories,
			CarbsG:   row.CarbsG,
			ProteinG: row.ProteinG,
			FatG:     row.FatG,
		})
	}
	return totals, nil
}

type foodLogTx struct {
	tx *gorm.DB
}

func (logTx *foodLogTx) CreateEntry(entry *models.FoodEntry) error {
	return translateWriteError(logTx.tx.Create(entry).Error)
}

func (logTx *foodLogTx) SaveEntry(entry *models.FoodEntry) error {
	return translateWriteError(logTx.tx.Save(entry).Error)
}

func (logTx *foodLogTx) DeleteEntry(entryID uint) error {
	return translateWriteError(logTx.tx.Delete(&models.FoodEntry{}, entryID).Error)
}

func (logTx *foodLogTx) FindEntryForUser(userID uint, entryID uint) (models.FoodEntry, bool, error) {
	return findEntryForUser(logTx.tx, userID, entryID)
}

func (logTx *foodLogTx) LoadSummary(userID uint, day time.Time) (models.DailySummary, bool, error) {
	return loadSummary(logTx.tx, userID, day)
}

func (logTx *foodLogTx) CreateSummary(summary *models.DailySummary) error {
	return translateWriteError(logTx.tx.Create(summary).Error)
}

func (logTx *foodLogTx) SaveSummary(summary *models.DailySummary) error {
	return translateWriteError(logTx.tx.Save(summary).Error)
}

func findEntryForUser(database *gorm.DB, userID uint, entryID uint) (models.FoodEntry, bool, error) {
	entry := models.FoodEntry{}
	result := database.
		Where("id = ? AND user_id = ?", entryID, userID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.FoodEntry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.FoodEntry{}, false, nil
	}
	return entry, true, nil
}

func loadSummary(database *gorm.DB, userID uint, day time.Time) (models.DailySummary, bool, error) {
	dayEnd := day.AddDate(0, 0, 1)

	summary := models.DailySummary{}
	result := database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, day, dayEnd).
		Limit(1).
		Find(&summary)
	if result.Error != nil {
		return models.DailySummary{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.DailySummary{}, false, nil
	}
	return summary, true, nil
}
