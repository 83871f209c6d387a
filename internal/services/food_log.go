package services

import (
	"context"
	"errors"
	"time"

	"github.com/quietfjord/macrolog/internal/models"
	"github.com/sethvargo/go-retry"
)

// LogTx is the write surface available inside one log transaction. An entry
// mutation and its summary adjustment always travel through the same LogTx;
// a rollback discards both.
type LogTx interface {
	SummaryTx
	CreateEntry(entry *models.FoodEntry) error
	SaveEntry(entry *models.FoodEntry) error
	DeleteEntry(entryID uint) error
	FindEntryForUser(userID uint, entryID uint) (models.FoodEntry, bool, error)
}

// LogStore is the persistence boundary for the food log. InTransaction must
// serialize concurrent writers and abort cleanly on context cancellation.
type LogStore interface {
	InTransaction(ctx context.Context, fn func(tx LogTx) error) error
	FindEntryForUser(userID uint, entryID uint) (models.FoodEntry, bool, error)
	ListEntriesByDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.FoodEntry, error)
	LoadSummary(userID uint, day time.Time) (models.DailySummary, bool, error)
	SumEntriesByDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (MacroSnapshot, error)
	ListDayTotals(userID uint) ([]DayTotals, error)
}

// DayTotals is the read model for one day's running totals.
type DayTotals struct {
	Date     time.Time
	Calories float64
	CarbsG   float64
	ProteinG float64
	FatG     float64
}

// EntryMeta carries the non-macro attributes of a new log entry.
type EntryMeta struct {
	FoodItemID *uint
	Name       string
	WeightG    float64
}

// EntryChanges is a partial amend. When only WeightG changes the entry's own
// snapshot is rescaled proportionally; a caller-supplied Snapshot overrides
// it and must still pass the validator.
type EntryChanges struct {
	Day      *time.Time
	WeightG  *float64
	Snapshot *MacroSnapshot
	Name     *string
}

type FoodLogService struct {
	store      LogStore
	aggregator *DailyAggregator
	location   *time.Location
}

func NewFoodLogService(store LogStore, aggregator *DailyAggregator, location *time.Location) *FoodLogService {
	if location == nil {
		location = time.UTC
	}
	return &FoodLogService{
		store:      store,
		aggregator: aggregator,
		location:   location,
	}
}

// Append validates the snapshot and commits the entry together with its
// summary adjustment as one transaction.
func (service *FoodLogService) Append(ctx context.Context, userID uint, day time.Time, snapshot MacroSnapshot, meta EntryMeta) (models.FoodEntry, error) {
	if meta.WeightG <= 0 {
		return models.FoodEntry{}, ErrInvalidGrams
	}
	if err := ValidateSnapshot(snapshot); err != nil {
		return models.FoodEntry{}, err
	}

	entry := models.FoodEntry{
		UserID:     userID,
		Date:       DateAtLocation(day, service.location),
		FoodItemID: meta.FoodItemID,
		Name:       meta.Name,
		WeightG:    meta.WeightG,
		CarbsG:     snapshot.CarbsG,
		ProteinG:   snapshot.ProteinG,
		FatG:       snapshot.FatG,
		Calories:   snapshot.Calories,
	}

	err := service.runAtomically(ctx, func(tx LogTx) error {
		if err := tx.CreateEntry(&entry); err != nil {
			return err
		}
		return service.aggregator.ApplyCreate(tx, entry)
	})
	if err != nil {
		return models.FoodEntry{}, err
	}
	return entry, nil
}

// Amend loads the pre-image, applies the partial changes, validates the
// resulting snapshot and adjusts the affected day totals, all in one
// transaction. A violation aborts with no partial write.
func (service *FoodLogService) Amend(ctx context.Context, userID uint, entryID uint, changes EntryChanges) (models.FoodEntry, error) {
	if changes.WeightG != nil && *changes.WeightG <= 0 {
		return models.FoodEntry{}, ErrInvalidGrams
	}

	var amended models.FoodEntry
	err := service.runAtomically(ctx, func(tx LogTx) error {
		previous, found, err := tx.FindEntryForUser(userID, entryID)
		if err != nil {
			return err
		}
		if !found {
			return ErrEntryNotFound
		}

		updated := previous
		if changes.Day != nil {
			updated.Date = DateAtLocation(*changes.Day, service.location)
		}
		if changes.Name != nil {
			updated.Name = *changes.Name
		}

		snapshot := SnapshotFromEntry(previous)
		if changes.WeightG != nil && changes.Snapshot == nil {
			snapshot = ScaleSnapshot(snapshot, previous.WeightG, *changes.WeightG)
		}
		if changes.Snapshot != nil {
			snapshot = *changes.Snapshot
		}
		if changes.WeightG != nil {
			updated.WeightG = *changes.WeightG
		}
		if err := ValidateSnapshot(snapshot); err != nil {
			return err
		}
		updated.CarbsG = snapshot.CarbsG
		updated.ProteinG = snapshot.ProteinG
		updated.FatG = snapshot.FatG
		updated.Calories = snapshot.Calories

		if err := tx.SaveEntry(&updated); err != nil {
			return err
		}
		if err := service.aggregator.ApplyUpdate(tx, previous, updated); err != nil {
			return err
		}
		amended = updated
		return nil
	})
	if err != nil {
		return models.FoodEntry{}, err
	}
	return amended, nil
}

// Remove deletes the entry and subtracts its snapshot from the day totals.
func (service *FoodLogService) Remove(ctx context.Context, userID uint, entryID uint) error {
	return service.runAtomically(ctx, func(tx LogTx) error {
		entry, found, err := tx.FindEntryForUser(userID, entryID)
		if err != nil {
			return err
		}
		if !found {
			return ErrEntryNotFound
		}

		if err := tx.DeleteEntry(entry.ID); err != nil {
			return err
		}
		return service.aggregator.ApplyDelete(tx, entry)
	})
}

func (service *FoodLogService) FetchEntry(userID uint, entryID uint) (models.FoodEntry, error) {
	entry, found, err := service.store.FindEntryForUser(userID, entryID)
	if err != nil {
		return models.FoodEntry{}, err
	}
	if !found {
		return models.FoodEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (service *FoodLogService) ListEntries(userID uint, day time.Time) ([]models.FoodEntry, error) {
	dayStart, dayEnd := DayRange(day, service.location)
	return service.store.ListEntriesByDayRange(userID, dayStart, dayEnd)
}

// GetDailyTotals returns the stored aggregate, or zero totals when no entry
// was ever logged for that day.
func (service *FoodLogService) GetDailyTotals(userID uint, day time.Time) (DayTotals, error) {
	dayStart := DateAtLocation(day, service.location)
	summary, found, err := service.store.LoadSummary(userID, dayStart)
	if err != nil {
		return DayTotals{}, err
	}
	if !found {
		return DayTotals{Date: dayStart}, nil
	}
	return DayTotals{
		Date:     dayStart,
		Calories: summary.TotalCalories,
		CarbsG:   summary.TotalCarbsG,
		ProteinG: summary.TotalProteinG,
		FatG:     summary.TotalFatG,
	}, nil
}

// RecomputeDailyTotals sums the log directly, bypassing the stored
// aggregate. Outside an in-flight transaction both paths must agree.
func (service *FoodLogService) RecomputeDailyTotals(userID uint, day time.Time) (DayTotals, error) {
	dayStart, dayEnd := DayRange(day, service.location)
	sum, err := service.store.SumEntriesByDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return DayTotals{}, err
	}
	return DayTotals{
		Date:     dayStart,
		Calories: sum.Calories,
		CarbsG:   sum.CarbsG,
		ProteinG: sum.ProteinG,
		FatG:     sum.FatG,
	}, nil
}

// ListDayTotalsHistory recomputes per-day totals across the whole log,
// newest day first.
func (service *FoodLogService) ListDayTotalsHistory(userID uint) ([]DayTotals, error) {
	return service.store.ListDayTotals(userID)
}

// runAtomically retries the transaction once when it fails on a write
// conflict; any other error surfaces immediately.
func (service *FoodLogService) runAtomically(ctx context.Context, fn func(tx LogTx) error) error {
	backoff := retry.WithMaxRetries(1, retry.NewConstant(25*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := service.store.InTransaction(ctx, fn)
		if errors.Is(err, ErrConcurrencyConflict) {
			return retry.RetryableError(err)
		}
		return err
	})
}
