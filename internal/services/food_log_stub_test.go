package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quietfjord/macrolog/internal/models"
)

// memoryLogStore mimics the transactional store: mutations roll back on
// error so partial-write assertions are meaningful.
type memoryLogStore struct {
	entries               map[uint]models.FoodEntry
	summaries             map[string]models.DailySummary
	nextEntryID           uint
	nextSummaryID         uint
	conflictsBeforeCommit int
}

func newMemoryLogStore() *memoryLogStore {
	return &memoryLogStore{
		entries:       make(map[uint]models.FoodEntry),
		summaries:     make(map[string]models.DailySummary),
		nextEntryID:   1,
		nextSummaryID: 1,
	}
}

func summaryKey(userID uint, day time.Time) string {
	return fmt.Sprintf("%d|%s", userID, day.UTC().Format("2006-01-02"))
}

func (store *memoryLogStore) InTransaction(ctx context.Context, fn func(tx LogTx) error) error {
	if store.conflictsBeforeCommit > 0 {
		store.conflictsBeforeCommit--
		return ErrConcurrencyConflict
	}

	entriesBackup := make(map[uint]models.FoodEntry, len(store.entries))
	for id, entry := range store.entries {
		entriesBackup[id] = entry
	}
	summariesBackup := make(map[string]models.DailySummary, len(store.summaries))
	for key, summary := range store.summaries {
		summariesBackup[key] = summary
	}

	if err := fn(&memoryLogTx{store: store}); err != nil {
		store.entries = entriesBackup
		store.summaries = summariesBackup
		return err
	}
	return nil
}

func (store *memoryLogStore) FindEntryForUser(userID uint, entryID uint) (models.FoodEntry, bool, error) {
	entry, ok := store.entries[entryID]
	if !ok || entry.UserID != userID {
		return models.FoodEntry{}, false, nil
	}
	return entry, true, nil
}

func (store *memoryLogStore) ListEntriesByDayRange(userID uint, dayStart time.Time, dayEnd time.Time) ([]models.FoodEntry, error) {
	entries := make([]models.FoodEntry, 0)
	for _, entry := range store.entries {
		if entry.UserID != userID {
			continue
		}
		if entry.Date.Before(dayStart) || !entry.Date.Before(dayEnd) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

func (store *memoryLogStore) LoadSummary(userID uint, day time.Time) (models.DailySummary, bool, error) {
	summary, ok := store.summaries[summaryKey(userID, day)]
	if !ok {
		return models.DailySummary{}, false, nil
	}
	return summary, true, nil
}

func (store *memoryLogStore) SumEntriesByDayRange(userID uint, dayStart time.Time, dayEnd time.Time) (MacroSnapshot, error) {
	sum := MacroSnapshot{}
	for _, entry := range store.entries {
		if entry.UserID != userID {
			continue
		}
		if entry.Date.Before(dayStart) || !entry.Date.Before(dayEnd) {
			continue
		}
		sum.Calories += entry.Calories
		sum.CarbsG += entry.CarbsG
		sum.ProteinG += entry.ProteinG
		sum.FatG += entry.FatG
	}
	return sum, nil
}

func (store *memoryLogStore) ListDayTotals(userID uint) ([]DayTotals, error) {
	byDay := make(map[string]*DayTotals)
	for _, entry := range store.entries {
		if entry.UserID != userID {
			continue
		}
		key := entry.Date.UTC().Format("2006-01-02")
		totals, ok := byDay[key]
		if !ok {
			totals = &DayTotals{Date: entry.Date}
			byDay[key] = totals
		}
		totals.Calories += entry.Calories
		totals.CarbsG += entry.CarbsG
		totals.ProteinG += entry.ProteinG
		totals.FatG += entry.FatG
	}

	history := make([]DayTotals, 0, len(byDay))
	for _, totals := range byDay {
		history = append(history, *totals)
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}

type memoryLogTx struct {
	store *memoryLogStore
}

func (tx *memoryLogTx) CreateEntry(entry *models.FoodEntry) error {
	entry.ID = tx.store.nextEntryID
	tx.store.nextEntryID++
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = entry.CreatedAt
	tx.store.entries[entry.ID] = *entry
	return nil
}

func (tx *memoryLogTx) SaveEntry(entry *models.FoodEntry) error {
	entry.UpdatedAt = time.Now()
	tx.store.entries[entry.ID] = *entry
	return nil
}

func (tx *memoryLogTx) DeleteEntry(entryID uint) error {
	delete(tx.store.entries, entryID)
	return nil
}

func (tx *memoryLogTx) FindEntryForUser(userID uint, entryID uint) (models.FoodEntry, bool, error) {
	return tx.store.FindEntryForUser(userID, entryID)
}

func (tx *memoryLogTx) LoadSummary(userID uint, day time.Time) (models.DailySummary, bool, error) {
	return tx.store.LoadSummary(userID, day)
}

func (tx *memoryLogTx) CreateSummary(summary *models.DailySummary) error {
	summary.ID = tx.store.nextSummaryID
	tx.store.nextSummaryID++
	summary.UpdatedAt = time.Now()
	tx.store.summaries[summaryKey(summary.UserID, summary.Date)] = *summary
	return nil
}

func (tx *memoryLogTx) SaveSummary(summary *models.DailySummary) error {
	summary.UpdatedAt = time.Now()
	tx.store.summaries[summaryKey(summary.UserID, summary.Date)] = *summary
	return nil
}
