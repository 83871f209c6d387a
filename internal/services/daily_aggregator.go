package services

import (
	"time"

	"github.com/quietfjord/macrolog/internal/models"
)

// SummaryTx is the slice of a log transaction the aggregator needs. All three
// reactions run inside the same transaction as the entry mutation that
// triggered them; the food log never commits one without the other.
type SummaryTx interface {
	LoadSummary(userID uint, day time.Time) (models.DailySummary, bool, error)
	CreateSummary(summary *models.DailySummary) error
	SaveSummary(summary *models.DailySummary) error
}

// DailyAggregator owns the delta-application protocol for the denormalized
// per-(user, day) totals. There are no implicit hooks: the food log calls
// these methods directly.
type DailyAggregator struct{}

func NewDailyAggregator() *DailyAggregator {
	return &DailyAggregator{}
}

func (aggregator *DailyAggregator) ApplyCreate(tx SummaryTx, entry models.FoodEntry) error {
	return aggregator.applyDelta(tx, entry.UserID, entry.Date, SnapshotFromEntry(entry), 1)
}

// ApplyUpdate applies the elementwise difference between the pre-image and
// the updated entry. A date move is a delete against the old day followed by
// a create against the new one.
func (aggregator *DailyAggregator) ApplyUpdate(tx SummaryTx, previous models.FoodEntry, updated models.FoodEntry) error {
	if !previous.Date.Equal(updated.Date) {
		if err := aggregator.ApplyDelete(tx, previous); err != nil {
			return err
		}
		return aggregator.ApplyCreate(tx, updated)
	}

	delta := MacroSnapshot{
		CarbsG:   updated.CarbsG - previous.CarbsG,
		ProteinG: updated.ProteinG - previous.ProteinG,
		FatG:     updated.FatG - previous.FatG,
		Calories: updated.Calories - previous.Calories,
	}
	return aggregator.applyDelta(tx, updated.UserID, updated.Date, delta, 1)
}

func (aggregator *DailyAggregator) ApplyDelete(tx SummaryTx, entry models.FoodEntry) error {
	return aggregator.applyDelta(tx, entry.UserID, entry.Date, SnapshotFromEntry(entry), -1)
}

func (aggregator *DailyAggregator) applyDelta(tx SummaryTx, userID uint, day time.Time, delta MacroSnapshot, sign float64) error {
	summary, found, err := tx.LoadSummary(userID, day)
	if err != nil {
		return err
	}

	if !found {
		summary = models.DailySummary{UserID: userID, Date: day}
	}

	// The floor guards against float drift pulling a total slightly
	// negative after a delete; entries are always added before they are
	// subtracted, so under correct operation drift stays within rounding.
	summary.TotalCalories = clampFloor(summary.TotalCalories + sign*delta.Calories)
	summary.TotalCarbsG = clampFloor(summary.TotalCarbsG + sign*delta.CarbsG)
	summary.TotalProteinG = clampFloor(summary.TotalProteinG + sign*delta.ProteinG)
	summary.TotalFatG = clampFloor(summary.TotalFatG + sign*delta.FatG)

	if !found {
		return tx.CreateSummary(&summary)
	}
	return tx.SaveSummary(&summary)
}

func clampFloor(value float64) float64 {
	if value < 0 {
		return 0
	}
	return value
}
