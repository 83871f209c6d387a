package services

import (
	"testing"
	"time"

	"github.com/quietfjord/macrolog/internal/models"
)

func aggregatorEntry(userID uint, day time.Time, snapshot MacroSnapshot) models.FoodEntry {
	return models.FoodEntry{
		UserID:   userID,
		Date:     day,
		WeightG:  100,
		CarbsG:   snapshot.CarbsG,
		ProteinG: snapshot.ProteinG,
		FatG:     snapshot.FatG,
		Calories: snapshot.Calories,
	}
}

func TestApplyCreateStartsSummaryFromZero(t *testing.T) {
	store := newMemoryLogStore()
	tx := &memoryLogTx{store: store}
	aggregator := NewDailyAggregator()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	entry := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 25, ProteinG: 12.5, FatG: 5, Calories: 195})
	if err := aggregator.ApplyCreate(tx, entry); err != nil {
		t.Fatalf("ApplyCreate failed: %v", err)
	}

	summary, found, err := store.LoadSummary(1, day)
	if err != nil || !found {
		t.Fatalf("expected summary, found=%v err=%v", found, err)
	}
	if summary.TotalCalories != 195 || summary.TotalCarbsG != 25 || summary.TotalProteinG != 12.5 || summary.TotalFatG != 5 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestApplyCreateAccumulatesOntoExistingSummary(t *testing.T) {
	store := newMemoryLogStore()
	tx := &memoryLogTx{store: store}
	aggregator := NewDailyAggregator()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	first := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 10, ProteinG: 5, FatG: 2, Calories: 78})
	second := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 15, ProteinG: 7.5, FatG: 3, Calories: 117})
	if err := aggregator.ApplyCreate(tx, first); err != nil {
		t.Fatalf("first ApplyCreate failed: %v", err)
	}
	if err := aggregator.ApplyCreate(tx, second); err != nil {
		t.Fatalf("second ApplyCreate failed: %v", err)
	}

	summary, _, _ := store.LoadSummary(1, day)
	if summary.TotalCalories != 195 || summary.TotalCarbsG != 25 || summary.TotalProteinG != 12.5 || summary.TotalFatG != 5 {
		t.Fatalf("unexpected accumulated summary %+v", summary)
	}
}

func TestApplyDeleteReturnsSummaryToPriorState(t *testing.T) {
	store := newMemoryLogStore()
	tx := &memoryLogTx{store: store}
	aggregator := NewDailyAggregator()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	kept := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 10, ProteinG: 5, FatG: 2, Calories: 78})
	removed := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 15, ProteinG: 7.5, FatG: 3, Calories: 117})
	if err := aggregator.ApplyCreate(tx, kept); err != nil {
		t.Fatalf("ApplyCreate failed: %v", err)
	}
	if err := aggregator.ApplyCreate(tx, removed); err != nil {
		t.Fatalf("ApplyCreate failed: %v", err)
	}
	if err := aggregator.ApplyDelete(tx, removed); err != nil {
		t.Fatalf("ApplyDelete failed: %v", err)
	}

	summary, _, _ := store.LoadSummary(1, day)
	if summary.TotalCalories != 78 || summary.TotalCarbsG != 10 || summary.TotalProteinG != 5 || summary.TotalFatG != 2 {
		t.Fatalf("unexpected summary after delete %+v", summary)
	}
}

func TestApplyDeleteClampsTotalsAtZero(t *testing.T) {
	store := newMemoryLogStore()
	tx := &memoryLogTx{store: store}
	aggregator := NewDailyAggregator()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	entry := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 10, ProteinG: 5, FatG: 2, Calories: 78})
	if err := aggregator.ApplyDelete(tx, entry); err != nil {
		t.Fatalf("ApplyDelete failed: %v", err)
	}

	summary, found, _ := store.LoadSummary(1, day)
	if !found {
		t.Fatal("expected a summary row even for a pure delete")
	}
	if summary.TotalCalories != 0 || summary.TotalCarbsG != 0 || summary.TotalProteinG != 0 || summary.TotalFatG != 0 {
		t.Fatalf("expected clamped zero totals, got %+v", summary)
	}
}

func TestApplyUpdateSameDayAppliesElementwiseDelta(t *testing.T) {
	store := newMemoryLogStore()
	tx := &memoryLogTx{store: store}
	aggregator := NewDailyAggregator()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	previous := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 25, ProteinG: 12.5, FatG: 5, Calories: 195})
	if err := aggregator.ApplyCreate(tx, previous); err != nil {
		t.Fatalf("ApplyCreate failed: %v", err)
	}

	updated := aggregatorEntry(1, day, MacroSnapshot{CarbsG: 10, ProteinG: 5, FatG: 2, Calories: 78})
	if err := aggregator.ApplyUpdate(tx, previous, updated); err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	summary, _, _ := store.LoadSummary(1, day)
	if summary.TotalCalories != 78 || summary.TotalCarbsG != 10 || summary.TotalProteinG != 5 || summary.TotalFatG != 2 {
		t.Fatalf("unexpected summary after update %+v", summary)
	}
}

func TestApplyUpdateDateMoveShiftsTotalsBetweenDays(t *testing.T) {
	store := newMemoryLogStore()
	tx := &memoryLogTx{store: store}
	aggregator := NewDailyAggregator()
	oldDay := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	newDay := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	previous := aggregatorEntry(1, oldDay, MacroSnapshot{CarbsG: 25, ProteinG: 12.5, FatG: 5, Calories: 195})
	if err := aggregator.ApplyCreate(tx, previous); err != nil {
		t.Fatalf("ApplyCreate failed: %v", err)
	}

	updated := previous
	updated.Date = newDay
	if err := aggregator.ApplyUpdate(tx, previous, updated); err != nil {
		t.Fatalf("ApplyUpdate failed: %v", err)
	}

	oldSummary, _, _ := store.LoadSummary(1, oldDay)
	if oldSummary.TotalCalories != 0 || oldSummary.TotalCarbsG != 0 {
		t.Fatalf("expected old day drained, got %+v", oldSummary)
	}
	newSummary, _, _ := store.LoadSummary(1, newDay)
	if newSummary.TotalCalories != 195 || newSummary.TotalCarbsG != 25 || newSummary.TotalProteinG != 12.5 || newSummary.TotalFatG != 5 {
		t.Fatalf("expected totals on new day, got %+v", newSummary)
	}
}
