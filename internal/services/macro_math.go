package services

import (
	"math"

	"github.com/quietfjord/macrolog/internal/models"
)

const (
	kcalPerGramCarbs   = 4.0
	kcalPerGramProtein = 4.0
	kcalPerGramFat     = 9.0
)

// MacroSnapshot holds the absolute macro and calorie values for one
// consumption event, frozen at log time.
type MacroSnapshot struct {
	CarbsG   float64
	ProteinG float64
	FatG     float64
	Calories float64
}

// MacroPer100 is the canonical per-100g profile of a food reference.
type MacroPer100 struct {
	CarbsG   float64
	ProteinG float64
	FatG     float64
	Calories float64
}

func Per100FromFoodItem(item models.FoodItem) MacroPer100 {
	return MacroPer100{
		CarbsG:   item.CarbsPer100g,
		ProteinG: item.ProteinPer100g,
		FatG:     item.FatPer100g,
		Calories: item.CaloriesPer100g,
	}
}

// ComputeSnapshot scales a per-100g profile to the consumed grams. Each
// field is computed independently and rounded to 6 decimal places.
func ComputeSnapshot(per100 MacroPer100, grams float64) MacroSnapshot {
	factor := grams / 100.0
	return MacroSnapshot{
		CarbsG:   Round6(per100.CarbsG * factor),
		ProteinG: Round6(per100.ProteinG * factor),
		FatG:     Round6(per100.FatG * factor),
		Calories: Round6(per100.Calories * factor),
	}
}

// ScaleSnapshot rescales an existing snapshot when only the consumed grams
// change, so an amend keeps the entry's own frozen profile instead of
// re-reading a possibly re-synced reference.
func ScaleSnapshot(snapshot MacroSnapshot, oldGrams float64, newGrams float64) MacroSnapshot {
	if oldGrams <= 0 {
		return snapshot
	}
	ratio := newGrams / oldGrams
	return MacroSnapshot{
		CarbsG:   Round6(snapshot.CarbsG * ratio),
		ProteinG: Round6(snapshot.ProteinG * ratio),
		FatG:     Round6(snapshot.FatG * ratio),
		Calories: Round6(snapshot.Calories * ratio),
	}
}

func ExpectedCalories(snapshot MacroSnapshot) float64 {
	return Round6(snapshot.CarbsG*kcalPerGramCarbs + snapshot.ProteinG*kcalPerGramProtein + snapshot.FatG*kcalPerGramFat)
}

func Round6(value float64) float64 {
	return math.Round(value*1e6) / 1e6
}

func SnapshotFromEntry(entry models.FoodEntry) MacroSnapshot {
	return MacroSnapshot{
		CarbsG:   entry.CarbsG,
		ProteinG: entry.ProteinG,
		FatG:     entry.FatG,
		Calories: entry.Calories,
	}
}
