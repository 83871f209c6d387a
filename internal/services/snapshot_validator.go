package services

import (
	"fmt"
	"math"
)

// caloriesToleranceKcal absorbs rounding differences between a stored
// calories value and the one derived from macros.
const caloriesToleranceKcal = 0.01

// ValidateSnapshot is the single gate every snapshot passes before it is
// committed to the food log, whether it came from ComputeSnapshot or from a
// caller-supplied override. A violation is surfaced, never corrected.
func ValidateSnapshot(snapshot MacroSnapshot) error {
	if snapshot.CarbsG < 0 || snapshot.ProteinG < 0 || snapshot.FatG < 0 || snapshot.Calories < 0 {
		return fmt.Errorf("%w: negative macro value", ErrInvariantViolation)
	}

	expected := ExpectedCalories(snapshot)
	if math.Abs(snapshot.Calories-expected) > caloriesToleranceKcal {
		return fmt.Errorf("%w: expected ~%v kcal from macros, got %v kcal", ErrInvariantViolation, expected, snapshot.Calories)
	}
	return nil
}
