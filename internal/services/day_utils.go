package services

import "time"

// DateAtLocation truncates a moment to the start of its calendar day in the
// given location. Entries and summaries are keyed on this logical day, which
// is independent of the wall-clock creation timestamp.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns the half-open [start, end) interval covering the calendar
// day of value in the given location.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

func SameDay(a time.Time, b time.Time, location *time.Location) bool {
	return DateAtLocation(a, location).Equal(DateAtLocation(b, location))
}
