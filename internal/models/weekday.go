package models

// Weekdays enumerates the teaching days. The week runs Sunday through
// Thursday; Friday and Saturday are not teaching days.
var Weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

// IsWeekday reports whether day is one of the allowed weekday literals.
func IsWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// InvalidWeekdays returns the subset of days outside the allowed enumeration.
func InvalidWeekdays(days []string) []string {
	var invalid []string
	for _, d := range days {
		if !IsWeekday(d) {
			invalid = append(invalid, d)
		}
	}
	return invalid
}
