package timetable

import (
	"strings"
	"time"
)

// Weekdays lists the canonical day names in timetable column order.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MatchDay maps arbitrary header text to a canonical weekday by lowercase
// containment. Real headers contain at most one day name.
func MatchDay(header string) (string, bool) {
	lower := strings.ToLower(header)
	for _, day := range Weekdays {
		if strings.Contains(lower, strings.ToLower(day)) {
			return day, true
		}
	}
	return "", false
}

// ContainsWeekday reports whether text mentions any canonical day name.
func ContainsWeekday(text string) bool {
	_, ok := MatchDay(text)
	return ok
}

var dayToWeekday = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// NextOccurrence returns the next strictly-future date falling on the given
// canonical weekday. When from already is that weekday, it rolls forward a
// full week: synced events always start in the future, never today.
func NextOccurrence(day string, from time.Time) time.Time {
	target, ok := dayToWeekday[day]
	if !ok {
		return time.Time{}
	}

	daysUntil := int(target) - int(from.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return from.AddDate(0, 0, daysUntil)
}
