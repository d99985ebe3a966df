package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// slotPattern accepts two numeric tokens separated by "-" or ":" with an
// optional trailing AM/PM marker, e.g. "11-12 AM", "02-03 PM", "03:04".
// The second token may be missing, in which case the slot is one hour long.
var slotPattern = regexp.MustCompile(`(?i)(\d{1,2})[:\-](\d{1,2})?\s*(AM|PM)?`)

// afternoonCutoffHour is the institutional convention for unmarked time
// labels: classes starting at or before this hour with no AM/PM marker are
// afternoon/evening classes, so both ends shift by 12 hours. Inferred from
// the portal's sample data; do not tighten without source confirmation.
const afternoonCutoffHour = 8

// ParseTimeSlot converts a time-range label to zero-padded 24-hour "HH:00"
// start/end strings. It returns empty strings when the label does not match
// the expected shape; a missing time is incomplete, not fatal.
func ParseTimeSlot(label string) (start, end string) {
	m := slotPattern.FindStringSubmatch(label)
	if m == nil {
		return "", ""
	}

	startHour, _ := strconv.Atoi(m[1])
	endHour := startHour + 1
	if m[2] != "" {
		endHour, _ = strconv.Atoi(m[2])
	}

	switch strings.ToUpper(m[3]) {
	case "PM":
		if startHour != 12 {
			startHour += 12
		}
		if endHour != 12 {
			endHour += 12
		}
	case "AM":
		// Only the start wraps: "11-12 AM" ends at noon, not midnight,
		// so the slot always ends after it starts.
		if startHour == 12 {
			startHour = 0
		}
	default:
		if startHour <= afternoonCutoffHour {
			startHour += 12
			endHour += 12
		}
	}

	return fmt.Sprintf("%02d:00", startHour), fmt.Sprintf("%02d:00", endHour)
}
