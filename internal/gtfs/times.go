package gtfs

import (
	"strconv"
	"strings"
)

// ParseTime converts a GTFS schedule time ("HH:MM:SS") into seconds from
// midnight. Hours may exceed 23 for trips running past midnight, so the
// result is not bounded by 86400. Fractional seconds are truncated. The
// second return is false when the value is not a parsable schedule time.
func ParseTime(s string) (int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	return hours*3600 + minutes*60 + int(seconds), true
}

// firstScheduleTime returns primary unless it is empty, in which case it
// falls back to secondary. Stop-time rows routinely carry only one of
// arrival/departure.
func firstScheduleTime(primary, secondary string) string {
	if primary != "" {
		return primary
	}
	return secondary
}
