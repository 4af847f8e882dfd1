package analytics

import "time"

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var shortMonthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// parseTimestamp parses the timestamp formats the CRM serves. The offset the
// record carries is kept as reported; buckets use the wall-clock month of
// that parsed time, with no timezone normalization. Bucketing near month
// boundaries therefore follows the portal's clock, a known and accepted
// limitation.
func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthIndex returns the zero-based calendar month of a timestamp, or -1 when
// the timestamp does not parse.
func monthIndex(value string) int {
	t, ok := parseTimestamp(value)
	if !ok {
		return -1
	}
	return int(t.Month()) - 1
}

// quarterOf maps a zero-based month index to its one-based quarter.
func quarterOf(monthIdx int) int {
	return monthIdx/3 + 1
}

// sameDay reports whether a timestamp falls on the given calendar day.
func sameDay(value string, day time.Time) bool {
	t, ok := parseTimestamp(value)
	if !ok {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
