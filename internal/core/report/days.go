package report

import "time"

const dayLayout = "2006-01-02"

// Day is the length of one report partition.
const Day = 24 * time.Hour

// FormatDay formats t as YYYY-MM-DD in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// ParseDay parses a YYYY-MM-DD string as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, s, time.UTC)
}

// MustParseDay is ParseDay for literals known to be valid.
func MustParseDay(s string) time.Time {
	t, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TruncateToDay returns midnight UTC of the day containing t.
func TruncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// UTCDays returns every UTC midnight in [start, finish). A start that is not on a day
// boundary begins at the following midnight.
func UTCDays(start, finish time.Time) []time.Time {
	current := TruncateToDay(start)
	if current.Before(start) {
		current = current.Add(Day)
	}

	var days []time.Time
	for current.Before(finish) {
		days = append(days, current)
		current = current.Add(Day)
	}
	return days
}

// ParseTimestamp parses an ISO8601 timestamp or a bare YYYY-MM-DD date, in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return ParseDay(s)
}
