package aggregation

import (
	"fmt"
	"time"
)

// Bucket names a calendar interval used to bin time series.
type Bucket string

const (
	// Day is one UTC day.
	Day Bucket = "day"
	// Week is one UTC week starting Sunday.
	Week Bucket = "week"
	// MondayWeek is one UTC week starting Monday.
	MondayWeek Bucket = "monday"
)

// ParseBucket validates a bucket name.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(s); b {
	case Day, Week, MondayWeek:
		return b, nil
	case "":
		return "", fmt.Errorf("bucket must not be empty")
	default:
		return "", fmt.Errorf("invalid bucket %q (must be day, week or monday)", s)
	}
}

// MustParseBucket is ParseBucket for names already validated upstream. It panics on an
// invalid name.
func MustParseBucket(s string) Bucket {
	b, err := ParseBucket(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BucketFor truncates a timestamp to the start of its bucket in UTC.
// Example: BucketFor(Wed 2021-01-06 10:35, Week) → Sun 2021-01-03 00:00
func BucketFor(t time.Time, bucket Bucket) time.Time {
	year, month, day := t.UTC().Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	switch bucket {
	case Week:
		return midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case MondayWeek:
		offset := (int(midnight.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset)
	default:
		return midnight
	}
}

// Next returns the start of the bucket after the one starting at start.
func Next(start time.Time, bucket Bucket) time.Time {
	switch bucket {
	case Week, MondayWeek:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 0, 1)
	}
}
