package util

import (
	"fmt"
	"time"
)

// MonthKeyLayout is the layout of a snapshot month key
const MonthKeyLayout = "2006-01"

// MonthKey returns the YYYY-MM key for t
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// ParseMonthKey parses a YYYY-MM key into the first instant of that month in UTC
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", key)
	}
	return t, nil
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// PreviousMonthKey returns the key of the month before key
func PreviousMonthKey(key string) (string, error) {
	t, err := ParseMonthKey(key)
	if err != nil {
		return "", err
	}
	year, month := PreviousMonth(t.Year(), int(t.Month()))
	return MonthKey(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)), nil
}

// IsFutureMonth returns true if key is after the month containing now
func IsFutureMonth(key string, now time.Time) bool {
	t, err := ParseMonthKey(key)
	if err != nil {
		return false
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return t.After(current)
}
