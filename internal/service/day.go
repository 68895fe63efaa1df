package service

import (
	"fmt"
	"time"
)

const dayFormat = "2006-01-02"

// dayBounds resolves a YYYY-MM-DD string to the local [midnight, next
// midnight) window it names.
func dayBounds(date string) (start, end time.Time, err error) {
	start, err = time.ParseInLocation(dayFormat, date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalid, date)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// coerceYear rewrites the year prefix of an AI-supplied date to the
// current year when the model guessed a different one.
func coerceYear(date string, now time.Time) string {
	year := fmt.Sprintf("%04d", now.Year())
	if len(date) < len("2006-01-02") || date[:4] == year {
		return date
	}
	return year + date[4:]
}
