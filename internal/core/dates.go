package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the user-facing calendar date format (Ukrainian locale).
const DateLayout = "02.01.2006"

// isoDateLayout is accepted as a fallback for custom range input.
const isoDateLayout = "2006-01-02"

// ParseDate parses a calendar date entered by the user, normalized to
// start-of-day in the given location. DD.MM.YYYY is preferred; YYYY-MM-DD is
// accepted as well.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range []string{DateLayout, isoDateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return StartOfDay(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable microsecond of t's day
// (23:59:59.999999).
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}

// TodayPeriod is [midnight, midnight + 1 day - 1 microsecond].
func TodayPeriod(now time.Time) Period {
	start := StartOfDay(now)
	return Period{
		Start: start,
		End:   start.AddDate(0, 0, 1).Add(-time.Microsecond),
		Label: "Сьогодні",
	}
}

// WeekPeriod covers the Monday-started week containing now.
func WeekPeriod(now time.Time) Period {
	today := StartOfDay(now)
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	return Period{
		Start: start,
		End:   start.AddDate(0, 0, 7).Add(-time.Microsecond),
		Label: "Цей тиждень",
	}
}

// MonthPeriod covers the calendar month containing now. The December case
// rolls over to January of the next year via AddDate.
func MonthPeriod(now time.Time) Period {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Microsecond),
		Label: "Цей місяць",
	}
}

// CustomPeriod builds a period from two user-entered dates. The start is
// normalized to start-of-day and the end to end-of-day before validation.
func CustomPeriod(start, end time.Time) (Period, error) {
	start = StartOfDay(start)
	end = EndOfDay(end)
	if end.Before(start) {
		return Period{}, ErrInvalidRange
	}
	return Period{
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s – %s", start.Format(DateLayout), end.Format(DateLayout)),
	}, nil
}
