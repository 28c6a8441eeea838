package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"15.03.2025", time.Date(2025, 3, 15, 0, 0, 0, 0, loc), true},
		{"2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, loc), true},
		{" 01.01.2026 ", time.Date(2026, 1, 1, 0, 0, 0, 0, loc), true},
		{"31.02.2025", time.Time{}, false},
		{"15/03/2025", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in, loc)
		if tc.ok {
			if err != nil || !got.Equal(tc.want) {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestTodayPeriod(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 30, 12, 0, time.UTC)
	p := TodayPeriod(now)
	wantStart := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2025, 6, 10, 23, 59, 59, 999999000, time.UTC)
	if !p.Start.Equal(wantStart) || !p.End.Equal(wantEnd) {
		t.Fatalf("got [%v, %v]", p.Start, p.End)
	}
}

func TestWeekPeriodStartsMonday(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantStart time.Time
	}{
		// Sunday belongs to the week that started the previous Monday
		{time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		// Monday starts its own week
		{time.Date(2025, 6, 9, 0, 0, 1, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 6, 12, 23, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)},
	}
	for i, tc := range cases {
		p := WeekPeriod(tc.now)
		if !p.Start.Equal(tc.wantStart) {
			t.Fatalf("case %d: start %v, want %v", i, p.Start, tc.wantStart)
		}
		wantEnd := tc.wantStart.AddDate(0, 0, 7).Add(-time.Microsecond)
		if !p.End.Equal(wantEnd) {
			t.Fatalf("case %d: end %v, want %v", i, p.End, wantEnd)
		}
	}
}

func TestMonthPeriodDecemberRollover(t *testing.T) {
	now := time.Date(2025, 12, 31, 18, 45, 0, 0, time.UTC)
	p := MonthPeriod(now)
	wantStart := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond)
	if !p.Start.Equal(wantStart) {
		t.Fatalf("start %v, want %v", p.Start, wantStart)
	}
	if !p.End.Equal(wantEnd) {
		t.Fatalf("end %v, want %v", p.End, wantEnd)
	}
}

func TestCustomPeriod(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	p, err := CustomPeriod(start, end)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !p.End.Equal(time.Date(2025, 3, 10, 23, 59, 59, 999999000, time.UTC)) {
		t.Fatalf("end not normalized to end-of-day: %v", p.End)
	}
	if p.Label != "01.03.2025 – 10.03.2025" {
		t.Fatalf("unexpected label %q", p.Label)
	}

	// Same day is a valid one-day range
	if _, err := CustomPeriod(start, start); err != nil {
		t.Fatalf("same-day range expected ok, got %v", err)
	}

	if _, err := CustomPeriod(end, start); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
