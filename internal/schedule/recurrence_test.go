package schedule

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdayPtr(d time.Weekday) *time.Weekday { return &d }

func TestNextByFrequency(t *testing.T) {
	t.Parallel()
	anchor := date(2026, time.October, 14) // Wednesday

	tests := []struct {
		name    string
		freq    Frequency
		weekday *time.Weekday
		want    time.Time
	}{
		{name: "daily", freq: Daily, want: date(2026, time.October, 15)},
		{name: "weekly", freq: Weekly, want: date(2026, time.October, 21)},
		{name: "weekly saturday", freq: Weekly, weekday: weekdayPtr(time.Saturday), want: date(2026, time.October, 17)},
		{name: "weekly monday", freq: Weekly, weekday: weekdayPtr(time.Monday), want: date(2026, time.October, 19)},
		{name: "weekly same weekday skips a week", freq: Weekly, weekday: weekdayPtr(time.Wednesday), want: date(2026, time.October, 21)},
		{name: "biweekly", freq: Biweekly, want: date(2026, time.October, 28)},
		{name: "monthly", freq: Monthly, want: date(2026, time.November, 14)},
		{name: "semi monthly", freq: SemiMonthly, want: date(2026, time.October, 29)},
		{name: "quarterly", freq: Quarterly, want: date(2027, time.January, 14)},
		{name: "semi annual", freq: SemiAnnual, want: date(2027, time.April, 14)},
		{name: "annual", freq: Annual, want: date(2027, time.October, 14)},
		{name: "spring", freq: SeasonalSpring, want: date(2027, time.March, 20)},
		{name: "summer", freq: SeasonalSummer, want: date(2027, time.June, 21)},
		{name: "fall", freq: SeasonalFall, want: date(2027, time.September, 22)},
		{name: "winter", freq: SeasonalWinter, want: date(2027, time.December, 21)},
		{name: "weekday ignored for daily", freq: Daily, weekday: weekdayPtr(time.Friday), want: date(2026, time.October, 15)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Next(tt.freq, anchor, tt.weekday)
			if err != nil {
				t.Fatalf("Next(%s) error: %v", tt.freq, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("Next(%s) = %s, want %s", tt.freq, FormatDate(got), FormatDate(tt.want))
			}
		})
	}
}

func TestNextStripsTimeOfDay(t *testing.T) {
	t.Parallel()
	anchor := time.Date(2026, time.October, 14, 23, 59, 0, 0, time.UTC)
	got, err := Next(Daily, anchor, nil)
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if want := date(2026, time.October, 15); !got.Equal(want) {
		t.Fatalf("Next = %v, want %v", got, want)
	}
}

func TestNextMonthRollover(t *testing.T) {
	t.Parallel()
	got, _ := Next(Monthly, date(2026, time.January, 31), nil)
	if want := date(2026, time.March, 3); !got.Equal(want) {
		t.Fatalf("Next(monthly, Jan 31) = %s, want %s", FormatDate(got), FormatDate(want))
	}
}

func TestNextUnsupportedFallsBackToTomorrow(t *testing.T) {
	t.Parallel()
	got, err := Next(Frequency("fortnightly-ish"), date(2026, time.October, 14), nil)
	if !errors.Is(err, ErrUnsupportedFrequency) {
		t.Fatalf("err = %v, want ErrUnsupportedFrequency", err)
	}
	if want := date(2026, time.October, 15); !got.Equal(want) {
		t.Fatalf("fallback = %s, want %s", FormatDate(got), FormatDate(want))
	}
}

func TestNextIsStrictlyFuture(t *testing.T) {
	t.Parallel()
	start := date(2024, time.January, 1)
	for day := 0; day < 800; day += 3 {
		anchor := start.AddDate(0, 0, day)
		for _, f := range Frequencies {
			for wd := time.Sunday; wd <= time.Saturday; wd++ {
				wd := wd
				got, err := Next(f, anchor, &wd)
				if err != nil {
					t.Fatalf("Next(%s, %s) error: %v", f, FormatDate(anchor), err)
				}
				if !got.After(anchor) {
					t.Fatalf("Next(%s, %s) = %s, not after anchor", f, FormatDate(anchor), FormatDate(got))
				}
			}
		}
	}
}

func TestNextWeeklyAlignment(t *testing.T) {
	t.Parallel()
	start := date(2026, time.January, 1)
	for day := 0; day < 60; day++ {
		anchor := start.AddDate(0, 0, day)
		got, _ := Next(Weekly, anchor, weekdayPtr(time.Wednesday))
		if got.Weekday() != time.Wednesday {
			t.Fatalf("Next(weekly, %s) = %s on %s, want Wednesday", FormatDate(anchor), FormatDate(got), got.Weekday())
		}
		if SameDay(got, anchor) {
			t.Fatalf("Next(weekly, %s) returned the anchor itself", FormatDate(anchor))
		}
		if d := DaysBetween(anchor, got); d < 1 || d > 7 {
			t.Fatalf("Next(weekly, %s) is %d days ahead", FormatDate(anchor), d)
		}
	}
}

func TestNextSeasonalWinterFixedPoint(t *testing.T) {
	t.Parallel()
	for _, anchor := range []time.Time{
		date(2026, time.January, 5),
		date(2026, time.December, 21),
		date(2026, time.December, 30),
	} {
		got, _ := Next(SeasonalWinter, anchor, nil)
		if got.Month() != time.December || got.Day() != 21 {
			t.Fatalf("Next(winter, %s) = %s, want Dec 21", FormatDate(anchor), FormatDate(got))
		}
		if got.Year() < anchor.Year() {
			t.Fatalf("Next(winter, %s) went backwards to %d", FormatDate(anchor), got.Year())
		}
		if anchor.After(date(anchor.Year(), time.December, 21)) && got.Year() == anchor.Year() {
			t.Fatalf("Next(winter, %s) stayed in a passed year", FormatDate(anchor))
		}
	}
}

func TestFirstSeasonal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		freq  Frequency
		start time.Time
		want  time.Time
	}{
		{name: "winter not yet passed", freq: SeasonalWinter, start: date(2026, time.October, 14), want: date(2026, time.December, 21)},
		{name: "spring passed", freq: SeasonalSpring, start: date(2026, time.October, 14), want: date(2027, time.March, 20)},
		{name: "on the day", freq: SeasonalFall, start: date(2026, time.September, 22), want: date(2026, time.September, 22)},
		{name: "non seasonal steps once", freq: Daily, start: date(2026, time.October, 14), want: date(2026, time.October, 15)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := First(tt.freq, tt.start, nil)
			if err != nil {
				t.Fatalf("First error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("First(%s, %s) = %s, want %s", tt.freq, FormatDate(tt.start), FormatDate(got), FormatDate(tt.want))
			}
		})
	}
}

func TestOccurrencesWithinWindow(t *testing.T) {
	t.Parallel()
	start := date(2026, time.October, 14)

	monthly, err := OccurrencesWithinWindow(Monthly, start, 12, nil)
	if err != nil {
		t.Fatalf("monthly error: %v", err)
	}
	if len(monthly) != 12 {
		t.Fatalf("monthly len = %d, want 12", len(monthly))
	}
	if !monthly[0].Equal(date(2026, time.November, 14)) || !monthly[11].Equal(date(2027, time.October, 14)) {
		t.Fatalf("monthly range = %s..%s", FormatDate(monthly[0]), FormatDate(monthly[11]))
	}

	weekly, err := OccurrencesWithinWindow(Weekly, start, 1, weekdayPtr(time.Saturday))
	if err != nil {
		t.Fatalf("weekly error: %v", err)
	}
	for i, d := range weekly {
		if d.Weekday() != time.Saturday {
			t.Fatalf("weekly[%d] = %s is %s", i, FormatDate(d), d.Weekday())
		}
		if i > 0 && DaysBetween(weekly[i-1], d) != 7 {
			t.Fatalf("weekly[%d] gap = %d", i, DaysBetween(weekly[i-1], d))
		}
	}
	if len(weekly) != 5 {
		t.Fatalf("weekly len = %d, want 5", len(weekly))
	}

	winter, err := OccurrencesWithinWindow(SeasonalWinter, start, 24, nil)
	if err != nil {
		t.Fatalf("winter error: %v", err)
	}
	want := []time.Time{date(2026, time.December, 21), date(2027, time.December, 21)}
	if len(winter) != len(want) {
		t.Fatalf("winter = %v, want %v", winter, want)
	}
	for i := range want {
		if !winter[i].Equal(want[i]) {
			t.Fatalf("winter[%d] = %s, want %s", i, FormatDate(winter[i]), FormatDate(want[i]))
		}
	}
}

func TestOccurrencesWithinWindowRejectsUnknown(t *testing.T) {
	t.Parallel()
	if _, err := OccurrencesWithinWindow(Frequency("hourly"), date(2026, time.October, 14), 12, nil); !errors.Is(err, ErrUnsupportedFrequency) {
		t.Fatalf("err = %v, want ErrUnsupportedFrequency", err)
	}
	got, err := OccurrencesWithinWindow(Daily, date(2026, time.October, 14), 0, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("zero window = %v, %v", got, err)
	}
}
