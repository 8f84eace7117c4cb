package schedule

import (
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	today := date(2026, time.October, 14)
	in := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}

	tests := []struct {
		name string
		freq Frequency
		due  *time.Time
		want Tier
	}{
		{name: "no occurrence", freq: Monthly, due: nil, want: TierGetAhead},
		{name: "weekly due yesterday", freq: Weekly, due: in(-1), want: TierOverdue},
		{name: "annual long overdue", freq: Annual, due: in(-200), want: TierOverdue},
		{name: "daily due today", freq: Daily, due: in(0), want: TierPrimary},
		{name: "weekly due today", freq: Weekly, due: in(0), want: TierPrimary},
		{name: "daily due tomorrow", freq: Daily, due: in(1), want: TierGetAhead},
		{name: "monthly due today", freq: Monthly, due: in(0), want: TierUrgent},
		{name: "monthly due in 5", freq: Monthly, due: in(5), want: TierUrgent},
		{name: "monthly window edge", freq: Monthly, due: in(7), want: TierUrgent},
		{name: "monthly past window", freq: Monthly, due: in(8), want: TierGetAhead},
		{name: "biweekly due in 3", freq: Biweekly, due: in(3), want: TierUrgent},
		{name: "biweekly due in 4", freq: Biweekly, due: in(4), want: TierGetAhead},
		{name: "semi monthly due in 5", freq: SemiMonthly, due: in(5), want: TierUrgent},
		{name: "quarterly due in 10", freq: Quarterly, due: in(10), want: TierUrgent},
		{name: "quarterly due in 11", freq: Quarterly, due: in(11), want: TierGetAhead},
		{name: "seasonal due in 14", freq: SeasonalSpring, due: in(14), want: TierUrgent},
		{name: "semi annual due in 15", freq: SemiAnnual, due: in(15), want: TierGetAhead},
		{name: "annual due in 30", freq: Annual, due: in(30), want: TierGetAhead},
		{name: "unknown due today", freq: Frequency("hourly"), due: in(0), want: TierUrgent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.freq, tt.due, today); got != tt.want {
				t.Fatalf("Classify(%s) = %s, want %s", tt.freq, got, tt.want)
			}
		})
	}
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	a := time.Date(2026, time.October, 24, 0, 0, 0, 0, loc)
	b := time.Date(2026, time.October, 26, 0, 0, 0, 0, loc)
	if got := DaysBetween(a, b); got != 2 {
		t.Fatalf("DaysBetween = %d, want 2", got)
	}
}

func TestSystemClockToday(t *testing.T) {
	t.Parallel()
	c := SystemClock{Location: time.UTC}
	today := c.Today()
	if today.Hour() != 0 || today.Minute() != 0 || today.Location() != time.UTC {
		t.Fatalf("Today = %v, want UTC midnight", today)
	}
	if d := DaysBetween(today, c.Now()); d != 0 && d != 1 {
		t.Fatalf("Now is %d days from Today", d)
	}
}
