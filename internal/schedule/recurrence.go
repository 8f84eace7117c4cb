package schedule

import (
	"fmt"
	"time"
)

// Next returns the next due date strictly after anchor for the given rule.
// The anchor's time of day is ignored.
//
// For an unrecognized frequency Next still returns a usable date (the day
// after anchor) together with ErrUnsupportedFrequency, so callers can decide
// whether to reject the input or schedule with the fallback.
func Next(f Frequency, anchor time.Time, weekday *time.Weekday) (time.Time, error) {
	day := DateOf(anchor)

	switch f {
	case Daily:
		return day.AddDate(0, 0, 1), nil
	case Weekly:
		if weekday == nil {
			return day.AddDate(0, 0, 7), nil
		}
		ahead := (int(*weekday) - int(day.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return day.AddDate(0, 0, ahead), nil
	case Biweekly:
		return day.AddDate(0, 0, 14), nil
	case Monthly:
		return day.AddDate(0, 1, 0), nil
	case SemiMonthly:
		return day.AddDate(0, 0, 15), nil
	case Quarterly:
		return day.AddDate(0, 3, 0), nil
	case SemiAnnual:
		return day.AddDate(0, 6, 0), nil
	case Annual:
		return day.AddDate(1, 0, 0), nil
	case SeasonalSpring, SeasonalSummer, SeasonalFall, SeasonalWinter:
		s := seasons[f]
		return time.Date(day.Year()+1, s.month, s.day, 0, 0, 0, 0, day.Location()), nil
	}

	return day.AddDate(0, 0, 1), fmt.Errorf("%w: %q", ErrUnsupportedFrequency, string(f))
}

// First returns the first due date of a task created on start. Seasonal
// rules land on this year's solstice/equinox when it has not passed yet;
// every other rule is one step of Next.
func First(f Frequency, start time.Time, weekday *time.Weekday) (time.Time, error) {
	day := DateOf(start)
	if s, ok := seasons[f]; ok {
		due := time.Date(day.Year(), s.month, s.day, 0, 0, 0, 0, day.Location())
		if due.Before(day) {
			due = due.AddDate(1, 0, 0)
		}
		return due, nil
	}
	return Next(f, day, weekday)
}

// OccurrencesWithinWindow lists every due date from First(start) up to and
// including start + windowMonths.
func OccurrencesWithinWindow(f Frequency, start time.Time, windowMonths int, weekday *time.Weekday) ([]time.Time, error) {
	if windowMonths <= 0 {
		return nil, nil
	}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFrequency, string(f))
	}

	day := DateOf(start)
	end := day.AddDate(0, windowMonths, 0)

	due, err := First(f, day, weekday)
	if err != nil {
		return nil, err
	}

	var dates []time.Time
	for !due.After(end) {
		dates = append(dates, due)
		if f.Seasonal() {
			due = due.AddDate(1, 0, 0)
			continue
		}
		if due, err = Next(f, due, weekday); err != nil {
			return nil, err
		}
	}
	return dates, nil
}
