package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnsupportedFrequency = errors.New("unsupported frequency")
	ErrInvalidDuration      = errors.New("estimated minutes must be positive")
	ErrInvalidWeekday       = errors.New("preferred weekday must be 0-6 and only set for weekly tasks")
)

// Frequency is the recurrence rule of a task.
type Frequency string

const (
	Daily          Frequency = "daily"
	Weekly         Frequency = "weekly"
	Biweekly       Frequency = "biweekly"
	Monthly        Frequency = "monthly"
	SemiMonthly    Frequency = "semi_monthly"
	Quarterly      Frequency = "quarterly"
	SeasonalSpring Frequency = "seasonal_spring"
	SeasonalSummer Frequency = "seasonal_summer"
	SeasonalFall   Frequency = "seasonal_fall"
	SeasonalWinter Frequency = "seasonal_winter"
	SemiAnnual     Frequency = "semi_annual"
	Annual         Frequency = "annual"
)

// Frequencies lists every supported rule, most frequent first.
var Frequencies = []Frequency{
	Daily, Weekly, Biweekly, SemiMonthly, Monthly, Quarterly,
	SeasonalSpring, SeasonalSummer, SeasonalFall, SeasonalWinter,
	SemiAnnual, Annual,
}

// DefaultMinutes is used for budgeting tasks that carry no estimate.
const DefaultMinutes = 10

const unknownPriority = 10

var priorities = map[Frequency]int{
	Daily:          1,
	Weekly:         2,
	Biweekly:       3,
	SemiMonthly:    4,
	Monthly:        5,
	Quarterly:      6,
	SeasonalSpring: 7,
	SeasonalSummer: 7,
	SeasonalFall:   7,
	SeasonalWinter: 7,
	SemiAnnual:     8,
	Annual:         9,
}

// urgencyWindows holds the number of days before the due date at which a
// task escalates to urgent.
var urgencyWindows = map[Frequency]int{
	Daily:          0,
	Weekly:         0,
	Biweekly:       3,
	SemiMonthly:    5,
	Monthly:        7,
	Quarterly:      10,
	SeasonalSpring: 14,
	SeasonalSummer: 14,
	SeasonalFall:   14,
	SeasonalWinter: 14,
	SemiAnnual:     14,
	Annual:         14,
}

type season struct {
	month time.Month
	day   int
}

var seasons = map[Frequency]season{
	SeasonalSpring: {time.March, 20},
	SeasonalSummer: {time.June, 21},
	SeasonalFall:   {time.September, 22},
	SeasonalWinter: {time.December, 21},
}

// ParseFrequency normalizes user input ("Semi-Monthly", " weekly ") into a Frequency.
func ParseFrequency(raw string) (Frequency, error) {
	f := Frequency(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_"))
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFrequency, raw)
	}
	return f, nil
}

func (f Frequency) Valid() bool {
	_, ok := priorities[f]
	return ok
}

func (f Frequency) Seasonal() bool {
	_, ok := seasons[f]
	return ok
}

// Priority is the tie-break rank after urgency tier. Unknown rules rank last.
func (f Frequency) Priority() int {
	if p, ok := priorities[f]; ok {
		return p
	}
	return unknownPriority
}

// UrgencyWindow returns the escalation window in days; unknown rules get 0.
func (f Frequency) UrgencyWindow() int {
	return urgencyWindows[f]
}

func (f Frequency) String() string { return string(f) }

// ValidateTask checks the user-supplied task attributes.
func ValidateTask(f Frequency, minutes *int, weekday *time.Weekday) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedFrequency, string(f))
	}
	if minutes != nil && *minutes <= 0 {
		return ErrInvalidDuration
	}
	if weekday != nil && (f != Weekly || *weekday < time.Sunday || *weekday > time.Saturday) {
		return ErrInvalidWeekday
	}
	return nil
}
