package schedule

import "time"

// Clock supplies the current instant and calendar day. Everything that
// depends on "today" takes it from a Clock so results are reproducible.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

// SystemClock reads wall-clock time in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func (c SystemClock) Today() time.Time { return DateOf(c.Now()) }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time   { return time.Time(c) }
func (c FixedClock) Today() time.Time { return DateOf(time.Time(c)) }

const dateLayout = "2006-01-02"

// DateOf strips the time of day, keeping the location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatDate renders the calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

// DaysBetween counts calendar days from a to b, ignoring DST shifts.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}
