package schedule

import "time"

// Tier is the derived urgency class of a task. Lower values sort first.
type Tier int

const (
	TierOverdue Tier = iota
	TierUrgent
	TierPrimary
	TierGetAhead
)

func (t Tier) String() string {
	switch t {
	case TierOverdue:
		return "overdue"
	case TierUrgent:
		return "urgent"
	case TierPrimary:
		return "primary"
	case TierGetAhead:
		return "get_ahead"
	default:
		return "unknown"
	}
}

// Classify returns the tier of a task with the given rule and due date as
// seen on today. A nil due date means nothing is scheduled yet.
func Classify(f Frequency, due *time.Time, today time.Time) Tier {
	if due == nil {
		return TierGetAhead
	}

	days := DaysBetween(today, *due)
	switch {
	case days < 0:
		return TierOverdue
	case days == 0 && (f == Daily || f == Weekly):
		return TierPrimary
	case days <= f.UrgencyWindow():
		return TierUrgent
	default:
		return TierGetAhead
	}
}

