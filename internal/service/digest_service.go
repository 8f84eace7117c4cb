package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"chore-planner/internal/model"
	"chore-planner/internal/schedule"
)

const (
	iconFocus    = "⭐"
	iconOverdue  = "⚠️"
	iconUrgent   = "⏳"
	iconPrimary  = "🟢"
	iconGetAhead = "🔮"
)

// DigestService renders a member's day plan as a Telegram HTML message.
type DigestService struct {
	planner *PlannerService
}

func NewDigestService(planner *PlannerService) *DigestService {
	return &DigestService{planner: planner}
}

func (s *DigestService) DailyDigest(ctx context.Context, user *model.User) (string, *DayPlan, error) {
	plan, err := s.planner.Plan(ctx, user)
	if err != nil {
		return "", nil, err
	}
	return FormatPlan(plan), plan, nil
}

// FormatPlan renders plan as Telegram HTML.
func FormatPlan(plan *DayPlan) string {
	var b strings.Builder
	b.WriteString("🧹 <b>Today's chores</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s · %s\n", plan.Date.Format("Mon 02.01.2006"), formatBudget(plan)))
	b.WriteString(fmt.Sprintf("✅ %d/%d done (%d%%)\n", plan.Progress.Completed, plan.Progress.Total, plan.Progress.Percent))

	if plan.OverdueOverflow > 0 {
		b.WriteString(fmt.Sprintf("\n%s <b>%d overdue chore(s) did not fit today's budget.</b> They are listed under Get ahead.\n", iconOverdue, plan.OverdueOverflow))
	}

	if len(plan.Focus) > 0 {
		b.WriteString("\n" + iconFocus + " <b>Focus</b>\n")
		for _, c := range plan.Focus {
			b.WriteString(FormatCandidate(c, plan))
		}
	}

	b.WriteString("\n📋 <b>Today</b>\n")
	rest := plan.Today[len(plan.Focus):]
	switch {
	case len(plan.Today) == 0:
		b.WriteString("— nothing due, enjoy the day\n")
	case len(rest) == 0:
		b.WriteString("— only the focus chores today\n")
	default:
		for _, c := range rest {
			b.WriteString(FormatCandidate(c, plan))
		}
	}

	if len(plan.GetAhead) > 0 {
		b.WriteString("\n" + iconGetAhead + " <b>Get ahead</b>\n")
		for _, c := range plan.GetAhead {
			b.WriteString(FormatCandidate(c, plan))
		}
	}

	return strings.TrimSpace(b.String())
}

// FormatCandidate renders a single line for one chore.
func FormatCandidate(c schedule.Candidate, plan *DayPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s %s · %d min", TierIcon(c.Tier), html.EscapeString(strings.TrimSpace(c.Title)), c.Minutes()))
	if c.DueDate != nil {
		days := schedule.DaysBetween(plan.Date, *c.DueDate)
		switch {
		case days < 0:
			sb.WriteString(fmt.Sprintf(" · <b>%d d overdue</b>", -days))
		case days == 0:
			sb.WriteString(" · due today")
		default:
			sb.WriteString(fmt.Sprintf(" · due %s", c.DueDate.Format("02.01")))
		}
	}
	if c.OccurrenceID != 0 {
		sb.WriteString(fmt.Sprintf(" <i>#%d</i>", c.OccurrenceID))
	}
	sb.WriteByte('\n')
	return sb.String()
}

func TierIcon(t schedule.Tier) string {
	switch t {
	case schedule.TierOverdue:
		return iconOverdue
	case schedule.TierUrgent:
		return iconUrgent
	case schedule.TierPrimary:
		return iconPrimary
	default:
		return iconGetAhead
	}
}

func formatBudget(plan *DayPlan) string {
	if plan.Budget >= schedule.Unlimited {
		return fmt.Sprintf("%d min planned, no budget", plan.TotalMinutes)
	}
	return fmt.Sprintf("%d/%d min", plan.TotalMinutes, plan.Budget)
}
