// Package render draws day plans for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chore-planner/internal/schedule"
	"chore-planner/internal/service"
)

// Theme is the palette used for plan output.
type Theme struct {
	Accent  lipgloss.Color
	Dim     lipgloss.Color
	Overdue lipgloss.Color
	Urgent  lipgloss.Color
	Primary lipgloss.Color
	Border  lipgloss.Color
}

var DefaultTheme = Theme{
	Accent:  lipgloss.Color("#7aa2f7"),
	Dim:     lipgloss.Color("#565f89"),
	Overdue: lipgloss.Color("#f7768e"),
	Urgent:  lipgloss.Color("#e0af68"),
	Primary: lipgloss.Color("#9ece6a"),
	Border:  lipgloss.Color("#3b4261"),
}

const maxWidth = 72

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	dim     lipgloss.Style
	box     lipgloss.Style
	tiers   map[schedule.Tier]lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, t Theme) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(t.Accent),
		section: r.NewStyle().Bold(true).Underline(true),
		dim:     r.NewStyle().Foreground(t.Dim),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			MaxWidth(maxWidth),
		tiers: map[schedule.Tier]lipgloss.Style{
			schedule.TierOverdue:  r.NewStyle().Foreground(t.Overdue).Bold(true),
			schedule.TierUrgent:   r.NewStyle().Foreground(t.Urgent),
			schedule.TierPrimary:  r.NewStyle().Foreground(t.Primary),
			schedule.TierGetAhead: r.NewStyle().Foreground(t.Dim),
		},
	}
}

// Plan writes plan to w. Colors are dropped when w is not a terminal.
func Plan(w io.Writer, plan *service.DayPlan, theme Theme) error {
	s := newStyles(lipgloss.NewRenderer(w), theme)

	var b strings.Builder
	b.WriteString(s.title.Render("Plan for "+plan.Date.Format("Mon, 02 Jan 2006")) + "\n")
	b.WriteString(s.dim.Render(budgetLine(plan)) + "\n")

	if len(plan.Focus) > 0 {
		b.WriteString("\n" + s.section.Render("Focus") + "\n")
		for _, c := range plan.Focus {
			b.WriteString(line(s, c, plan) + "\n")
		}
	}
	if rest := plan.Today[len(plan.Focus):]; len(rest) > 0 {
		b.WriteString("\n" + s.section.Render("Today") + "\n")
		for _, c := range rest {
			b.WriteString(line(s, c, plan) + "\n")
		}
	}
	if len(plan.GetAhead) > 0 {
		b.WriteString("\n" + s.section.Render("Get ahead") + "\n")
		for _, c := range plan.GetAhead {
			b.WriteString(line(s, c, plan) + "\n")
		}
	}
	if len(plan.Today) == 0 && len(plan.GetAhead) == 0 {
		b.WriteString("\nNothing to do today.\n")
	}
	if plan.OverdueOverflow > 0 {
		b.WriteString("\n" + s.tiers[schedule.TierOverdue].Render(fmt.Sprintf("%d overdue chore(s) did not fit the budget", plan.OverdueOverflow)) + "\n")
	}

	_, err := fmt.Fprintln(w, s.box.Render(strings.TrimRight(b.String(), "\n")))
	return err
}

func budgetLine(plan *service.DayPlan) string {
	progress := fmt.Sprintf("%d/%d done (%d%%)", plan.Progress.Completed, plan.Progress.Total, plan.Progress.Percent)
	if plan.Budget >= schedule.Unlimited {
		return fmt.Sprintf("%d min planned · no budget · %s", plan.TotalMinutes, progress)
	}
	return fmt.Sprintf("%d/%d min · %s", plan.TotalMinutes, plan.Budget, progress)
}

func line(s styles, c schedule.Candidate, plan *service.DayPlan) string {
	label := fmt.Sprintf("%-9s", c.Tier.String())
	text := fmt.Sprintf("%s #%d %s · %d min", s.tiers[c.Tier].Render(label), c.OccurrenceID, c.Title, c.Minutes())
	if c.DueDate != nil {
		switch days := schedule.DaysBetween(plan.Date, *c.DueDate); {
		case days < 0:
			text += fmt.Sprintf(" · %dd overdue", -days)
		case days == 0:
			text += " · due today"
		default:
			text += " · due " + schedule.FormatDate(*c.DueDate)
		}
	}
	return text
}
