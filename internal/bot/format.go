package bot

import (
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"chore-planner/internal/config"
	"chore-planner/internal/model"
	"chore-planner/internal/schedule"
	"chore-planner/internal/service"
)

const (
	upcomingMonths = 3
	noArea         = "Other"
)

const helpText = "ℹ️ <b>Commands</b>\n" +
	"• /today — today's plan with done/skip buttons\n" +
	"• /tasks — every chore with its next due date\n" +
	"• /upcoming — due dates for the next three months\n" +
	"• /add &lt;frequency[:weekday]&gt; &lt;minutes|-&gt; &lt;title&gt; [| area]\n" +
	"• /done &lt;id&gt; — mark a chore from the plan done\n" +
	"• /skip &lt;id&gt; — skip it this time\n" +
	"• /delete &lt;task id&gt; — delete a chore and its history\n" +
	"• /budget [minutes|on|off] — daily time budget (30–180 min)"

const addUsage = "Usage: /add weekly:sat 20 Vacuum the hallway | Living room\n" +
	"Frequencies: daily, weekly, biweekly, semi_monthly, monthly, quarterly, " +
	"seasonal_spring, seasonal_summer, seasonal_fall, seasonal_winter, semi_annual, annual."

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func escape(s string) string {
	return html.EscapeString(s)
}

func shortTitle(title string, maxLen int) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= maxLen {
		return title
	}
	runes := []rune(title)
	return string(runes[:maxLen-1]) + "…"
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

// parseAddArgs reads "<frequency[:weekday]> <minutes|-> <title> [| area]".
func parseAddArgs(raw string) (service.TaskInput, error) {
	var input service.TaskInput

	body, area, _ := strings.Cut(raw, "|")
	input.Area = strings.TrimSpace(area)

	fields := strings.Fields(body)
	if len(fields) < 3 {
		return input, errors.New("frequency, minutes and title are required")
	}

	freqPart, weekdayPart, hasWeekday := strings.Cut(fields[0], ":")
	input.Frequency = freqPart
	if hasWeekday {
		wd, err := parseWeekday(weekdayPart)
		if err != nil {
			return input, err
		}
		n := int(wd)
		input.PreferredWeekday = &n
	}

	if fields[1] != "-" {
		minutes, err := strconv.Atoi(fields[1])
		if err != nil {
			return input, fmt.Errorf("minutes must be a number or '-', got %q", fields[1])
		}
		input.EstimatedMinutes = &minutes
	}

	input.Title = strings.Join(fields[2:], " ")
	return input, nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if wd, ok := weekdayNames[raw]; ok {
		return wd, nil
	}
	if len(raw) > 3 {
		if wd, ok := weekdayNames[raw[:3]]; ok {
			return wd, nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n > 6 {
		return 0, fmt.Errorf("unknown weekday %q", raw)
	}
	return time.Weekday(n), nil
}

type budgetChange struct {
	show     bool
	minutes  int
	disabled bool
}

func parseBudgetArg(raw string) (budgetChange, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return budgetChange{show: true}, nil
	case "on":
		return budgetChange{}, nil
	case "off":
		return budgetChange{disabled: true}, nil
	}
	minutes, err := strconv.Atoi(strings.TrimSuffix(raw, "m"))
	if err != nil {
		return budgetChange{}, fmt.Errorf("expected minutes, on or off, got %q", raw)
	}
	if err := config.ValidateBudget(minutes); err != nil {
		return budgetChange{}, err
	}
	return budgetChange{minutes: minutes}, nil
}

func formatBudgetSetting(budget int) string {
	if budget >= schedule.Unlimited {
		return "Budget is off: every due chore is planned."
	}
	return fmt.Sprintf("Daily budget: %d min.", budget)
}

func formatCompletion(c *service.Completion) string {
	title := "chore"
	if c.Task != nil {
		title = c.Task.Title
	}
	verb := "✅ Done"
	if c.Occurrence != nil && c.Occurrence.Status == model.StatusSkipped {
		verb = "⏭ Skipped"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: «%s».", verb, escape(strings.TrimSpace(title))))
	switch {
	case c.Next != nil:
		b.WriteString(fmt.Sprintf(" Next time: %s.", c.Next.DueOn))
	case c.RescheduleErr != nil:
		b.WriteString(" ⚠️ Could not schedule the next one yet, I will retry shortly.")
	}
	return b.String()
}

func formatStatuses(statuses []service.TaskStatus, areas map[uint]string) string {
	groups := make(map[string][]service.TaskStatus)
	var order []string
	for _, st := range statuses {
		name := noArea
		if st.Task.AreaID != nil {
			if n, ok := areas[*st.Task.AreaID]; ok && strings.TrimSpace(n) != "" {
				name = strings.TrimSpace(n)
			}
		}
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], st)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i] == noArea {
			return false
		}
		if order[j] == noArea {
			return true
		}
		return order[i] < order[j]
	})

	var b strings.Builder
	b.WriteString("📋 <b>All chores</b>\n")
	for _, name := range order {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", escape(name)))
		for _, st := range groups[name] {
			b.WriteString(fmt.Sprintf("%s #%d %s · %s", service.TierIcon(st.Tier), st.Task.ID, escape(strings.TrimSpace(st.Task.Title)), st.Task.Frequency))
			if st.Due != nil {
				b.WriteString(fmt.Sprintf(" · next %s", schedule.FormatDate(*st.Due)))
			}
			if st.CompletedToday {
				b.WriteString(" · ✅ today")
			}
			b.WriteByte('\n')
		}
	}
	return strings.TrimSpace(b.String())
}

func formatForecasts(forecasts []service.Forecast) string {
	type entry struct {
		date  time.Time
		title string
	}
	var entries []entry
	for _, f := range forecasts {
		for _, d := range f.Dates {
			entries = append(entries, entry{date: d, title: f.Task.Title})
		}
	}
	if len(entries) == 0 {
		return "🔮 Nothing scheduled for the next months."
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔮 <b>Next %d months</b>\n", upcomingMonths))
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s · %s\n", e.date.Format("02.01"), escape(strings.TrimSpace(e.title))))
	}
	return strings.TrimSpace(b.String())
}
