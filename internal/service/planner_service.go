package service

import (
	"context"
	"time"

	"chore-planner/internal/model"
	"chore-planner/internal/schedule"
)

// BudgetSettings is the household default daily budget.
type BudgetSettings struct {
	Minutes int
	Enabled bool
}

// Effective is the budget handed to the allocator when a member has no
// override.
func (b BudgetSettings) Effective() int {
	if !b.Enabled {
		return schedule.Unlimited
	}
	return b.Minutes
}

// Progress summarizes how much of today's relevant work is done.
type Progress struct {
	Completed int
	Total     int
	Percent   int
}

// DayPlan is the prioritized view of one member's chores for a day.
type DayPlan struct {
	Date time.Time
	// Focus is the head of Today for prominent display.
	Focus []schedule.Candidate
	// Today holds the due work that fit into the budget.
	Today []schedule.Candidate
	// GetAhead holds everything else in allocator order: due work pushed
	// out by the budget first, then chores that are not due yet.
	GetAhead []schedule.Candidate
	// OverdueOverflow counts overdue chores that did not fit the budget.
	OverdueOverflow int
	// TotalMinutes sums the estimates of Today only.
	TotalMinutes int
	Budget          int
	Progress        Progress
}

// TaskStatus is a task together with its current schedule.
type TaskStatus struct {
	Task           model.Task
	Occurrence     *model.Occurrence
	Due            *time.Time
	Tier           schedule.Tier
	CompletedToday bool
}

// Forecast lists the expected due dates of one task.
type Forecast struct {
	Task  model.Task
	Dates []time.Time
}

// PlannerService builds the read-side views over tasks and occurrences.
type PlannerService struct {
	tasks      TaskStore
	occs       OccurrenceStore
	allocator  schedule.Allocator
	clock      schedule.Clock
	budget     BudgetSettings
	focusCount int
}

func NewPlannerService(tasks TaskStore, occs OccurrenceStore, allocator schedule.Allocator, clock schedule.Clock, budget BudgetSettings, focusCount int) *PlannerService {
	if allocator == nil {
		allocator = schedule.GreedyAllocator{}
	}
	return &PlannerService{
		tasks:      tasks,
		occs:       occs,
		allocator:  allocator,
		clock:      clock,
		budget:     budget,
		focusCount: focusCount,
	}
}

// BudgetFor resolves the member's effective budget in minutes.
func (s *PlannerService) BudgetFor(user *model.User) int {
	switch {
	case user.BudgetDisabled:
		return schedule.Unlimited
	case user.DailyBudgetMinutes > 0:
		return user.DailyBudgetMinutes
	default:
		return s.budget.Effective()
	}
}

// Statuses returns every task of the member with its earliest pending
// occurrence and urgency tier.
func (s *PlannerService) Statuses(ctx context.Context, user *model.User) ([]TaskStatus, error) {
	today := s.clock.Today()

	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	pending, err := s.occs.ListPendingByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	completed, err := s.occs.ListCompletedSince(ctx, user.ID, today)
	if err != nil {
		return nil, err
	}

	// Pending rows arrive sorted by due date, so the first one per task is
	// the earliest and wins if more than one exists.
	earliest := make(map[uint]model.Occurrence, len(pending))
	for _, occ := range pending {
		if _, ok := earliest[occ.TaskID]; !ok {
			earliest[occ.TaskID] = occ
		}
	}
	doneToday := make(map[uint]bool, len(completed))
	for _, occ := range completed {
		if occ.CompletedAt != nil && schedule.SameDay(occ.CompletedAt.In(today.Location()), today) {
			doneToday[occ.TaskID] = true
		}
	}

	statuses := make([]TaskStatus, 0, len(tasks))
	for _, task := range tasks {
		st := TaskStatus{Task: task, CompletedToday: doneToday[task.ID]}
		if occ, ok := earliest[task.ID]; ok {
			due, err := schedule.ParseDate(occ.DueOn, today.Location())
			if err != nil {
				return nil, err
			}
			occ := occ
			st.Occurrence = &occ
			st.Due = &due
		}
		st.Tier = schedule.Classify(schedule.Frequency(task.Frequency), st.Due, today)
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// Plan allocates today's budget over the member's chores.
func (s *PlannerService) Plan(ctx context.Context, user *model.User) (*DayPlan, error) {
	statuses, err := s.Statuses(ctx, user)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	plan := &DayPlan{Date: today, Budget: s.BudgetFor(user)}

	candidates := make([]schedule.Candidate, 0, len(statuses))
	for _, st := range statuses {
		dueNow := st.Due != nil && !st.Due.After(today)
		relevant := st.Task.Frequency == string(schedule.Daily) || dueNow || st.CompletedToday
		if relevant {
			plan.Progress.Total++
			if st.CompletedToday {
				plan.Progress.Completed++
			}
		}

		c := schedule.Candidate{
			TaskID:           st.Task.ID,
			Title:            st.Task.Title,
			Frequency:        schedule.Frequency(st.Task.Frequency),
			EstimatedMinutes: st.Task.EstimatedMinutes,
			DueDate:          st.Due,
			Tier:             st.Tier,
			CompletedToday:   st.CompletedToday && !dueNow,
		}
		if st.Occurrence != nil {
			c.OccurrenceID = st.Occurrence.ID
		}
		candidates = append(candidates, c)
	}
	if plan.Progress.Total > 0 {
		plan.Progress.Percent = plan.Progress.Completed * 100 / plan.Progress.Total
	}

	alloc := s.allocator.Allocate(candidates, plan.Budget)
	plan.OverdueOverflow = alloc.OverdueOverflow()

	for _, c := range alloc.Budgeted {
		if c.Tier == schedule.TierGetAhead {
			plan.GetAhead = append(plan.GetAhead, c)
			continue
		}
		plan.Today = append(plan.Today, c)
		plan.TotalMinutes += c.Minutes()
	}
	plan.GetAhead = append(plan.GetAhead, alloc.Overflow...)
	schedule.Sort(plan.GetAhead)

	focus := schedule.Allocation{Budgeted: plan.Today}
	plan.Focus = focus.Focus(s.focusCount)
	return plan, nil
}

// Upcoming forecasts each task's due dates for the next months.
func (s *PlannerService) Upcoming(ctx context.Context, user *model.User, months int) ([]Forecast, error) {
	statuses, err := s.Statuses(ctx, user)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	end := today.AddDate(0, months, 0)

	out := make([]Forecast, 0, len(statuses))
	for _, st := range statuses {
		freq := schedule.Frequency(st.Task.Frequency)
		weekday := st.Task.Weekday()
		var dates []time.Time

		if st.Due == nil {
			dates, err = schedule.OccurrencesWithinWindow(freq, today, months, weekday)
		} else {
			dates = append(dates, *st.Due)
			var rest []time.Time
			rest, err = schedule.OccurrencesWithinWindow(freq, *st.Due, months, weekday)
			for _, d := range rest {
				if d.After(*st.Due) && !d.After(end) {
					dates = append(dates, d)
				}
			}
		}
		if err != nil {
			// Unknown frequency: only the already scheduled date is known.
			if st.Due == nil {
				continue
			}
			dates = []time.Time{*st.Due}
		}
		out = append(out, Forecast{Task: st.Task, Dates: dates})
	}
	return out, nil
}
