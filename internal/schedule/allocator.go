package schedule

import (
	"math"
	"sort"
	"time"
)

// Unlimited is the budget passed when budgeting is switched off.
const Unlimited = math.MaxInt32

// Candidate is one task competing for today's time budget.
type Candidate struct {
	TaskID           uint
	OccurrenceID     uint // 0 when the task has no pending occurrence
	Title            string
	Frequency        Frequency
	EstimatedMinutes *int
	DueDate          *time.Time
	Tier             Tier
	// CompletedToday marks tasks already done for the current cycle; they
	// are dropped before allocation.
	CompletedToday bool
}

// Minutes is the duration used for budgeting.
func (c Candidate) Minutes() int {
	if c.EstimatedMinutes == nil || *c.EstimatedMinutes <= 0 {
		return DefaultMinutes
	}
	return *c.EstimatedMinutes
}

// Allocation is the outcome of fitting candidates into a budget. Budgeted
// and Overflow both keep the sorted order.
type Allocation struct {
	Budgeted     []Candidate
	Overflow     []Candidate
	TotalMinutes int
	Budget       int
}

// OverdueOverflow counts overdue tasks that were pushed out only because
// the budget ran out.
func (a Allocation) OverdueOverflow() int {
	n := 0
	for _, c := range a.Overflow {
		if c.Tier == TierOverdue {
			n++
		}
	}
	return n
}

// Focus returns the first n budgeted tasks.
func (a Allocation) Focus(n int) []Candidate {
	if n > len(a.Budgeted) {
		n = len(a.Budgeted)
	}
	if n <= 0 {
		return nil
	}
	return a.Budgeted[:n]
}

// Allocator decides which candidates make it into today's budget.
type Allocator interface {
	Allocate(candidates []Candidate, budgetMinutes int) Allocation
}

// GreedyAllocator sorts by tier, frequency priority and duration and then
// admits tasks first-fit in that order. It never backtracks: a later,
// shorter task may still fit after a longer one was rejected.
type GreedyAllocator struct{}

func (GreedyAllocator) Allocate(candidates []Candidate, budgetMinutes int) Allocation {
	pending := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.CompletedToday {
			pending = append(pending, c)
		}
	}
	Sort(pending)

	alloc := Allocation{Budget: budgetMinutes}
	for _, c := range pending {
		m := c.Minutes()
		if alloc.TotalMinutes+m <= budgetMinutes {
			alloc.Budgeted = append(alloc.Budgeted, c)
			alloc.TotalMinutes += m
			continue
		}
		alloc.Overflow = append(alloc.Overflow, c)
	}
	return alloc
}

// Sort orders candidates in place: tier, then frequency priority, then
// shorter tasks first. Equal keys keep their input order.
func Sort(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return Less(cs[i], cs[j])
	})
}

// Less is the allocator ordering.
func Less(a, b Candidate) bool {
	if a.Tier != b.Tier {
		return a.Tier < b.Tier
	}
	if pa, pb := a.Frequency.Priority(), b.Frequency.Priority(); pa != pb {
		return pa < pb
	}
	return a.Minutes() < b.Minutes()
}
