package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"chore-planner/internal/model"
	"chore-planner/internal/schedule"
)

// Completion reports the outcome of finishing (or skipping) an occurrence.
// The transition itself succeeded whenever a Completion is returned;
// RescheduleErr carries a failure to schedule the follow-up, in which case
// Next is nil and Reconcile will repair the task later.
type Completion struct {
	Occurrence    *model.Occurrence
	Task          *model.Task
	Next          *model.Occurrence
	RescheduleErr error
}

// OccurrenceService drives the pending -> completed/skipped lifecycle.
type OccurrenceService struct {
	tasks TaskStore
	occs  OccurrenceStore
	clock schedule.Clock
	log   zerolog.Logger
}

func NewOccurrenceService(tasks TaskStore, occs OccurrenceStore, clock schedule.Clock, log zerolog.Logger) *OccurrenceService {
	return &OccurrenceService{tasks: tasks, occs: occs, clock: clock, log: log}
}

// MarkComplete completes a pending occurrence and schedules the next one
// anchored at today. An error is returned only when the completion write
// failed; callers must then revert any optimistic state.
func (s *OccurrenceService) MarkComplete(ctx context.Context, user *model.User, occurrenceID uint) (*Completion, error) {
	occ, err := s.loadPending(ctx, user, occurrenceID)
	if err != nil {
		return nil, err
	}
	if err := s.occs.CompletePending(ctx, occ, s.clock.Now()); err != nil {
		return nil, err
	}
	return s.afterTransition(ctx, user, occ, "occurrence completed"), nil
}

// Skip marks a pending occurrence skipped. The chore keeps recurring.
func (s *OccurrenceService) Skip(ctx context.Context, user *model.User, occurrenceID uint) (*Completion, error) {
	occ, err := s.loadPending(ctx, user, occurrenceID)
	if err != nil {
		return nil, err
	}
	if err := s.occs.SkipPending(ctx, occ); err != nil {
		return nil, err
	}
	return s.afterTransition(ctx, user, occ, "occurrence skipped"), nil
}

func (s *OccurrenceService) loadPending(ctx context.Context, user *model.User, occurrenceID uint) (*model.Occurrence, error) {
	occ, err := s.occs.FindForUser(ctx, user.ID, occurrenceID)
	if err != nil {
		return nil, fmt.Errorf("find occurrence %d: %w", occurrenceID, err)
	}
	if !occ.Pending() {
		return nil, fmt.Errorf("occurrence %d is %s: %w", occurrenceID, occ.Status, ErrNotPending)
	}
	return occ, nil
}

func (s *OccurrenceService) afterTransition(ctx context.Context, user *model.User, occ *model.Occurrence, msg string) *Completion {
	c := &Completion{Occurrence: occ}
	log := s.log.With().Uint("user_id", user.ID).Uint("task_id", occ.TaskID).Uint("occurrence_id", occ.ID).Logger()

	task, err := s.tasks.FindByID(ctx, user.ID, occ.TaskID)
	if err != nil {
		c.RescheduleErr = fmt.Errorf("load task %d: %w", occ.TaskID, err)
		log.Error().Err(c.RescheduleErr).Msg(msg + ", next occurrence not scheduled")
		return c
	}
	c.Task = task

	next, err := s.scheduleNext(ctx, task)
	if err != nil {
		c.RescheduleErr = err
		log.Error().Err(err).Msg(msg + ", next occurrence not scheduled")
		return c
	}
	c.Next = next
	log.Info().Str("next_due", next.DueOn).Msg(msg)
	return c
}

// scheduleNext makes sure the task has a pending occurrence, computing its
// due date from today. Unknown frequencies are scheduled for tomorrow and
// logged rather than blocking the caller.
func (s *OccurrenceService) scheduleNext(ctx context.Context, task *model.Task) (*model.Occurrence, error) {
	freq := schedule.Frequency(task.Frequency)
	due, err := schedule.Next(freq, s.clock.Today(), task.Weekday())
	if err != nil {
		if !errors.Is(err, schedule.ErrUnsupportedFrequency) {
			return nil, err
		}
		s.log.Warn().Uint("task_id", task.ID).Str("frequency", task.Frequency).
			Str("due", schedule.FormatDate(due)).Msg("unsupported frequency, scheduling for tomorrow")
	}

	next, _, err := s.occs.EnsurePending(ctx, task.ID, schedule.FormatDate(due))
	if err != nil {
		return nil, fmt.Errorf("schedule task %d: %w", task.ID, err)
	}
	return next, nil
}

// Reconcile finds tasks left without a pending occurrence (a completion
// whose follow-up write failed) and schedules them. It returns how many
// tasks were repaired.
func (s *OccurrenceService) Reconcile(ctx context.Context) (int, error) {
	tasks, err := s.tasks.ListWithoutPending(ctx)
	if err != nil {
		return 0, err
	}

	var errs []error
	repaired := 0
	for i := range tasks {
		task := &tasks[i]
		next, err := s.scheduleNext(ctx, task)
		if err != nil {
			errs = append(errs, err)
			s.log.Error().Err(err).Uint("task_id", task.ID).Msg("reconcile failed")
			continue
		}
		repaired++
		s.log.Info().Uint("task_id", task.ID).Str("next_due", next.DueOn).Msg("reconciled task without pending occurrence")
	}
	return repaired, errors.Join(errs...)
}
