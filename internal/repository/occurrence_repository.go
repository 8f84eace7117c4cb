package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"chore-planner/internal/model"
)

// OccurrenceRepository stores scheduled instances of tasks.
type OccurrenceRepository struct {
	db *gorm.DB
}

func NewOccurrenceRepository(db *gorm.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// FindForUser loads an occurrence owned (through its task) by userID.
func (r *OccurrenceRepository) FindForUser(ctx context.Context, userID, occurrenceID uint) (*model.Occurrence, error) {
	var occ model.Occurrence
	err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = occurrences.task_id").
		Where("occurrences.id = ? AND tasks.user_id = ?", occurrenceID, userID).
		First(&occ).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &occ, nil
}

// CompletePending flips a pending occurrence to completed. It returns
// ErrNotPending when the row is missing or already terminal, which makes a
// concurrent second completion a no-op.
func (r *OccurrenceRepository) CompletePending(ctx context.Context, occ *model.Occurrence, at time.Time) error {
	if err := r.transition(ctx, occ.ID, map[string]interface{}{
		"status":       model.StatusCompleted,
		"completed_at": at.UTC(),
	}); err != nil {
		return fmt.Errorf("complete occurrence %d: %w", occ.ID, err)
	}
	occ.Status = model.StatusCompleted
	occ.CompletedAt = &at
	return nil
}

func (r *OccurrenceRepository) SkipPending(ctx context.Context, occ *model.Occurrence) error {
	if err := r.transition(ctx, occ.ID, map[string]interface{}{
		"status": model.StatusSkipped,
	}); err != nil {
		return fmt.Errorf("skip occurrence %d: %w", occ.ID, err)
	}
	occ.Status = model.StatusSkipped
	return nil
}

func (r *OccurrenceRepository) transition(ctx context.Context, id uint, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Occurrence{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

// EnsurePending schedules dueOn for taskID unless the task already has a
// pending occurrence, in which case that one is returned and created is
// false. Retrying after a partial failure therefore never duplicates.
func (r *OccurrenceRepository) EnsurePending(ctx context.Context, taskID uint, dueOn string) (occ *model.Occurrence, created bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Occurrence
		err := tx.Where("task_id = ? AND status = ?", taskID, model.StatusPending).
			Order("due_on ASC").First(&existing).Error
		switch {
		case err == nil:
			occ = &existing
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("find pending occurrence: %w", err)
		}

		next := model.Occurrence{TaskID: taskID, DueOn: dueOn, Status: model.StatusPending}
		if err := tx.Create(&next).Error; err != nil {
			return fmt.Errorf("create occurrence: %w", err)
		}
		occ, created = &next, true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race against another writer; theirs is the pending one.
		occ, err = r.pendingForTask(ctx, taskID)
		return occ, false, err
	}
	return occ, created, err
}

func (r *OccurrenceRepository) pendingForTask(ctx context.Context, taskID uint) (*model.Occurrence, error) {
	var occ model.Occurrence
	if err := r.db.WithContext(ctx).Where("task_id = ? AND status = ?", taskID, model.StatusPending).
		Order("due_on ASC").First(&occ).Error; err != nil {
		return nil, notFound(err)
	}
	return &occ, nil
}

// ListPendingByUser returns pending occurrences ordered by due date.
func (r *OccurrenceRepository) ListPendingByUser(ctx context.Context, userID uint) ([]model.Occurrence, error) {
	var occs []model.Occurrence
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = occurrences.task_id").
		Where("tasks.user_id = ? AND occurrences.status = ?", userID, model.StatusPending).
		Order("occurrences.due_on ASC, occurrences.id ASC").
		Find(&occs).Error; err != nil {
		return nil, fmt.Errorf("list pending occurrences: %w", err)
	}
	return occs, nil
}

// ListCompletedSince returns occurrences completed at or after since.
// Timestamps are stored in UTC so the text comparison in SQLite holds.
func (r *OccurrenceRepository) ListCompletedSince(ctx context.Context, userID uint, since time.Time) ([]model.Occurrence, error) {
	var occs []model.Occurrence
	if err := r.db.WithContext(ctx).
		Joins("JOIN tasks ON tasks.id = occurrences.task_id").
		Where("tasks.user_id = ? AND occurrences.status = ? AND occurrences.completed_at >= ?", userID, model.StatusCompleted, since.UTC()).
		Order("occurrences.completed_at ASC").
		Find(&occs).Error; err != nil {
		return nil, fmt.Errorf("list completed occurrences: %w", err)
	}
	return occs, nil
}

// ListByTask returns the full history of a task, oldest due date first.
func (r *OccurrenceRepository) ListByTask(ctx context.Context, taskID uint) ([]model.Occurrence, error) {
	var occs []model.Occurrence
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).
		Order("due_on ASC, id ASC").
		Find(&occs).Error; err != nil {
		return nil, fmt.Errorf("list task occurrences: %w", err)
	}
	return occs, nil
}
