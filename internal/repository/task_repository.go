package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chore-planner/internal/model"
)

// TaskRepository handles CRUD for chore definitions.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateWithOccurrence stores the task together with its first pending occurrence.
func (r *TaskRepository) CreateWithOccurrence(ctx context.Context, task *model.Task, dueOn string) (*model.Occurrence, error) {
	occ := &model.Occurrence{DueOn: dueOn, Status: model.StatusPending}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Occurrences").Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		occ.TaskID = task.ID
		if err := tx.Create(occ).Error; err != nil {
			return fmt.Errorf("create occurrence: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return occ, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, notFound(err)
	}
	return &task, nil
}

// ListWithoutPending returns every task that has no pending occurrence, i.e.
// completions whose follow-up was never scheduled.
func (r *TaskRepository) ListWithoutPending(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM occurrences o WHERE o.task_id = tasks.id AND o.status = ?)", model.StatusPending).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list unscheduled tasks: %w", err)
	}
	return tasks, nil
}

// Delete removes a task and its occurrence history for the given user.
func (r *TaskRepository) Delete(ctx context.Context, userID, taskID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND id = ?", userID, taskID).Delete(&model.Task{})
		if res.Error != nil {
			return fmt.Errorf("delete task: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("delete task %d: %w", taskID, ErrNotFound)
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&model.Occurrence{}).Error; err != nil {
			return fmt.Errorf("delete occurrences: %w", err)
		}
		return nil
	})
}
